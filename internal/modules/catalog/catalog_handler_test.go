package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"route-planner/internal/models"
	"route-planner/internal/planner"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandoff struct {
	owner string
	sel   planner.AccommodationSelection
	calls int
}

func (r *recordingHandoff) HandoffAccommodation(_ context.Context, owner string, sel planner.AccommodationSelection) error {
	r.owner = owner
	r.sel = sel
	r.calls++
	return nil
}

func serve(t *testing.T, h *Handler, method, path, pattern, body, userID string, fn func(*Handler) echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	handler := fn(h)
	e.Add(method, pattern, func(c echo.Context) error {
		if userID != "" {
			c.Set("userID", userID)
		}
		return handler(c)
	})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlerSearchHotels(t *testing.T) {
	h := NewHandler(newTestService(), nil)
	rec := serve(t, h, http.MethodGet, "/catalog/hotels?amenity=Wi-Fi&amenity=%D0%A1%D0%BF%D0%B0", "/catalog/hotels", "", "",
		func(h *Handler) echo.HandlerFunc { return h.SearchHotels })
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Hotel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "royal-palace", list[0].ID)
}

func TestHandlerGetHotelNotFound(t *testing.T) {
	h := NewHandler(newTestService(), nil)
	rec := serve(t, h, http.MethodGet, "/catalog/hotels/nope", "/catalog/hotels/:hotelId", "", "",
		func(h *Handler) echo.HandlerFunc { return h.GetHotel })
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerBookHotelHandsOffToWizard(t *testing.T) {
	handoff := &recordingHandoff{}
	h := NewHandler(newTestService(), handoff)
	body := `{"check_in":"2025-06-01","check_out":"2025-06-03","guests":2}`
	rec := serve(t, h, http.MethodPost, "/catalog/hotels/olive-boutique/book", "/catalog/hotels/:hotelId/book", body, "u1",
		func(h *Handler) echo.HandlerFunc { return h.BookHotel })
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var b models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, 4200.0, b.TotalPrice)

	require.Equal(t, 1, handoff.calls)
	assert.Equal(t, "u1", handoff.owner)
	assert.Equal(t, "Olive Boutique Hotel", handoff.sel.HotelName)
	assert.Equal(t, "2025-06-03", handoff.sel.CheckOut)
}

func TestHandlerBookHotelRejectsBadInput(t *testing.T) {
	handoff := &recordingHandoff{}
	h := NewHandler(newTestService(), handoff)
	pattern := "/catalog/hotels/:hotelId/book"
	book := func(h *Handler) echo.HandlerFunc { return h.BookHotel }

	rec := serve(t, h, http.MethodPost, "/catalog/hotels/olive-boutique/book", pattern, `{"check_in":"2025-06-03","check_out":"2025-06-01","guests":1}`, "u1", book)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(t, h, http.MethodPost, "/catalog/hotels/olive-boutique/book", pattern, `{"check_in":"soon","guests":1}`, "u1", book)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h, http.MethodPost, "/catalog/hotels/olive-boutique/book", pattern, `{"check_in":"2025-06-01","check_out":"2025-06-03","guests":1}`, "", book)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, handoff.calls)
}
