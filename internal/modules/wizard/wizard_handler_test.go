package wizard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"route-planner/internal/models"
	"route-planner/internal/planner"
	"route-planner/internal/planner/plannertest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer mounts the wizard routes behind a fake auth middleware that
// reads the user id from the X-User header.
func newTestServer(t *testing.T) (*echo.Echo, *fixture) {
	t.Helper()
	return newTestServerOver(t, planner.NewMemoryStore())
}

func newTestServerOver(t *testing.T, inner plannertest.Slots) (*echo.Echo, *fixture) {
	t.Helper()
	f := newFixtureOver(t, inner)
	h := NewHandler(f.svc)
	e := echo.New()
	g := e.Group("/wizard", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Request().Header.Get("X-User"); id != "" {
				c.Set("userID", id)
			}
			return next(c)
		}
	})
	g.GET("", h.Mount)
	g.PATCH("/state", h.UpdateState)
	g.PUT("/basics/:field", h.ChangeBasics)
	g.POST("/basics/:field/blur", h.BlurBasics)
	g.POST("/advance", h.Advance)
	g.POST("/retreat", h.Retreat)
	g.POST("/jump", h.Jump)
	g.POST("/reset", h.Reset)
	g.POST("/finish", h.Finish)
	g.POST("/points", h.AddPoint)
	g.PUT("/points/:pointId", h.UpdatePoint)
	g.DELETE("/points/:pointId", h.RemovePoint)
	g.POST("/points/reorder", h.ReorderPoints)
	g.POST("/points/drag/start", h.DragStart)
	g.POST("/points/drag/over", h.DragOver)
	g.POST("/points/drag/end", h.DragEnd)
	g.PUT("/stay", h.SetStay)
	g.GET("/stay/search", h.SearchStay)
	g.POST("/imports/poi", h.ImportPOI)
	g.POST("/save", h.Save)
	g.POST("/share", h.Share)
	return e, f
}

func call(e *echo.Echo, method, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set("X-User", user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) planner.View {
	t.Helper()
	var v planner.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandlerUnauthorized(t *testing.T) {
	e, _ := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodGet, "/wizard", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/wizard/advance", "", "").Code)
}

func TestHandlerBasicsGate(t *testing.T) {
	e, _ := newTestServer(t)

	rec := call(e, http.MethodGet, "/wizard", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, planner.StepBasics, v.Step)
	assert.Len(t, v.Progress, 6)

	rec = call(e, http.MethodPost, "/wizard/advance", "", "u1")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var verr models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	assert.Contains(t, verr.Fields, planner.FieldDestination)
	assert.Contains(t, verr.Fields, planner.FieldDateRange)

	rec = call(e, http.MethodPut, "/wizard/basics/budget", `{"value":7.5}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = call(e, http.MethodPut, "/wizard/basics/nickname", `{"value":"x"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusOK, call(e, http.MethodPut, "/wizard/basics/destination", `{"value":"Lviv"}`, "u1").Code)
	rec = call(e, http.MethodPut, "/wizard/basics/date_range", `{"value":"2025-06-01 - 2025-06-03"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Errors)

	rec = call(e, http.MethodPost, "/wizard/advance", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, planner.StepPoints, v.Step)
	assert.Equal(t, "Lviv", v.State.Destination)

	rec = call(e, http.MethodPost, "/wizard/advance", "", "u1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "points step needs a point")
}

func TestHandlerJump(t *testing.T) {
	e, _ := newTestServer(t)
	assert.Equal(t, http.StatusConflict, call(e, http.MethodPost, "/wizard/jump", `{"step":4}`, "u1").Code)
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPost, "/wizard/jump", `{"step":9}`, "u1").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodPost, "/wizard/jump", `{"step":1}`, "u1").Code)
}

func TestHandlerPoints(t *testing.T) {
	e, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPost, "/wizard/points", `{"name":""}`, "u1").Code)
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPost, "/wizard/points", `{"name":"A","time_start":"25:99"}`, "u1").Code)

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		rec := call(e, http.MethodPost, "/wizard/points", `{"name":"`+name+`","date":"2025-06-01"}`, "u1")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var p planner.Waypoint
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		require.NotEmpty(t, p.ID)
		ids = append(ids, p.ID)
	}

	rec := call(e, http.MethodPut, "/wizard/points/"+ids[1], `{"notes":"bring water"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodPut, "/wizard/points/nope", `{"notes":"x"}`, "u1").Code)

	rec = call(e, http.MethodPost, "/wizard/points/reorder", `{"from":0,"to":2}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, []string{v.State.Points[0].ID, v.State.Points[1].ID, v.State.Points[2].ID})
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPost, "/wizard/points/reorder", `{"from":0,"to":3}`, "u1").Code)

	assert.Equal(t, http.StatusConflict, call(e, http.MethodPost, "/wizard/points/drag/over", `{"index":1}`, "u1").Code)
	require.Equal(t, http.StatusOK, call(e, http.MethodPost, "/wizard/points/drag/start", `{"index":0}`, "u1").Code)
	rec = call(e, http.MethodPost, "/wizard/points/drag/over", `{"index":1}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	require.NotNil(t, v.DragIndex)
	assert.Equal(t, 1, *v.DragIndex)
	assert.Equal(t, ids[1], v.State.Points[1].ID)
	v = decodeView(t, call(e, http.MethodPost, "/wizard/points/drag/end", "", "u1"))
	assert.Nil(t, v.DragIndex)

	assert.Equal(t, http.StatusNoContent, call(e, http.MethodDelete, "/wizard/points/"+ids[0], "", "u1").Code)
	assert.Equal(t, http.StatusNoContent, call(e, http.MethodDelete, "/wizard/points/"+ids[0], "", "u1").Code, "removing twice is a no-op")
}

func TestHandlerImportPOI(t *testing.T) {
	e, _ := newTestServer(t)
	body := `{"poi_id":"poi-3","delivery_id":"abc"}`

	rec := call(e, http.MethodPost, "/wizard/imports/poi", body, "u1")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp importResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.Len(t, resp.View.State.Points, 1)

	rec = call(e, http.MethodPost, "/wizard/imports/poi", body, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
	assert.Len(t, resp.View.State.Points, 1)

	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPost, "/wizard/imports/poi", `{}`, "u1").Code)
}

func TestHandlerStay(t *testing.T) {
	e, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPut, "/wizard/stay", `{"guests":0,"budget":50}`, "u1").Code)

	rec := call(e, http.MethodPut, "/wizard/stay", `{"check_in":"2025-06-01","check_out":"2025-06-02","guests":1,"budget":20}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeView(t, rec).Stay.Guests)

	rec = call(e, http.MethodGet, "/wizard/stay/search", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	var hotels []models.Hotel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hotels))
	require.Len(t, hotels, 1, "budget 20 caps the price at 1000")
	assert.Equal(t, "budget-inn", hotels[0].ID)
}

func TestHandlerSaveFlow(t *testing.T) {
	e, f := newTestServer(t)
	assert.Equal(t, http.StatusConflict, call(e, http.MethodPost, "/wizard/save", `{"title":"Trip"}`, "u1").Code)
	assert.Equal(t, http.StatusConflict, call(e, http.MethodPost, "/wizard/share", "", "u1").Code)

	walkToExport(t, f.session(t, "u1"))
	rec := call(e, http.MethodPost, "/wizard/save", `{"title":"Trip"}`, "u1")
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved saveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.RouteID)

	assert.Equal(t, http.StatusOK, call(e, http.MethodPost, "/wizard/share", "", "u1").Code)
	assert.Equal(t, http.StatusNoContent, call(e, http.MethodPost, "/wizard/finish", "", "u1").Code)

	rec = call(e, http.MethodPost, "/wizard/reset", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planner.StepBasics, decodeView(t, rec).Step)
}

func TestHandlerDraftUnavailable(t *testing.T) {
	e, _ := newTestServerOver(t, plannertest.NewFailingGets(planner.NewMemoryStore(), 1, errors.New("connection refused")))

	rec := call(e, http.MethodGet, "/wizard", "", "u1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be loaded")

	rec = call(e, http.MethodGet, "/wizard", "", "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
}
