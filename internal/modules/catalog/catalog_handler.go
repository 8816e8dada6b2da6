package catalog

import (
	"context"
	"errors"
	"net/http"

	"route-planner/internal/models"
	"route-planner/internal/planner"
	"route-planner/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AccommodationHandoff passes a hotel booked from the catalog to the user's
// planning wizard.
type AccommodationHandoff interface {
	HandoffAccommodation(ctx context.Context, owner string, sel planner.AccommodationSelection) error
}

type Handler struct {
	service  ServiceInterface
	handoff  AccommodationHandoff
	validate *validator.Validate
}

func NewHandler(service ServiceInterface, handoff AccommodationHandoff) *Handler {
	return &Handler{
		service:  service,
		handoff:  handoff,
		validate: validator.New(),
	}
}

func (h *Handler) SearchHotels(c echo.Context) error {
	var q models.HotelQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid query parameters"})
	}
	if err := h.validate.Struct(q); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	list, err := h.service.SearchHotels(c.Request().Context(), q)
	if err != nil {
		c.Logger().Error("Handler.SearchHotels: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to search hotels"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetHotel(c echo.Context) error {
	hotel, err := h.service.GetHotel(c.Request().Context(), c.Param("hotelId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Hotel not found"})
		}
		c.Logger().Error("Handler.GetHotel: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load hotel"})
	}
	return c.JSON(http.StatusOK, hotel)
}

func (h *Handler) ListAmenities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Amenities())
}

func (h *Handler) SearchTransport(c echo.Context) error {
	var q models.TransportQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid query parameters"})
	}
	if err := h.validate.Struct(q); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	list, err := h.service.SearchTransport(c.Request().Context(), q)
	if err != nil {
		c.Logger().Error("Handler.SearchTransport: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to search transport"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetTransport(c echo.Context) error {
	t, err := h.service.GetTransport(c.Request().Context(), c.Param("transportId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Transport not found"})
		}
		c.Logger().Error("Handler.GetTransport: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load transport"})
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTransportTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.TransportTypes())
}

func (h *Handler) SearchPOIs(c echo.Context) error {
	list, err := h.service.SearchPOIs(c.Request().Context(), c.QueryParam("location"), c.QueryParam("category"))
	if err != nil {
		c.Logger().Error("Handler.SearchPOIs: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to search places"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetPOI(c echo.Context) error {
	p, err := h.service.GetPOI(c.Request().Context(), c.Param("poiId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Place not found"})
		}
		c.Logger().Error("Handler.GetPOI: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load place"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Recommendations(c echo.Context) error {
	list, err := h.service.Recommendations(c.Request().Context(), c.QueryParam("destination"))
	if err != nil {
		c.Logger().Error("Handler.Recommendations: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load recommendations"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Categories())
}

// BookHotel books a stay and hands the hotel to the user's wizard, which picks
// it up on its next load.
func (h *Handler) BookHotel(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req models.HotelBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	ctx := c.Request().Context()
	booking, err := h.service.BookHotel(ctx, userID, c.Param("hotelId"), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Hotel not found"})
		case errors.Is(err, models.ErrInvalidDates):
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: err.Error()})
		}
		c.Logger().Error("Handler.BookHotel: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to book hotel"})
	}

	if h.handoff != nil {
		hotel, err := h.service.GetHotel(ctx, booking.ItemID)
		if err == nil {
			err = h.handoff.HandoffAccommodation(ctx, userID, AccommodationFor(*hotel, req.CheckIn, req.CheckOut))
		}
		if err != nil {
			c.Logger().Warn("Handler.BookHotel: wizard handoff failed: ", err)
		}
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *Handler) BookTransport(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req models.TransportBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	booking, err := h.service.BookTransport(c.Request().Context(), userID, c.Param("transportId"), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Transport not found"})
		}
		c.Logger().Error("Handler.BookTransport: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to book transport"})
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *Handler) ListMyBookings(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	list, err := h.service.ListBookings(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Error("Handler.ListMyBookings: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load bookings"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CancelBooking(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	if err := h.service.CancelBooking(c.Request().Context(), userID, c.Param("bookingId")); err != nil {
		c.Logger().Error("Handler.CancelBooking: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to cancel booking"})
	}
	return c.NoContent(http.StatusNoContent)
}
