package user

import (
	"errors"
	"net/http"

	"route-planner/internal/models"
	"route-planner/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler serves traveller accounts: registration, login and the profile
// shown next to saved routes.
type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// decode binds and validates req. On false the 400 has been written and err
// carries the write result.
func (h *Handler) decode(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Malformed account request"})
	}
	if err := h.validate.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	return true, nil
}

// accountError maps service errors for op onto a response, logging the
// unexpected ones.
func accountError(c echo.Context, op string, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrConflict):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "A traveller with this email already exists"})
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Wrong email or password"})
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Traveller profile not found"})
	}
	c.Logger().Error("Handler."+op+": ", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
}

// Signup registers a traveller and signs them in right away.
func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if ok, err := h.decode(c, &req); !ok {
		return err
	}
	auth, err := h.service.Signup(c.Request().Context(), req)
	if err != nil {
		return accountError(c, "Signup", err, "Could not create your account")
	}
	return c.JSON(http.StatusCreated, auth)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if ok, err := h.decode(c, &req); !ok {
		return err
	}
	auth, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return accountError(c, "Login", err, "Could not sign you in")
	}
	return c.JSON(http.StatusOK, auth)
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	profile, err := h.service.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		return accountError(c, "GetProfile", err, "Could not load your profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile changes the nickname or avatar; omitted fields stay.
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req models.UserUpdateData
	if ok, err := h.decode(c, &req); !ok {
		return err
	}
	profile, err := h.service.UpdateUserProfile(c.Request().Context(), userID, req)
	if err != nil {
		return accountError(c, "UpdateProfile", err, "Could not update your profile")
	}
	return c.JSON(http.StatusOK, profile)
}
