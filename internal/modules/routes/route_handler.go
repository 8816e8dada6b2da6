package routes

import (
	"errors"
	"net/http"
	"strconv"

	"route-planner/internal/models"
	"route-planner/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

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

// routeError maps lookup failures shared by every owner-scoped endpoint.
func routeError(c echo.Context, op string, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route not found"})
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "You do not have access to this route"})
	}
	c.Logger().Error("Handler."+op+": ", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
}

func (h *Handler) ListRoutes(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	list, err := h.service.ListRoutes(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Error("Handler.ListRoutes: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load routes"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetRoute(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	route, err := h.service.GetRoute(c.Request().Context(), userID, c.Param("routeId"))
	if err != nil {
		return routeError(c, "GetRoute", err, "Failed to load route")
	}
	return c.JSON(http.StatusOK, route)
}

func (h *Handler) UpdateRoute(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req models.RouteUpdateData
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	route, err := h.service.UpdateRoute(c.Request().Context(), userID, c.Param("routeId"), req)
	if err != nil {
		return routeError(c, "UpdateRoute", err, "Failed to update route")
	}
	return c.JSON(http.StatusOK, route)
}

func (h *Handler) DeleteRoute(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	if err := h.service.DeleteRoute(c.Request().Context(), userID, c.Param("routeId")); err != nil {
		return routeError(c, "DeleteRoute", err, "Failed to delete route")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ShareRoute(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	share, err := h.service.ShareRoute(c.Request().Context(), userID, c.Param("routeId"))
	if err != nil {
		return routeError(c, "ShareRoute", err, "Failed to share route")
	}
	return c.JSON(http.StatusOK, share)
}

func (h *Handler) EmailRoute(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req models.EmailShareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	sender, _ := c.Get("userEmail").(string)
	err = h.service.EmailShareLink(c.Request().Context(), userID, c.Param("routeId"), sender, req.To)
	if errors.Is(err, models.ErrEmailDisabled) {
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "Email delivery is not configured"})
	}
	if err != nil {
		return routeError(c, "EmailRoute", err, "Failed to send email")
	}
	return c.NoContent(http.StatusAccepted)
}

// ExportPDF streams the route document. Sections default to on and can be
// switched off with query flags, e.g. ?qr_code=false.
func (h *Handler) ExportPDF(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	opts, err := PDFOptionsFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid query parameters"})
	}
	name, data, err := h.service.ExportPDF(c.Request().Context(), userID, c.Param("routeId"), opts)
	if err != nil {
		return routeError(c, "ExportPDF", err, "Failed to export route")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// PDFOptionsFromQuery reads section flags from the query string on top of
// the defaults.
func PDFOptionsFromQuery(c echo.Context) (models.PDFOptions, error) {
	opts := models.DefaultPDFOptions()
	flags := map[string]*bool{
		"cover_photo": &opts.CoverPhoto,
		"map":         &opts.Map,
		"notes":       &opts.Notes,
		"budget":      &opts.Budget,
		"qr_code":     &opts.QRCode,
	}
	for name, dst := range flags {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, err
		}
		*dst = v
	}
	return opts, nil
}

// GetSharedRoute is public: anyone holding the token may read the route.
func (h *Handler) GetSharedRoute(c echo.Context) error {
	shared, err := h.service.GetSharedRoute(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Shared route not found"})
		}
		c.Logger().Error("Handler.GetSharedRoute: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load shared route"})
	}
	return c.JSON(http.StatusOK, shared)
}
