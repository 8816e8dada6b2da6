package wizard

import (
	"errors"
	"net/http"

	"route-planner/internal/models"
	"route-planner/internal/modules/routes"
	"route-planner/internal/planner"
	"route-planner/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type fieldValueRequest struct {
	Value any `json:"value"`
}

type jumpRequest struct {
	Step int `json:"step" validate:"required"`
}

type pointRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TimeStart string `json:"time_start" validate:"omitempty,datetime=15:04"`
	TimeEnd   string `json:"time_end" validate:"omitempty,datetime=15:04"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type reorderRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type dragRequest struct {
	Index int `json:"index" validate:"min=0"`
}

type stayRequest struct {
	CheckIn  string `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"min=1,max=20"`
	Budget   int    `json:"budget" validate:"min=0,max=100"`
}

type poiImportRequest struct {
	POIID      string `json:"poi_id" validate:"required"`
	DeliveryID string `json:"delivery_id"`
}

type importResponse struct {
	Accepted bool         `json:"accepted"`
	View     planner.View `json:"view"`
}

type saveResponse struct {
	RouteID string `json:"route_id"`
}

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// session resolves the caller's wizard. When it returns nil the error return
// is the result of writing the failure response.
func (h *Handler) session(c echo.Context) (*planner.Wizard, error) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	w, err := h.service.Session(c.Request().Context(), userID)
	if err != nil {
		return nil, wizardError(c, "Session", err)
	}
	return w, nil
}

// wizardError writes the response for errors returned by wizard operations.
func wizardError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, planner.ErrValidation), errors.Is(err, planner.ErrNoPoints):
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, planner.ErrUnknownField):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, planner.ErrIndexOutOfRange), errors.Is(err, planner.ErrInvalidStep):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, planner.ErrStepLocked), errors.Is(err, planner.ErrWrongStep),
		errors.Is(err, planner.ErrNotSaved), errors.Is(err, planner.ErrDragInactive):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, planner.ErrPointNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route point not found"})
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Not found"})
	case errors.Is(err, planner.ErrDraftUnavailable):
		c.Logger().Error("Handler."+op+": ", err)
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "Your saved draft could not be loaded, please try again"})
	}
	c.Logger().Error("Handler."+op+": ", err)
	return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: "The request could not be completed, your draft is unchanged"})
}

// bind decodes and validates req. When it reports false the 400 response has
// been written and err is the result of writing it.
func (h *Handler) bind(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}
	return true, nil
}

// Mount restores the draft on first use and applies pending imports.
func (h *Handler) Mount(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	view, err := h.service.Mount(c.Request().Context(), userID)
	if err != nil {
		return wizardError(c, "Mount", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateState(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var patch planner.DraftPatch
	if ok, err := h.bind(c, &patch); !ok {
		return err
	}
	w.UpdateState(patch)
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) ChangeBasics(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req fieldValueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if _, err := w.ChangeBasics(c.Param("field"), req.Value); err != nil {
		if errors.Is(err, planner.ErrValidation) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		}
		return wizardError(c, "ChangeBasics", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) BlurBasics(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	if _, err := w.BlurBasics(c.Param("field")); err != nil {
		return wizardError(c, "BlurBasics", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) Advance(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	if _, err := w.Advance(); err != nil {
		if errors.Is(err, planner.ErrValidation) {
			return c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
				Message: "Please fix the highlighted fields",
				Fields:  w.BasicsErrors(),
			})
		}
		return wizardError(c, "Advance", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) Retreat(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	w.Retreat()
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) Jump(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req jumpRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	target, err := planner.ParseStep(req.Step)
	if err != nil {
		return wizardError(c, "Jump", err)
	}
	if err := w.JumpTo(target); err != nil {
		return wizardError(c, "Jump", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) Reset(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	if err := w.Reset(c.Request().Context()); err != nil {
		return wizardError(c, "Reset", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

// Finish ends the wizard flow and drops the stored draft.
func (h *Handler) Finish(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	if err := w.Finish(c.Request().Context()); err != nil {
		return wizardError(c, "Finish", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddPoint(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req pointRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	p := w.AddPoint(planner.Waypoint{
		Name:      req.Name,
		Date:      req.Date,
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
		Notes:     req.Notes,
	})
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePoint(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var patch planner.WaypointPatch
	if ok, err := h.bind(c, &patch); !ok {
		return err
	}
	p, err := w.UpdatePoint(c.Param("pointId"), patch)
	if err != nil {
		return wizardError(c, "UpdatePoint", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) RemovePoint(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	w.RemovePoint(c.Param("pointId"))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReorderPoints(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req reorderRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	if err := w.ReorderPoints(req.From, req.To); err != nil {
		return wizardError(c, "ReorderPoints", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) DragStart(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req dragRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	if err := w.DragStart(req.Index); err != nil {
		return wizardError(c, "DragStart", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) DragOver(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req dragRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	if err := w.DragOver(req.Index); err != nil {
		return wizardError(c, "DragOver", err)
	}
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) DragEnd(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	w.DragEnd()
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) SelectTransport(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	view, err := h.service.SelectTransport(c.Request().Context(), userID, c.Param("transportId"))
	if err != nil {
		return wizardError(c, "SelectTransport", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) SelectAccommodation(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	view, err := h.service.SelectHotel(c.Request().Context(), userID, c.Param("hotelId"))
	if err != nil {
		return wizardError(c, "SelectAccommodation", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) SetStay(c echo.Context) error {
	w, err := h.session(c)
	if w == nil {
		return err
	}
	var req stayRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	w.SetStay(planner.StaySearch(req))
	return c.JSON(http.StatusOK, w.View())
}

func (h *Handler) SearchStay(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	list, err := h.service.SearchStay(c.Request().Context(), userID)
	if err != nil {
		return wizardError(c, "SearchStay", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) SearchTransport(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var q models.TransportQuery
	if ok, err := h.bind(c, &q); !ok {
		return err
	}
	list, err := h.service.SearchTransport(c.Request().Context(), userID, q)
	if err != nil {
		return wizardError(c, "SearchTransport", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) Overview(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	overview, err := h.service.Overview(c.Request().Context(), userID)
	if err != nil {
		return wizardError(c, "Overview", err)
	}
	return c.JSON(http.StatusOK, overview)
}

// ImportPOI answers 202 for a new delivery and 200 for a repeated one.
func (h *Handler) ImportPOI(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req poiImportRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	accepted, view, err := h.service.ImportPOI(c.Request().Context(), userID, req.DeliveryID, req.POIID)
	if err != nil {
		return wizardError(c, "ImportPOI", err)
	}
	status := http.StatusAccepted
	if !accepted {
		status = http.StatusOK
	}
	return c.JSON(status, importResponse{Accepted: accepted, View: view})
}

func (h *Handler) Save(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	var req models.SaveRouteRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	id, err := h.service.Save(c.Request().Context(), userID, req.Title)
	if err != nil {
		return wizardError(c, "Save", err)
	}
	return c.JSON(http.StatusCreated, saveResponse{RouteID: id})
}

func (h *Handler) Export(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	opts, err := routes.PDFOptionsFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid query parameters"})
	}
	name, data, err := h.service.Export(c.Request().Context(), userID, opts)
	if err != nil {
		return wizardError(c, "Export", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *Handler) Share(c echo.Context) error {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
	}
	share, err := h.service.Share(c.Request().Context(), userID)
	if err != nil {
		return wizardError(c, "Share", err)
	}
	return c.JSON(http.StatusOK, share)
}
