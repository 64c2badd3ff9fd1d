package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// RequestHandler serves the client and provider request endpoints.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Submit handles POST /v1/requests.
//
// @Summary      Submit a service request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      submitRequestRequest  true   "Request details"
// @Success      201              {object}  submitRequestResponse
// @Success      200              {object}  submitRequestResponse  "Replay of an earlier submission"
// @Failure      400              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Failure      428              {object}  map[string]any
// @Router       /v1/requests [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Submit(c.Request().Context(), ports.SubmitRequestInput{
		Client:      id,
		Category:    req.Category,
		Description: req.Description,
		Location: domain.Location{
			District:     req.Location.District,
			Municipality: req.Location.Municipality,
			Ward:         req.Location.Ward,
			Landmark:     req.Location.Landmark,
		},
		Contact: domain.Contact{
			Name:  req.Contact.Name,
			Phone: req.Contact.Phone,
			Email: req.Contact.Email,
		},
		PreferredDate:  req.PreferredDate,
		Language:       ctxLang(c),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, submitRequestResponse{
		TrackingCode: result.TrackingCode,
		Status:       result.Status,
		CreatedAt:    result.CreatedAt,
	})
}

// Track handles GET /v1/requests/track/:code.
//
// @Summary      Track a request
// @Description  Public view without contact details.
// @Tags         requests
// @Produce      json
// @Param        code  path      string  true  "Tracking code (e.g. GN-7A8B9C2D)"
// @Success      200   {object}  trackResponse
// @Failure      404   {object}  map[string]string
// @Router       /v1/requests/track/{code} [get]
func (h *RequestHandler) Track(c echo.Context) error {
	res, err := h.service.Track(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trackResponse{
		TrackingCode:  res.TrackingCode,
		Category:      res.Category,
		Status:        res.Status,
		District:      res.District,
		CreatedAt:     res.CreatedAt,
		StatusHistory: res.StatusHistory,
	})
}

// Dashboard handles GET /v1/client/dashboard and GET /v1/provider/dashboard.
//
// @Summary      Own requests
// @Description  Clients see their submissions, providers their assignments.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  requestListResponse
// @Failure      403  {object}  map[string]string
// @Failure      428  {object}  map[string]any
// @Router       /v1/client/dashboard [get]
// @Router       /v1/provider/dashboard [get]
func (h *RequestHandler) Dashboard(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListForIdentity(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requestListResponse{Items: items, Count: len(items)})
}

// UpdateStatus handles PATCH /v1/provider/requests/:code/status and
// PATCH /v1/admin/requests/:code/status.
//
// @Summary      Change request status
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string               true  "Tracking code"
// @Param        body  body      statusChangeRequest  true  "New status"
// @Success      204
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/provider/requests/{code}/status [patch]
// @Router       /v1/admin/requests/{code}/status [patch]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req statusChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateStatus(c.Request().Context(), ports.StatusChangeInput{
		Actor:        id,
		TrackingCode: c.Param("code"),
		Status:       req.Status,
		Notes:        req.Notes,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
