package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// AdminHandler serves the staff endpoints. Staff are never held at the
// terms gate.
type AdminHandler struct {
	requests ports.RequestService
	notifier ports.Notifier
}

func NewAdminHandler(requests ports.RequestService, notifier ports.Notifier) *AdminHandler {
	return &AdminHandler{requests: requests, notifier: notifier}
}

// Dashboard handles GET /v1/admin/dashboard.
//
// @Summary      Request counts per status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	summary, err := h.requests.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Counts: summary.Counts, Total: summary.Total})
}

// Assign handles POST /v1/admin/requests/:code/assign.
//
// @Summary      Assign a provider
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string         true  "Tracking code"
// @Param        body  body      assignRequest  true  "Provider"
// @Success      204
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/admin/requests/{code}/assign [post]
func (h *AdminHandler) Assign(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.requests.Assign(c.Request().Context(), ports.AssignInput{
		Actor:        id,
		TrackingCode: c.Param("code"),
		ProviderID:   req.ProviderID,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SendNotification handles POST /v1/admin/notifications.
//
// @Summary      Send a manual email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      manualNotificationRequest  true  "Email"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/admin/notifications [post]
func (h *AdminHandler) SendNotification(c echo.Context) error {
	var req manualNotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.notifier.Enqueue(domain.Notification{
		Event:     domain.EventManual,
		To:        req.To,
		Name:      req.Name,
		Language:  ctxLang(c),
		Reference: req.Reference,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "queued"})
}
