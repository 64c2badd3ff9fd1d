package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/service"
)

// TermsService checks and records acceptance of the legal documents.
type TermsService interface {
	Check(ctx context.Context, id *domain.Identity) domain.GateStatus
	Accept(ctx context.Context, in service.AcceptTermsInput) (domain.GateStatus, error)
}

type TermsHandler struct {
	terms TermsService
	msgs  middleware.Translator
}

func NewTermsHandler(terms TermsService, msgs middleware.Translator) *TermsHandler {
	return &TermsHandler{terms: terms, msgs: msgs}
}

type termsStatusResponse struct {
	Gate   domain.GateStatus `json:"gate"`
	Prompt string            `json:"prompt,omitempty"`
}

// Status handles GET /terms/status.
//
// @Summary      Terms gate status
// @Tags         terms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  termsStatusResponse
// @Failure      401  {object}  map[string]string
// @Router       /terms/status [get]
func (h *TermsHandler) Status(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	status := h.terms.Check(c.Request().Context(), id)
	resp := termsStatusResponse{Gate: status}
	if !status.Allows() {
		resp.Prompt = h.msgs.Sprintf(ctxLang(c), "terms.prompt")
	}
	return c.JSON(http.StatusOK, resp)
}

// Accept handles POST /terms/accept.
//
// @Summary      Accept terms and privacy policy
// @Tags         terms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      acceptTermsRequest  true  "Consent"
// @Success      200   {object}  termsStatusResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  termsStatusResponse
// @Router       /terms/accept [post]
func (h *TermsHandler) Accept(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req acceptTermsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	status, err := h.terms.Accept(c.Request().Context(), service.AcceptTermsInput{
		Identity:  id,
		Consent:   req.Consent,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if errors.Is(err, domain.ErrConsentRequired) {
		return c.JSON(http.StatusUnprocessableEntity, termsStatusResponse{
			Gate:   status,
			Prompt: h.msgs.Sprintf(ctxLang(c), "terms.consent_required"),
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, termsStatusResponse{Gate: status})
}
