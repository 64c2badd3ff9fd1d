package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/service"
)

// authLoadingParam lets the client report that its auth state has not
// resolved yet, so automatic redirects wait.
const authLoadingParam = "auth_loading"

// ShellService is the view-state use case behind the shell endpoints.
type ShellService interface {
	Load(ctx context.Context, req service.ShellRequest) *service.ShellResult
	Navigate(ctx context.Context, req service.ShellRequest, target string) service.Navigation
	CancelOps(ctx context.Context, req service.ShellRequest) domain.ViewState
	CompleteOpsLogin(ctx context.Context, req service.ShellRequest) domain.ViewState
}

type ShellHandler struct {
	shell ShellService
	msgs  middleware.Translator
}

func NewShellHandler(shell ShellService, msgs middleware.Translator) *ShellHandler {
	return &ShellHandler{shell: shell, msgs: msgs}
}

// Load handles GET / and GET /app/shell.
//
// @Summary      Resolve the current view
// @Description  Runs entry-link detection and the automatic routing rules. When the staff entry secret is present it is stored in the session and the client is redirected to the same URL without it.
// @Tags         shell
// @Produce      json
// @Param        auth_loading  query     string  false  "1 while the client is still resolving its session"
// @Success      200           {object}  shellResponse
// @Success      303           "Location without the entry secret"
// @Router       /app/shell [get]
func (h *ShellHandler) Load(c echo.Context) error {
	req := shellRequest(c)
	req.AuthLoading = c.QueryParam(authLoadingParam) == "1"

	res := h.shell.Load(c.Request().Context(), req)
	if res.CleanURL != "" {
		return c.Redirect(http.StatusSeeOther, res.CleanURL)
	}
	return c.JSON(http.StatusOK, toShellResponse(res.State, req.Identity))
}

// Navigate handles POST /app/navigate.
//
// @Summary      Navigate to a view
// @Tags         shell
// @Accept       json
// @Produce      json
// @Param        body  body      navigateRequest  true  "Navigation target"
// @Success      200   {object}  shellResponse
// @Failure      400   {object}  map[string]string
// @Router       /app/navigate [post]
func (h *ShellHandler) Navigate(c echo.Context) error {
	var body navigateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req := shellRequest(c)
	nav := h.shell.Navigate(c.Request().Context(), req, body.Target)

	resp := toShellResponse(nav.State, req.Identity)
	resp.ScrollTop = nav.ScrollTop
	lang := ctxLang(c)
	switch nav.Modal {
	case domain.ModalSignIn:
		resp.Modal, resp.ModalMessage = nav.Modal, h.msgs.Sprintf(lang, "modal.sign_in")
	case domain.ModalRequestForm:
		resp.Modal, resp.ModalMessage = nav.Modal, h.msgs.Sprintf(lang, "modal.request_form")
	}
	if nav.Notice == domain.NoticeAccessDenied {
		resp.Notice, resp.NoticeMessage = nav.Notice, h.msgs.Sprintf(lang, "notice.access_denied")
	}
	return c.JSON(http.StatusOK, resp)
}

// CancelOps handles DELETE /app/ops.
//
// @Summary      Leave the staff sign-in
// @Tags         shell
// @Produce      json
// @Success      200  {object}  shellResponse
// @Router       /app/ops [delete]
func (h *ShellHandler) CancelOps(c echo.Context) error {
	req := shellRequest(c)
	state := h.shell.CancelOps(c.Request().Context(), req)
	return c.JSON(http.StatusOK, toShellResponse(state, req.Identity))
}

func shellRequest(c echo.Context) service.ShellRequest {
	sid, flags := ctxSession(c)
	return service.ShellRequest{
		SessionID: sid,
		URL:       c.Request().URL,
		Identity:  middleware.IdentityFrom(c),
		Flags:     flags,
	}
}

func toShellResponse(s domain.ViewState, id *domain.Identity) shellResponse {
	return shellResponse{
		View:        s.View,
		Redirected:  s.Redirected,
		OpsDetected: s.OpsDetected,
		ShowSetup:   s.ShowSetup,
		Identity:    id,
	}
}
