package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	shell       ShellService
	msgs        middleware.Translator
}

func NewAuthHandler(authService ports.AuthService, shell ShellService, msgs middleware.Translator) *AuthHandler {
	return &AuthHandler{authService: authService, shell: shell, msgs: msgs}
}

// Register creates a client or provider account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		Language: ctxLang(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a client or provider.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// OpsLogin authenticates staff and completes a pending staff entry.
//
// @Summary      Staff login
// @Description  Only internal roles succeed. Every failure looks the same.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /auth/ops/login [post]
func (h *AuthHandler) OpsLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.LoginInternal(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	sreq := shellRequest(c)
	sreq.Identity = user.Identity()
	state := h.shell.CompleteOpsLogin(c.Request().Context(), sreq)

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user, Shell: &state})
}

// PasswordStrength scores a candidate password.
//
// @Summary      Password strength
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordStrengthRequest  true  "Candidate password"
// @Success      200   {object}  passwordStrengthResponse
// @Router       /auth/password-strength [post]
func (h *AuthHandler) PasswordStrength(c echo.Context) error {
	var req passwordStrengthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	s := domain.EvaluatePassword(req.Password)
	return c.JSON(http.StatusOK, passwordStrengthResponse{
		Score:      s.Score,
		Label:      s.Label,
		Text:       h.msgs.Sprintf(ctxLang(c), "password."+s.Label),
		Acceptable: s.Acceptable(),
	})
}

// Bootstrap creates the first system account.
//
// @Summary      First-run setup
// @Description  Available only with the setup key and while no staff account exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      bootstrapRequest  true  "System account"
// @Success      201   {object}  authResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /setup/bootstrap [post]
func (h *AuthHandler) Bootstrap(c echo.Context) error {
	var req bootstrapRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Bootstrap(c.Request().Context(), ports.BootstrapInput{
		SetupKey: req.SetupKey,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}
