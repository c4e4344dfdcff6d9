package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/senbank/backoffice/internal/api/metrics"
	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /connexion [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.MotDePasse)
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Message: "login successful", Token: token, User: user})
}

// Logout revokes the token used for this request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /agents/deconnexion [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), actor); err != nil {
		return err
	}
	metrics.TokensRevokedTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "logout successful"})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrValidation):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountBlocked):
		return "blocked"
	case errors.Is(err, domain.ErrAccountArchived):
		return "archived"
	default:
		return "error"
	}
}
