package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/encore-live/backstage-api/internal/api/metrics"
	"github.com/encore-live/backstage-api/internal/core/domain"
	"github.com/encore-live/backstage-api/internal/core/ports"
)

// AuthHandler exposes the session flows: register, login, refresh, and
// password reset. All four sit behind the API-key gate only.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register. A successful registration returns the
// new account summary plus its first access/refresh token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	acct, pair, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		Account: &accountSummary{
			ID:       acct.ID,
			Username: acct.Username,
			Email:    acct.Email,
			Role:     acct.Role,
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

// Refresh handles POST /auth/refresh. Only a new access token is minted; the
// supplied refresh token stays valid until its own expiry.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// ResetPassword handles POST /auth/reset-password. The ack is generic: it does
// not reveal whether the notification was delivered.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "password reset successfully"})
}

// loginOutcome classifies a failed login for the logins_total counter.
func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountSuspended):
		return "suspended"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "failure"
	}
}
