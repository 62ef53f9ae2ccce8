package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/encore-live/backstage-api/internal/core/domain"
	"github.com/encore-live/backstage-api/internal/core/ports"
)

// UserHandler exposes the admin-gated account lifecycle operations. The route
// table guards every method with the full chain: API key, bearer token,
// active account, admin role.
type UserHandler struct {
	accountService ports.AccountService
}

func NewUserHandler(accountService ports.AccountService) *UserHandler {
	return &UserHandler{accountService: accountService}
}

// Delete handles DELETE /users/:id. Terminal and irreversible.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	if err := h.accountService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// SetStatus handles PUT /users/:id/status — enables or disables the account.
func (h *UserHandler) SetStatus(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	var req setEnabledRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.accountService.SetEnabled(c.Request().Context(), id, *req.Enabled); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Modify handles PUT /users/:id — partial update of username/email/password.
func (h *UserHandler) Modify(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	var req modifyAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	update := domain.AccountUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.accountService.Modify(c.Request().Context(), id, update); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// accountID parses the :id path parameter.
func accountID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid account id")
	}
	return id, nil
}
