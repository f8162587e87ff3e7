package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/middleware"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/view"
)

// AdminHandler serves the admin panel. Every route is behind RequireAdmin,
// so the caller always resolves to an admin here.
type AdminHandler struct {
	Accounts *service.Accounts
}

func NewAdminHandler(a *service.Accounts) *AdminHandler {
	return &AdminHandler{Accounts: a}
}

func (h *AdminHandler) Panel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	viewer, err := h.viewer(ctx, c)
	if err != nil {
		return err
	}
	users, admins, err := h.Accounts.AdminOverview(ctx, viewer)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageAdmin, view.AdminData{Users: users, Admins: admins})
}

// Promote makes :username an admin. Unknown users and existing admins are
// left unchanged.
func (h *AdminHandler) Promote(c echo.Context) error {
	return h.change(c, h.Accounts.Promote)
}

// Demote turns admin :username back into a user.
func (h *AdminHandler) Demote(c echo.Context) error {
	return h.change(c, h.Accounts.Demote)
}

func (h *AdminHandler) change(c echo.Context, op func(ctx context.Context, actor, username string) (bool, error)) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	actor, err := h.viewer(ctx, c)
	if err != nil {
		return err
	}
	if _, err := op(ctx, actor, c.Param("username")); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) viewer(ctx context.Context, c echo.Context) (string, error) {
	u, err := middleware.AuthState(c).User(ctx)
	if err != nil {
		return "", err
	}
	if u == nil || !u.IsAdmin() {
		return "", service.ErrNotAdmin
	}
	return u.Username, nil
}
