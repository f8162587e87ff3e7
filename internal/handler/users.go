package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/middleware"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/view"
)

const noProfile = "No profile set"

// UserHandler serves the directory, profile pages and profile editing.
type UserHandler struct {
	Accounts *service.Accounts
}

func NewUserHandler(a *service.Accounts) *UserHandler {
	return &UserHandler{Accounts: a}
}

// Me redirects to the caller's own profile page.
func (h *UserHandler) Me(c echo.Context) error {
	u, err := middleware.AuthState(c).User(c.Request().Context())
	if err != nil {
		return err
	}
	if u == nil {
		return service.ErrNotLoggedIn
	}
	return c.Redirect(http.StatusSeeOther, "/user/"+u.Username)
}

// User renders the public page of :username.
func (h *UserHandler) User(c echo.Context) error {
	name := c.Param("username")

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Accounts.Profile(ctx, name)
	if err != nil {
		return err
	}
	data := view.UserData{
		Username: u.Username,
		Profile:  noProfile,
		IsSelf:   middleware.AuthState(c).Is(ctx, u.Username),
	}
	if u.Profile != nil {
		data.Profile = *u.Profile
	}
	return c.Render(http.StatusOK, view.PageUser, data)
}

// Profile replaces the caller's profile text. Routed behind RequireLogin.
func (h *UserHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := middleware.AuthState(c).User(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return service.ErrNotLoggedIn
	}
	if err := h.Accounts.UpdateProfile(ctx, *u, c.FormValue("profile")); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/me")
}

// Users renders the directory.
func (h *UserHandler) Users(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	names, err := h.Accounts.Directory(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageUsers, view.UsersData{Users: names})
}
