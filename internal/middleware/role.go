package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/service"
)

// RequireLogin rejects requests whose token does not resolve to a user with
// service.ErrNotLoggedIn. Stale tokens are treated like missing ones.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := AuthState(c).User(c.Request().Context())
			if err != nil {
				return err
			}
			if u == nil {
				return service.ErrNotLoggedIn
			}
			return next(c)
		}
	}
}

// RequireAdmin lets only admins through and fails everyone else with
// service.ErrNotAdmin. A failed session lookup is reported as itself so that
// it surfaces as an internal error.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := AuthState(c).User(c.Request().Context())
			if err != nil {
				return err
			}
			if u == nil || !u.IsAdmin() {
				return service.ErrNotAdmin
			}
			return next(c)
		}
	}
}
