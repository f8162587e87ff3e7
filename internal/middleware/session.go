package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/auth"
	"github.com/iliyamo/userhub/internal/utils"
)

// SessionCookie is the cookie carrying the decimal session token.
const SessionCookie = "user_token"

const authStateKey = "auth_state"

// Session attaches an auth.State to every request. A missing or unparsable
// user_token cookie yields an anonymous state; otherwise the token is kept
// unresolved until a handler asks for the user.
func Session(lookup auth.SessionLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := auth.Anonymous()
			if ck, err := c.Cookie(SessionCookie); err == nil {
				if tok, err := utils.ParseSessionToken(ck.Value); err == nil {
					st = auth.Unresolved(tok, lookup)
				}
			}
			c.Set(authStateKey, st)
			return next(c)
		}
	}
}

// AuthState returns the state attached by Session, or an anonymous state when
// the middleware did not run.
func AuthState(c echo.Context) *auth.State {
	if st, ok := c.Get(authStateKey).(*auth.State); ok {
		return st
	}
	return auth.Anonymous()
}
