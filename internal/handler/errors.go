package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/logutil"
	"github.com/iliyamo/userhub/internal/middleware"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/view"
)

// internalMessage is shown for every failure that is not a user error.
const internalMessage = "Internal Error"

var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrPasswordsDoNotMatch, http.StatusBadRequest},
	{service.ErrInvalidPassword, http.StatusBadRequest},
	{service.ErrInvalidUsername, http.StatusBadRequest},
	{service.ErrUsernameExists, http.StatusConflict},
	{service.ErrUserDoesNotExist, http.StatusUnauthorized},
	{service.ErrWrongPassword, http.StatusUnauthorized},
	{service.ErrNotLoggedIn, http.StatusUnauthorized},
	{service.ErrNotAdmin, http.StatusForbidden},
	{middleware.ErrRateLimited, http.StatusTooManyRequests},
}

// PublicError returns the status and message shown to the client for err.
// Anything not recognised becomes a 500 with a generic message.
func PublicError(err error) (int, string) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	var nsu *service.NoSuchUserError
	if errors.As(err, &nsu) {
		return http.StatusNotFound, nsu.Error()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, http.StatusText(he.Code)
	}
	return http.StatusInternalServerError, internalMessage
}

// ErrorHandler renders every returned error as the HTML error page. Internal
// errors are logged with their detail; the client only sees the generic
// message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := PublicError(err)
	log := logutil.GetOrDefault(c.Request().Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if rerr := c.Render(status, view.PageError, view.ErrorData{Status: status, Message: msg}); rerr != nil {
		log.Error().Err(rerr).Msg("render error page")
		_ = c.String(status, msg)
	}
}
