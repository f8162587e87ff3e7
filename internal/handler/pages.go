package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/middleware"
	"github.com/iliyamo/userhub/internal/view"
)

// Index renders the landing page. "Logged in" means a token was presented.
func Index(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageIndex, view.IndexData{
		LoggedIn:   middleware.AuthState(c).LoggedIn(),
		HomeScreen: true,
	})
}

func SignupForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageSignup, nil)
}

func LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageLogin, nil)
}

// Styles serves the embedded stylesheet.
func Styles(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css", view.Stylesheet())
}
