package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/userhub/internal/middleware"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/utils"
)

// cookieMaxAge is the lifetime of the session cookie in seconds.
const cookieMaxAge = 9999999

// requestTimeout bounds the store calls made by one handler.
const requestTimeout = 5 * time.Second

// AuthHandler serves signup, login, logout and account deletion.
type AuthHandler struct {
	Accounts *service.Accounts
}

func NewAuthHandler(a *service.Accounts) *AuthHandler {
	return &AuthHandler{Accounts: a}
}

type signupForm struct {
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Signup creates the account, sets the session cookie and redirects home.
func (h *AuthHandler) Signup(c echo.Context) error {
	var f signupForm
	if err := c.Bind(&f); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	tok, err := h.Accounts.Signup(ctx, service.SignupInput{
		Username:        f.Username,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return loginResponse(c, tok)
}

// Login checks credentials, sets the session cookie and redirects home.
func (h *AuthHandler) Login(c echo.Context) error {
	var f loginForm
	if err := c.Bind(&f); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	tok, err := h.Accounts.Login(ctx, f.Username, f.Password)
	if err != nil {
		return err
	}
	return loginResponse(c, tok)
}

// Logout clears the session cookie. The session row is left in place.
func (h *AuthHandler) Logout(c echo.Context) error {
	return logoutResponse(c)
}

// Delete removes the caller's account and logs them out.
func (h *AuthHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Accounts.DeleteAccount(ctx, middleware.AuthState(c)); err != nil {
		return err
	}
	return logoutResponse(c)
}

func loginResponse(c echo.Context, tok utils.SessionToken) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.String(),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/")
}

func logoutResponse(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "_",
		Path:     "/",
		MaxAge:   -1, // written as Max-Age=0
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/")
}
