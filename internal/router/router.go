// Package router wires handlers and middleware into an Echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/userhub/internal/auth"
	"github.com/iliyamo/userhub/internal/config"
	"github.com/iliyamo/userhub/internal/handler"
	"github.com/iliyamo/userhub/internal/middleware"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/view"
)

// Deps holds what the routes need. Redis may be nil, which disables rate
// limiting.
type Deps struct {
	Accounts  *service.Accounts
	Sessions  auth.SessionLookup
	DB        handler.Pinger
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Log       zerolog.Logger
}

// New builds the Echo instance serving the whole site.
func New(d Deps) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.ContextLogger(d.Log))
	e.Use(middleware.AccessLog(d.Log))
	e.Use(middleware.Session(d.Sessions))

	RegisterRoutes(e, d)
	return e, nil
}

// RegisterRoutes maps every path to its handler.
func RegisterRoutes(e *echo.Echo, d Deps) {
	authH := handler.NewAuthHandler(d.Accounts)
	userH := handler.NewUserHandler(d.Accounts)
	adminH := handler.NewAdminHandler(d.Accounts)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)

	e.GET("/healthz", handler.Health(d.DB))
	e.Match([]string{http.MethodGet, http.MethodHead, http.MethodPost}, "/styles.css", handler.Styles)

	e.GET("/", handler.Index)
	e.GET("/signup", handler.SignupForm)
	e.POST("/signup", authH.Signup, limit)
	e.GET("/login", handler.LoginForm)
	e.POST("/login", authH.Login, limit)
	e.POST("/logout", authH.Logout)
	e.POST("/delete", authH.Delete)

	e.GET("/me", userH.Me)
	e.GET("/user/:username", userH.User)
	e.POST("/profile", userH.Profile, middleware.RequireLogin())
	e.GET("/users", userH.Users)

	admin := e.Group("/admin", middleware.RequireAdmin())
	admin.GET("", adminH.Panel)
	admin.POST("/add/:username", adminH.Promote)
	admin.POST("/remove/:username", adminH.Demote)
}
