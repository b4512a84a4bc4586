package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-directory/docs"
	"github.com/99minutos/user-directory/internal/api/handler"
	"github.com/99minutos/user-directory/internal/api/middleware"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the outside.
type Dependencies struct {
	Users        ports.UserService
	Auth         ports.AuthService
	LoginLimiter middleware.Limiter
	Probes       map[string]handler.Pinger
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	// RealIP is the TCP peer; forwarding headers are caller-controlled.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	login := []echo.MiddlewareFunc{}
	if deps.LoginLimiter != nil {
		login = append(login, middleware.RateLimit(deps.LoginLimiter, deps.Log))
	}
	e.POST("/auth/login", authHandler.Login, login...)

	// --- Directory routes ---
	userHandler := handler.NewUserHandler(deps.Users)
	users := e.Group("/users", middleware.Auth(deps.Auth))
	users.GET("", userHandler.List, middleware.Gate(middleware.OpListUsers))
	users.POST("", userHandler.Create, middleware.Gate(middleware.OpCreateUser))
	users.GET("/:id", userHandler.Get, middleware.Gate(middleware.OpGetUser))
	users.PATCH("/:id", userHandler.Update, middleware.Gate(middleware.OpUpdateUser))
	users.DELETE("/:id", userHandler.Delete, middleware.Gate(middleware.OpDeleteUser))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Probes)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Observability ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
