package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/encore-live/backstage-api/internal/api/handler"
	"github.com/encore-live/backstage-api/internal/api/middleware"
	"github.com/encore-live/backstage-api/internal/core/ports"
	"github.com/encore-live/backstage-api/internal/core/service"
)

// Deps bundles everything the router needs. All fields are required except
// Redis, which is only used by the readiness probe.
type Deps struct {
	Directory      ports.UserDirectory
	AuthService    ports.AuthService
	AccountService ports.AccountService
	Tokens         *service.TokenService
	APIKey         string
	Mongo          *mongo.Database
	Redis          *redis.Client
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every protected route lists its gate chain explicitly, in order.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("backstage"))

	// --- Gates ---
	apiKey := middleware.APIKey(deps.APIKey)
	bearer := middleware.Auth(deps.Tokens, deps.Directory)
	active := middleware.ActiveAccount()
	admin := middleware.RequireAdmin()

	// --- Auth routes (API key only) ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/auth/register", authHandler.Register, apiKey)
	e.POST("/auth/login", authHandler.Login, apiKey)
	e.POST("/auth/refresh", authHandler.Refresh, apiKey)
	e.POST("/auth/reset-password", authHandler.ResetPassword, apiKey)

	// --- Account lifecycle routes (full chain) ---
	userHandler := handler.NewUserHandler(deps.AccountService)
	e.DELETE("/users/:id", userHandler.Delete, apiKey, bearer, active, admin)
	e.PUT("/users/:id/status", userHandler.SetStatus, apiKey, bearer, active, admin)
	e.PUT("/users/:id", userHandler.Modify, apiKey, bearer, active, admin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
