package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/acme/accounts-api/docs"
	"github.com/acme/accounts-api/internal/api/handler"
	"github.com/acme/accounts-api/internal/api/middleware"
	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
	"github.com/acme/accounts-api/internal/core/token"
	"github.com/acme/accounts-api/internal/infrastructure/http/handlers"
)

// publicPaths bypass the authentication gate entirely: token issuance,
// refresh, registration, the collaborator-owned admin console, and the
// operational endpoints.
var publicPaths = []string{
	"/api/v1/auth/",
	"/api/v1/users/register",
	"/admin",
	"/health",
	"/metrics",
	"/swagger",
}

// RouterConfig carries the wired dependencies for NewRouter.
type RouterConfig struct {
	Repo     ports.UserRepository
	Accounts ports.AccountService
	Users    ports.UserService
	Codec    *token.Codec
	Mongo    *mongo.Database
	Redis    *redis.Client
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))
	e.Use(middleware.Auth(cfg.Codec, cfg.Repo, publicPaths, cfg.Logger))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.Accounts, cfg.Logger)
	userHandler := handler.NewUserHandler(cfg.Accounts, cfg.Users)

	// --- Auth routes (public) ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/token", authHandler.Token)
	v1.POST("/auth/refresh_token", authHandler.RefreshToken)
	v1.POST("/users/register", userHandler.Register)

	// --- User routes (bearer token required) ---
	users := v1.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/my_friends", userHandler.MyFriends)
	users.GET("/analytics", userHandler.Analytics, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.POST("/:id/activate", userHandler.Activate, middleware.RBAC(domain.RoleAdmin))
	users.POST("/:id/manage_friend", userHandler.ManageFriend, middleware.RBAC(domain.RoleUser))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
