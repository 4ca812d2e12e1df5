package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plataforma/accounts-api/internal/api/handler"
	"github.com/plataforma/accounts-api/internal/api/middleware"
	"github.com/plataforma/accounts-api/internal/core/domain"
	"github.com/plataforma/accounts-api/internal/core/service"
	"github.com/plataforma/accounts-api/internal/infrastructure/config"
	"github.com/plataforma/accounts-api/internal/infrastructure/crypto"
	mongodb "github.com/plataforma/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/plataforma/accounts-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	cache := redisdb.NewProfileCache(rdb)
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	tokens := crypto.NewJWTTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	accounts := service.NewAccountService(userRepo, hasher, tokens, cache, log)

	authHandler := handler.NewAuthHandler(accounts)
	userHandler := handler.NewUserHandler(accounts)
	authRequired := middleware.Auth(tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes (no token required) ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- User routes (token required; admin gate where noted) ---
	users := e.Group("/api/users", authRequired)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create, adminOnly)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
