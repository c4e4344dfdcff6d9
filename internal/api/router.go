package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/senbank/backoffice/internal/api/handler"
	"github.com/senbank/backoffice/internal/api/middleware"
	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

const bodyLimit = "10M"

// Dependencies is everything the router needs to build its handlers.
// Redis may be nil.
type Dependencies struct {
	Auth         ports.AuthService
	Users        ports.UserService
	Transactions ports.TransactionService

	Mongo *mongo.Database
	Redis *redis.Client

	Log         zerolog.Logger
	FrontendURL string

	// Registerer receives the HTTP request collectors. Nil means the
	// Prometheus default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(deps.FrontendURL)))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "senbank",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	txHandler := handler.NewTransactionHandler(deps.Transactions)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	requireAuth := middleware.Auth(deps.Auth, deps.Log)
	agentOnly := middleware.RequireRole(domain.RoleAgent)

	// --- Auth routes ---
	e.POST("/connexion", authHandler.Login)
	e.POST("/agents/deconnexion", authHandler.Logout, requireAuth, agentOnly)

	// --- User directory ---
	e.POST("/users", userHandler.Create)
	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List, agentOnly)
	users.DELETE("", userHandler.Archive, agentOnly)
	users.PATCH("/block", userHandler.SetBlocked, agentOnly)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/password", userHandler.ChangePassword)

	// --- Ledger ---
	tx := e.Group("/transactions", requireAuth)
	tx.GET("", txHandler.List)
	tx.POST("", txHandler.Create)
	tx.PATCH("/:id/cancel", txHandler.Cancel)

	// --- Ops (no auth required) ---
	e.GET("/", healthHandler.Banner)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "route not found")
	})

	return e
}

func corsConfig(frontendURL string) echomiddleware.CORSConfig {
	origins := []string{"*"}
	if frontendURL != "" {
		origins = []string{frontendURL}
	}
	return echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType,
			echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
