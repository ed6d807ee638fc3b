package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/client-registry/docs"
	"github.com/99minutos/client-registry/internal/api/handler"
	"github.com/99minutos/client-registry/internal/api/middleware"
	"github.com/99minutos/client-registry/internal/core/ports"
)

const metricsSubsystem = "client_registry"

// Deps carries everything the router needs to build its handlers.
type Deps struct {
	Clients ports.ClientService
	Checks  []handler.DependencyCheck
	Log     zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// Prometheus default registry, where the workflow metrics also live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))

	// --- Client routes ---
	clientHandler := handler.NewClientHandler(deps.Clients)

	clients := e.Group("/clients")
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PATCH("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	// Paths kept for callers of the first version of the API.
	legacy := e.Group("/app/clients")
	legacy.GET("/all", clientHandler.List)
	legacy.POST("/create", clientHandler.Create)
	legacy.PATCH("/update/:id", clientHandler.Update)
	legacy.DELETE("/delete/:id", clientHandler.Delete)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: metricsSubsystem}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
