package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookshelf/books-api/docs"
	"github.com/bookshelf/books-api/internal/api/handler"
	"github.com/bookshelf/books-api/internal/pkg/metrics"
	"github.com/bookshelf/books-api/internal/api/middleware"
	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

// APIPrefix is the path prefix of every versioned route.
const APIPrefix = "/api/v1"

// Dependencies are the already-wired collaborators the router exposes over HTTP.
type Dependencies struct {
	AuthService  ports.AuthService
	BookService  ports.BookService
	Verifier     ports.TokenVerifier
	HealthChecks map[string]handler.DependencyCheck
	// Registry receives the HTTP and domain metrics served on /metrics.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	if err := metrics.Register(deps.Registry); err != nil {
		return nil, err
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registry,
		// Handler errors are rendered after this middleware returns, so the
		// recorded status is derived from the error itself.
		StatusCodeResolver: metricsStatus,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational routes (no auth required) ---
	health := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/health", health.Liveness)         // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group(APIPrefix)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	v1.POST("/auth/login", authHandler.Login)

	// --- Book routes ---
	books := handler.NewBookHandler(deps.BookService)
	secured := v1.Group("/books", middleware.Authenticate(deps.Verifier))
	secured.GET("", books.List, requires(domain.PermBookRead))
	secured.GET("/stats/average-price-by-year", books.AveragePriceByYear, requires(domain.PermBookRead))
	secured.GET("/:id", books.Get, requires(domain.PermBookRead))
	secured.POST("", books.Create, requires(domain.PermBookCreate))
	secured.PUT("/:id", books.Replace, requires(domain.PermBookUpdate))
	secured.PATCH("/:id", books.Patch, requires(domain.PermBookUpdate))
	secured.DELETE("/:id", books.Delete, requires(domain.PermBookDelete))

	return e, nil
}

func requires(permission string) echo.MiddlewareFunc {
	return middleware.Guard(middleware.GuardConfig{RequiredPermission: permission})
}
