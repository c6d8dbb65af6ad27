package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hoardly/dashboard/internal/api/docs"
	"github.com/hoardly/dashboard/internal/api/handler"
	"github.com/hoardly/dashboard/internal/api/middleware"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/core/service"
	"github.com/hoardly/dashboard/internal/pkg/validation"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Sessions      *service.SessionManager
	Tokens        *service.TokenService
	SessionTTL    time.Duration
	SecureCookies bool
	Checks        []handler.Check
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bff",
		Registerer: registerer,
	}))

	// --- Probes and docs (no session) ---
	health := handler.NewHealthHandler(d.Checks...)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-scoped API ---
	api := e.Group("/api", middleware.Session(middleware.SessionConfig{
		Manager: d.Sessions,
		Tokens:  d.Tokens,
		TTL:     d.SessionTTL,
		Secure:  d.SecureCookies,
	}))

	var (
		anyRole      = middleware.Guard()
		owner        = middleware.Guard(domain.RoleOwner)
		photographer = middleware.Guard(domain.RolePhotographer)
		client       = middleware.Guard(domain.RoleClient)
	)

	sessions := handler.NewSessionHandler()
	api.GET("/session", sessions.Get)
	api.POST("/session/login", sessions.Login)
	api.POST("/session/register", sessions.Register)
	api.POST("/session/logout", sessions.Logout)
	api.GET("/session/notifications", sessions.Notifications)
	api.PUT("/session/user", sessions.UpdateUser, anyRole)
	api.GET("/session/navigation", sessions.Navigation, anyRole)
	api.PUT("/profile", sessions.UpdateProfile, anyRole)

	search := handler.NewSearchHandler()
	api.GET("/search", search.Results, anyRole)
	api.POST("/search/live", search.Live, anyRole)
	api.POST("/search/dismiss", search.Dismiss, anyRole)
	api.POST("/search/select", search.Select, anyRole)
	api.POST("/search/submit", search.Submit, anyRole)

	api.GET("/dashboard", handler.NewDashboardHandler().Summary, anyRole)

	// --- Owner ---
	api.GET("/hoardings", handler.List(handler.Hoardings, ports.HoardingAPI.List), owner)
	api.POST("/hoardings", handler.Create(handler.Hoardings, ports.HoardingAPI.Create), owner)
	api.GET("/hoardings/:id", handler.Get(handler.Hoardings, ports.HoardingAPI.Get), owner)
	api.PUT("/hoardings/:id", handler.Update(handler.Hoardings, ports.HoardingAPI.Update), owner)
	api.DELETE("/hoardings/:id", handler.Delete(handler.Hoardings, ports.HoardingAPI.Delete), owner)

	api.GET("/contracts", handler.List(handler.Contracts, ports.ContractAPI.List), owner)
	api.POST("/contracts", handler.Create(handler.Contracts, ports.ContractAPI.Create), owner)
	api.GET("/contracts/:id", handler.Get(handler.Contracts, ports.ContractAPI.Get), owner)
	api.PUT("/contracts/:id", handler.Update(handler.Contracts, ports.ContractAPI.Update), owner)
	api.DELETE("/contracts/:id", handler.Delete(handler.Contracts, ports.ContractAPI.Delete), owner)

	api.GET("/billings", handler.List(handler.Billings, ports.BillingAPI.List), owner)
	api.POST("/billings", handler.Create(handler.Billings, ports.BillingAPI.Create), owner)
	api.GET("/billings/:id", handler.Get(handler.Billings, ports.BillingAPI.Get), owner)
	api.PATCH("/billings/:id/status", handler.SetStatus(handler.Billings, ports.BillingAPI.UpdateStatus), owner)
	api.DELETE("/billings/:id", handler.Delete(handler.Billings, ports.BillingAPI.Delete), owner)

	api.GET("/clients", handler.List(handler.Clients, ports.ClientAPI.List), owner)
	api.POST("/clients", handler.Create(handler.Clients, ports.ClientAPI.Create), owner)
	api.GET("/clients/:id", handler.Get(handler.Clients, ports.ClientAPI.Get), owner)
	api.PUT("/clients/:id", handler.Update(handler.Clients, ports.ClientAPI.Update), owner)
	api.DELETE("/clients/:id", handler.Delete(handler.Clients, ports.ClientAPI.Delete), owner)

	api.GET("/assignments", handler.List(handler.Assignments, ports.AssignmentAPI.List), owner)
	api.POST("/assignments", handler.Create(handler.Assignments, ports.AssignmentAPI.Create), owner)
	api.GET("/assignments/:id", handler.Get(handler.Assignments, ports.AssignmentAPI.Get), owner)
	api.PATCH("/assignments/:id/status", handler.SetStatus(handler.Assignments, ports.AssignmentAPI.UpdateStatus), owner)
	api.DELETE("/assignments/:id", handler.Delete(handler.Assignments, ports.AssignmentAPI.Delete), owner)

	api.GET("/photographers", handler.Photographers, owner)
	api.GET("/photographers/:id", handler.Get(handler.Users, ports.UserAPI.Get), owner)
	api.DELETE("/photographers/:id", handler.Delete(handler.Users, ports.UserAPI.Delete), owner)

	api.GET("/photos", handler.List(handler.Photos, ports.PhotoAPI.List), owner)
	api.GET("/photos/:id", handler.Get(handler.Photos, ports.PhotoAPI.Get), owner)
	api.DELETE("/photos/:id", handler.Delete(handler.Photos, ports.PhotoAPI.Delete), owner)

	// --- Photographer ---
	api.GET("/photographer/assignments", handler.Own(handler.Assignments, ports.AssignmentAPI.ListForPhotographer), photographer)
	api.PATCH("/photographer/assignments/:id/status", handler.SetStatus(handler.Assignments, ports.AssignmentAPI.UpdateStatus), photographer)
	api.GET("/photographer/photos", handler.Own(handler.Photos, ports.PhotoAPI.ListForPhotographer), photographer)

	// --- Client ---
	api.GET("/client/contracts", handler.Own(handler.Contracts, ports.ContractAPI.ListForClient), client)
	api.GET("/client/photos", handler.Own(handler.Photos, ports.PhotoAPI.ListForClient), client)
	api.GET("/client/billings", handler.Own(handler.Billings, ports.BillingAPI.ListForClient), client)

	return e
}

// requestLogger logs one line per request through zerolog.
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
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
