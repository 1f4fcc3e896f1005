package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/traymate/backend/docs"
	"github.com/traymate/backend/internal/api/handler"
	"github.com/traymate/backend/internal/api/middleware"
	"github.com/traymate/backend/internal/core/ports"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Logger         zerolog.Logger
	AllowedOrigins []string

	Codec ports.TokenCodec
	Users ports.UserRepository

	Auth      ports.AuthService
	Residents ports.ResidentService
	Staff     ports.StaffService

	HealthChecks map[string]handler.HealthCheck

	// Policy overrides the default access rules when set.
	Policy *middleware.Policy
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	policy := d.Policy
	if policy == nil {
		policy = middleware.NewPolicy(middleware.DefaultRules()...)
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.HTTPMetrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			handler.HeaderIdempotencyKey,
		},
	}))
	e.Use(middleware.Identity(middleware.IdentityConfig{
		Codec:  d.Codec,
		Users:  d.Users,
		Logger: d.Logger,
	}))
	e.Use(policy.Middleware())

	// --- Health, metrics and docs (public) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/me", authHandler.Me)

	// --- Admin routes ---
	residentHandler := handler.NewResidentHandler(d.Residents)
	staffHandler := handler.NewStaffHandler(d.Staff)

	admin := e.Group("/admin")
	admin.POST("/residents", residentHandler.Create)
	admin.GET("/residents", residentHandler.List)
	admin.PUT("/residents/:id", residentHandler.Update)
	admin.PUT("/residents/:id/assign", residentHandler.Assign)
	admin.GET("/caregivers", staffHandler.Caregivers)
	admin.GET("/kitchen", staffHandler.Kitchen)
	admin.DELETE("/delete/:type/:id", staffHandler.Delete)

	// --- Caregiver routes ---
	e.GET("/caregiver/residents", residentHandler.CaregiverResidents)

	return e
}
