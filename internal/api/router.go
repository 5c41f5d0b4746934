package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/beside-app/beside-api/docs"
	"github.com/beside-app/beside-api/internal/api/handler"
	"github.com/beside-app/beside-api/internal/api/middleware"
	"github.com/beside-app/beside-api/internal/core/ports"
	"github.com/beside-app/beside-api/internal/infrastructure/http/handlers"
)

const (
	apiPrefix = "/api/v1"
	bodyLimit = "8M"
)

// Deps is everything the HTTP layer needs. Services are built by the caller.
type Deps struct {
	Auth         ports.AuthService
	Reset        ports.PasswordResetService
	Profile      ports.ProfileService
	Verification ports.VerificationService
	Trips        ports.TripService

	Guard       ports.AccessGuard
	AdminPolicy middleware.Authorizer

	Cookie      handler.CookieConfig
	CORSOrigins []string
	// Readiness lists the dependencies probed by /health/ready.
	Readiness []handlers.Check
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Cookie.Name == "" {
		d.Cookie.Name = "token"
	}
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "beside",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Reset, d.Cookie)
	profileHandler := handler.NewProfileHandler(d.Profile)
	verificationHandler := handler.NewVerificationHandler(d.Verification)
	adminHandler := handler.NewAdminHandler(d.Profile)
	tripHandler := handler.NewTripHandler(d.Trips)
	requireAuth := middleware.RequireAuth(d.Guard, d.Cookie.Name)

	v1 := e.Group(apiPrefix)

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/password/forgot", authHandler.ForgotPassword)
	auth.POST("/password/reset", authHandler.ResetPassword)
	auth.PATCH("/password", authHandler.ChangePassword, requireAuth)

	// --- Profile routes ---
	users := v1.Group("/users/me", requireAuth)
	users.GET("", profileHandler.Me)
	users.PATCH("", profileHandler.Update)
	users.PUT("/availability", profileHandler.SetAvailability)
	users.PUT("/photo", profileHandler.UploadPhoto)

	v1.POST("/verification", verificationHandler.Verify)

	// --- Admin routes ---
	admin := v1.Group("/admin", requireAuth, middleware.RequireRoles(d.AdminPolicy))
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PATCH("/users/:id/status", adminHandler.SetStatus)

	// --- Trip routes ---
	trips := v1.Group("/trips", requireAuth)
	trips.POST("", tripHandler.Create)
	trips.GET("", tripHandler.List)
	trips.GET("/:trip_id", tripHandler.Get)
	trips.POST("/:trip_id/requests", tripHandler.RequestToJoin)
	v1.PATCH("/trip-requests/:request_id", tripHandler.Respond, requireAuth)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
