package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/polstat/server-provisioning/docs" // swagger docs
	"github.com/polstat/server-provisioning/internal/api/handler"
	"github.com/polstat/server-provisioning/internal/api/middleware"
	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
	"github.com/polstat/server-provisioning/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Requests ports.RequestService
	// Checks feed the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Check
	Logger zerolog.Logger
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	requestHandler := handler.NewRequestHandler(d.Requests)
	userHandler := handler.NewUserHandler(d.Users)

	studentOnly := middleware.RBAC(domain.RoleStudent)
	adminOnly := middleware.RBAC(domain.RoleAdministrator)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)

	// --- Authenticated routes ---
	api := e.Group("/api", middleware.Auth(d.Auth))

	server := api.Group("/server")
	server.POST("/request", requestHandler.Submit, studentOnly)
	server.GET("/requests", requestHandler.ListAll, adminOnly)
	server.GET("/my-requests", requestHandler.ListMine, studentOnly)
	server.GET("/request/:id", requestHandler.Get)
	server.PATCH("/request/:id", requestHandler.UpdatePurpose, studentOnly)
	server.PATCH("/request/:id/approve", requestHandler.Approve, adminOnly)
	server.PATCH("/request/:id/reject", requestHandler.Reject, adminOnly)
	server.PATCH("/release/:id", requestHandler.Release, studentOnly)
	server.DELETE("/terminate/:id", requestHandler.Terminate, adminOnly)

	users := api.Group("/users")
	users.GET("/profile", userHandler.Profile)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.PATCH("/update-email", userHandler.UpdateEmail)
	users.PATCH("/update-password", userHandler.UpdatePassword)
	users.DELETE("/delete-account", userHandler.DeleteAccount, studentOnly)

	admin := api.Group("/admin", adminOnly)
	admin.GET("/list-user", userHandler.ListUsers)
	admin.GET("/list-mahasiswa", userHandler.ListStudents)
	admin.GET("/list-administrator", userHandler.ListAdministrators)
	admin.POST("/add", userHandler.AddAdministrator)
	admin.DELETE("/delete-user", userHandler.DeleteUser)
	admin.PATCH("/change-role/:id", userHandler.ChangeRole)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
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
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
