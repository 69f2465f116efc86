// internal/api/v2/api.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/lavosystem/lavo-go/internal/conf"
	"github.com/lavosystem/lavo-go/internal/datastore"
	"github.com/lavosystem/lavo-go/internal/errors"
	"github.com/lavosystem/lavo-go/internal/logging"
	"github.com/lavosystem/lavo-go/internal/observability"
	"github.com/lavosystem/lavo-go/internal/security"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings
	Tokens   *security.TokenService

	kpiCache *cache.Cache           // cache for assembled KPI responses
	metrics  *observability.Metrics // shared metrics instance, may be nil

	apiLogger      *slog.Logger // structured logger for API operations
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error

	// now is the aggregator's clock; injectable for deterministic
	// time-window tests.
	now func() time.Time
}

// New creates a new API controller, registering all routes on the /api group.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	tokens *security.TokenService, metrics *observability.Metrics) (*Controller, error) {

	ttl := settings.Dashboard.KPICacheTTL

	c := &Controller{
		Echo:     e,
		Group:    e.Group("/api"),
		DS:       ds,
		Settings: settings,
		Tokens:   tokens,
		kpiCache: cache.New(ttl, 2*ttl),
		metrics:  metrics,
		now:      time.Now,
	}

	c.apiLevelVar = new(slog.LevelVar)
	if settings.WebServer.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	} else {
		c.apiLevelVar.Set(slog.LevelInfo)
	}

	apiLogger, closeFunc, err := logging.NewFileLogger("logs/api.log", "api", c.apiLevelVar)
	if err != nil {
		// Fall back to the default logger rather than failing startup.
		slog.Warn("Failed to initialize API file logger, using default logger", "error", err)
		c.apiLogger = slog.Default().With("service", "api")
		c.apiLoggerClose = func() error { return nil }
	} else {
		c.apiLogger = apiLogger
		c.apiLoggerClose = closeFunc
	}

	c.initRoutes()
	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	// Dashboard analytics
	dashboardGroup := c.Group.Group("/dashboard")
	dashboardGroup.GET("/kpis", c.GetDashboardKPIs)

	// Stores
	storesGroup := c.Group.Group("/stores")
	storesGroup.GET("", c.GetStores)
	storesGroup.POST("", c.CreateStore)
	storesGroup.PUT("/:id", c.UpdateStore)
	storesGroup.DELETE("/:id", c.DeleteStore)

	// Devices
	devicesGroup := c.Group.Group("/devices")
	devicesGroup.GET("", c.GetDevices)
	devicesGroup.POST("", c.CreateDevice)
	devicesGroup.PUT("/:id", c.UpdateDevice)
	devicesGroup.DELETE("/:id", c.DeleteDevice)
	devicesGroup.PUT("/:id/status", c.UpdateDeviceStatus)

	// Customers
	customersGroup := c.Group.Group("/customers")
	customersGroup.GET("", c.GetCustomers)
	customersGroup.POST("", c.CreateCustomer)
	customersGroup.PUT("/:id", c.UpdateCustomer)
	customersGroup.DELETE("/:id", c.DeleteCustomer)

	// Access events
	accessGroup := c.Group.Group("/access")
	accessGroup.GET("", c.GetAccesses)
	accessGroup.POST("", c.RecordAccess)

	// Technician actions
	c.Group.POST("/technician/link", c.LinkDevice)

	// System configuration
	systemGroup := c.Group.Group("/system")
	systemGroup.GET("/config", c.GetSystemConfig)
	systemGroup.PUT("/config", c.UpdateSystemConfig)

	// Authentication
	authGroup := c.Group.Group("/auth")
	authGroup.POST("/register", c.Register)
	authGroup.POST("/login", c.Login)
	authGroup.POST("/recover", c.RecoverPassword)
	authGroup.POST("/reset", c.ResetPassword)
	authGroup.GET("/users", c.GetUsers, c.RequireAuth())
}

// Shutdown closes resources held by the controller.
func (c *Controller) Shutdown() {
	if c.kpiCache != nil {
		c.kpiCache.Flush()
	}
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			slog.Warn("Failed to close API log file", "error", err)
		}
	}
}

// InvalidateKPICache drops all cached KPI responses. Mutating handlers
// call this so the dashboard reflects writes within one cache interval.
func (c *Controller) InvalidateKPICache() {
	c.kpiCache.Flush()
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error         string `json:"error"`
	Details       string `json:"details,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// HandleError logs the error and returns the standard error payload.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := ErrorResponse{
		Error:         message,
		CorrelationID: uuid.NewString(),
	}
	if err != nil {
		resp.Details = err.Error()
	}

	c.apiLogger.Error("API error",
		"correlation_id", resp.CorrelationID,
		"message", message,
		"error", resp.Details,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, resp)
}

// statusForError picks the HTTP status for a datastore error: 404 for
// missing rows, 500 otherwise.
func statusForError(err error) int {
	if errors.Category(err) == errors.CategoryNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Debug logs debug messages when web server debug mode is enabled
func (c *Controller) Debug(msg string, args ...any) {
	if c.Settings.WebServer.Debug {
		c.apiLogger.Debug(msg, args...)
	}
}
