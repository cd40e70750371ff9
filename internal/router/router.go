package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/bernardokeke/fleetlease/internal/config"
	"github.com/bernardokeke/fleetlease/internal/handler"
	"github.com/bernardokeke/fleetlease/internal/middleware"
	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/observability/metrics"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Clients      *handler.ClientHandler
	Vehicles     *handler.VehicleHandler
	VehicleTypes *handler.VehicleTypeHandler
	Contracts    *handler.ContractHandler
	Payments     *handler.PaymentHandler
	Reports      *handler.ReportHandler
	Files        *handler.FileHandler
	SMS          *handler.SMSHandler
}

// Register mounts every route. Open endpoints: health, metrics, login,
// registration, password reset. Everything else sits behind the bearer
// guard; contract/payment mutations and vehicle mutations additionally
// require the ADMIN role.
func Register(e *echo.Echo, cfg config.Config, h Handlers, users middleware.UserResolver, rdb *redis.Client) {
	e.Use(metrics.HTTPMetricsMiddleware)
	e.Use(middleware.TokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	// open endpoints
	e.POST("/v1/auth/login", h.Auth.Login)
	e.POST("/v1/user", h.Users.Create)
	e.POST("/v1/user/reset-password", h.Users.ResetPassword)

	guard := middleware.Guard(cfg.JWTSecret, users)
	admin := middleware.RequireRole(model.RoleAdmin)

	// staff accounts
	user := e.Group("/v1/user", guard)
	user.PUT("/:uuid", h.Users.Update)
	user.GET("/detail/:uuid", h.Users.Detail)
	user.GET("/list", h.Users.List, cache)
	user.GET("/search", h.Users.Search, cache)

	// clients
	client := e.Group("/v1/client", guard)
	client.POST("", h.Clients.Create)
	client.PUT("/:cuid", h.Clients.Update)
	client.PUT("/status/change/:cuid", h.Clients.ChangeStatus)
	client.GET("/detail/:cuid", h.Clients.Detail)
	client.GET("/list", h.Clients.List, cache)
	client.GET("/search", h.Clients.Search, cache)

	// vehicles; mutations are admin-only
	vehicle := e.Group("/v1/vehicle", guard)
	vehicle.POST("", h.Vehicles.Create, admin)
	vehicle.PUT("/:vuid", h.Vehicles.Update, admin)
	vehicle.PUT("/status/change/:vuid", h.Vehicles.ChangeStatus, admin)
	vehicle.DELETE("/:vuid", h.Vehicles.Delete, admin)
	vehicle.GET("/detail/:vuid", h.Vehicles.Detail)
	vehicle.GET("/search/byidentity/:identityNumber", h.Vehicles.DetailByIdentity)
	vehicle.GET("/search/bycode/:code", h.Vehicles.DetailByCode)
	vehicle.GET("/list", h.Vehicles.List, cache)
	vehicle.GET("/search", h.Vehicles.Search, cache)

	// vehicle types
	vtype := e.Group("/v1/vehicle-type", guard)
	vtype.POST("", h.VehicleTypes.Create)
	vtype.GET("/detail/:vtuid", h.VehicleTypes.Detail)
	vtype.DELETE("/:vtuid", h.VehicleTypes.Delete)
	vtype.GET("/list", h.VehicleTypes.List, cache)

	// contracts; admin-only throughout, including listing
	contract := e.Group("/v1/contract", guard, admin)
	contract.POST("", h.Contracts.Create)
	contract.PUT("/:cuid", h.Contracts.Update)
	contract.PUT("/status/change/:cuid", h.Contracts.ChangeStatus)
	contract.DELETE("/:cuid", h.Contracts.Delete)
	contract.GET("/detail/:cuid", h.Contracts.Detail)
	contract.GET("/detail/code/:code", h.Contracts.DetailByCode)
	contract.GET("/list", h.Contracts.List, cache)
	contract.GET("/search", h.Contracts.Search, cache)

	// payments; admin-only throughout
	payment := e.Group("/v1/payment", guard, admin)
	payment.POST("", h.Payments.Add)
	payment.DELETE("/:puid", h.Payments.Cancel)
	payment.GET("/detail/:puid", h.Payments.Detail)
	payment.GET("/list", h.Payments.List, cache)
	payment.GET("/search", h.Payments.Search, cache)

	// reports
	report := e.Group("/v1/report", guard)
	report.GET("/summary", h.Reports.Summary)

	// file relay and sms relay
	file := e.Group("/v1/file", guard)
	file.POST("/upload", h.Files.Upload)
	file.POST("/uploads", h.Files.UploadMany)

	sms := e.Group("/v1/sms", guard, admin)
	sms.POST("/send", h.SMS.Send)
}
