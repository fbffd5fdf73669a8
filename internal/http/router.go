package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/AASani29/NutriAI-sub001/internal/http/handlers"
	httpMW "github.com/AASani29/NutriAI-sub001/internal/http/middleware"
	"github.com/AASani29/NutriAI-sub001/internal/observability"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	HealthHandler    *httpH.HealthHandler
	WeatherHandler   *httpH.WeatherHandler
	AlertHandler     *httpH.AlertHandler
	InventoryHandler *httpH.InventoryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "nutriai"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Weather
		if cfg.WeatherHandler != nil {
			api.GET("/weather", cfg.WeatherHandler.GetCurrent)
			api.GET("/weather/locations", cfg.WeatherHandler.ListLocations)
		}

		// Alerts
		if cfg.AlertHandler != nil {
			api.GET("/users/:userId/alerts", cfg.AlertHandler.ListUserAlerts)
			api.GET("/users/:userId/alerts/stats", cfg.AlertHandler.GetStats)
			api.GET("/users/:userId/inventories/:inventoryId/alerts", cfg.AlertHandler.ListInventoryAlerts)
			api.GET("/items/:itemId/urgency", cfg.AlertHandler.CheckItemUrgency)
		}

		// Inventory
		if cfg.InventoryHandler != nil {
			api.POST("/users/:userId/inventories", cfg.InventoryHandler.CreateInventory)
			api.GET("/users/:userId/inventories", cfg.InventoryHandler.ListInventories)
			api.POST("/users/:userId/inventories/:inventoryId/items", cfg.InventoryHandler.AddItem)
			api.GET("/users/:userId/inventories/:inventoryId/items", cfg.InventoryHandler.ListItems)
			api.DELETE("/users/:userId/items/:itemId", cfg.InventoryHandler.RemoveItem)
		}
	}

	return r
}
