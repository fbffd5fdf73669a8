package app

import (
	"gorm.io/gorm"

	"github.com/AASani29/NutriAI-sub001/internal/http"
	httpH "github.com/AASani29/NutriAI-sub001/internal/http/handlers"
	"github.com/AASani29/NutriAI-sub001/internal/observability"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Weather   *httpH.WeatherHandler
	Alert     *httpH.AlertHandler
	Inventory *httpH.InventoryHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Weather:   httpH.NewWeatherHandler(services.Weather),
		Alert:     httpH.NewAlertHandler(services.Alerts),
		Inventory: httpH.NewInventoryHandler(services.Inventory),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *http.Server {
	return http.NewServer(":"+cfg.Port, http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		Metrics:          metrics,
		HealthHandler:    handlers.Health,
		WeatherHandler:   handlers.Weather,
		AlertHandler:     handlers.Alert,
		InventoryHandler: handlers.Inventory,
	})
}
