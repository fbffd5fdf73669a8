package app

import (
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/AASani29/NutriAI-sub001/internal/alerts"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
	"github.com/AASani29/NutriAI-sub001/internal/services"
	"github.com/AASani29/NutriAI-sub001/internal/spoilage"
	"github.com/AASani29/NutriAI-sub001/internal/weather"
)

type Services struct {
	Weather   weather.Service
	Alerts    alerts.Service
	Inventory services.InventoryService

	// closers are released in reverse order by App.Close.
	closers []io.Closer
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")
	var out Services

	cache, err := wireWeatherCache(log, cfg.Weather)
	if err != nil {
		return out, err
	}
	if c, ok := cache.(io.Closer); ok {
		out.closers = append(out.closers, c)
	}

	out.Weather, err = weather.NewService(log, cfg.Weather, cache)
	if err != nil {
		return out, fmt.Errorf("init weather service: %w", err)
	}

	categories, err := spoilage.LoadCategories(log)
	if err != nil {
		return out, fmt.Errorf("load food categories: %w", err)
	}
	calc := spoilage.NewCalculator(categories, nil)

	out.Alerts = alerts.NewService(log, repos.InventoryItem, repos.Inventory, out.Weather, calc, alerts.Config{
		Concurrency: cfg.AlertConcurrency,
	})
	out.Inventory = services.NewInventoryService(db, log, repos.Inventory, repos.InventoryItem)
	return out, nil
}

// wireWeatherCache shares snapshots through Redis when REDIS_ADDR is set.
func wireWeatherCache(log *logger.Logger, cfg weather.Config) (weather.Cache, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("Weather cache: in-memory")
		return weather.NewMemoryCache(cfg.StaleRetention), nil
	}
	cache, err := weather.NewRedisCache(log, cfg.RedisAddr, cfg.StaleRetention)
	if err != nil {
		return nil, fmt.Errorf("init redis weather cache: %w", err)
	}
	log.Info("Weather cache: redis", "addr", cfg.RedisAddr)
	return cache, nil
}
