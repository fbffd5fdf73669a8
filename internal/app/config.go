package app

import (
	"strings"

	"github.com/AASani29/NutriAI-sub001/internal/data/db"
	"github.com/AASani29/NutriAI-sub001/internal/platform/envutil"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
	"github.com/AASani29/NutriAI-sub001/internal/weather"
)

type Config struct {
	Port             string
	Environment      string
	Version          string
	CORSOrigins      []string
	AlertConcurrency int

	DB      db.Config
	Weather weather.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:             envutil.String("PORT", "8080", log),
		Environment:      envutil.String("APP_ENV", "development", log),
		Version:          envutil.String("APP_VERSION", "dev", log),
		CORSOrigins:      splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		AlertConcurrency: envutil.Int("ALERT_CONCURRENCY", 8, log),
		DB:               db.LoadConfig(log),
		Weather:          weather.ConfigFromEnv(log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
