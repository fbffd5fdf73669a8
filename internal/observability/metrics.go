package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/AASani29/NutriAI-sub001/internal/platform/envutil"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

// Metrics is nil when METRICS_ENABLED is off; every method is nil-safe.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	weatherFetch  *CounterVec
	weatherLat    *HistogramVec
	alertPasses   *CounterVec
	alertsEmitted *CounterVec
	alertItems    *HistogramVec
	dbStats       *GaugeVec
	redisUp       *Gauge
	redisPing     *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false, nil)
}

// Current returns the process-wide metrics, or nil before Init.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds an unregistered set; Init is the normal entry point.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("nutriai_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"nutriai_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight:  NewGauge("nutriai_api_inflight_requests", "In-flight API requests."),
		weatherFetch: NewCounterVec("nutriai_weather_lookups_total", "Weather lookups by location and outcome.", []string{"location", "outcome"}),
		weatherLat: NewHistogramVec(
			"nutriai_weather_upstream_duration_seconds",
			"Forecast API latency in seconds.",
			[]string{"status"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		alertPasses:   NewCounterVec("nutriai_alert_passes_total", "Alert generation passes by scope and status.", []string{"scope", "status"}),
		alertsEmitted: NewCounterVec("nutriai_alerts_emitted_total", "Alerts produced by severity.", []string{"severity"}),
		alertItems: NewHistogramVec(
			"nutriai_alert_pass_items",
			"Items evaluated per alert pass.",
			[]string{"scope"},
			[]float64{1, 5, 10, 25, 50, 100, 250, 500},
		),
		dbStats:   NewGaugeVec("nutriai_db_stats", "Database connection pool stats.", []string{"metric"}),
		redisUp:   NewGauge("nutriai_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing: NewGauge("nutriai_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.weatherFetch, m.weatherLat,
		m.alertPasses, m.alertsEmitted, m.alertItems,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// ObserveWeatherLookup records one GetCurrentWeather outcome: hit, fetched, stale or failed.
func (m *Metrics) ObserveWeatherLookup(location, outcome string) {
	if m == nil {
		return
	}
	m.weatherFetch.Inc(location, outcome)
}

func (m *Metrics) ObserveWeatherUpstream(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.weatherLat.Observe(dur.Seconds(), status)
}

// ObserveAlertPass records one generation pass and the severities it produced.
func (m *Metrics) ObserveAlertPass(scope, status string, items int, severities []string) {
	if m == nil {
		return
	}
	m.alertPasses.Inc(scope, status)
	if status != "ok" {
		return
	}
	m.alertItems.Observe(float64(items), scope)
	for _, s := range severities {
		m.alertsEmitted.Inc(s)
	}
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	interval := scrapeInterval()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL_SECONDS", 10, time.Second, nil)
}
