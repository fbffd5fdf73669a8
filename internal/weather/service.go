package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/AASani29/NutriAI-sub001/internal/observability"
	"github.com/AASani29/NutriAI-sub001/internal/platform/apierr"
	"github.com/AASani29/NutriAI-sub001/internal/platform/ctxutil"
	"github.com/AASani29/NutriAI-sub001/internal/platform/envutil"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

const tracerName = "github.com/AASani29/NutriAI-sub001/internal/weather"

type Service interface {
	GetCurrentWeather(ctx context.Context, location string, forceRefresh bool) (*Snapshot, error)
	Locations() []Location
}

type Config struct {
	BaseURL         string
	TTL             time.Duration
	Timeout         time.Duration
	DefaultLocation string
	StaleRetention  time.Duration
	RedisAddr       string
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		BaseURL:         envutil.String("WEATHER_BASE_URL", "https://api.open-meteo.com", log),
		TTL:             envutil.Duration("WEATHER_CACHE_TTL_MINUTES", 30, time.Minute, log),
		Timeout:         envutil.Duration("WEATHER_TIMEOUT_SECONDS", 10, time.Second, log),
		DefaultLocation: envutil.String("WEATHER_DEFAULT_LOCATION", "DHAKA", log),
		StaleRetention:  envutil.Duration("WEATHER_STALE_RETENTION_HOURS", 24, time.Hour, log),
		RedisAddr:       envutil.String("REDIS_ADDR", "", log),
	}
}

type service struct {
	log        *logger.Logger
	cfg        Config
	cache      Cache
	httpClient *http.Client
	now        func() time.Time
	group      singleflight.Group
}

// Option tweaks a Service at construction, mostly for tests.
type Option func(*service)

func WithHTTPClient(c *http.Client) Option {
	return func(s *service) {
		if c != nil {
			s.httpClient = c
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(log *logger.Logger, cfg Config, cache Cache, opts ...Option) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cache == nil {
		return nil, fmt.Errorf("weather cache required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.open-meteo.com"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.DefaultLocation) == "" {
		cfg.DefaultLocation = "DHAKA"
	}
	if _, err := ResolveLocation(cfg.DefaultLocation); err != nil {
		return nil, fmt.Errorf("default location: %w", err)
	}

	s := &service{
		log:        log.With("service", "WeatherService"),
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Locations() []Location { return SupportedLocations() }

func (s *service) GetCurrentWeather(ctx context.Context, location string, forceRefresh bool) (*Snapshot, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctxutil.Default(ctx), "weather.GetCurrentWeather")
	defer span.End()

	if strings.TrimSpace(location) == "" {
		location = s.cfg.DefaultLocation
	}
	loc, err := ResolveLocation(location)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, apierr.BadRequest(apierr.CodeInvalidLocation, err)
	}
	key := CacheKey(loc.Latitude, loc.Longitude)
	span.SetAttributes(
		attribute.String("weather.location", loc.Name),
		attribute.String("weather.cache_key", key),
		attribute.Bool("weather.force_refresh", forceRefresh),
	)

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("weather cache read failed", append(ctxutil.LogFields(ctx), "key", key, "error", err)...)
		cached, found = nil, false
	}
	metrics := observability.Current()
	if found && !forceRefresh && s.now().Before(cached.ExpiresAt) {
		span.SetAttributes(attribute.Bool("weather.cache_hit", true))
		metrics.ObserveWeatherLookup(metricLocation(loc), "hit")
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("weather.cache_hit", false))

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Detached so one caller's cancellation does not fail the others sharing this fetch.
		dctx := context.WithoutCancel(ctx)
		snap, ferr := s.fetch(dctx, loc)
		if ferr != nil {
			return nil, ferr
		}
		if serr := s.cache.Set(dctx, key, snap); serr != nil {
			s.log.Warn("weather cache write failed", "key", key, "error", serr)
		}
		return snap, nil
	})
	if err != nil {
		if found {
			// Stale only once the reading is past its TTL.
			out := cached.clone()
			out.Stale = !s.now().Before(cached.ExpiresAt)
			s.log.Warn("weather upstream failed, serving cached snapshot",
				append(ctxutil.LogFields(ctx), "location", loc.Name, "fetched_at", cached.FetchedAt, "stale", out.Stale, "error", err)...)
			span.SetAttributes(attribute.Bool("weather.stale", out.Stale))
			outcome := "hit"
			if out.Stale {
				outcome = "stale"
			}
			metrics.ObserveWeatherLookup(metricLocation(loc), outcome)
			return out, nil
		}
		span.SetStatus(codes.Error, err.Error())
		metrics.ObserveWeatherLookup(metricLocation(loc), "failed")
		return nil, apierr.New(http.StatusBadGateway, apierr.CodeUpstreamFetchFailed,
			fmt.Errorf("%w for %s: %v", ErrUpstreamFetch, loc.Name, err))
	}
	metrics.ObserveWeatherLookup(metricLocation(loc), "fetched")
	return v.(*Snapshot).clone(), nil
}

// metricLocation folds ad-hoc coordinates into one label value.
func metricLocation(loc Location) string {
	if strings.Contains(loc.Name, ",") {
		return "coordinates"
	}
	return loc.Name
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

func (s *service) fetch(ctx context.Context, loc Location) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	q.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	endpoint := s.cfg.BaseURL + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		observability.Current().ObserveWeatherUpstream("error", time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.Current().ObserveWeatherUpstream(strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	fetchedAt := s.now()
	s.log.Debug("weather fetched",
		"location", loc.Name,
		"temperature", out.Current.Temperature,
		"humidity", out.Current.Humidity,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Snapshot{
		Location:    loc.Name,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Temperature: out.Current.Temperature,
		Humidity:    out.Current.Humidity,
		WeatherCode: out.Current.WeatherCode,
		Description: DescribeCode(out.Current.WeatherCode),
		FetchedAt:   fetchedAt,
		ExpiresAt:   fetchedAt.Add(s.cfg.TTL),
	}, nil
}
