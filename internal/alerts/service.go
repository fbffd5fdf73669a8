package alerts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AASani29/NutriAI-sub001/internal/data/repos"
	types "github.com/AASani29/NutriAI-sub001/internal/domain"
	"github.com/AASani29/NutriAI-sub001/internal/observability"
	"github.com/AASani29/NutriAI-sub001/internal/pkg/dbctx"
	pkgerrors "github.com/AASani29/NutriAI-sub001/internal/pkg/errors"
	"github.com/AASani29/NutriAI-sub001/internal/platform/apierr"
	"github.com/AASani29/NutriAI-sub001/internal/platform/ctxutil"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
	"github.com/AASani29/NutriAI-sub001/internal/spoilage"
	"github.com/AASani29/NutriAI-sub001/internal/weather"
)

const (
	tracerName = "github.com/AASani29/NutriAI-sub001/internal/alerts"

	// ListThreshold is the minimum score for an item to be listed at all.
	ListThreshold = 25.0
	// UrgentThreshold is stricter: it answers whether one item needs attention now.
	UrgentThreshold = 50.0

	recentlyExpiredWindow = 7 * 24 * time.Hour
	alertTTL              = 24 * time.Hour
	topRiskCount          = 5
	defaultConcurrency    = 8
)

type Service interface {
	GenerateForUser(ctx context.Context, userID uuid.UUID, location string) ([]FoodAlert, error)
	GenerateForInventory(ctx context.Context, userID, inventoryID uuid.UUID, location string) ([]FoodAlert, error)
	CheckItemUrgency(ctx context.Context, itemID uuid.UUID, location string) (*UrgencyResult, error)
	Statistics(ctx context.Context, userID uuid.UUID, location string) (*Stats, error)
}

// WeatherSource is the slice of weather.Service the generator needs.
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, location string, forceRefresh bool) (*weather.Snapshot, error)
}

type Config struct {
	Concurrency int
	Now         func() time.Time
}

type service struct {
	log         *logger.Logger
	items       repos.InventoryItemRepo
	inventories repos.InventoryRepo
	weather     WeatherSource
	calc        *spoilage.Calculator
	concurrency int
	now         func() time.Time
}

func NewService(
	log *logger.Logger,
	items repos.InventoryItemRepo,
	inventories repos.InventoryRepo,
	weatherSource WeatherSource,
	calc *spoilage.Calculator,
	cfg Config,
) Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if calc == nil {
		calc = spoilage.NewCalculator(nil, cfg.Now)
	}
	return &service{
		log:         log.With("service", "AlertService"),
		items:       items,
		inventories: inventories,
		weather:     weatherSource,
		calc:        calc,
		concurrency: cfg.Concurrency,
		now:         cfg.Now,
	}
}

func (s *service) GenerateForUser(ctx context.Context, userID uuid.UUID, location string) (out []FoodAlert, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctxutil.Default(ctx), "alerts.GenerateForUser")
	defer span.End()
	evaluated := 0
	defer func() { observePass("user", evaluated, out, err) }()

	snap, err := s.weather.GetCurrentWeather(ctx, location, false)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	items, err := s.items.ListActiveByUser(dbctx.Context{Ctx: ctx}, userID, s.now().Add(-recentlyExpiredWindow))
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	evaluated = len(items)
	out, err = s.evaluate(ctx, items, snap)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	span.SetAttributes(attribute.Int("alerts.items", len(items)), attribute.Int("alerts.count", len(out)))
	s.log.Info("Generated alerts", append(ctxutil.LogFields(ctx),
		"user_id", userID.String(), "location", snap.Location, "items", len(items), "alerts", len(out), "stale_weather", snap.Stale)...)
	return out, nil
}

func (s *service) GenerateForInventory(ctx context.Context, userID, inventoryID uuid.UUID, location string) (out []FoodAlert, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctxutil.Default(ctx), "alerts.GenerateForInventory")
	defer span.End()
	evaluated := 0
	defer func() { observePass("inventory", evaluated, out, err) }()

	dbc := dbctx.Context{Ctx: ctx}
	inv, err := s.inventories.GetByID(dbc, inventoryID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			err = apierr.NotFound(apierr.CodeInventoryNotFound, err)
		}
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	if inv.OwnerUserID != userID {
		err = apierr.NotFound(apierr.CodeInventoryNotFound, fmt.Errorf("inventory %s: %w", inventoryID, pkgerrors.ErrNotFound))
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}

	// An inventory kept somewhere specific is scored against that location's weather.
	if strings.TrimSpace(location) == "" {
		location = inv.Location
	}
	snap, err := s.weather.GetCurrentWeather(ctx, location, false)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	items, err := s.items.ListActiveByInventory(dbc, inventoryID, s.now().Add(-recentlyExpiredWindow))
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	evaluated = len(items)
	out, err = s.evaluate(ctx, items, snap)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to generate alerts: %w", err))
	}
	span.SetAttributes(attribute.Int("alerts.items", len(items)), attribute.Int("alerts.count", len(out)))
	return out, nil
}

func (s *service) CheckItemUrgency(ctx context.Context, itemID uuid.UUID, location string) (*UrgencyResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctxutil.Default(ctx), "alerts.CheckItemUrgency")
	defer span.End()

	item, err := s.items.GetByID(dbctx.Context{Ctx: ctx}, itemID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			err = apierr.NotFound(apierr.CodeItemNotFound, err)
		}
		return nil, failSpan(span, fmt.Errorf("failed to check item urgency: %w", err))
	}
	if item.ExpiryDate == nil {
		return &UrgencyResult{IsUrgent: false}, nil
	}
	snap, err := s.weather.GetCurrentWeather(ctx, location, false)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("failed to check item urgency: %w", err))
	}
	alert := s.build(item, snap)
	if alert.RiskScore < UrgentThreshold {
		return &UrgencyResult{IsUrgent: false}, nil
	}
	return &UrgencyResult{IsUrgent: true, Alert: &alert}, nil
}

func (s *service) Statistics(ctx context.Context, userID uuid.UUID, location string) (*Stats, error) {
	list, err := s.GenerateForUser(ctx, userID, location)
	if err != nil {
		return nil, err
	}
	return Summarize(list), nil
}

// Summarize counts alerts per severity. list must already be sorted by risk.
func Summarize(list []FoodAlert) *Stats {
	stats := &Stats{Total: len(list), TopRisks: []FoodAlert{}}
	for _, a := range list {
		switch a.Severity {
		case SeverityCritical:
			stats.Critical++
		case SeverityUrgent:
			stats.Urgent++
		case SeverityWarning:
			stats.Warning++
		default:
			stats.Info++
		}
	}
	n := len(list)
	if n > topRiskCount {
		n = topRiskCount
	}
	stats.TopRisks = append(stats.TopRisks, list[:n]...)
	return stats
}

func (s *service) evaluate(ctx context.Context, items []*types.InventoryItem, snap *weather.Snapshot) ([]FoodAlert, error) {
	results := make([]*FoodAlert, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		if item == nil || item.ExpiryDate == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			alert := s.build(item, snap)
			if alert.RiskScore >= ListThreshold {
				results[i] = &alert
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]FoodAlert, 0, len(results))
	for _, a := range results {
		if a != nil {
			out = append(out, *a)
		}
	}
	SortByRisk(out)
	return out, nil
}

// SortByRisk orders by score descending, then item name, then item id.
func SortByRisk(list []FoodAlert) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].RiskScore != list[j].RiskScore {
			return list[i].RiskScore > list[j].RiskScore
		}
		if list[i].ItemName != list[j].ItemName {
			return list[i].ItemName < list[j].ItemName
		}
		return list[i].InventoryItemID.String() < list[j].InventoryItemID.String()
	})
}

func (s *service) build(item *types.InventoryItem, snap *weather.Snapshot) FoodAlert {
	w := WeatherConditions{Temperature: snap.Temperature, Humidity: snap.Humidity, Location: snap.Location}
	res := s.calc.Calculate(item.Name, *item.ExpiryDate, item.AddedAt, spoilage.Conditions{
		TemperatureC: snap.Temperature,
		HumidityPct:  snap.Humidity,
		Location:     snap.Location,
	})

	days := res.UrgencyDays()
	alertType := TypeFor(res.RiskLevel, days, w.Temperature, w.Humidity)
	action := ActionFor(res.RiskLevel, days, res.SpoilageRate)
	now := s.now()
	return FoodAlert{
		ID:                uuid.New(),
		UserID:            item.UserID,
		InventoryItemID:   item.ID,
		InventoryID:       item.InventoryID,
		ItemName:          item.Name,
		Category:          res.Category,
		Severity:          SeverityFor(res.RiskLevel),
		AlertType:         alertType,
		Message:           MessageFor(alertType, item.Name, res, w),
		Recommendation:    RecommendationFor(action, res),
		Action:            action,
		RiskScore:         res.RiskScore,
		RiskLevel:         res.RiskLevel,
		SpoilageRate:      res.SpoilageRate,
		AdjustedExpiry:    res.AdjustedExpiry,
		DaysUntilExpiry:   days,
		WeatherConditions: w,
		WeatherImpact:     res.WeatherImpact,
		CreatedAt:         now,
		ExpiresAt:         now.Add(alertTTL),
	}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func observePass(scope string, evaluated int, out []FoodAlert, err error) {
	m := observability.Current()
	if m == nil {
		return
	}
	if err != nil {
		m.ObserveAlertPass(scope, "error", evaluated, nil)
		return
	}
	severities := make([]string, 0, len(out))
	for _, a := range out {
		severities = append(severities, string(a.Severity))
	}
	m.ObserveAlertPass(scope, "ok", evaluated, severities)
}
