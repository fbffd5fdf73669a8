package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AASani29/NutriAI-sub001/internal/alerts"
	"github.com/AASani29/NutriAI-sub001/internal/data/repos"
	"github.com/AASani29/NutriAI-sub001/internal/data/repos/testutil"
	httpH "github.com/AASani29/NutriAI-sub001/internal/http/handlers"
	"github.com/AASani29/NutriAI-sub001/internal/observability"
	"github.com/AASani29/NutriAI-sub001/internal/services"
	"github.com/AASani29/NutriAI-sub001/internal/spoilage"
	"github.com/AASani29/NutriAI-sub001/internal/weather"
)

type testAPI struct {
	engine   *gin.Engine
	upstream *httptest.Server
	fail     atomic.Bool
	metrics  *observability.Metrics
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api := &testAPI{metrics: observability.NewMetrics()}

	api.upstream = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if api.fail.Load() {
			nethttp.Error(w, "unavailable", nethttp.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"current":{"temperature_2m":38,"relative_humidity_2m":90,"weather_code":95}}`)
	}))
	t.Cleanup(api.upstream.Close)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	invRepo := repos.NewInventoryRepo(db, log)
	itemRepo := repos.NewInventoryItemRepo(db, log)

	ws, err := weather.NewService(log, weather.Config{BaseURL: api.upstream.URL, Timeout: 2 * time.Second}, weather.NewMemoryCache(0))
	if err != nil {
		t.Fatalf("weather.NewService: %v", err)
	}
	alertSvc := alerts.NewService(log, itemRepo, invRepo, ws, spoilage.NewCalculator(nil, nil), alerts.Config{})
	invSvc := services.NewInventoryService(db, log, invRepo, itemRepo)

	api.engine = NewRouter(RouterConfig{
		Log:              log,
		Metrics:          api.metrics,
		HealthHandler:    httpH.NewHealthHandler(db),
		WeatherHandler:   httpH.NewWeatherHandler(ws),
		AlertHandler:     httpH.NewAlertHandler(alertSvc),
		InventoryHandler: httpH.NewInventoryHandler(invSvc),
	})
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d want %d (%s)", rec.Code, status, rec.Body.String())
	}
	if got := decode[errorBody](t, rec).Error.Code; got != code {
		t.Fatalf("code = %q want %q", got, code)
	}
}

func TestWeatherRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, nethttp.MethodGet, "/healthcheck", nil)
	if rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, nethttp.MethodGet, "/api/weather/locations", nil)
	locs := decode[struct {
		Locations []weather.Location `json:"locations"`
	}](t, rec)
	if len(locs.Locations) != 5 {
		t.Fatalf("expected 5 locations, got %d", len(locs.Locations))
	}

	rec = api.do(t, nethttp.MethodGet, "/api/weather?location=sylhet", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("weather: %d %s", rec.Code, rec.Body.String())
	}
	got := decode[struct {
		Weather weather.Snapshot `json:"weather"`
	}](t, rec)
	if got.Weather.Location != "SYLHET" || got.Weather.Temperature != 38 || got.Weather.Description != "Thunderstorm" {
		t.Fatalf("unexpected snapshot %+v", got.Weather)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing X-Request-Id header")
	}

	expectError(t, api.do(t, nethttp.MethodGet, "/api/weather?location=ATLANTIS", nil), nethttp.StatusBadRequest, "INVALID_LOCATION")
	expectError(t, api.do(t, nethttp.MethodGet, "/api/weather?refresh=maybe", nil), nethttp.StatusBadRequest, "INVALID_ARGUMENT")

	api.fail.Store(true)
	expectError(t, api.do(t, nethttp.MethodGet, "/api/weather?location=KHULNA", nil), nethttp.StatusBadGateway, "UPSTREAM_FETCH_FAILED")

	// SYLHET is cached and still within its TTL, so a forced refresh during the
	// outage serves the cached reading without flagging it stale.
	rec = api.do(t, nethttp.MethodGet, "/api/weather?location=SYLHET&refresh=true", nil)
	cached := decode[struct {
		Weather weather.Snapshot `json:"weather"`
	}](t, rec)
	if rec.Code != nethttp.StatusOK || cached.Weather.Stale || !cached.Weather.FetchedAt.Equal(got.Weather.FetchedAt) {
		t.Fatalf("expected the cached snapshot, got %d %+v", rec.Code, cached.Weather)
	}

	rec = api.do(t, nethttp.MethodGet, "/metrics", nil)
	if rec.Code != nethttp.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`route="/api/weather"`)) {
		t.Fatalf("metrics route: %d %s", rec.Code, rec.Body.String())
	}
}

func TestInventoryAndAlertRoutes(t *testing.T) {
	api := newTestAPI(t)
	user := uuid.New()
	base := "/api/users/" + user.String()

	rec := api.do(t, nethttp.MethodPost, base+"/inventories", map[string]any{"name": "Fridge", "location": "dhaka"})
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("create inventory: %d %s", rec.Code, rec.Body.String())
	}
	inv := decode[struct {
		Inventory struct {
			ID       uuid.UUID `json:"id"`
			Location string    `json:"location"`
		} `json:"inventory"`
	}](t, rec).Inventory
	if inv.Location != "DHAKA" {
		t.Fatalf("location not normalized: %q", inv.Location)
	}

	expiry := time.Now().Add(24 * time.Hour).UTC()
	rec = api.do(t, nethttp.MethodPost, fmt.Sprintf("%s/inventories/%s/items", base, inv.ID), map[string]any{
		"name":        "Hilsa Fish",
		"quantity":    1,
		"unit":        "kg",
		"expiry_date": expiry,
	})
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("add item: %d %s", rec.Code, rec.Body.String())
	}
	item := decode[struct {
		Item struct {
			ID uuid.UUID `json:"id"`
		} `json:"item"`
	}](t, rec).Item

	rec = api.do(t, nethttp.MethodGet, fmt.Sprintf("%s/inventories/%s/items", base, inv.ID), nil)
	if rec.Code != nethttp.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("Hilsa Fish")) {
		t.Fatalf("list items: %d %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, nethttp.MethodGet, base+"/alerts", nil)
	list := decode[struct {
		Alerts []alerts.FoodAlert `json:"alerts"`
		Count  int                `json:"count"`
	}](t, rec)
	if rec.Code != nethttp.StatusOK || list.Count != 1 || list.Alerts[0].ItemName != "Hilsa Fish" {
		t.Fatalf("user alerts: %d %s", rec.Code, rec.Body.String())
	}
	if list.Alerts[0].WeatherConditions.Location != "DHAKA" {
		t.Fatalf("alert weather location = %q", list.Alerts[0].WeatherConditions.Location)
	}

	rec = api.do(t, nethttp.MethodGet, fmt.Sprintf("%s/inventories/%s/alerts", base, inv.ID), nil)
	if rec.Code != nethttp.StatusOK || decode[struct {
		Count int `json:"count"`
	}](t, rec).Count != 1 {
		t.Fatalf("inventory alerts: %d %s", rec.Code, rec.Body.String())
	}
	expectError(t, api.do(t, nethttp.MethodGet, fmt.Sprintf("/api/users/%s/inventories/%s/alerts", uuid.New(), inv.ID), nil),
		nethttp.StatusNotFound, "INVENTORY_NOT_FOUND")

	rec = api.do(t, nethttp.MethodGet, base+"/alerts/stats", nil)
	stats := decode[struct {
		Stats alerts.Stats `json:"stats"`
	}](t, rec).Stats
	if stats.Total != 1 || len(stats.TopRisks) != 1 {
		t.Fatalf("stats: %s", rec.Body.String())
	}

	rec = api.do(t, nethttp.MethodGet, "/api/items/"+item.ID.String()+"/urgency", nil)
	urgency := decode[struct {
		Urgency alerts.UrgencyResult `json:"urgency"`
	}](t, rec).Urgency
	if rec.Code != nethttp.StatusOK || !urgency.IsUrgent || urgency.Alert == nil {
		t.Fatalf("urgency: %d %s", rec.Code, rec.Body.String())
	}

	expectError(t, api.do(t, nethttp.MethodGet, "/api/users/not-a-uuid/alerts", nil), nethttp.StatusBadRequest, "INVALID_ARGUMENT")
	expectError(t, api.do(t, nethttp.MethodGet, base+"/alerts?location=ATLANTIS", nil), nethttp.StatusBadRequest, "INVALID_LOCATION")
	expectError(t, api.do(t, nethttp.MethodPost, base+"/inventories", map[string]any{"name": ""}), nethttp.StatusBadRequest, "INVALID_ARGUMENT")

	rec = api.do(t, nethttp.MethodDelete, fmt.Sprintf("%s/items/%s", base, item.ID), nil)
	if rec.Code != nethttp.StatusNoContent {
		t.Fatalf("delete item: %d %s", rec.Code, rec.Body.String())
	}
	expectError(t, api.do(t, nethttp.MethodDelete, fmt.Sprintf("%s/items/%s", base, item.ID), nil), nethttp.StatusNotFound, "ITEM_NOT_FOUND")
	expectError(t, api.do(t, nethttp.MethodGet, "/api/items/"+item.ID.String()+"/urgency", nil), nethttp.StatusNotFound, "ITEM_NOT_FOUND")
}
