package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/AASani29/NutriAI-sub001/internal/spoilage"
)

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityUrgent   Severity = "URGENT"
	SeverityCritical Severity = "CRITICAL"
)

type AlertType string

const (
	TypeExpiringSoon    AlertType = "EXPIRING_SOON"
	TypeWeatherRisk     AlertType = "WEATHER_RISK"
	TypeAlreadyExpired  AlertType = "ALREADY_EXPIRED"
	TypeHighTemperature AlertType = "HIGH_TEMPERATURE"
	TypeHighHumidity    AlertType = "HIGH_HUMIDITY"
)

type Action string

const (
	ActionCookToday      Action = "COOK_TODAY"
	ActionUseWithin24h   Action = "USE_WITHIN_24H"
	ActionRefrigerate    Action = "REFRIGERATE"
	ActionFreeze         Action = "FREEZE"
	ActionDiscard        Action = "DISCARD"
	ActionCheckFreshness Action = "CHECK_FRESHNESS"
	ActionPlanMeal       Action = "PLAN_MEAL"
)

type WeatherConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Location    string  `json:"location"`
}

// FoodAlert is computed per request and never stored.
type FoodAlert struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	InventoryItemID   uuid.UUID          `json:"inventory_item_id"`
	InventoryID       uuid.UUID          `json:"inventory_id"`
	ItemName          string             `json:"item_name"`
	Category          string             `json:"category"`
	Severity          Severity           `json:"severity"`
	AlertType         AlertType          `json:"alert_type"`
	Message           string             `json:"message"`
	Recommendation    string             `json:"recommendation"`
	Action            Action             `json:"action"`
	RiskScore         float64            `json:"risk_score"`
	RiskLevel         spoilage.RiskLevel `json:"risk_level"`
	SpoilageRate      float64            `json:"spoilage_rate"`
	AdjustedExpiry    time.Time          `json:"adjusted_expiry"`
	DaysUntilExpiry   float64            `json:"days_until_expiry"`
	WeatherConditions WeatherConditions  `json:"weather_conditions"`
	WeatherImpact     string             `json:"weather_impact"`
	IsDismissed       bool               `json:"is_dismissed"`
	CreatedAt         time.Time          `json:"created_at"`
	ExpiresAt         time.Time          `json:"expires_at"`
}

type Stats struct {
	Total    int         `json:"total"`
	Critical int         `json:"critical"`
	Urgent   int         `json:"urgent"`
	Warning  int         `json:"warning"`
	Info     int         `json:"info"`
	TopRisks []FoodAlert `json:"top_risks"`
}

type UrgencyResult struct {
	IsUrgent bool       `json:"is_urgent"`
	Alert    *FoodAlert `json:"alert,omitempty"`
}
