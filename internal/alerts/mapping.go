package alerts

import (
	"fmt"
	"math"
	"strings"

	"github.com/AASani29/NutriAI-sub001/internal/spoilage"
)

const (
	hotAlertC       = 30.0
	humidAlertPct   = 80.0
	expiringSoonDay = 3.0
	refrigerateRate = 1.2
)

func SeverityFor(level spoilage.RiskLevel) Severity {
	switch level {
	case spoilage.RiskCritical:
		return SeverityCritical
	case spoilage.RiskHigh:
		return SeverityUrgent
	case spoilage.RiskMedium:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// TypeFor applies the rules in priority order: expiry first, then weather
// extremes for HIGH and CRITICAL items, then proximity to expiry.
func TypeFor(level spoilage.RiskLevel, daysUntilExpiry, temperature, humidity float64) AlertType {
	severe := level.Rank() >= spoilage.RiskHigh.Rank()
	switch {
	case daysUntilExpiry < 0:
		return TypeAlreadyExpired
	case severe && temperature > hotAlertC:
		return TypeHighTemperature
	case severe && humidity > humidAlertPct:
		return TypeHighHumidity
	case daysUntilExpiry <= expiringSoonDay:
		return TypeExpiringSoon
	default:
		return TypeWeatherRisk
	}
}

func ActionFor(level spoilage.RiskLevel, daysUntilExpiry, rate float64) Action {
	if daysUntilExpiry < 0 {
		return ActionDiscard
	}
	switch level {
	case spoilage.RiskCritical:
		return ActionCookToday
	case spoilage.RiskHigh:
		switch {
		case daysUntilExpiry < 1:
			return ActionCookToday
		case daysUntilExpiry < 2:
			return ActionUseWithin24h
		default:
			return ActionFreeze
		}
	case spoilage.RiskMedium:
		switch {
		case daysUntilExpiry < 3:
			return ActionPlanMeal
		case rate > refrigerateRate:
			return ActionRefrigerate
		default:
			return ActionCheckFreshness
		}
	default:
		return ActionCheckFreshness
	}
}

var actionAdvice = map[Action]string{
	ActionCookToday:      "Cook or eat it today.",
	ActionUseWithin24h:   "Use it within the next 24 hours.",
	ActionRefrigerate:    "Move it to the refrigerator to slow spoilage.",
	ActionFreeze:         "Freeze it if you cannot use it soon.",
	ActionDiscard:        "Throw it away, it is no longer safe to eat.",
	ActionCheckFreshness: "Check it for signs of spoilage before use.",
	ActionPlanMeal:       "Plan a meal around it in the next few days.",
}

func AdviceFor(action Action) string {
	return actionAdvice[action]
}

func MessageFor(alertType AlertType, itemName string, res spoilage.Result, w WeatherConditions) string {
	days := res.UrgencyDays()
	switch alertType {
	case TypeAlreadyExpired:
		return fmt.Sprintf("%s expired %s ago.", itemName, formatDays(-days))
	case TypeHighTemperature:
		return fmt.Sprintf("%s is spoiling faster in the heat (%.0f°C) and should be used within %s.",
			itemName, w.Temperature, formatDays(days))
	case TypeHighHumidity:
		return fmt.Sprintf("%s is at risk from high humidity (%.0f%%) and should be used within %s.",
			itemName, w.Humidity, formatDays(days))
	case TypeExpiringSoon:
		return fmt.Sprintf("%s expires in %s.", itemName, formatDays(days))
	default:
		if res.DaysReduced > 0 {
			return fmt.Sprintf("Current weather has cut the shelf life of %s by %s.", itemName, formatDays(res.DaysReduced))
		}
		return fmt.Sprintf("Keep an eye on %s in the current weather.", itemName)
	}
}

// RecommendationFor prefers the calculator's advice and falls back to the action's.
func RecommendationFor(action Action, res spoilage.Result) string {
	if len(res.Recommendations) > 0 {
		return strings.Join(res.Recommendations, " ")
	}
	return AdviceFor(action)
}

func formatDays(days float64) string {
	if days < 1 {
		return "less than a day"
	}
	n := int(math.Round(days))
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
