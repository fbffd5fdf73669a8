package spoilage

import (
	"fmt"
	"math"
	"time"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Rank orders levels so callers can compare them (LOW=0 ... CRITICAL=3).
func (l RiskLevel) Rank() int {
	switch l {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

const (
	optimalTemperatureC = 20.0
	optimalHumidityPct  = 50.0

	heatImpactPerDegree = 0.08
	coldImpactPerDegree = 0.02
	humidityImpactPerPt = 0.004

	minSpoilageRate = 0.5
	maxTipsPerItem  = 2

	hotC       = 30.0
	veryHotC   = 35.0
	humidPct   = 70.0
	veryHumid  = 85.0
	favorableR = 1.2
)

// Conditions is the slice of a weather reading the calculator needs.
type Conditions struct {
	TemperatureC float64 `json:"temperature"`
	HumidityPct  float64 `json:"humidity"`
	Location     string  `json:"location"`
}

// Result is recomputed on every pass and never stored. Expired is set once
// either the adjusted or the printed expiry has passed.
type Result struct {
	Category         string    `json:"category"`
	OriginalExpiry   time.Time `json:"original_expiry"`
	AdjustedExpiry   time.Time `json:"adjusted_expiry"`
	DaysReduced      float64   `json:"days_reduced"`
	DaysUntilExpiry  float64   `json:"days_until_expiry"`
	DaysUntilPrinted float64   `json:"days_until_printed_expiry"`
	Expired          bool      `json:"expired"`
	SpoilageRate     float64   `json:"spoilage_rate"`
	RiskScore        float64   `json:"risk_score"`
	RiskLevel        RiskLevel `json:"risk_level"`
	WeatherImpact    string    `json:"weather_impact"`
	Recommendations  []string  `json:"recommendations"`
}

type Calculator struct {
	categories *Categories
	now        func() time.Time
}

// NewCalculator builds a calculator over a category table. now may be nil.
func NewCalculator(categories *Categories, now func() time.Time) *Calculator {
	if categories == nil {
		categories = DefaultCategories()
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{categories: categories, now: now}
}

func (c *Calculator) Categories() *Categories { return c.categories }

// Calculate adjusts an item's expiry for the current weather and scores how
// urgently it needs attention.
func (c *Calculator) Calculate(foodName string, expiry, added time.Time, w Conditions) Result {
	profile := c.categories.Lookup(foodName)
	rate := SpoilageRate(profile, w)

	shelfLife := expiry.Sub(added)
	adjusted := added.Add(time.Duration(float64(shelfLife) / rate))
	daysReduced := expiry.Sub(adjusted).Hours() / 24
	now := c.now()
	daysUntil := adjusted.Sub(now).Hours() / 24
	daysPrinted := expiry.Sub(now).Hours() / 24

	res := Result{
		Category:         profile.Name,
		OriginalExpiry:   expiry,
		AdjustedExpiry:   adjusted,
		DaysReduced:      daysReduced,
		DaysUntilExpiry:  daysUntil,
		DaysUntilPrinted: daysPrinted,
		Expired:          math.Min(daysUntil, daysPrinted) < 0,
		SpoilageRate:     rate,
		WeatherImpact:    WeatherImpact(w, rate),
	}
	urgency := res.UrgencyDays()
	res.RiskScore = RiskScore(urgency, rate)
	res.RiskLevel = LevelForScore(res.RiskScore)
	res.Recommendations = Recommendations(res.RiskLevel, urgency, profile)
	return res
}

// UrgencyDays is the countdown alerts act on: the adjusted expiry while the
// item is good, and the earlier of the two expiries once it has expired.
func (r Result) UrgencyDays() float64 {
	if r.Expired {
		return math.Min(r.DaysUntilExpiry, r.DaysUntilPrinted)
	}
	return r.DaysUntilExpiry
}

// SpoilageRate is the multiplier on baseline spoilage speed; 1.0 at 20°C and 50%.
// Heat counts four times as much per degree as cold.
func SpoilageRate(profile CategoryProfile, w Conditions) float64 {
	tempDiff := w.TemperatureC - optimalTemperatureC
	tempImpact := tempDiff * coldImpactPerDegree
	if tempDiff > 0 {
		tempImpact = tempDiff * heatImpactPerDegree
	}
	humidityImpact := (w.HumidityPct - optimalHumidityPct) * humidityImpactPerPt

	rate := 1.0 + tempImpact*profile.TemperatureSensitivity + humidityImpact*profile.HumiditySensitivity
	return math.Max(minSpoilageRate, rate)
}

// RiskScore adds a time-to-expiry component and a spoilage-rate component, each 0-50.
func RiskScore(daysUntilExpiry, rate float64) float64 {
	var score float64
	switch {
	case daysUntilExpiry < 0:
		score += 50
	case daysUntilExpiry < 1:
		score += 45
	case daysUntilExpiry < 2:
		score += 35
	case daysUntilExpiry < 3:
		score += 25
	case daysUntilExpiry < 7:
		score += 15
	default:
		score += 5
	}
	switch {
	case rate > 2.0:
		score += 50
	case rate > 1.5:
		score += 40
	case rate > 1.2:
		score += 25
	case rate > 1.0:
		score += 10
	}
	return math.Min(100, math.Max(0, score))
}

func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 75:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskMedium
	default:
		return RiskLow
	}
}

func WeatherImpact(w Conditions, rate float64) string {
	hot := w.TemperatureC > hotC
	humid := w.HumidityPct > humidPct

	heat := "Hot"
	if w.TemperatureC > veryHotC {
		heat = "Very hot"
	}
	damp := "humid"
	if w.HumidityPct > veryHumid {
		damp = "very humid"
	}

	switch {
	case hot && humid:
		return fmt.Sprintf("%s and %s conditions (%.0f°C, %.0f%% humidity) are speeding up spoilage by about %.0f%%.",
			heat, damp, w.TemperatureC, w.HumidityPct, (rate-1)*100)
	case hot:
		return fmt.Sprintf("%s weather (%.0f°C) is speeding up spoilage.", heat, w.TemperatureC)
	case humid:
		return fmt.Sprintf("The air is %s (%.0f%%), which encourages mould and bacterial growth.", damp, w.HumidityPct)
	case rate <= favorableR:
		return "Current weather conditions are favorable for food storage."
	default:
		return "Current weather is slightly speeding up spoilage."
	}
}

func Recommendations(level RiskLevel, daysUntilExpiry float64, profile CategoryProfile) []string {
	recs := []string{}
	switch {
	case level == RiskLow:
		return recs
	case daysUntilExpiry < 0:
		recs = append(recs, "This item has likely spoiled. Discard it to avoid food poisoning.")
	case level == RiskCritical:
		recs = append(recs, "Cook or eat this item today.")
	case level == RiskHigh:
		recs = append(recs, "Use this item within the next 24 hours.")
	default:
		recs = append(recs, "Plan to use this item within the next 2-3 days.")
	}
	for i, tip := range profile.StorageTips {
		if i >= maxTipsPerItem {
			break
		}
		recs = append(recs, tip)
	}
	return recs
}
