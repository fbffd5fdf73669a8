package weather

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrUpstreamFetch   = errors.New("weather upstream fetch failed")
)

type Location struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Order is what Locations() reports.
var supportedLocations = []Location{
	{Name: "DHAKA", DisplayName: "Dhaka", Latitude: 23.8103, Longitude: 90.4125},
	{Name: "CHITTAGONG", DisplayName: "Chittagong", Latitude: 22.3569, Longitude: 91.7832},
	{Name: "KHULNA", DisplayName: "Khulna", Latitude: 22.8456, Longitude: 89.5403},
	{Name: "RAJSHAHI", DisplayName: "Rajshahi", Latitude: 24.3745, Longitude: 88.6042},
	{Name: "SYLHET", DisplayName: "Sylhet", Latitude: 24.8949, Longitude: 91.8687},
}

// SupportedLocations returns a copy of the named location table.
func SupportedLocations() []Location {
	out := make([]Location, len(supportedLocations))
	copy(out, supportedLocations)
	return out
}

// ResolveLocation accepts a supported city name (any case) or a "lat,lon" pair.
func ResolveLocation(raw string) (Location, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}
	for _, loc := range supportedLocations {
		if loc.Name == name {
			return loc, nil
		}
	}
	if lat, lon, ok := parseCoordinates(name); ok {
		key := CacheKey(lat, lon)
		return Location{Name: key, DisplayName: key, Latitude: lat, Longitude: lon}, nil
	}
	return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, strings.TrimSpace(raw))
}

func parseCoordinates(s string) (float64, float64, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// CacheKey rounds coordinates to 4 decimals, e.g. "23.8103,90.4125".
func CacheKey(lat, lon float64) string {
	return strconv.FormatFloat(round4(lat), 'f', 4, 64) + "," + strconv.FormatFloat(round4(lon), 'f', 4, 64)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
