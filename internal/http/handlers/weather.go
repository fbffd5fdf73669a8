package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AASani29/NutriAI-sub001/internal/http/response"
	"github.com/AASani29/NutriAI-sub001/internal/weather"
)

type WeatherHandler struct {
	weather weather.Service
}

func NewWeatherHandler(weather weather.Service) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// GET /api/weather?location=&refresh=
func (h *WeatherHandler) GetCurrent(c *gin.Context) {
	refresh, err := boolQuery(c, "refresh")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	snap, err := h.weather.GetCurrentWeather(c.Request.Context(), c.Query("location"), refresh)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weather": snap})
}

// GET /api/weather/locations
func (h *WeatherHandler) ListLocations(c *gin.Context) {
	response.RespondOK(c, gin.H{"locations": h.weather.Locations()})
}
