package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) localWeather(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	observation, err := s.weather.ObservationForCoords(c.Request.Context(), lat, lng)
	if err != nil {
		s.logger.Error(c.Request.Context(), "weather fetch failed", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch weather data"})
		return
	}

	c.JSON(http.StatusOK, observation)
}

func (s *Server) health(c *gin.Context) {
	if !s.verifier.Enabled() {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "verification": "disabled"})
		return
	}

	block, err := s.verifier.Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "chain node unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "block_number": block})
}
