// Package weatherxm fetches current observations from the WeatherXM public
// API. Coordinates are mapped to an H3 cell (resolution 7) and the first
// device reporting in that cell supplies the observation.
package weatherxm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/uber/h3-go/v4"
)

const cellResolution = 7

// Observation is a flat snapshot of the current weather at a location.
type Observation struct {
	Temperature   float64 `json:"temperature"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
	FeelsLike     float64 `json:"feels_like"`
}

type deviceResponse struct {
	CurrentWeather Observation `json:"current_weather"`
}

// Client queries the WeatherXM API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CellForCoords returns the H3 cell index string the API is keyed by.
func CellForCoords(lat, lng float64) string {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lng), cellResolution)
	return cell.String()
}

// ObservationForCoords fetches the current weather for the H3 cell covering
// the given coordinates.
func (c *Client) ObservationForCoords(ctx context.Context, lat, lng float64) (*Observation, error) {
	url := fmt.Sprintf("%s/api/v1/cells/%s/devices", c.baseURL, CellForCoords(lat, lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	var devices []deviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("error parsing weather data: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no weather devices reporting in cell")
	}

	observation := devices[0].CurrentWeather
	return &observation, nil
}
