// Package openweathermap implements the weather.Provider interface against
// the OpenWeatherMap 2.5 API.
package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/airvigil/airvigil/internal/provider/resilience"
	"github.com/airvigil/airvigil/internal/weather"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// ErrMissingAPIKey is returned when a request is attempted without an API
// key configured. Only the upstream request path fails; local sensor data
// keeps flowing.
var ErrMissingAPIKey = errors.New("openweathermap: API key missing")

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key.
	APIKey string

	// BaseURL overrides the API base URL (tests).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetAirPollution fetches pollutant concentrations for a point.
func (c *Client) GetAirPollution(ctx context.Context, lat, lon float64) (*weather.AirPollution, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqURL := fmt.Sprintf("%s/air_pollution?lat=%.4f&lon=%.4f&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

	var owmResp airPollutionResponse
	if err := c.getJSON(ctx, reqURL, &owmResp); err != nil {
		return nil, err
	}

	if len(owmResp.List) == 0 {
		return nil, errors.New("air pollution response contains no observations")
	}

	obs := owmResp.List[0]
	return &weather.AirPollution{
		AQI: obs.Main.AQI,
		Components: weather.PollutantConcentrations{
			PM25: obs.Components.PM25,
			PM10: obs.Components.PM10,
			O3:   obs.Components.O3,
			CO:   obs.Components.CO,
			SO2:  obs.Components.SO2,
			NO2:  obs.Components.NO2,
			NH3:  obs.Components.NH3,
		},
	}, nil
}

// GetCurrentWeather fetches ambient conditions for a named city.
func (c *Client) GetCurrentWeather(ctx context.Context, city string) (*weather.Conditions, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqURL := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(city), c.apiKey)

	var owmResp currentWeatherResponse
	if err := c.getJSON(ctx, reqURL, &owmResp); err != nil {
		return nil, err
	}

	return &weather.Conditions{
		Temperature: owmResp.Main.Temp,
		Humidity:    owmResp.Main.Humidity,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequest(http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// OpenWeatherMap API response structures.

type airPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			SO2  float64 `json:"so2"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
			NH3  float64 `json:"nh3"`
		} `json:"components"`
	} `json:"list"`
}

type currentWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Name string `json:"name"`
}
