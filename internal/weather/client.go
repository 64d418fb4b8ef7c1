package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// ErrCityNotFound is returned when the provider reports a non-OK status for
// the current weather lookup, whatever the underlying cause.
var ErrCityNotFound = errors.New("city not found")

// Client handles OpenWeatherMap API interactions
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new OpenWeatherMap client. The HTTP client has no
// timeout; requests end when their context is canceled.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
	}
}

func (c *Client) endpointURL(endpoint, city string) string {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.APIKey)
	params.Set("units", "metric")
	return c.BaseURL + "/" + endpoint + "?" + params.Encode()
}

// get fetches an endpoint and returns the raw body. The provider reports
// failures inside the JSON body, so the HTTP status is not inspected here.
func (c *Client) get(ctx context.Context, endpoint, city string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, city), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// FetchCurrent fetches current conditions for a city name exactly as typed
func (c *Client) FetchCurrent(ctx context.Context, city string) (Snapshot, error) {
	data, err := c.get(ctx, "weather", city)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var cr CurrentResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode current weather: %w", err)
	}
	if !cr.Cod.OK() {
		return Snapshot{}, ErrCityNotFound
	}

	return snapshotFromPayload(&cr)
}

// FetchForecast fetches the 5-day/3-hour forecast points for a city
func (c *Client) FetchForecast(ctx context.Context, city string) ([]ForecastPoint, error) {
	data, err := c.get(ctx, "forecast", city)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var fr ForecastResponse
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}
	if !fr.Cod.OK() {
		return nil, fmt.Errorf("forecast: provider status %q", string(fr.Cod))
	}
	if fr.List == nil {
		return nil, fmt.Errorf("forecast: payload has no list")
	}

	return fr.List, nil
}
