package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"moodmap/app"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org"

// ErrNoAPIKey is returned when the client has no OpenWeatherMap key.
var ErrNoAPIKey = errors.New("OPENWEATHER_API_KEY not configured")

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	BaseURL string
	APIKey  string
	Units   string
	HTTP    *http.Client
}

// NewClient returns a metric-unit client for the given API root and key.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: baseURL, APIKey: apiKey, Units: "metric", HTTP: &http.Client{}}
}

type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
}

// Current returns the conditions at lat/lon. A response without any weather
// entries yields empty conditions rather than an error.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", c.Units)
	q.Set("appid", c.APIKey)
	apiURL := c.BaseURL + "/data/2.5/weather?" + q.Encode()
	logURL := app.RedactURL(apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		app.RecordAPICall("openweather", "GET", logURL, 0, time.Since(start), err)
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		app.RecordAPICall("openweather", "GET", logURL, resp.StatusCode, time.Since(start), err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		callErr := fmt.Errorf("weather API returned status %d", resp.StatusCode)
		app.RecordAPICall("openweather", "GET", logURL, resp.StatusCode, time.Since(start), callErr)
		return nil, callErr
	}
	app.RecordAPICall("openweather", "GET", logURL, resp.StatusCode, time.Since(start), nil)

	var cr currentResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	cond := &Conditions{
		Place:      cr.Name,
		TempC:      cr.Main.Temp,
		FeelsLikeC: cr.Main.FeelsLike,
		Humidity:   cr.Main.Humidity,
	}
	if len(cr.Weather) > 0 {
		cond.Main = cr.Weather[0].Main
		cond.Description = cr.Weather[0].Description
		cond.Icon = cr.Weather[0].Icon
	}
	return cond, nil
}
