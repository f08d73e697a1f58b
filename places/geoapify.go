package places

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

// DefaultBaseURL is the Geoapify API root.
const DefaultBaseURL = "https://api.geoapify.com"

// ErrNoAPIKey is returned when the client has no Geoapify key.
var ErrNoAPIKey = errors.New("GEOAPIFY_API_KEY not configured")

// Client talks to the Geoapify geocoding and places APIs.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient returns a client for the given API root and key. No request
// timeout is set; callers bound requests through the context.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: baseURL, APIKey: apiKey, HTTP: &http.Client{}}
}

// featureCollection is the GeoJSON envelope shared by every Geoapify endpoint.
type featureCollection struct {
	Features []struct {
		Properties featureProperties `json:"properties"`
	} `json:"features"`
}

type featureProperties struct {
	Name         string   `json:"name"`
	Formatted    string   `json:"formatted"`
	AddressLine1 string   `json:"address_line1"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Distance     *float64 `json:"distance"`
	Categories   []string `json:"categories"`
}

// Geocode resolves free text to candidate addresses, best match first.
func (c *Client) Geocode(ctx context.Context, text string) ([]Address, error) {
	q := url.Values{}
	q.Set("text", text)
	fc, err := c.get(ctx, "geoapify_geocode", "/v1/geocode/search", q)
	if err != nil {
		return nil, err
	}
	return toAddresses(fc), nil
}

// Autocomplete returns up to limit address suggestions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, text string, limit int) ([]Address, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("limit", strconv.Itoa(limit))
	fc, err := c.get(ctx, "geoapify_autocomplete", "/v1/geocode/autocomplete", q)
	if err != nil {
		return nil, err
	}
	return toAddresses(fc), nil
}

// Nearby runs a category search inside a circle around the query centre,
// biased toward it. Results come back in provider order.
func (c *Client) Nearby(ctx context.Context, query Query) ([]*Place, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	lon := strconv.FormatFloat(query.Lon, 'f', -1, 64)
	lat := strconv.FormatFloat(query.Lat, 'f', -1, 64)

	q := url.Values{}
	q.Set("categories", query.Category)
	if query.Text != "" {
		q.Set("text", query.Text)
	}
	q.Set("filter", fmt.Sprintf("circle:%s,%s,%d", lon, lat, query.Radius))
	q.Set("bias", fmt.Sprintf("proximity:%s,%s", lon, lat))
	q.Set("limit", strconv.Itoa(limit))

	fc, err := c.get(ctx, "geoapify_places", "/v2/places", q)
	if err != nil {
		return nil, err
	}

	places := make([]*Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties
		place := &Place{
			Name:      p.Name,
			Address:   p.AddressLine1,
			Formatted: p.Formatted,
			Lat:       p.Lat,
			Lon:       p.Lon,
		}
		if len(p.Categories) > 0 {
			place.Category = p.Categories[0]
		}
		if p.Distance != nil {
			place.Distance = *p.Distance
		} else {
			place.Distance = haversine(query.Lat, query.Lon, p.Lat, p.Lon)
		}
		places = append(places, place)
	}
	return places, nil
}

// get performs a GET against path and decodes the feature collection. A body
// that is not a feature collection is treated as an empty one.
func (c *Client) get(ctx context.Context, service, path string, q url.Values) (*featureCollection, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	q.Set("apiKey", c.APIKey)
	apiURL := c.BaseURL + path + "?" + q.Encode()
	logURL := app.RedactURL(apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		app.RecordAPICall(service, "GET", logURL, 0, time.Since(start), err)
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		app.RecordAPICall(service, "GET", logURL, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		callErr := fmt.Errorf("%s returned status %d", service, resp.StatusCode)
		app.RecordAPICall(service, "GET", logURL, resp.StatusCode, time.Since(start), callErr)
		return nil, callErr
	}
	app.RecordAPICall(service, "GET", logURL, resp.StatusCode, time.Since(start), nil)

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		app.Log("places", "%s: malformed response treated as empty: %v", service, err)
		return &featureCollection{}, nil
	}
	return &fc, nil
}

func toAddresses(fc *featureCollection) []Address {
	out := make([]Address, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties
		out = append(out, Address{
			Formatted: p.Formatted,
			Name:      p.Name,
			Lat:       p.Lat,
			Lon:       p.Lon,
		})
	}
	return out
}
