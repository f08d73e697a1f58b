// Package location resolves the active coordinate from manual text, device
// geolocation, map interaction and suggestions, and tracks the map view that
// reflects it.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moodmap/places"
)

// Text field sentinels marking a coordinate that did not come from typed text.
const (
	SelectedOnMap   = "Selected on Map"
	CurrentLocation = "Current Location"
)

// Zoom levels used when recentering.
const (
	ZoomLocation = 14
	ZoomPlace    = 16
)

// Source records how a coordinate was obtained.
type Source string

const (
	SourceDefault    Source = "default"
	SourceDevice     Source = "device"
	SourceManual     Source = "manual"
	SourceMap        Source = "map"
	SourcePin        Source = "pin"
	SourceSuggestion Source = "suggestion"
)

// ErrNotFound is returned when the geocoder has no match for the text.
var ErrNotFound = errors.New("location not found")

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether c lies within the WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

// Resolution is the outcome of resolving the location field.
type Resolution struct {
	Coordinate Coordinate `json:"coordinate"`
	Source     Source     `json:"source"`
	Label      string     `json:"label,omitempty"`
	// Geocoded is true when a provider lookup produced the coordinate.
	Geocoded bool `json:"geocoded"`
}

// IsSentinel reports whether text is one of the non-geocodable markers.
func IsSentinel(text string) bool {
	text = strings.TrimSpace(text)
	return text == SelectedOnMap || text == CurrentLocation
}

// NeedsGeocode reports whether the location field must be sent to the
// geocoder before a search.
func NeedsGeocode(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && !IsSentinel(text)
}

// Geocoder performs forward geocoding.
type Geocoder interface {
	Geocode(ctx context.Context, text string) ([]places.Address, error)
}

// Resolver turns location text into a coordinate.
type Resolver struct {
	Geocoder Geocoder
}

// Resolve geocodes text when needed and returns the first match. Sentinel or
// empty text keeps current. On ErrNotFound or a provider error the returned
// resolution still carries current so callers can keep it.
func (r *Resolver) Resolve(ctx context.Context, text string, current Coordinate) (Resolution, error) {
	keep := Resolution{Coordinate: current, Source: SourceDefault}
	if !NeedsGeocode(text) {
		return keep, nil
	}

	found, err := r.Geocoder.Geocode(ctx, strings.TrimSpace(text))
	if err != nil {
		return keep, fmt.Errorf("geocode %q: %w", text, err)
	}
	if len(found) == 0 {
		return keep, ErrNotFound
	}

	first := found[0]
	return Resolution{
		Coordinate: Coordinate{Lat: first.Lat, Lon: first.Lon},
		Source:     SourceManual,
		Label:      first.Formatted,
		Geocoded:   true,
	}, nil
}
