package places

import (
	"math"
	"sort"
)

// DefaultLimit is the number of places requested per search.
const DefaultLimit = 12

// Place is a venue returned by a nearby search.
type Place struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Formatted string  `json:"formatted,omitempty"`
	Category  string  `json:"category,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Distance  float64 `json:"distance"` // metres from the search centre
}

// Address is a geocoding or autocomplete hit.
type Address struct {
	Formatted string  `json:"formatted"`
	Name      string  `json:"name,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Query describes a radius-bounded category search.
type Query struct {
	Lat      float64
	Lon      float64
	Radius   int // metres
	Category string
	Text     string // optional free-text filter
	Limit    int
}

// SortByDistance orders places nearest first. Ties keep provider order.
func SortByDistance(places []*Place) {
	sort.SliceStable(places, func(i, j int) bool {
		return places[i].Distance < places[j].Distance
	})
}

// haversine returns the great-circle distance in metres between two lat/lon points.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000 // Earth radius in metres
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := (lat2 - lat1) * math.Pi / 180
	Δλ := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	return R * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
