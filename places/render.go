package places

import (
	"fmt"
	"html"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"moodmap/app"
)

// Status is the state of the results area.
type Status string

const (
	StatusIdle   Status = ""
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

const (
	MsgFailed    = "❌ Failed to load places"
	MsgEmpty     = "No places found"
	UnnamedPlace = "Unnamed Place"
	NoAddress    = "Address unavailable"
	NoRating     = "Rating: Not available"
)

// Card is the display form of one place.
type Card struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Rating        string  `json:"rating"`
	DistanceKM    string  `json:"distance_km"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	DirectionsURL string  `json:"directions_url"`
}

// Results is the view-model for the results area.
type Results struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Cards   []Card `json:"cards"`
}

// BuildResults turns a query outcome into the results view-model. A query
// error yields the failure message, no places the empty message, otherwise
// one card per place nearest first. The input slice is not reordered.
func BuildResults(found []*Place, err error) Results {
	if err != nil {
		return Results{Status: StatusFailed, Message: MsgFailed}
	}
	if len(found) == 0 {
		return Results{Status: StatusEmpty, Message: MsgEmpty}
	}

	sorted := slices.Clone(found)
	SortByDistance(sorted)

	return Results{
		Status: StatusOK,
		Cards: lo.Map(sorted, func(p *Place, _ int) Card {
			return NewCard(p)
		}),
	}
}

// NewCard applies the display fallbacks to p.
func NewCard(p *Place) Card {
	name := p.Name
	if name == "" {
		name = UnnamedPlace
	}
	addr := p.Address
	if addr == "" {
		addr = NoAddress
	}
	return Card{
		Name:          name,
		Address:       addr,
		Rating:        NoRating,
		DistanceKM:    FormatKM(p.Distance),
		Lat:           p.Lat,
		Lon:           p.Lon,
		DirectionsURL: DirectionsURL(p.Lat, p.Lon),
	}
}

// FormatKM renders metres as kilometres with one decimal, halves rounded up.
func FormatKM(metres float64) string {
	return strconv.FormatFloat(math.Round(metres/100)/10, 'f', 1, 64)
}

// RenderResults renders the results area HTML. Clicking a card recenters
// the map; its buttons carry data-action and must not bubble to the card.
func RenderResults(r Results) string {
	switch r.Status {
	case StatusIdle:
		return ""
	case StatusFailed, StatusEmpty:
		return app.Empty(r.Message)
	}

	var sb strings.Builder
	for _, c := range r.Cards {
		sb.WriteString(renderCard(c))
	}
	return sb.String()
}

func renderCard(c Card) string {
	body := fmt.Sprintf(`<div>
  <h3>%s</h3>
  <p>📍 %s</p>
  <p>⭐ %s</p>
  <button type="button" data-action="directions" data-url="%s">Directions</button>
  <button type="button" data-action="save" data-name="%s">❤️ Save</button>
</div>
<div class="dist-tag">%s KM</div>`,
		html.EscapeString(c.Name),
		html.EscapeString(c.Address),
		html.EscapeString(c.Rating),
		html.EscapeString(c.DirectionsURL),
		html.EscapeString(c.Name),
		c.DistanceKM,
	)
	return fmt.Sprintf(`<div class="card place-card" data-lat="%f" data-lon="%f">%s</div>`,
		c.Lat, c.Lon, body)
}
