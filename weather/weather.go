// Package weather reports current conditions at a coordinate and decides
// whether a search should carry an indoor advisory.
package weather

import (
	"fmt"
	"html"
	"strings"
)

// Advisory is shown once per search when it is raining at the search centre.
const Advisory = "🌧️ It's raining. Indoor places are recommended."

// Rain is the OpenWeatherMap main condition for rain.
const Rain = "Rain"

// Conditions is the current weather at a point.
type Conditions struct {
	Main        string  `json:"main"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	Place       string  `json:"place,omitempty"`
}

// Raining reports whether the primary condition is rain. Drizzle and
// thunderstorms are distinct conditions and do not count.
func (c *Conditions) Raining() bool {
	return c != nil && c.Main == Rain
}

// AdvisoryFor returns the advisory text for c, or "" when none applies.
func AdvisoryFor(c *Conditions) string {
	if c.Raining() {
		return Advisory
	}
	return ""
}

// RenderBadge renders a compact conditions line for the results header.
func RenderBadge(c *Conditions) string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="weather-badge">`)
	if c.Icon != "" {
		sb.WriteString(fmt.Sprintf(`<img src="https://openweathermap.org/img/wn/%s.png" alt="" width="32" height="32">`, html.EscapeString(c.Icon)))
	}
	desc := c.Description
	if desc == "" {
		desc = c.Main
	}
	sb.WriteString(fmt.Sprintf(`<span>%.0f°C %s</span>`, c.TempC, html.EscapeString(desc)))
	if c.Place != "" {
		sb.WriteString(fmt.Sprintf(` <span class="card-meta">%s</span>`, html.EscapeString(c.Place)))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
