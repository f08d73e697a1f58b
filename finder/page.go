package finder

import (
	"fmt"
	"html"
	"strings"

	json "github.com/goccy/go-json"

	"moodmap/favorites"
	"moodmap/mood"
	"moodmap/places"
)

// Radii offered by the radius picker, in metres.
var Radii = []int{1000, 2000, 5000, 10000, 20000}

// RenderPage renders the finder page body for st.
func RenderPage(st State) string {
	var sb strings.Builder

	sb.WriteString(`<div id="finder">`)
	sb.WriteString(`<div class="controls">`)

	// location
	sb.WriteString(`<div class="field loc-field">`)
	sb.WriteString(fmt.Sprintf(`<input type="text" id="manualLoc" placeholder="Search a location" autocomplete="off" value="%s">`,
		html.EscapeString(st.LocationText)))
	sb.WriteString(`<div id="suggestions" class="suggestions"></div>`)
	sb.WriteString(`<button type="button" id="use-location" class="btn-secondary">📍 Use my location</button>`)
	sb.WriteString(`</div>`)

	// mood
	sb.WriteString(fmt.Sprintf(`<div class="field"><input type="text" id="manualMood" placeholder="What are you in the mood for?" value="%s"></div>`,
		html.EscapeString(st.MoodText)))
	sb.WriteString(`<div class="moods">`)
	for _, b := range mood.Buttons {
		class := "mood-btn"
		if b.Category == st.Mood {
			class += " active"
		}
		sb.WriteString(fmt.Sprintf(`<button type="button" class="%s" data-mood="%s">%s</button>`,
			class, html.EscapeString(b.Category), html.EscapeString(b.Label)))
	}
	sb.WriteString(`</div>`)

	// radius
	sb.WriteString(`<div class="field"><label for="rad">Radius</label> <select id="rad">`)
	for _, r := range Radii {
		sel := ""
		if r == st.Radius {
			sel = " selected"
		}
		sb.WriteString(fmt.Sprintf(`<option value="%d"%s>%d km</option>`, r, sel, r/1000))
	}
	sb.WriteString(`</select></div>`)

	sb.WriteString(`<div class="actions">`)
	sb.WriteString(`<button type="button" id="search">Find places</button>`)
	sb.WriteString(`<button type="button" id="clear" class="btn-secondary">Clear</button>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`</div>`) // controls

	loader := ""
	if !st.Loading {
		loader = ` style="display:none"`
	}
	sb.WriteString(fmt.Sprintf(`<div id="loader" class="loader"%s>Searching…</div>`, loader))

	msg := ""
	if st.Message == "" {
		msg = ` style="display:none"`
	}
	sb.WriteString(fmt.Sprintf(`<div id="message" class="message"%s>%s</div>`, msg, html.EscapeString(st.Message)))

	view, _ := json.Marshal(st.View)
	sb.WriteString(fmt.Sprintf(`<div id="map" data-view="%s"></div>`, html.EscapeString(string(view))))

	sb.WriteString(`<div id="weather">` + st.WeatherHTML + `</div>`)
	sb.WriteString(`<div id="results" class="card-list">` + places.RenderResults(st.Results) + `</div>`)

	sb.WriteString(`<h2>Saved places</h2>`)
	sb.WriteString(`<div id="favorites">` + favorites.Render(st.Favorites) + `</div>`)

	sb.WriteString(`</div>`) // finder

	sb.WriteString(`<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js" integrity="sha256-20nQCchB9co0qIjJZRGuk2/Z9VM+kNiyxNV1lvTlZBo=" crossorigin=""></script>`)
	return sb.String()
}
