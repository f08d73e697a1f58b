// Package mood maps what the user feels like doing to a places category.
package mood

import "strings"

const (
	// Default is the category used before any mood is chosen.
	Default = "catering.cafe"
	// Any disables category filtering; the free text does the matching.
	Any = "any"
)

// Keywords maps mood words to Geoapify category codes. Multiple codes are
// comma-joined.
var Keywords = map[string]string{
	"park":     "leisure.park",
	"gym":      "activity.sport.gym",
	"jogging":  "leisure.park,activity.sport.stadium",
	"running":  "leisure.park,activity.sport.stadium",
	"workout":  "activity.sport.gym",
	"coffee":   "catering.cafe",
	"shopping": "commercial.shopping_mall,commercial.clothing",
	"clothes":  "commercial.clothing",
	"cinema":   "entertainment.cinema",
	"movie":    "entertainment.cinema",
	"pizza":    "catering.restaurant.pizza",
	"medicine": "healthcare.pharmacy",
	"atm":      "service.financial.atm",
	"hospital": "healthcare.hospital",
	"temple":   "amenity.place_of_worship",
}

// Button is a preset mood offered on the page.
type Button struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Buttons are the preset moods, in display order.
var Buttons = []Button{
	{Label: "☕ Chill", Category: "catering.cafe"},
	{Label: "🍽️ Hungry", Category: "catering.restaurant"},
	{Label: "🌳 Relax", Category: "leisure.park"},
	{Label: "💪 Energetic", Category: "activity.sport.gym"},
	{Label: "🛍️ Shopping", Category: "commercial.shopping_mall"},
	{Label: "🎬 Entertain", Category: "entertainment.cinema"},
}

// Selection is the resolved category plus an optional free-text filter.
type Selection struct {
	Category string `json:"category"`
	Text     string `json:"text,omitempty"`
}

// Normalize lower-cases and trims free mood text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Resolve picks the category for a search. Free text wins over the last
// selected button; a known keyword maps to its category, anything else
// searches every category by text. An empty selected falls back to Default.
func Resolve(text, selected string) Selection {
	text = Normalize(text)
	if text == "" {
		if selected == "" {
			selected = Default
		}
		return Selection{Category: selected}
	}
	if cat, ok := Keywords[text]; ok {
		return Selection{Category: cat}
	}
	return Selection{Category: Any, Text: text}
}

// IsButton reports whether category belongs to a preset button.
func IsButton(category string) bool {
	for _, b := range Buttons {
		if b.Category == category {
			return true
		}
	}
	return false
}
