package app

import (
	"html"
)

// Empty renders an empty state message
func Empty(message string) string {
	return `<p class="empty center">` + html.EscapeString(message) + `</p>`
}
