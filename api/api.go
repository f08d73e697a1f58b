// Package api documents the moodmap HTTP endpoints.
package api

import (
	"fmt"
	"strings"
)

type Endpoint struct {
	Name        string
	Path        string
	Method      string
	Params      []*Param
	Response    []*Value
	Description string
}

type Param struct {
	Name        string
	Value       string
	Description string
}

type Value struct {
	Type   string
	Params []*Param
}

// stateResponse is returned by every endpoint that changes session state.
var stateResponse = []*Value{{
	Type: "JSON",
	Params: []*Param{
		{Name: "location", Value: "object", Description: "Active coordinate {lat, lon}"},
		{Name: "location_text", Value: "string", Description: "Location field text"},
		{Name: "mood", Value: "string", Description: "Selected mood category"},
		{Name: "mood_text", Value: "string", Description: "Mood field text"},
		{Name: "radius", Value: "number", Description: "Search radius in metres"},
		{Name: "view", Value: "object", Description: "Map centre, zoom and marker"},
		{Name: "loading", Value: "bool", Description: "Whether a search is running"},
		{Name: "results", Value: "object", Description: "Results status, message and cards"},
		{Name: "results_html", Value: "string", Description: "Rendered results"},
		{Name: "message", Value: "string", Description: "Visible notification, if any"},
		{Name: "favorites", Value: "array", Description: "Saved place names"},
	},
}}

var Endpoints = []*Endpoint{{
	Name:        "State",
	Path:        "/api/state",
	Method:      "GET",
	Description: "Current session state",
	Response:    stateResponse,
}, {
	Name:        "Search",
	Path:        "/api/search",
	Method:      "POST",
	Description: "Resolve the location, check the weather, resolve the mood and find nearby places. Returns 409 while another search is running.",
	Params: []*Param{
		{Name: "location", Value: "string", Description: "Location text; geocoded unless it is a map or device marker"},
		{Name: "mood", Value: "string", Description: "Mood text; a known keyword or free text"},
		{Name: "radius", Value: "number", Description: "Search radius in metres (100 to 50000)"},
	},
	Response: []*Value{{
		Type: "JSON",
		Params: []*Param{
			{Name: "outcome", Value: "object", Description: "Typed result of each step plus messages shown"},
			{Name: "state", Value: "object", Description: "Session state after the search"},
		},
	}},
}, {
	Name:        "Mood",
	Path:        "/api/mood",
	Method:      "POST",
	Description: "Select a mood button. Clears the mood text.",
	Params: []*Param{
		{Name: "category", Value: "string", Description: "Category of one of the mood buttons"},
	},
	Response: stateResponse,
}, {
	Name:        "Location",
	Path:        "/api/location",
	Method:      "POST",
	Description: "Report a location event from the page",
	Params: []*Param{
		{Name: "action", Value: "string", Description: "device, denied, failed, click or drag"},
		{Name: "lat", Value: "number", Description: "Latitude for device, click and drag"},
		{Name: "lon", Value: "number", Description: "Longitude for device, click and drag"},
	},
	Response: stateResponse,
}, {
	Name:        "Focus",
	Path:        "/api/focus",
	Method:      "POST",
	Description: "Centre the map on a result card",
	Params: []*Param{
		{Name: "index", Value: "number", Description: "Card position in the results"},
	},
	Response: stateResponse,
}, {
	Name:        "Clear",
	Path:        "/api/clear",
	Method:      "POST",
	Description: "Clear the location and mood fields and the results",
	Response:    stateResponse,
}, {
	Name:        "Favorites",
	Path:        "/api/favorites",
	Method:      "GET",
	Description: "List saved place names",
	Response: []*Value{{
		Type:   "JSON",
		Params: []*Param{{Name: "[]", Value: "array", Description: "Saved names in the order they were saved"}},
	}},
}, {
	Name:        "Save Favorite",
	Path:        "/api/favorites",
	Method:      "POST",
	Description: "Save a place name. Saving a name twice changes nothing.",
	Params: []*Param{
		{Name: "name", Value: "string", Description: "Place name"},
	},
	Response: []*Value{{
		Type: "JSON",
		Params: []*Param{
			{Name: "added", Value: "bool", Description: "False when the name was already saved"},
			{Name: "message", Value: "string", Description: "Confirmation text"},
			{Name: "favorites", Value: "array", Description: "Saved names"},
		},
	}},
}, {
	Name:        "Directions",
	Path:        "/api/directions?lat=&lon=",
	Method:      "GET",
	Description: "Redirect to turn-by-turn directions",
}, {
	Name:        "Directions QR",
	Path:        "/api/directions/qr?lat=&lon=&size=",
	Method:      "GET",
	Description: "PNG QR code of the directions link",
}, {
	Name:        "Suggest",
	Path:        "/api/suggest",
	Method:      "WebSocket",
	Description: "Location autocomplete. Send {type: input, text}, {type: select, index} or {type: dismiss}; receive {type: suggestions, seq, items} and {type: selected, chosen, state}.",
}, {
	Name:        "Status",
	Path:        "/status",
	Method:      "GET",
	Description: "Health checks and recent provider calls",
}}

func Markdown() string {
	var sb strings.Builder

	sb.WriteString("# API Documentation\n\n")
	sb.WriteString("Requests are tied to a browser session by the `moodmap_session` cookie, ")
	sb.WriteString("which is issued on the first request.\n\n")
	sb.WriteString("Example:\n")
	sb.WriteString("```bash\n")
	sb.WriteString("curl -c jar -b jar -H \"Content-Type: application/json\" \\\n")
	sb.WriteString("     -d '{\"location\":\"Hyderabad\",\"mood\":\"coffee\",\"radius\":5000}' \\\n")
	sb.WriteString("     http://localhost:8080/api/search\n")
	sb.WriteString("```\n\n")
	sb.WriteString("---\n\n")
	sb.WriteString("## Endpoints\n\n")

	for _, endpoint := range Endpoints {
		fmt.Fprintf(&sb, "## %s\n\n", endpoint.Name)
		fmt.Fprintf(&sb, "%s\n\n", endpoint.Description)
		fmt.Fprintf(&sb, "```%s %s```\n\n", endpoint.Method, endpoint.Path)

		if endpoint.Params != nil {
			sb.WriteString("#### Request\n\n")
			sb.WriteString("Format: JSON\n\n")
			writeTable(&sb, endpoint.Params)
		}

		if endpoint.Response != nil {
			sb.WriteString("#### Response\n\n")
			for _, resp := range endpoint.Response {
				fmt.Fprintf(&sb, "Format: %s\n\n", resp.Type)
				writeTable(&sb, resp.Params)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeTable(sb *strings.Builder, params []*Param) {
	sb.WriteString("| Field | Type | Description |\n")
	sb.WriteString("| ----- | ---- | ----------- |\n")
	for _, param := range params {
		fmt.Fprintf(sb, "| %s | %s | %s |\n", param.Name, param.Value, param.Description)
	}
	sb.WriteString("\n")
}
