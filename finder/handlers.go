package finder

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	sanitize "github.com/mrz1836/go-sanitize"

	"moodmap/app"
	"moodmap/location"
	"moodmap/places"
	"moodmap/suggest"
)

const maxBody = 16 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// Handler serves the finder page and its JSON endpoints.
type Handler struct {
	Sessions *Sessions
	Suggest  suggest.Fetcher
}

// Routes mounts the finder endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.MethodNotAllowed(app.MethodNotAllowed)
	r.Get("/", h.page)
	r.Get("/api/state", h.state)
	r.Post("/api/search", h.search)
	r.Post("/api/mood", h.selectMood)
	r.Post("/api/location", h.location)
	r.Post("/api/focus", h.focus)
	r.Post("/api/clear", h.clear)
	r.Get("/api/favorites", h.listFavorites)
	r.Post("/api/favorites", h.saveFavorite)
	r.Get("/api/directions", h.directions)
	r.Get("/api/directions/qr", h.directionsQR)
	r.Handle("/api/suggest", &suggest.Handler{
		Fetcher:  h.Suggest,
		OnSelect: h.selectSuggestion,
	})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.ForRequest(w, r)
	app.Respond(w, r, app.Response{
		Title:       "Find a place",
		Description: "Find somewhere nearby that fits your mood",
		HTML:        RenderPage(s.Snapshot()),
	})
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	app.RespondJSON(w, h.Sessions.ForRequest(w, r).Snapshot())
}

type searchResponse struct {
	Outcome *Outcome `json:"outcome"`
	State   State    `json:"state"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !decode(w, r, &req) {
		return
	}
	req.LocationText = clean(req.LocationText)
	req.MoodText = clean(req.MoodText)

	s := h.Sessions.ForRequest(w, r)
	// A search runs to completion even if the page goes away.
	out, err := s.Search(context.WithoutCancel(r.Context()), req)
	if errors.Is(err, ErrBusy) {
		app.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		app.ServerError(w, r, err.Error())
		return
	}
	app.RespondJSON(w, searchResponse{Outcome: out, State: s.Snapshot()})
}

type moodRequest struct {
	Category string `json:"category" validate:"required,max=100"`
}

func (h *Handler) selectMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.Sessions.ForRequest(w, r)
	if err := s.SelectMood(req.Category); err != nil {
		app.BadRequest(w, r, err.Error())
		return
	}
	app.RespondJSON(w, s.Snapshot())
}

// locationRequest reports a location event from the page. Action is one of
// device, denied, failed, click or drag.
type locationRequest struct {
	Action string  `json:"action" validate:"required,oneof=device denied failed click drag"`
	Lat    float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon    float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (h *Handler) location(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.Sessions.ForRequest(w, r)
	c := location.Coordinate{Lat: req.Lat, Lon: req.Lon}
	switch req.Action {
	case "device":
		s.UseDevice(c)
	case "denied":
		s.DeviceFailed(true)
	case "failed":
		s.DeviceFailed(false)
	case "click":
		s.ClickMap(c)
	case "drag":
		s.DragPin(c)
	}
	app.RespondJSON(w, s.Snapshot())
}

type focusRequest struct {
	Index int `json:"index" validate:"gte=0"`
}

func (h *Handler) focus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if !decode(w, r, &req) {
		return
	}
	s := h.Sessions.ForRequest(w, r)
	if _, err := s.FocusCard(req.Index); err != nil {
		app.BadRequest(w, r, err.Error())
		return
	}
	app.RespondJSON(w, s.Snapshot())
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.ForRequest(w, r)
	s.Clear()
	app.RespondJSON(w, s.Snapshot())
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	app.RespondJSON(w, h.Sessions.ForRequest(w, r).Favorites.List())
}

type favoriteRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (h *Handler) saveFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if !decode(w, r, &req) {
		return
	}
	name := clean(req.Name)
	if name == "" {
		app.BadRequest(w, r, "name is required")
		return
	}
	s := h.Sessions.ForRequest(w, r)
	added, err := s.SavePlace(name)
	if err != nil {
		app.Log("finder", "Save favorite failed: %v", err)
		app.ServerError(w, r, "failed to save place")
		return
	}
	app.RespondJSON(w, map[string]any{
		"added":     added,
		"message":   s.Notifier.Current(),
		"favorites": s.Favorites.List(),
	})
}

func (h *Handler) directions(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordParams(r.URL.Query())
	if !ok {
		app.BadRequest(w, r, "lat and lon are required")
		return
	}
	http.Redirect(w, r, places.DirectionsURL(lat, lon), http.StatusFound)
}

func (h *Handler) directionsQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon, ok := coordParams(q)
	if !ok {
		app.BadRequest(w, r, "lat and lon are required")
		return
	}
	size, _ := strconv.Atoi(q.Get("size"))
	if size > 1024 {
		size = 1024
	}
	png, err := places.DirectionsQR(lat, lon, size)
	if err != nil {
		app.ServerError(w, r, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

func (h *Handler) selectSuggestion(r *http.Request, a places.Address) any {
	s := h.Sessions.ForRequest(nil, r)
	s.SelectSuggestion(a)
	return s.Snapshot()
}

// decode reads a JSON body into v and validates it, answering 400 itself
// when either fails.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		app.BadRequest(w, r, "failed to read body")
		return false
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			app.BadRequest(w, r, "invalid JSON")
			return false
		}
	}
	if err := validate.Struct(v); err != nil {
		app.BadRequest(w, r, err.Error())
		return false
	}
	return true
}

func coordParams(q url.Values) (float64, float64, bool) {
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if !(location.Coordinate{Lat: lat, Lon: lon}).Valid() {
		return 0, 0, false
	}
	return lat, lon, true
}

// clean collapses a text field to a single trimmed line.
func clean(v string) string {
	return strings.TrimSpace(sanitize.SingleLine(v))
}
