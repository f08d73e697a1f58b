// Package finder owns the per-browser application state and runs the search
// pipeline: resolve the location, check the weather, resolve the mood, then
// query and render nearby places.
package finder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"moodmap/favorites"
	"moodmap/location"
	"moodmap/mood"
	"moodmap/places"
	"moodmap/weather"
)

// User-facing messages.
const (
	MsgDenied         = "📍 Location access denied. Using default location."
	MsgDeviceFailed   = "❌ Unable to access your location"
	MsgLocationFailed = "❌ Location search failed"
	MsgLocationAbsent = "❌ Location not found"
)

var (
	// ErrBusy is returned when a search is already running for the session.
	ErrBusy = errors.New("search already in progress")
	// ErrUnknownMood is returned for a category that is not a mood button.
	ErrUnknownMood = errors.New("unknown mood")
	// ErrNoCard is returned when focusing a card that is not displayed.
	ErrNoCard = errors.New("no such card")
)

// WeatherSource reports current conditions.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Conditions, error)
}

// PlaceSource runs nearby searches.
type PlaceSource interface {
	Nearby(ctx context.Context, q places.Query) ([]*places.Place, error)
}

// Defaults are the values a new session starts with.
type Defaults struct {
	Location location.Coordinate
	Mood     string
	Radius   int
}

// Session is one browser's state. All mutation goes through its methods.
type Session struct {
	ID        string
	Notifier  *Notifier
	Favorites *favorites.Store

	resolver *location.Resolver
	weather  WeatherSource
	places   PlaceSource
	defaults Defaults
	guard    *semaphore.Weighted

	mu           sync.Mutex
	location     location.Coordinate
	source       location.Source
	locationText string
	moodText     string
	mood         string
	radius       int
	view         location.MapView
	results      places.Results
	conditions   *weather.Conditions
	loading      bool
	lastSeen     time.Time
}

func newSession(id string, env *Env) *Session {
	d := env.Defaults
	if d.Mood == "" {
		d.Mood = mood.Default
	}
	if d.Radius <= 0 {
		d.Radius = 5000
	}
	return &Session{
		ID:        id,
		Notifier:  &Notifier{},
		Favorites: favorites.New(env.Store, id),
		resolver:  &location.Resolver{Geocoder: env.Geocoder},
		weather:   env.Weather,
		places:    env.Places,
		defaults:  d,
		guard:     semaphore.NewWeighted(1),
		location:  d.Location,
		source:    location.SourceDefault,
		mood:      d.Mood,
		radius:    d.Radius,
		view:      location.NewMapView(d.Location),
		lastSeen:  time.Now(),
	}
}

// State is a point-in-time view of a session for the page.
type State struct {
	Location     location.Coordinate `json:"location"`
	Source       location.Source     `json:"source"`
	LocationText string              `json:"location_text"`
	MoodText     string              `json:"mood_text"`
	Mood         string              `json:"mood"`
	Radius       int                 `json:"radius"`
	View         location.MapView    `json:"view"`
	Loading      bool                `json:"loading"`
	Results      places.Results      `json:"results"`
	ResultsHTML  string              `json:"results_html"`
	Weather      *weather.Conditions `json:"weather,omitempty"`
	WeatherHTML  string              `json:"weather_html"`
	Message      string              `json:"message,omitempty"`
	Favorites    []string            `json:"favorites"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	st := State{
		Location:     s.location,
		Source:       s.source,
		LocationText: s.locationText,
		MoodText:     s.moodText,
		Mood:         s.mood,
		Radius:       s.radius,
		View:         s.view,
		Loading:      s.loading,
		Results:      s.results,
		Weather:      s.conditions,
	}
	if s.view.Marker != nil {
		m := *s.view.Marker
		st.View.Marker = &m
	}
	s.mu.Unlock()

	st.ResultsHTML = places.RenderResults(st.Results)
	st.WeatherHTML = weather.RenderBadge(st.Weather)
	st.Message = s.Notifier.Current()
	st.Favorites = s.Favorites.List()
	return st
}

// SelectMood makes category the active mood button and clears the mood text.
func (s *Session) SelectMood(category string) error {
	if !mood.IsButton(category) {
		return fmt.Errorf("%w: %q", ErrUnknownMood, category)
	}
	s.mu.Lock()
	s.mood = category
	s.moodText = ""
	s.mu.Unlock()
	return nil
}

// UseDevice applies a device geolocation fix.
func (s *Session) UseDevice(c location.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = c
	s.source = location.SourceDevice
	s.locationText = location.CurrentLocation
	s.view.SetView(c, location.ZoomLocation)
}

// DeviceFailed handles a failed geolocation request. At startup the session
// falls back to the default coordinate; otherwise nothing changes.
func (s *Session) DeviceFailed(startup bool) {
	if !startup {
		s.Notifier.Show(MsgDeviceFailed)
		return
	}
	s.mu.Lock()
	s.location = s.defaults.Location
	s.source = location.SourceDefault
	s.view.SetView(s.defaults.Location, location.ZoomLocation)
	s.mu.Unlock()
	s.Notifier.Show(MsgDenied)
}

// ClickMap sets the location to a clicked point and drops a pin there.
func (s *Session) ClickMap(c location.Coordinate) {
	s.setPin(c, location.SourceMap)
}

// DragPin moves the location with the pin.
func (s *Session) DragPin(c location.Coordinate) {
	s.setPin(c, location.SourcePin)
}

func (s *Session) setPin(c location.Coordinate, src location.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = c
	s.source = src
	s.locationText = location.SelectedOnMap
	s.view.PlacePin(c)
}

// FocusCard recentres the map on the card at index. The active location is
// left alone.
func (s *Session) FocusCard(index int) (places.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.results.Cards) {
		return places.Card{}, ErrNoCard
	}
	c := s.results.Cards[index]
	s.view.SetView(location.Coordinate{Lat: c.Lat, Lon: c.Lon}, location.ZoomPlace)
	return c, nil
}

// SelectSuggestion applies an autocomplete choice.
func (s *Session) SelectSuggestion(a places.Address) {
	c := location.Coordinate{Lat: a.Lat, Lon: a.Lon}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = c
	s.source = location.SourceSuggestion
	s.locationText = a.Formatted
	s.view.SetView(c, location.ZoomLocation)
}

// SavePlace adds name to the favorites and shows the outcome.
func (s *Session) SavePlace(name string) (bool, error) {
	added, err := s.Favorites.Save(name)
	if err != nil {
		return false, err
	}
	s.Notifier.Show(favorites.Message(added))
	return added, nil
}

// Clear empties both text fields and the results.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locationText = ""
	s.moodText = ""
	s.results = places.Results{}
}

// Location returns the active coordinate.
func (s *Session) Location() location.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Busy reports whether a search is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
