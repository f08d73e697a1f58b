package finder

import (
	"context"
	"errors"

	"moodmap/app"
	"moodmap/location"
	"moodmap/mood"
	"moodmap/places"
	"moodmap/weather"
)

// Request is one search trigger with the page's field values.
type Request struct {
	LocationText string `json:"location" validate:"max=200"`
	MoodText     string `json:"mood" validate:"max=100"`
	Radius       int    `json:"radius" validate:"omitempty,gte=100,lte=50000"`
}

// LocationStep is the outcome of resolving the location field.
type LocationStep struct {
	Coordinate location.Coordinate `json:"coordinate"`
	Geocoded   bool                `json:"geocoded"`
	Err        error               `json:"-"`
}

// WeatherStep is the outcome of the weather check.
type WeatherStep struct {
	Conditions *weather.Conditions `json:"conditions,omitempty"`
	Advisory   string              `json:"advisory,omitempty"`
	Err        error               `json:"-"`
}

// MoodStep is the resolved category and text filter.
type MoodStep struct {
	mood.Selection
}

// PlacesStep is the outcome of the nearby query.
type PlacesStep struct {
	Query   places.Query    `json:"-"`
	Places  []*places.Place `json:"places"`
	Results places.Results  `json:"results"`
	Err     error           `json:"-"`
}

// Outcome collects every step of one search.
type Outcome struct {
	Location LocationStep `json:"location"`
	Weather  WeatherStep  `json:"weather"`
	Mood     MoodStep     `json:"mood"`
	Places   PlacesStep   `json:"places"`
	Messages []string     `json:"messages,omitempty"`
}

func (o *Outcome) notify(n *Notifier, msg string) {
	o.Messages = append(o.Messages, msg)
	n.Show(msg)
}

// Search runs the pipeline. Each step finishes before the next starts and
// all of them use the coordinate captured by the first. A search started
// while another is running returns ErrBusy without touching anything.
func (s *Session) Search(ctx context.Context, req Request) (*Outcome, error) {
	if !s.guard.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.guard.Release(1)

	s.mu.Lock()
	s.loading = true
	s.locationText = req.LocationText
	s.moodText = req.MoodText
	if req.Radius > 0 {
		s.radius = req.Radius
	}
	s.results = places.Results{}
	current, selected, radius := s.location, s.mood, s.radius
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	out := &Outcome{}

	out.Location = s.resolveLocation(ctx, req.LocationText, current)
	switch {
	case out.Location.Err == nil:
	case errors.Is(out.Location.Err, location.ErrNotFound):
		out.notify(s.Notifier, MsgLocationAbsent)
	default:
		app.Log("finder", "Location search failed: %v", out.Location.Err)
		out.notify(s.Notifier, MsgLocationFailed)
	}
	at := out.Location.Coordinate

	out.Weather = s.checkWeather(ctx, at)
	if out.Weather.Advisory != "" {
		out.notify(s.Notifier, out.Weather.Advisory)
	}

	out.Mood = resolveMood(req.MoodText, selected)

	out.Places = s.queryPlaces(ctx, places.Query{
		Lat:      at.Lat,
		Lon:      at.Lon,
		Radius:   radius,
		Category: out.Mood.Category,
		Text:     out.Mood.Text,
		Limit:    places.DefaultLimit,
	})

	s.mu.Lock()
	s.results = out.Places.Results
	s.conditions = out.Weather.Conditions
	s.mu.Unlock()

	return out, nil
}

// resolveLocation geocodes the location text when needed. On success the
// session location and map move to the match.
func (s *Session) resolveLocation(ctx context.Context, text string, current location.Coordinate) LocationStep {
	res, err := s.resolver.Resolve(ctx, text, current)
	if err != nil {
		return LocationStep{Coordinate: current, Err: err}
	}
	if res.Geocoded {
		s.mu.Lock()
		s.location = res.Coordinate
		s.source = location.SourceManual
		s.view.SetView(res.Coordinate, location.ZoomLocation)
		s.mu.Unlock()
	}
	return LocationStep{Coordinate: res.Coordinate, Geocoded: res.Geocoded}
}

// checkWeather never fails the search; an error just means no advisory.
func (s *Session) checkWeather(ctx context.Context, at location.Coordinate) WeatherStep {
	if s.weather == nil {
		return WeatherStep{}
	}
	cond, err := s.weather.Current(ctx, at.Lat, at.Lon)
	if err != nil {
		app.Debug("finder", "Weather unavailable: %v", err)
		return WeatherStep{Err: err}
	}
	return WeatherStep{Conditions: cond, Advisory: weather.AdvisoryFor(cond)}
}

func resolveMood(text, selected string) MoodStep {
	return MoodStep{Selection: mood.Resolve(text, selected)}
}

func (s *Session) queryPlaces(ctx context.Context, q places.Query) PlacesStep {
	found, err := s.places.Nearby(ctx, q)
	if err != nil {
		app.Log("finder", "Places query failed: %v", err)
	}
	return PlacesStep{
		Query:   q,
		Places:  found,
		Results: places.BuildResults(found, err),
		Err:     err,
	}
}
