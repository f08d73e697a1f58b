package location

import (
	"context"
	"errors"
	"testing"

	"moodmap/places"
)

type fakeGeocoder struct {
	calls int
	out   []places.Address
	err   error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, text string) ([]places.Address, error) {
	f.calls++
	return f.out, f.err
}

func TestNeedsGeocode(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{SelectedOnMap, false},
		{CurrentLocation, false},
		{" Current Location ", false},
		{"Paris", true},
		{"current location", true},
	}
	for _, tt := range tests {
		if got := NeedsGeocode(tt.text); got != tt.want {
			t.Errorf("NeedsGeocode(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestResolve_Sentinel(t *testing.T) {
	g := &fakeGeocoder{}
	r := &Resolver{Geocoder: g}
	cur := Coordinate{Lat: 1, Lon: 2}

	res, err := r.Resolve(context.Background(), SelectedOnMap, cur)
	if err != nil {
		t.Fatal(err)
	}
	if res.Coordinate != cur || res.Geocoded {
		t.Errorf("unexpected resolution: %+v", res)
	}
	if g.calls != 0 {
		t.Errorf("geocoder called %d times", g.calls)
	}
}

func TestResolve_FirstMatch(t *testing.T) {
	g := &fakeGeocoder{out: []places.Address{
		{Formatted: "Paris, France", Lat: 48.85, Lon: 2.35},
		{Formatted: "Paris, TX", Lat: 33.66, Lon: -95.55},
	}}
	r := &Resolver{Geocoder: g}

	res, err := r.Resolve(context.Background(), "Paris", Coordinate{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Coordinate != (Coordinate{Lat: 48.85, Lon: 2.35}) {
		t.Errorf("coordinate = %v", res.Coordinate)
	}
	if res.Source != SourceManual || !res.Geocoded || res.Label != "Paris, France" {
		t.Errorf("unexpected resolution: %+v", res)
	}
}

func TestResolve_KeepsCurrentOnFailure(t *testing.T) {
	cur := Coordinate{Lat: 17.385, Lon: 78.4867}

	r := &Resolver{Geocoder: &fakeGeocoder{}}
	res, err := r.Resolve(context.Background(), "Nowhere", cur)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if res.Coordinate != cur {
		t.Errorf("coordinate changed to %v", res.Coordinate)
	}

	boom := errors.New("boom")
	r = &Resolver{Geocoder: &fakeGeocoder{err: boom}}
	res, err = r.Resolve(context.Background(), "Paris", cur)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if res.Coordinate != cur {
		t.Errorf("coordinate changed to %v", res.Coordinate)
	}
}

func TestMapView_SingleMarker(t *testing.T) {
	v := NewMapView(Coordinate{Lat: 1, Lon: 1})
	if v.Zoom != ZoomLocation || v.Marker == nil || *v.Marker != v.Center {
		t.Fatalf("unexpected view: %+v", v)
	}

	v.SetView(Coordinate{Lat: 2, Lon: 2}, ZoomPlace)
	if v.Zoom != ZoomPlace || *v.Marker != (Coordinate{Lat: 2, Lon: 2}) {
		t.Errorf("unexpected view: %+v", v)
	}

	v.PlacePin(Coordinate{Lat: 3, Lon: 3})
	if !v.Draggable || *v.Marker != (Coordinate{Lat: 3, Lon: 3}) {
		t.Errorf("pin not placed: %+v", v)
	}
	if v.Center != (Coordinate{Lat: 2, Lon: 2}) {
		t.Error("pin should not recenter")
	}
}

func TestCoordinateValid(t *testing.T) {
	if !(Coordinate{Lat: 17.385, Lon: 78.4867}).Valid() {
		t.Error("expected valid")
	}
	if (Coordinate{Lat: 91}).Valid() || (Coordinate{Lon: -181}).Valid() {
		t.Error("expected invalid")
	}
}
