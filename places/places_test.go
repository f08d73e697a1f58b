package places

import (
	"math"
	"testing"
)

func TestSortByDistance(t *testing.T) {
	ps := []*Place{
		{Name: "far", Distance: 3000},
		{Name: "near", Distance: 500},
		{Name: "mid", Distance: 1200},
	}
	SortByDistance(ps)
	want := []string{"near", "mid", "far"}
	for i, p := range ps {
		if p.Name != want[i] {
			t.Errorf("index %d = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestSortByDistanceStable(t *testing.T) {
	ps := []*Place{
		{Name: "a", Distance: 100},
		{Name: "b", Distance: 100},
		{Name: "c", Distance: 50},
	}
	SortByDistance(ps)
	if ps[0].Name != "c" || ps[1].Name != "a" || ps[2].Name != "b" {
		t.Errorf("unexpected order: %s %s %s", ps[0].Name, ps[1].Name, ps[2].Name)
	}
}

func TestHaversine(t *testing.T) {
	if d := haversine(17.385, 78.4867, 17.385, 78.4867); d != 0 {
		t.Errorf("same point distance = %f", d)
	}
	// One degree of latitude is roughly 111km.
	d := haversine(0, 0, 1, 0)
	if math.Abs(d-111195) > 100 {
		t.Errorf("1 degree latitude = %f, want ~111195", d)
	}
}
