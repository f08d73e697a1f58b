package places

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestBuildResults_SortedNearestFirst(t *testing.T) {
	found := []*Place{
		{Name: "A", Address: "a st", Distance: 3000},
		{Name: "B", Address: "b st", Distance: 500},
		{Name: "C", Address: "c st", Distance: 1200},
	}
	r := BuildResults(found, nil)
	if r.Status != StatusOK {
		t.Fatalf("status = %q", r.Status)
	}
	want := []string{"0.5", "1.2", "3.0"}
	for i, c := range r.Cards {
		if c.DistanceKM != want[i] {
			t.Errorf("card %d distance = %q, want %q", i, c.DistanceKM, want[i])
		}
	}
	if found[0].Name != "A" {
		t.Error("input slice was reordered")
	}

	doc := parse(t, RenderResults(r))
	tags := doc.Find(".place-card .dist-tag")
	if tags.Length() != 3 {
		t.Fatalf("rendered %d cards, want 3", tags.Length())
	}
	tags.Each(func(i int, s *goquery.Selection) {
		if s.Text() != want[i]+" KM" {
			t.Errorf("tag %d = %q", i, s.Text())
		}
	})
}

func TestFormatKM(t *testing.T) {
	tests := []struct {
		metres float64
		want   string
	}{
		{0, "0.0"},
		{250, "0.3"},
		{500, "0.5"},
		{750, "0.8"},
		{1200, "1.2"},
		{1250, "1.3"},
		{2250, "2.3"},
		{4999, "5.0"},
	}
	for _, tt := range tests {
		if got := FormatKM(tt.metres); got != tt.want {
			t.Errorf("FormatKM(%v) = %q, want %q", tt.metres, got, tt.want)
		}
	}
}

func TestBuildResults_Empty(t *testing.T) {
	r := BuildResults(nil, nil)
	if r.Status != StatusEmpty || r.Message != MsgEmpty || len(r.Cards) != 0 {
		t.Errorf("unexpected results: %+v", r)
	}
	doc := parse(t, RenderResults(r))
	if doc.Find(".place-card").Length() != 0 {
		t.Error("expected no cards")
	}
	if got := doc.Find("p.empty").Text(); got != MsgEmpty {
		t.Errorf("message = %q", got)
	}
}

func TestBuildResults_Failed(t *testing.T) {
	r := BuildResults([]*Place{{Name: "x"}}, errors.New("boom"))
	if r.Status != StatusFailed || r.Message != MsgFailed || len(r.Cards) != 0 {
		t.Errorf("unexpected results: %+v", r)
	}
	if !strings.Contains(RenderResults(r), MsgFailed) {
		t.Error("expected failure message in output")
	}
}

func TestRenderResults_Idle(t *testing.T) {
	if got := RenderResults(Results{}); got != "" {
		t.Errorf("idle render = %q", got)
	}
}

func TestNewCard_Fallbacks(t *testing.T) {
	c := NewCard(&Place{Lat: 1.5, Lon: 2.5, Distance: 49})
	if c.Name != UnnamedPlace {
		t.Errorf("name = %q", c.Name)
	}
	if c.Address != NoAddress {
		t.Errorf("address = %q", c.Address)
	}
	if c.Rating != NoRating {
		t.Errorf("rating = %q", c.Rating)
	}
	if c.DistanceKM != "0.0" {
		t.Errorf("distance = %q", c.DistanceKM)
	}
	if !strings.Contains(c.DirectionsURL, "destination=1.500000,2.500000") {
		t.Errorf("directions = %q", c.DirectionsURL)
	}
}

func TestRenderResults_EscapesAndActions(t *testing.T) {
	r := BuildResults([]*Place{{Name: `<b>Bold</b>`, Address: "x", Lat: 1, Lon: 2}}, nil)
	out := RenderResults(r)
	if strings.Contains(out, "<b>Bold</b>") {
		t.Error("name was not escaped")
	}
	doc := parse(t, out)
	card := doc.Find(".place-card")
	if v, _ := card.Attr("data-lat"); v != "1.000000" {
		t.Errorf("data-lat = %q", v)
	}
	save := card.Find(`button[data-action="save"]`)
	if v, _ := save.Attr("data-name"); v != "<b>Bold</b>" {
		t.Errorf("data-name = %q", v)
	}
	if card.Find(`button[data-action="directions"]`).Length() != 1 {
		t.Error("missing directions button")
	}
}
