package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") != "17.385" || q.Get("lon") != "78.4867" {
			t.Errorf("coords = %s,%s", q.Get("lat"), q.Get("lon"))
		}
		if q.Get("units") != "metric" || q.Get("appid") != "k" {
			t.Errorf("units=%q appid=%q", q.Get("units"), q.Get("appid"))
		}
		w.Write([]byte(`{"name":"Hyderabad","weather":[{"main":"Rain","description":"light rain","icon":"10d"}],"main":{"temp":24.5,"feels_like":25,"humidity":88}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	cond, err := c.Current(context.Background(), 17.385, 78.4867)
	if err != nil {
		t.Fatal(err)
	}
	if !cond.Raining() {
		t.Error("expected rain")
	}
	if cond.Place != "Hyderabad" || cond.TempC != 24.5 || cond.Humidity != 88 {
		t.Errorf("unexpected conditions: %+v", cond)
	}
	if AdvisoryFor(cond) != Advisory {
		t.Errorf("advisory = %q", AdvisoryFor(cond))
	}
}

func TestCurrent_NoWeatherEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[],"main":{"temp":30}}`))
	}))
	defer srv.Close()

	cond, err := NewClient(srv.URL, "k").Current(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cond.Raining() || AdvisoryFor(cond) != "" {
		t.Error("expected no advisory without weather entries")
	}
}

func TestCurrent_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "k").Current(context.Background(), 0, 0); err == nil {
		t.Error("expected error on 500")
	}
	if _, err := NewClient(srv.URL, "").Current(context.Background(), 0, 0); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestAdvisoryFor(t *testing.T) {
	tests := []struct {
		main string
		want string
	}{
		{"Rain", Advisory},
		{"Drizzle", ""},
		{"Thunderstorm", ""},
		{"Clear", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := AdvisoryFor(&Conditions{Main: tt.main}); got != tt.want {
			t.Errorf("AdvisoryFor(%q) = %q, want %q", tt.main, got, tt.want)
		}
	}
	if AdvisoryFor(nil) != "" {
		t.Error("nil conditions should have no advisory")
	}
}

func TestRenderBadge(t *testing.T) {
	if RenderBadge(nil) != "" {
		t.Error("nil badge should be empty")
	}
	out := RenderBadge(&Conditions{Main: "Clear", Description: "clear sky", TempC: 31.4, Place: "<x>"})
	if !strings.Contains(out, "31°C clear sky") {
		t.Errorf("badge = %q", out)
	}
	if strings.Contains(out, "<x>") {
		t.Error("place was not escaped")
	}
}
