package finder

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"moodmap/places"
	"moodmap/weather"
)

type testServer struct {
	*httptest.Server
	sessions *Sessions
	client   *http.Client
}

func newTestServer(t *testing.T, f *fakes) *testServer {
	t.Helper()
	ss := NewSessions(newTestEnv(t, f))
	r := chi.NewRouter()
	(&Handler{Sessions: ss}).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testServer{Server: srv, sessions: ss, client: client}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func TestPage(t *testing.T) {
	ts := newTestServer(t, &fakes{})
	resp, body := ts.do(t, "GET", "/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("#map").Length() != 1 {
		t.Error("missing map")
	}
	if n := doc.Find(".mood-btn").Length(); n != 6 {
		t.Errorf("mood buttons = %d", n)
	}
	if doc.Find(".mood-btn.active").AttrOr("data-mood", "") != "catering.cafe" {
		t.Error("default mood not active")
	}
	view := doc.Find("#map").AttrOr("data-view", "")
	if !strings.Contains(view, `"zoom":14`) {
		t.Errorf("data-view = %s", view)
	}
	if ts.sessions.Len() != 1 {
		t.Errorf("sessions = %d", ts.sessions.Len())
	}
}

func TestSearchEndpoint(t *testing.T) {
	f := &fakes{found: []*places.Place{{Name: "B", Distance: 500}, {Name: "A", Distance: 100}}}
	ts := newTestServer(t, f)

	resp, body := ts.do(t, "POST", "/api/search", `{"location":"Selected on Map","mood":"park\n","radius":2000}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got searchResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.State.Results.Status != places.StatusOK || got.State.Results.Cards[0].Name != "A" {
		t.Errorf("results = %+v", got.State.Results)
	}
	if f.query.Category != "leisure.park" || f.query.Radius != 2000 {
		t.Errorf("query = %+v", f.query)
	}
	if !strings.Contains(got.State.ResultsHTML, "0.1 KM") {
		t.Errorf("results html = %s", got.State.ResultsHTML)
	}
}

func TestSearchEndpoint_AdvisoryInState(t *testing.T) {
	f := &fakes{conditions: &weather.Conditions{Main: "Rain"}}
	ts := newTestServer(t, f)

	_, body := ts.do(t, "POST", "/api/search", `{"location":"Selected on Map","mood":"cafe"}`)
	var got searchResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.State.Message != weather.Advisory {
		t.Errorf("state message = %q, want the advisory", got.State.Message)
	}
}

func TestSearchEndpoint_Busy(t *testing.T) {
	ts := newTestServer(t, &fakes{})
	ts.do(t, "GET", "/api/state", "")

	var s *Session
	ts.sessions.mu.Lock()
	for _, v := range ts.sessions.sessions {
		s = v
	}
	ts.sessions.mu.Unlock()
	if !s.guard.TryAcquire(1) {
		t.Fatal("could not hold guard")
	}
	defer s.guard.Release(1)

	resp, _ := ts.do(t, "POST", "/api/search", `{}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestSearchEndpoint_Invalid(t *testing.T) {
	ts := newTestServer(t, &fakes{})
	if resp, _ := ts.do(t, "POST", "/api/search", `not json`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json status = %d", resp.StatusCode)
	}
	if resp, _ := ts.do(t, "POST", "/api/search", `{"radius":5}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad radius status = %d", resp.StatusCode)
	}
}

func TestMoodAndLocationEndpoints(t *testing.T) {
	ts := newTestServer(t, &fakes{})

	resp, body := ts.do(t, "POST", "/api/mood", `{"category":"leisure.park"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mood status = %d", resp.StatusCode)
	}
	var st State
	json.Unmarshal(body, &st)
	if st.Mood != "leisure.park" {
		t.Errorf("mood = %q", st.Mood)
	}

	if resp, _ := ts.do(t, "POST", "/api/mood", `{"category":"nope"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown mood status = %d", resp.StatusCode)
	}

	_, body = ts.do(t, "POST", "/api/location", `{"action":"click","lat":12.5,"lon":77.5}`)
	json.Unmarshal(body, &st)
	if st.LocationText != "Selected on Map" || st.Location.Lat != 12.5 {
		t.Errorf("state = %+v", st)
	}

	_, body = ts.do(t, "POST", "/api/location", `{"action":"denied"}`)
	json.Unmarshal(body, &st)
	if st.Message != MsgDenied || st.Location != home {
		t.Errorf("state = %+v", st)
	}

	if resp, _ := ts.do(t, "POST", "/api/location", `{"action":"teleport"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad action status = %d", resp.StatusCode)
	}
}

func TestFavoritesEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakes{})
	_, body := ts.do(t, "POST", "/api/favorites", `{"name":"Brew"}`)
	var got struct {
		Added     bool     `json:"added"`
		Message   string   `json:"message"`
		Favorites []string `json:"favorites"`
	}
	json.Unmarshal(body, &got)
	if !got.Added || len(got.Favorites) != 1 {
		t.Errorf("got %+v", got)
	}

	_, body = ts.do(t, "POST", "/api/favorites", `{"name":"Brew"}`)
	json.Unmarshal(body, &got)
	if got.Added || got.Message != "ℹ️ Already saved" {
		t.Errorf("got %+v", got)
	}

	_, body = ts.do(t, "GET", "/api/favorites", "")
	var names []string
	json.Unmarshal(body, &names)
	if len(names) != 1 || names[0] != "Brew" {
		t.Errorf("names = %v", names)
	}
}

func TestWrongMethod(t *testing.T) {
	ts := newTestServer(t, &fakes{})

	resp, body := ts.do(t, "GET", "/api/search", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Method not allowed") {
		t.Errorf("body = %q", body)
	}
}

func TestFavoritesEndpoint_BlankName(t *testing.T) {
	ts := newTestServer(t, &fakes{})

	resp, _ := ts.do(t, "POST", "/api/favorites", `{"name":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	_, body := ts.do(t, "GET", "/api/favorites", "")
	var names []string
	json.Unmarshal(body, &names)
	if len(names) != 0 {
		t.Errorf("names = %v", names)
	}
}

func TestDirectionsEndpoints(t *testing.T) {
	ts := newTestServer(t, &fakes{})

	resp, _ := ts.do(t, "GET", "/api/directions?lat=1.5&lon=2.5", "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != places.DirectionsURL(1.5, 2.5) {
		t.Errorf("location = %q", loc)
	}

	resp, body := ts.do(t, "GET", "/api/directions/qr?lat=1.5&lon=2.5&size=128", "")
	if resp.Header.Get("Content-Type") != "image/png" || !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Errorf("qr content-type = %q", resp.Header.Get("Content-Type"))
	}

	if resp, _ := ts.do(t, "GET", "/api/directions?lat=200&lon=0", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad coords status = %d", resp.StatusCode)
	}
}
