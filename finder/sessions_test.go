package finder

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestForRequestCookie(t *testing.T) {
	ss := NewSessions(newTestEnv(t, &fakes{}))

	w := httptest.NewRecorder()
	s := ss.ForRequest(w, httptest.NewRequest("GET", "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != s.ID {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("cookie should be HttpOnly")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: s.ID})
	w = httptest.NewRecorder()
	if again := ss.ForRequest(w, r); again != s {
		t.Error("same cookie returned a different session")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("cookie reissued for known session")
	}

	r = httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	if other := ss.ForRequest(httptest.NewRecorder(), r); other == s {
		t.Error("malformed cookie reused a session")
	}
}

func TestPruneKeepsFavorites(t *testing.T) {
	ss := NewSessions(newTestEnv(t, &fakes{}))
	s := ss.Get("11111111-1111-1111-1111-111111111111")
	s.SavePlace("Keep me")

	time.Sleep(5 * time.Millisecond)
	if n := ss.Prune(time.Millisecond); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if ss.Len() != 0 {
		t.Fatalf("len = %d", ss.Len())
	}

	again := ss.Get("11111111-1111-1111-1111-111111111111")
	if again == s {
		t.Fatal("expected a rebuilt session")
	}
	if got := again.Favorites.List(); len(got) != 1 || got[0] != "Keep me" {
		t.Errorf("favorites = %v", got)
	}
}
