package finder

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"moodmap/app"
	"moodmap/data"
	"moodmap/location"
)

// CookieName is the session cookie.
const CookieName = "moodmap_session"

const cookieMaxAge = 365 * 24 * 60 * 60

// Env is what every session shares.
type Env struct {
	Geocoder location.Geocoder
	Weather  WeatherSource
	Places   PlaceSource
	Store    data.Store
	Defaults Defaults
	// Secure marks the session cookie Secure.
	Secure bool
}

// Sessions maps session cookies to live sessions. A session evicted for
// idleness is rebuilt from its cookie on the next request, so favorites
// survive eviction.
type Sessions struct {
	env *Env

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions returns an empty registry.
func NewSessions(env *Env) *Sessions {
	return &Sessions{env: env, sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it if needed.
func (ss *Sessions) Get(id string) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, ok := ss.sessions[id]; ok {
		s.touch()
		return s
	}
	s := newSession(id, ss.env)
	if err := s.Favorites.Load(); err != nil {
		app.Log("finder", "Failed to load favorites for %s: %v", id, err)
	}
	ss.sessions[id] = s
	return s
}

// ForRequest returns the session named by the request cookie. When the
// cookie is missing or malformed a new session is started and, if w is not
// nil, the cookie is set.
func (ss *Sessions) ForRequest(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return ss.Get(c.Value)
		}
	}

	id := uuid.NewString()
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   cookieMaxAge,
			HttpOnly: true,
			Secure:   ss.env.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ss.Get(id)
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// Prune drops sessions idle for longer than idle that are not searching.
func (ss *Sessions) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for id, s := range ss.sessions {
		if s.idleSince().Before(cutoff) && !s.Busy() {
			delete(ss.sessions, id)
			n++
		}
	}
	return n
}

// Run prunes idle sessions every interval until ctx is done.
func (ss *Sessions) Run(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := ss.Prune(idle); n > 0 {
				app.Log("finder", "Pruned %d idle sessions (%d live)", n, ss.Len())
			}
		}
	}
}
