// Package favorites keeps the list of saved place names for a browser
// session. Names are unique and the list only grows.
package favorites

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"moodmap/app"
	"moodmap/data"
)

// Key is the storage key favorites are kept under.
const Key = "savedPlaces"

const (
	MsgSaved        = "✅ Place saved"
	MsgAlreadySaved = "ℹ️ Already saved"
)

// Store is one session's favorites list backed by a data.Store.
type Store struct {
	mu    sync.RWMutex
	db    data.Store
	key   string
	names []string
}

// New returns a store for session. An empty session uses the bare key.
func New(db data.Store, session string) *Store {
	key := Key
	if session != "" {
		key = Key + "/" + session
	}
	return &Store{db: db, key: key}
}

// Load reads the persisted list. A missing or corrupt value yields an empty
// list.
func (s *Store) Load() error {
	var names []string
	err := data.LoadJSON(s.db, s.key, &names)
	if err != nil && !errors.Is(err, data.ErrNotFound) {
		app.Log("favorites", "Failed to load %s: %v", s.key, err)
		names = nil
	}

	s.mu.Lock()
	s.names = lo.Uniq(lo.Compact(names))
	s.mu.Unlock()
	return nil
}

// Save appends name and persists the list. It reports false without
// writing when the name is already present.
func (s *Store) Save(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, errors.New("empty place name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.names, name) {
		return false, nil
	}

	next := append(slices.Clone(s.names), name)
	if err := data.SaveJSON(s.db, s.key, next); err != nil {
		return false, fmt.Errorf("save favorite: %w", err)
	}
	s.names = next
	app.Log("favorites", "Saved %q (%d total)", name, len(next))
	return true, nil
}

// List returns a copy of the saved names in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.names)
}

// Message returns the notification for a Save outcome.
func Message(added bool) string {
	if added {
		return MsgSaved
	}
	return MsgAlreadySaved
}

// Render renders the favorites list.
func Render(names []string) string {
	if len(names) == 0 {
		return app.Empty("No saved places yet")
	}
	var sb strings.Builder
	sb.WriteString(`<ul class="favorites">`)
	for _, n := range names {
		sb.WriteString(`<li>❤️ ` + html.EscapeString(n) + `</li>`)
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}
