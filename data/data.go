// Package data provides the durable key-value store behind favorites.
package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("data: key not found")

// Store is a durable key-value store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte) error
	Close() error
}

// Open opens the store for the given backend ("sqlite" or "badger")
// rooted at dir.
func Open(backend, dir string) (Store, error) {
	dir = os.ExpandEnv(dir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	switch backend {
	case "", "sqlite":
		return OpenSQLite(filepath.Join(dir, "moodmap.db"))
	case "badger":
		return OpenBadger(filepath.Join(dir, "badger"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// LoadJSON decodes the value at key into val.
func LoadJSON(s Store, key string, val interface{}) error {
	b, err := s.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, val)
}

// SaveJSON encodes val and writes it at key.
func SaveJSON(s Store, key string, val interface{}) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.Set(key, b)
}
