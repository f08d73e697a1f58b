// Package suggest provides debounced location autocomplete. Every input is
// numbered and only the response to the latest input is delivered, so a slow
// earlier lookup can never overwrite a newer list.
package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"moodmap/app"
	"moodmap/places"
)

const (
	// Debounce is how long input must be idle before a lookup is issued.
	Debounce = 300 * time.Millisecond
	// MinChars is the shortest trimmed query that is looked up.
	MinChars = 3
	// Limit is the number of suggestions requested.
	Limit = 5
)

// Fetcher looks up address suggestions.
type Fetcher interface {
	Autocomplete(ctx context.Context, text string, limit int) ([]places.Address, error)
}

// Update is a new suggestion list. An empty list clears the display.
type Update struct {
	Seq         uint64           `json:"seq"`
	Query       string           `json:"query"`
	Suggestions []places.Address `json:"items"`
}

// Suggester debounces input and delivers the latest suggestions to emit.
type Suggester struct {
	Fetcher Fetcher
	Delay   time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	emit    func(Update)
	seq     uint64
	timer   *time.Timer
	current []places.Address
}

// New returns a suggester that reports to emit. emit is called with the
// suggester's lock held, so updates arrive in sequence order.
func New(f Fetcher, emit func(Update)) *Suggester {
	ctx, cancel := context.WithCancel(context.Background())
	return &Suggester{
		Fetcher: f,
		Delay:   Debounce,
		ctx:     ctx,
		cancel:  cancel,
		emit:    emit,
	}
}

// Input handles a change to the location field. Short queries clear the
// list at once without a lookup; others are looked up after the debounce.
func (s *Suggester) Input(text string) {
	q := strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.invalidate()
	if len([]rune(q)) < MinChars {
		s.current = nil
		s.emit(Update{Seq: seq, Query: q})
		return
	}
	s.timer = time.AfterFunc(s.Delay, func() { s.lookup(seq, q) })
}

func (s *Suggester) lookup(seq uint64, q string) {
	s.mu.Lock()
	stale := seq != s.seq
	s.mu.Unlock()
	if stale {
		return
	}

	found, err := s.Fetcher.Autocomplete(s.ctx, q, Limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		app.Debug("suggest", "Dropped stale suggestions for %q (seq %d, latest %d)", q, seq, s.seq)
		return
	}
	if err != nil {
		app.Debug("suggest", "Autocomplete %q failed: %v", q, err)
		found = nil
	}
	if len(found) > Limit {
		found = found[:Limit]
	}
	s.current = found
	s.emit(Update{Seq: seq, Query: q, Suggestions: found})
}

// Select picks the suggestion at index and clears the list. It reports false
// when index is not in the list currently shown.
func (s *Suggester) Select(index int) (places.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.current) {
		return places.Address{}, false
	}
	picked := s.current[index]
	s.clear()
	return picked, true
}

// Dismiss clears the list and drops any pending or in-flight lookup.
func (s *Suggester) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Current returns the suggestions currently shown.
func (s *Suggester) Current() []places.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]places.Address(nil), s.current...)
}

// Close stops any pending lookup and cancels one in flight.
func (s *Suggester) Close() {
	s.mu.Lock()
	s.invalidate()
	s.mu.Unlock()
	s.cancel()
}

func (s *Suggester) clear() {
	seq := s.invalidate()
	s.current = nil
	s.emit(Update{Seq: seq})
}

// invalidate bumps the sequence and stops the pending timer. Callers hold mu.
func (s *Suggester) invalidate() uint64 {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return s.seq
}
