package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dvignesh/smsledger/internal/store"
)

// MarkerStore is an in-memory digest → timestamp map. PutIfAbsent holds the
// write lock across the presence check and the insert, so concurrent calls
// with the same digest cannot both observe "absent".
type MarkerStore struct {
	mu      sync.Mutex
	markers map[string]time.Time
}

// NewMarkerStore creates an empty in-memory marker store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{markers: make(map[string]time.Time)}
}

func (s *MarkerStore) PutIfAbsent(ctx context.Context, digest string, seenAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.markers[digest]; exists {
		return false, nil
	}
	s.markers[digest] = seenAt
	return true, nil
}

func (s *MarkerStore) Seen(ctx context.Context, digest string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, exists := s.markers[digest]
	return ts, exists, nil
}

func (s *MarkerStore) Delete(ctx context.Context, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, digest)
	return nil
}

func (s *MarkerStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for digest, ts := range s.markers {
		if ts.Before(cutoff) {
			delete(s.markers, digest)
			removed++
		}
	}
	return removed, nil
}

func (s *MarkerStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers), nil
}

func (s *MarkerStore) TrimOldest(ctx context.Context, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.markers) <= max {
		return nil
	}
	type entry struct {
		digest string
		seenAt time.Time
	}
	entries := make([]entry, 0, len(s.markers))
	for digest, ts := range s.markers {
		entries = append(entries, entry{digest, ts})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seenAt.Before(entries[j].seenAt) })
	for _, e := range entries[:len(entries)-max] {
		delete(s.markers, e.digest)
	}
	return nil
}

var _ store.MarkerStore = (*MarkerStore)(nil)
