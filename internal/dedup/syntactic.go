// Package dedup implements the two duplicate-suppression layers: syntactic
// (re-delivery of the exact same message) and semantic (different messages
// describing the same real transaction).
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// DefaultSyntacticCap bounds the syntactic marker store; beyond it the oldest
// entries are evicted.
const DefaultSyntacticCap = 1000

// Syntactic recognizes exact re-deliveries by digest of sender, body and
// minute-bucketed timestamp. Check-and-record is a single atomic
// insert-if-absent against the marker store: of two concurrent deliveries of
// the same message exactly one proceeds.
type Syntactic struct {
	markers store.MarkerStore
	cap     int
}

// NewSyntactic creates a syntactic detector over the given marker store.
// maxEntries <= 0 selects DefaultSyntacticCap.
func NewSyntactic(markers store.MarkerStore, maxEntries int) *Syntactic {
	if maxEntries <= 0 {
		maxEntries = DefaultSyntacticCap
	}
	return &Syntactic{markers: markers, cap: maxEntries}
}

// CheckAndRecord records the message digest unless it is already present.
// duplicate is true when an identical message was seen before. The returned
// digest lets the caller Forget the marker if the run later fails.
func (s *Syntactic) CheckAndRecord(ctx context.Context, msg domain.Message) (duplicate bool, digest string, err error) {
	digest = MessageDigest(msg)
	inserted, err := s.markers.PutIfAbsent(ctx, digest, msg.ReceivedAt)
	if err != nil {
		return false, digest, fmt.Errorf("syntactic dedup: record marker: %w", err)
	}
	if !inserted {
		return true, digest, nil
	}

	// Self-trim so the store cannot grow without bound between cleanups.
	count, err := s.markers.Count(ctx)
	if err == nil && count > s.cap {
		_ = s.markers.TrimOldest(ctx, s.cap)
	}
	return false, digest, nil
}

// Cleanup removes markers recorded before now minus retention. Zero retention
// selects DefaultSyntacticRetention.
func (s *Syntactic) Cleanup(ctx context.Context, now time.Time, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultSyntacticRetention
	}
	removed, err := s.markers.DeleteOlderThan(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("syntactic dedup: cleanup: %w", err)
	}
	return removed, nil
}

// Forget removes a previously recorded marker. Called when a unit of work
// ends in a non-recorded terminal state, so a failed run does not block a
// legitimate retry of the same message.
func (s *Syntactic) Forget(ctx context.Context, digest string) error {
	return s.markers.Delete(ctx, digest)
}
