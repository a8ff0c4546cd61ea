package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// Semantic detector defaults.
var (
	// DefaultWindow is the time window inside which two transactions with
	// near-equal amounts are considered the same real-world event.
	DefaultWindow = 5 * time.Minute
	// DefaultAmountTolerance is the absolute amount tolerance for signal (a).
	DefaultAmountTolerance = decimal.NewFromInt(1)
	// DefaultContentRetention is how long content-digest markers are kept.
	DefaultContentRetention = 7 * 24 * time.Hour
	// DefaultSyntacticRetention is how long exact-message markers are kept.
	DefaultSyntacticRetention = 24 * time.Hour
)

// Semantic recognizes different messages that describe the same real-world
// transaction. Three independent signals, any one sufficient:
//
//	(a) a persisted transaction of the same direction, amount within
//	    tolerance, timestamp within the window;
//	(b) a short-term marker keyed by (amount, direction, minute bucket)
//	    recorded within the window;
//	(c) a long-term marker keyed by the normalized content digest.
//
// The short-term marker for the message's own minute bucket is reserved
// atomically during the check, which closes the race between two concurrent
// deliveries describing the same transaction. The content digest is recorded
// only after successful persistence.
type Semantic struct {
	txns      store.TransactionStore
	shortTerm store.MarkerStore
	content   store.MarkerStore

	window    time.Duration
	tolerance decimal.Decimal
}

// NewSemantic creates a semantic detector. Zero window/tolerance select the
// package defaults.
func NewSemantic(txns store.TransactionStore, shortTerm, content store.MarkerStore, window time.Duration, tolerance decimal.Decimal) *Semantic {
	if window <= 0 {
		window = DefaultWindow
	}
	if tolerance.IsZero() {
		tolerance = DefaultAmountTolerance
	}
	return &Semantic{
		txns:      txns,
		shortTerm: shortTerm,
		content:   content,
		window:    window,
		tolerance: tolerance,
	}
}

// CheckAndReserve evaluates all three signals for the parsed message. When the
// message is not a duplicate, the short-term marker for its own minute bucket
// has been reserved by the time this returns.
func (s *Semantic) CheckAndReserve(ctx context.Context, msg domain.Message, amount decimal.Decimal, direction domain.Direction) (bool, error) {
	from := msg.ReceivedAt.Add(-s.window)
	to := msg.ReceivedAt.Add(s.window)

	// (a) an already-persisted similar transaction.
	_, err := s.txns.FindSimilar(ctx, direction, amount.Sub(s.tolerance), amount.Add(s.tolerance), from, to)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, fmt.Errorf("semantic dedup: find similar: %w", err)
	}

	// (c) the normalized content digest.
	if _, seen, err := s.content.Seen(ctx, ContentDigest(msg, amount, direction)); err != nil {
		return false, fmt.Errorf("semantic dedup: content marker: %w", err)
	} else if seen {
		return true, nil
	}

	// (b) short-term event markers across the window; the message's own
	// bucket is claimed with an atomic insert-if-absent.
	ownBucket := minuteBucket(msg.ReceivedAt)
	for bucket := minuteBucket(from); bucket <= minuteBucket(to); bucket++ {
		key := eventKey(amount, direction, bucket)
		if bucket == ownBucket {
			inserted, err := s.shortTerm.PutIfAbsent(ctx, key, msg.ReceivedAt)
			if err != nil {
				return false, fmt.Errorf("semantic dedup: reserve event marker: %w", err)
			}
			if !inserted {
				return true, nil
			}
			continue
		}
		if _, seen, err := s.shortTerm.Seen(ctx, key); err != nil {
			return false, fmt.Errorf("semantic dedup: event marker: %w", err)
		} else if seen {
			// Give the reservation back; this unit is a duplicate.
			_ = s.shortTerm.Delete(ctx, eventKey(amount, direction, ownBucket))
			return true, nil
		}
	}
	return false, nil
}

// Release drops the short-term reservation taken by CheckAndReserve. Called
// when the unit of work fails after the semantic check, so a retry is not
// locked out by its own ghost.
func (s *Semantic) Release(ctx context.Context, msg domain.Message, amount decimal.Decimal, direction domain.Direction) error {
	return s.shortTerm.Delete(ctx, eventKey(amount, direction, minuteBucket(msg.ReceivedAt)))
}

// Record persists the long-term content digest. Called only after the
// transaction has been stored.
func (s *Semantic) Record(ctx context.Context, msg domain.Message, amount decimal.Decimal, direction domain.Direction) error {
	if _, err := s.content.PutIfAbsent(ctx, ContentDigest(msg, amount, direction), msg.ReceivedAt); err != nil {
		return fmt.Errorf("semantic dedup: record content marker: %w", err)
	}
	return nil
}

// Cleanup removes stale markers from both stores: short-term entries older
// than the window, content digests older than the retention period.
func (s *Semantic) Cleanup(ctx context.Context, now time.Time, contentRetention time.Duration) (int, error) {
	if contentRetention <= 0 {
		contentRetention = DefaultContentRetention
	}
	removedShort, err := s.shortTerm.DeleteOlderThan(ctx, now.Add(-s.window))
	if err != nil {
		return 0, fmt.Errorf("semantic dedup: cleanup short-term: %w", err)
	}
	removedContent, err := s.content.DeleteOlderThan(ctx, now.Add(-contentRetention))
	if err != nil {
		return removedShort, fmt.Errorf("semantic dedup: cleanup content: %w", err)
	}
	return removedShort + removedContent, nil
}
