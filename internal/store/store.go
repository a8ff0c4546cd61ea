// Package store defines the persistence contracts consumed by the message
// pipeline. Implementations live in subpackages (memory, bigquery). All reads
// are synchronous point-in-time reads; there is no subscription contract here.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/domain"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with a concurrent update.
	ErrConflict = errors.New("conflict")
)

// TransactionStore persists ledger transactions.
type TransactionStore interface {
	Insert(ctx context.Context, txn *domain.Transaction) error
	Update(ctx context.Context, txn *domain.Transaction) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// QueryByTimeRange returns transactions with OccurredAt in [from, to].
	QueryByTimeRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)

	// FindSimilar returns at most one existing transaction of the given
	// direction whose amount lies in [amountLow, amountHigh] and whose
	// OccurredAt lies in [from, to]. Returns ErrNotFound when there is none.
	FindSimilar(ctx context.Context, direction domain.Direction, amountLow, amountHigh decimal.Decimal, from, to time.Time) (*domain.Transaction, error)

	// RecentBySender returns the most recent pipeline-created transactions
	// whose note records the given sender, newest first, at most limit.
	RecentBySender(ctx context.Context, sender string, limit int) ([]*domain.Transaction, error)
}

// AccountStore persists user accounts.
type AccountStore interface {
	List(ctx context.Context) ([]*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Insert(ctx context.Context, acc *domain.Account) error
	Update(ctx context.Context, acc *domain.Account) error
}

// CategoryStore reads spending categories. The pipeline never writes them.
type CategoryStore interface {
	List(ctx context.Context) ([]*domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

// SettingsStore holds per-source feature toggles and the optional default
// account used as an attribution fallback.
type SettingsStore interface {
	IsSourceEnabled(ctx context.Context, source string) (bool, error)
	SetSourceEnabled(ctx context.Context, source string, enabled bool) error

	// DefaultAccountID returns ErrNotFound when no default is configured.
	DefaultAccountID(ctx context.Context) (string, error)
	SetDefaultAccountID(ctx context.Context, id string) error
}

// MarkerStore is a persisted digest → last-seen-timestamp map used purely for
// duplicate suppression. Syntactic and semantic digests get separate stores.
type MarkerStore interface {
	// PutIfAbsent records the digest unless it is already present. The insert
	// and the presence check are one atomic operation: of N concurrent calls
	// with the same digest exactly one observes inserted == true.
	PutIfAbsent(ctx context.Context, digest string, seenAt time.Time) (inserted bool, err error)

	// Seen returns the recorded timestamp for the digest, if present.
	Seen(ctx context.Context, digest string) (time.Time, bool, error)

	Delete(ctx context.Context, digest string) error

	// DeleteOlderThan removes entries recorded before cutoff and reports how
	// many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	Count(ctx context.Context) (int, error)

	// TrimOldest evicts the oldest entries until at most max remain.
	TrimOldest(ctx context.Context, max int) error
}

// Ledger couples transaction writes with their account balance effects. Each
// method is one atomic unit: a crash or conflicting concurrent update must not
// leave a balance inconsistent with the recorded transactions.
type Ledger interface {
	// RecordTransaction inserts the transaction and, when it is linked to an
	// account, adjusts that account's balance by the signed amount.
	RecordTransaction(ctx context.Context, txn *domain.Transaction) error

	// UpdateTransaction first undoes the prior balance effect of the stored
	// version, then applies the new one.
	UpdateTransaction(ctx context.Context, txn *domain.Transaction) error

	// DeleteTransaction removes the transaction and reverses its effect.
	DeleteTransaction(ctx context.Context, id string) error
}
