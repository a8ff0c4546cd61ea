package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether a transaction decreases or increases an account balance.
type Direction string

const (
	Expense Direction = "EXPENSE"
	Income  Direction = "INCOME"
)

// Transaction is one ledger entry, usually created by the message pipeline and
// thereafter editable only by the user.
type Transaction struct {
	ID string

	Amount     decimal.Decimal // always positive; sign comes from Direction
	Direction  Direction
	OccurredAt time.Time // event time from the message, not processing time

	Counterparty string
	Note         string
	Channel      string // payment channel label: UPI, IMPS, Card, ...

	CategoryID *string // nil = uncategorized
	AccountID  *string // nil = unlinked, no balance effect

	Manual       bool    // false for pipeline-created records
	OriginDigest *string // set only for pipeline-created records

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedAmount returns the amount with the sign adjusted for the direction:
// negative for expenses, positive for income.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Linked reports whether the transaction references an account.
func (t *Transaction) Linked() bool {
	return t.AccountID != nil
}
