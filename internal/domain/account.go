package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one of the user's financial accounts. Balance is maintained as the
// running sum of signed transaction effects since creation; it is mutated only
// through the ledger, never directly by the pipeline stages.
type Account struct {
	ID     string
	Name   string
	Type   string // free-text label: "Savings", "Credit Card", ...
	Number string // optional account-number fragment, often a masked tail

	Balance decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a spending category with a direction tag. Categories are seeded
// once and then user-managed; the pipeline only reads them.
type Category struct {
	ID        string
	Name      string
	Direction Direction
	Icon      string // display metadata
}

// Message is the inbound event triple produced by an external source (SMS
// receiver, notification listener, backup import). Sources may redeliver the
// same message and may deliver out of chronological order.
type Message struct {
	Sender     string
	Body       string
	ReceivedAt time.Time
}
