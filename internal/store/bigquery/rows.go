// Package bigquery implements the store contracts over BigQuery tables. Row
// structs map 1:1 onto table schemas; repositories share one client and use
// parameterized queries throughout.
package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/domain"
)

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	Amount    *big.Rat `bigquery:"amount"`    // REQUIRED NUMERIC, always positive
	Direction string   `bigquery:"direction"` // REQUIRED: EXPENSE | INCOME

	OccurredTS   time.Time  `bigquery:"occurred_ts"`   // event time, REQUIRED
	OccurredDate civil.Date `bigquery:"occurred_date"` // DATE partition column

	Counterparty string `bigquery:"counterparty"`
	Note         string `bigquery:"note"`
	Channel      string `bigquery:"channel"`

	CategoryID bigquery.NullString `bigquery:"category_id"` // NULLABLE
	AccountID  bigquery.NullString `bigquery:"account_id"`  // NULLABLE

	Manual       bool                `bigquery:"manual"`
	OriginDigest bigquery.NullString `bigquery:"origin_digest"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"`
	UpdatedTS time.Time `bigquery:"updated_ts"`
}

type AccountRow struct {
	AccountID     string    `bigquery:"account_id"` // REQUIRED
	AccountName   string    `bigquery:"account_name"`
	AccountType   string    `bigquery:"account_type"`
	AccountNumber string    `bigquery:"account_number"`
	Balance       *big.Rat  `bigquery:"balance"` // NUMERIC, signed
	CreatedTS     time.Time `bigquery:"created_ts"`
	UpdatedTS     time.Time `bigquery:"updated_ts"`
}

type CategoryRow struct {
	CategoryID   string `bigquery:"category_id"` // REQUIRED
	CategoryName string `bigquery:"category_name"`
	Direction    string `bigquery:"direction"`
	Icon         string `bigquery:"icon"`
}

type MarkerRow struct {
	Digest string    `bigquery:"digest"` // REQUIRED
	SeenTS time.Time `bigquery:"seen_ts"`
}

func ratFromDecimal(d decimal.Decimal) *big.Rat {
	return d.Rat()
}

func decimalFromRat(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, 2)
}

func nullableString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

func stringPtr(s bigquery.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.StringVal
	return &v
}

func rowFromTransaction(txn *domain.Transaction) *TransactionRow {
	return &TransactionRow{
		TransactionID: txn.ID,
		Amount:        ratFromDecimal(txn.Amount),
		Direction:     string(txn.Direction),
		OccurredTS:    txn.OccurredAt,
		OccurredDate:  civil.DateOf(txn.OccurredAt.UTC()),
		Counterparty:  txn.Counterparty,
		Note:          txn.Note,
		Channel:       txn.Channel,
		CategoryID:    nullableString(txn.CategoryID),
		AccountID:     nullableString(txn.AccountID),
		Manual:        txn.Manual,
		OriginDigest:  nullableString(txn.OriginDigest),
		CreatedTS:     txn.CreatedAt,
		UpdatedTS:     txn.UpdatedAt,
	}
}

func transactionFromRow(row *TransactionRow) *domain.Transaction {
	return &domain.Transaction{
		ID:           row.TransactionID,
		Amount:       decimalFromRat(row.Amount),
		Direction:    domain.Direction(row.Direction),
		OccurredAt:   row.OccurredTS,
		Counterparty: row.Counterparty,
		Note:         row.Note,
		Channel:      row.Channel,
		CategoryID:   stringPtr(row.CategoryID),
		AccountID:    stringPtr(row.AccountID),
		Manual:       row.Manual,
		OriginDigest: stringPtr(row.OriginDigest),
		CreatedAt:    row.CreatedTS,
		UpdatedAt:    row.UpdatedTS,
	}
}

func accountFromRow(row *AccountRow) *domain.Account {
	return &domain.Account{
		ID:        row.AccountID,
		Name:      row.AccountName,
		Type:      row.AccountType,
		Number:    row.AccountNumber,
		Balance:   decimalFromRat(row.Balance),
		CreatedAt: row.CreatedTS,
		UpdatedAt: row.UpdatedTS,
	}
}

func categoryFromRow(row *CategoryRow) *domain.Category {
	return &domain.Category{
		ID:        row.CategoryID,
		Name:      row.CategoryName,
		Direction: domain.Direction(row.Direction),
		Icon:      row.Icon,
	}
}
