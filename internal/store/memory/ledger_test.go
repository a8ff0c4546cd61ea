package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

func newLedgerFixture(t *testing.T, opening decimal.Decimal) (*Ledger, *TransactionStore, *AccountStore) {
	t.Helper()
	txns := NewTransactionStore()
	accounts := NewAccountStore()
	require.NoError(t, accounts.Insert(context.Background(), &domain.Account{
		ID:      "acc1",
		Name:    "HDFC Savings",
		Type:    "savings",
		Balance: opening,
	}))
	return NewLedger(txns, accounts), txns, accounts
}

func expense(id string, amount int64, accountID string) *domain.Transaction {
	txn := &domain.Transaction{
		ID:         id,
		Amount:     decimal.NewFromInt(amount),
		Direction:  domain.Expense,
		OccurredAt: time.Now(),
	}
	if accountID != "" {
		txn.AccountID = &accountID
	}
	return txn
}

func balance(t *testing.T, accounts *AccountStore, id string) decimal.Decimal {
	t.Helper()
	acc, err := accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func TestRecordTransaction(t *testing.T) {
	ctx := context.Background()
	ledger, txns, accounts := newLedgerFixture(t, decimal.NewFromInt(1000))

	require.NoError(t, ledger.RecordTransaction(ctx, expense("t1", 250, "acc1")))

	got, err := txns.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(750)))

	income := expense("t2", 500, "acc1")
	income.Direction = domain.Income
	require.NoError(t, ledger.RecordTransaction(ctx, income))
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(1250)))
}

func TestRecordUnlinkedTransaction(t *testing.T) {
	ctx := context.Background()
	ledger, _, accounts := newLedgerFixture(t, decimal.NewFromInt(1000))

	require.NoError(t, ledger.RecordTransaction(ctx, expense("t1", 250, "")))
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(1000)),
		"unlinked transaction leaves every balance untouched")
}

func TestRecordTransactionMissingAccountRollsBack(t *testing.T) {
	ctx := context.Background()
	ledger, txns, _ := newLedgerFixture(t, decimal.NewFromInt(1000))

	err := ledger.RecordTransaction(ctx, expense("t1", 250, "ghost"))
	require.Error(t, err)

	_, err = txns.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound, "failed unit leaves no transaction behind")
}

func TestUpdateTransactionMovesEffect(t *testing.T) {
	ctx := context.Background()
	ledger, txns, accounts := newLedgerFixture(t, decimal.NewFromInt(1000))
	require.NoError(t, accounts.Insert(ctx, &domain.Account{
		ID: "acc2", Name: "Axis Current", Type: "current", Balance: decimal.NewFromInt(500),
	}))

	require.NoError(t, ledger.RecordTransaction(ctx, expense("t1", 250, "acc1")))

	// Amount change on the same account.
	updated := expense("t1", 400, "acc1")
	require.NoError(t, ledger.UpdateTransaction(ctx, updated))
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(600)))

	// Reattribution to the other account.
	moved := expense("t1", 400, "acc2")
	require.NoError(t, ledger.UpdateTransaction(ctx, moved))
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(1000)))
	assert.True(t, balance(t, accounts, "acc2").Equal(decimal.NewFromInt(100)))

	got, err := txns.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.AccountID)
	assert.Equal(t, "acc2", *got.AccountID)
}

func TestUpdateDirectionFlip(t *testing.T) {
	ctx := context.Background()
	ledger, _, accounts := newLedgerFixture(t, decimal.NewFromInt(1000))

	require.NoError(t, ledger.RecordTransaction(ctx, expense("t1", 250, "acc1")))
	require.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(750)))

	flipped := expense("t1", 250, "acc1")
	flipped.Direction = domain.Income
	require.NoError(t, ledger.UpdateTransaction(ctx, flipped))
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(1250)))
}

func TestDeleteTransactionReversesEffect(t *testing.T) {
	ctx := context.Background()
	ledger, txns, accounts := newLedgerFixture(t, decimal.NewFromInt(1000))

	require.NoError(t, ledger.RecordTransaction(ctx, expense("t1", 250, "acc1")))
	require.NoError(t, ledger.DeleteTransaction(ctx, "t1"))

	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(1000)))
	_, err := txns.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, ledger.DeleteTransaction(ctx, "t1"), store.ErrNotFound)
}

func TestLedgerConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	ledger, _, accounts := newLedgerFixture(t, decimal.NewFromInt(10000))

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.RecordTransaction(ctx, expense(fmt.Sprintf("t%d", i), 10, "acc1"))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, balance(t, accounts, "acc1").Equal(decimal.NewFromInt(9500)),
		"every concurrent unit lands exactly once")
}
