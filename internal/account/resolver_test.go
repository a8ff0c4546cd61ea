package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store/memory"
)

type fixture struct {
	resolver *Resolver
	accounts *memory.AccountStore
	txns     *memory.TransactionStore
	settings *memory.SettingsStore
}

func newFixture(t *testing.T, accounts ...*domain.Account) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		accounts: memory.NewAccountStore(),
		txns:     memory.NewTransactionStore(),
		settings: memory.NewSettingsStore(),
	}
	for _, acc := range accounts {
		require.NoError(t, f.accounts.Insert(ctx, acc))
	}
	f.resolver = NewResolver(f.accounts, f.txns, f.settings)
	return f
}

func message(sender, body string) domain.Message {
	return domain.Message{Sender: sender, Body: body, ReceivedAt: time.Now()}
}

func TestResolveByHint(t *testing.T) {
	hdfc := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "50100212341234"}
	icici := &domain.Account{ID: "a2", Name: "ICICI Salary", Type: "savings", Number: "00880099887766"}
	f := newFixture(t, hdfc, icici)

	acc, err := f.resolver.Resolve(context.Background(),
		message("UNKNOWN1", "debited"), "1234")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a1", acc.ID, "number suffix match")

	acc, err = f.resolver.Resolve(context.Background(),
		message("UNKNOWN1", "debited"), "7766")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a2", acc.ID)
}

func TestResolveBySender(t *testing.T) {
	hdfc := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "1111"}
	wallet := &domain.Account{ID: "a2", Name: "Paytm Wallet", Type: "wallet", Number: ""}
	f := newFixture(t, hdfc, wallet)

	acc, err := f.resolver.Resolve(context.Background(),
		message("VM-HDFCBK", "Rs. 100 debited"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a1", acc.ID, "route prefix is stripped before the lookup")

	acc, err = f.resolver.Resolve(context.Background(),
		message("PAYTMB", "Rs. 100 debited"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a2", acc.ID)
}

func TestResolveByBody(t *testing.T) {
	hdfc := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "50100212341234"}
	axis := &domain.Account{ID: "a2", Name: "Axis Current", Type: "current", Number: "9922001122"}
	f := newFixture(t, hdfc, axis)

	acc, err := f.resolver.Resolve(context.Background(),
		message("UNKNOWN1", "Debited from your HDFC Savings account"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a1", acc.ID, "account name verbatim in body")

	acc, err = f.resolver.Resolve(context.Background(),
		message("UNKNOWN1", "A/c XX1122 debited for Rs 300"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a2", acc.ID, "masked last-4 match")
}

func TestResolveConfiguredDefault(t *testing.T) {
	a := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "1111"}
	b := &domain.Account{ID: "a2", Name: "Cash", Type: "cash", Number: ""}
	f := newFixture(t, a, b)
	ctx := context.Background()

	require.NoError(t, f.settings.SetDefaultAccountID(ctx, "a2"))

	acc, err := f.resolver.Resolve(ctx, message("UNKNOWN1", "debited Rs 50"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a2", acc.ID)

	// A default pointing at a deleted account is skipped, and with two
	// accounts and no other signal resolution yields nothing.
	require.NoError(t, f.settings.SetDefaultAccountID(ctx, "gone"))
	acc, err = f.resolver.Resolve(ctx, message("UNKNOWN1", "debited Rs 50"), "")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestResolveSoleAccount(t *testing.T) {
	only := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "1111"}
	f := newFixture(t, only)

	acc, err := f.resolver.Resolve(context.Background(),
		message("UNKNOWN1", "debited Rs 50"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a1", acc.ID)
}

func TestResolveHistoricalPrecedent(t *testing.T) {
	a := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "1111"}
	b := &domain.Account{ID: "a2", Name: "Axis Current", Type: "current", Number: "2222"}
	f := newFixture(t, a, b)
	ctx := context.Background()

	accountID := "a2"
	require.NoError(t, f.txns.Insert(ctx, &domain.Transaction{
		ID:         "t1",
		Direction:  domain.Expense,
		OccurredAt: time.Now().Add(-time.Hour),
		Note:       "Auto-recorded from NEWBNK01",
		AccountID:  &accountID,
	}))

	acc, err := f.resolver.Resolve(ctx, message("NEWBNK01", "debited Rs 50"), "")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a2", acc.ID)
}

func TestResolveNothing(t *testing.T) {
	a := &domain.Account{ID: "a1", Name: "HDFC Savings", Type: "savings", Number: "1111"}
	b := &domain.Account{ID: "a2", Name: "Axis Current", Type: "current", Number: "2222"}
	f := newFixture(t, a, b)

	acc, err := f.resolver.Resolve(context.Background(),
		message("UNKNOWN1", "debited Rs 50"), "")
	require.NoError(t, err)
	assert.Nil(t, acc)
}
