package pipeline

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvignesh/smsledger/internal/account"
	"github.com/dvignesh/smsledger/internal/category"
	"github.com/dvignesh/smsledger/internal/config"
	"github.com/dvignesh/smsledger/internal/dedup"
	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/logger"
	"github.com/dvignesh/smsledger/internal/store/memory"
)

var receivedAt = time.Date(2025, 1, 5, 10, 30, 0, 0, time.UTC)

type env struct {
	processor *Processor
	txns      *memory.TransactionStore
	accounts  *memory.AccountStore
	settings  *memory.SettingsStore
	syntactic *memory.MarkerStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{
		txns:      memory.NewTransactionStore(),
		accounts:  memory.NewAccountStore(),
		settings:  memory.NewSettingsStore(),
		syntactic: memory.NewMarkerStore(),
	}
	require.NoError(t, e.accounts.Insert(ctx, &domain.Account{
		ID:      "acc1",
		Name:    "HDFC Savings",
		Type:    "savings",
		Number:  "50100212341234",
		Balance: decimal.NewFromInt(10000),
	}))

	e.processor = NewProcessor(Deps{
		Ledger:    memory.NewLedger(e.txns, e.accounts),
		Settings:  e.settings,
		Syntactic: dedup.NewSyntactic(e.syntactic, 0),
		Semantic: dedup.NewSemantic(e.txns, memory.NewMarkerStore(), memory.NewMarkerStore(),
			dedup.DefaultWindow, dedup.DefaultAmountTolerance),
		Accounts:   account.NewResolver(e.accounts, e.txns, e.settings),
		Categories: category.NewResolver(memory.NewCategoryStore(category.DefaultCategories())),
	})
	return e
}

func (e *env) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	acc, err := e.accounts.GetByID(context.Background(), "acc1")
	require.NoError(t, err)
	return acc.Balance
}

func debitMessage() domain.Message {
	return domain.Message{
		Sender:     "VM-HDFCBK",
		Body:       "Rs. 500.00 debited from A/c XX1234 for UPI txn to SWIGGY. Ref 998877665",
		ReceivedAt: receivedAt,
	}
}

func TestProcessRecordsExpense(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	outcome, err := e.processor.Process(ctx, debitMessage(), config.SourceSMS)
	require.NoError(t, err)
	require.Equal(t, StatusRecorded, outcome.Status)
	require.NotEmpty(t, outcome.TransactionID)

	txn, err := e.txns.GetByID(ctx, outcome.TransactionID)
	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, domain.Expense, txn.Direction)
	assert.Equal(t, "Swiggy", txn.Counterparty)
	assert.Equal(t, "UPI", txn.Channel)
	assert.False(t, txn.Manual)
	require.NotNil(t, txn.AccountID)
	assert.Equal(t, "acc1", *txn.AccountID)
	require.NotNil(t, txn.CategoryID, "expense resolves a category, fallback included")
	require.NotNil(t, txn.OriginDigest)

	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(9500)))
}

func TestProcessRecordsIncome(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	msg := domain.Message{
		Sender:     "HDFCBK",
		Body:       "Your salary of Rs 75,000 has been credited to your account ending 1234",
		ReceivedAt: receivedAt,
	}
	outcome, err := e.processor.Process(ctx, msg, config.SourceSMS)
	require.NoError(t, err)
	require.Equal(t, StatusRecorded, outcome.Status)

	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(85000)))
}

func TestProcessSkipsPolicy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(t *testing.T, e *env)
		msg    domain.Message
		reason SkipReason
	}{
		{
			name: "source disabled",
			setup: func(t *testing.T, e *env) {
				require.NoError(t, e.settings.SetSourceEnabled(ctx, config.SourceSMS, false))
			},
			msg:    debitMessage(),
			reason: SkipSourceDisabled,
		},
		{
			name: "promotional",
			msg: domain.Message{
				Sender:     "HDFCBK",
				Body:       "Exclusive offer! 50% off on your first loan, apply now",
				ReceivedAt: receivedAt,
			},
			reason: SkipPromotional,
		},
		{
			name: "untrusted sender",
			msg: domain.Message{
				Sender:     "FRIEND",
				Body:       "I paid you Rs 500 yesterday",
				ReceivedAt: receivedAt,
			},
			reason: SkipUntrusted,
		},
		{
			name: "otp message",
			msg: domain.Message{
				Sender:     "HDFCBK",
				Body:       "Your OTP for payment of Rs 5000 is 123456. Do not share it with anyone",
				ReceivedAt: receivedAt,
			},
			reason: SkipInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.setup != nil {
				tt.setup(t, e)
			}

			outcome, err := e.processor.Process(ctx, tt.msg, config.SourceSMS)
			require.NoError(t, err)
			assert.Equal(t, StatusSkipped, outcome.Status)
			assert.Equal(t, tt.reason, outcome.Reason)

			// A skipped message leaves no transaction and touches no balance.
			got, err := e.txns.QueryByTimeRange(ctx, receivedAt.Add(-time.Hour), receivedAt.Add(time.Hour))
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.True(t, e.balance(t).Equal(decimal.NewFromInt(10000)))
		})
	}
}

func TestProcessSkipsBeforeMarkers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	msg := domain.Message{
		Sender:     "AD-PROMOX",
		Body:       "Mega sale! Exclusive offer just for you",
		ReceivedAt: receivedAt,
	}
	outcome, err := e.processor.Process(ctx, msg, config.SourceSMS)
	require.NoError(t, err)
	require.Equal(t, StatusSkipped, outcome.Status)

	count, err := e.syntactic.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "filter rejections must not record markers")
}

func TestProcessExactRedelivery(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first, err := e.processor.Process(ctx, debitMessage(), config.SourceSMS)
	require.NoError(t, err)
	require.Equal(t, StatusRecorded, first.Status)

	second, err := e.processor.Process(ctx, debitMessage(), config.SourceSMS)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, SkipSyntacticDuplicate, second.Reason)

	// One transaction, one balance effect.
	got, err := e.txns.QueryByTimeRange(ctx, receivedAt.Add(-time.Hour), receivedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(9500)))
}

func TestProcessSemanticDuplicate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first, err := e.processor.Process(ctx, debitMessage(), config.SourceSMS)
	require.NoError(t, err)
	require.Equal(t, StatusRecorded, first.Status)

	// The app notification for the same payment, two minutes later.
	notification := domain.Message{
		Sender:     "PHONEPE",
		Body:       "You paid Rs 500 to Swiggy via UPI",
		ReceivedAt: receivedAt.Add(2 * time.Minute),
	}
	second, err := e.processor.Process(ctx, notification, config.SourceNotification)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, SkipSemanticDuplicate, second.Reason)

	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(9500)))
}

func TestProcessUnparsableFailsAndCompensates(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	msg := domain.Message{
		Sender:     "HDFCBK",
		Body:       "Transaction alert from HDFC Bank",
		ReceivedAt: receivedAt,
	}
	outcome, err := e.processor.Process(ctx, msg, config.SourceSMS)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.True(t, IsUnparsable(err))

	// The syntactic marker was compensated away, so the retry fails the same
	// way instead of being swallowed as a duplicate.
	outcome, err = e.processor.Process(ctx, msg, config.SourceSMS)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.True(t, IsUnparsable(err))
}

func TestValidBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		amount int64
		want   bool
	}{
		{
			name:   "real debit",
			body:   "Rs. 500 debited from A/c XX1234",
			amount: 500,
			want:   true,
		},
		{
			name:   "balance inquiry without movement",
			body:   "Avl Bal in A/c XX1234 is Rs 5000",
			amount: 5000,
			want:   false,
		},
		{
			name:   "balance mention with movement verb",
			body:   "Rs 500 debited. Avl Bal Rs 4500",
			amount: 500,
			want:   true,
		},
		{
			name:   "otp",
			body:   "OTP for txn of Rs 500 is 9912. Do not share",
			amount: 500,
			want:   false,
		},
		{
			name:   "amount below minimum",
			body:   "Rs 0.50 debited from A/c XX1234",
			amount: 0,
			want:   false,
		},
		{
			name:   "no transaction indicator",
			body:   "Hello, your bill is 500",
			amount: 500,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validBody(tt.body, decimal.NewFromInt(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessLogsPipelineComponent(t *testing.T) {
	e := newEnv(t)

	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf))

	outcome, err := e.processor.Process(ctx, debitMessage(), config.SourceSMS)
	require.NoError(t, err)
	require.Equal(t, StatusRecorded, outcome.Status)

	assert.Contains(t, buf.String(), `"component":"pipeline"`)
	assert.Contains(t, buf.String(), `"message":"message recorded"`)
}
