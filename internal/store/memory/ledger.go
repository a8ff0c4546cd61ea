package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// Ledger applies transaction writes together with their balance effects. A
// single mutex serializes ledger units, so a racing edit cannot observe a
// transaction without its balance effect (or the reverse). Failures are
// compensated before returning, so an account's balance always equals the
// sum of signed effects of its transactions.
type Ledger struct {
	mu       sync.Mutex
	txns     *TransactionStore
	accounts *AccountStore
}

// NewLedger couples the in-memory transaction and account stores.
func NewLedger(txns *TransactionStore, accounts *AccountStore) *Ledger {
	return &Ledger{txns: txns, accounts: accounts}
}

func (l *Ledger) RecordTransaction(ctx context.Context, txn *domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.txns.Insert(ctx, txn); err != nil {
		return fmt.Errorf("ledger: insert transaction: %w", err)
	}
	if txn.AccountID == nil {
		return nil
	}
	if err := l.adjustBalance(ctx, *txn.AccountID, txn, false); err != nil {
		// Roll the insert back so no half-applied unit survives.
		_ = l.txns.Delete(ctx, txn.ID)
		return fmt.Errorf("ledger: adjust balance: %w", err)
	}
	return nil
}

func (l *Ledger) UpdateTransaction(ctx context.Context, txn *domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prior, err := l.txns.GetByID(ctx, txn.ID)
	if err != nil {
		return fmt.Errorf("ledger: load prior transaction: %w", err)
	}
	// Undo the prior effect before applying the new one.
	if prior.AccountID != nil {
		if err := l.adjustBalance(ctx, *prior.AccountID, prior, true); err != nil {
			return fmt.Errorf("ledger: undo prior effect: %w", err)
		}
	}
	if err := l.txns.Update(ctx, txn); err != nil {
		if prior.AccountID != nil {
			_ = l.adjustBalance(ctx, *prior.AccountID, prior, false)
		}
		return fmt.Errorf("ledger: update transaction: %w", err)
	}
	if txn.AccountID != nil {
		if err := l.adjustBalance(ctx, *txn.AccountID, txn, false); err != nil {
			_ = l.txns.Update(ctx, prior)
			if prior.AccountID != nil {
				_ = l.adjustBalance(ctx, *prior.AccountID, prior, false)
			}
			return fmt.Errorf("ledger: apply new effect: %w", err)
		}
	}
	return nil
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prior, err := l.txns.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ledger: load transaction: %w", err)
	}
	if err := l.txns.Delete(ctx, id); err != nil {
		return fmt.Errorf("ledger: delete transaction: %w", err)
	}
	if prior.AccountID != nil {
		if err := l.adjustBalance(ctx, *prior.AccountID, prior, true); err != nil {
			_ = l.txns.Insert(ctx, prior)
			return fmt.Errorf("ledger: reverse effect: %w", err)
		}
	}
	return nil
}

// adjustBalance applies (or, when reverse is set, undoes) the signed effect of
// txn on the named account.
func (l *Ledger) adjustBalance(ctx context.Context, accountID string, txn *domain.Transaction, reverse bool) error {
	acc, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	delta := txn.SignedAmount()
	if reverse {
		delta = delta.Neg()
	}
	acc.Balance = acc.Balance.Add(delta)
	acc.UpdatedAt = time.Now()
	return l.accounts.Update(ctx, acc)
}

var _ store.Ledger = (*Ledger)(nil)
