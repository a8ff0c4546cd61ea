// Package account attributes a parsed message to one of the user's financial
// accounts. Resolution tries a strict priority chain and returns at most one
// account; an unresolved message still becomes a transaction, just unlinked.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// recentLookback is how many recent same-sender transactions step 6 inspects.
const recentLookback = 5

// Resolver implements the account attribution chain.
type Resolver struct {
	accounts store.AccountStore
	txns     store.TransactionStore
	settings store.SettingsStore
}

// NewResolver wires the resolver to its stores.
func NewResolver(accounts store.AccountStore, txns store.TransactionStore, settings store.SettingsStore) *Resolver {
	return &Resolver{accounts: accounts, txns: txns, settings: settings}
}

// Resolve returns the account for the message, or nil when no step of the
// chain produces one:
//
//	1. parsed account hint vs number suffixes, then number/name containment
//	2. sender id vs the curated sender → account-keyword table
//	3. body scan for an account name or (full or last-4) number verbatim
//	4. configured default account, if set and still valid
//	5. the sole account, when exactly one exists
//	6. the account used by recent transactions from the same sender
//	7. none
func (r *Resolver) Resolve(ctx context.Context, msg domain.Message, hint string) (*domain.Account, error) {
	accounts, err := r.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("account resolver: list accounts: %w", err)
	}

	if acc := matchHint(accounts, hint); acc != nil {
		return acc, nil
	}
	if acc := matchSender(accounts, msg.Sender); acc != nil {
		return acc, nil
	}
	if acc := matchBody(accounts, msg.Body); acc != nil {
		return acc, nil
	}

	if acc, err := r.configuredDefault(ctx); err != nil {
		return nil, err
	} else if acc != nil {
		return acc, nil
	}

	if len(accounts) == 1 {
		return accounts[0], nil
	}

	return r.historicalPrecedent(ctx, msg.Sender)
}

func matchHint(accounts []*domain.Account, hint string) *domain.Account {
	if hint == "" {
		return nil
	}
	for _, acc := range accounts {
		if acc.Number != "" && strings.HasSuffix(acc.Number, hint) {
			return acc
		}
	}
	lowerHint := strings.ToLower(hint)
	for _, acc := range accounts {
		if acc.Number != "" && strings.Contains(acc.Number, hint) {
			return acc
		}
		if strings.Contains(strings.ToLower(acc.Name), lowerHint) {
			return acc
		}
	}
	return nil
}

func matchSender(accounts []*domain.Account, sender string) *domain.Account {
	upper := strings.ToUpper(strings.TrimSpace(sender))
	variants := []string{upper, routePrefixPattern.ReplaceAllString(upper, "")}
	for _, variant := range variants {
		for code, keywords := range senderAccountKeywords {
			if !strings.Contains(variant, code) {
				continue
			}
			for _, kw := range keywords {
				for _, acc := range accounts {
					if strings.Contains(strings.ToLower(acc.Name), kw) ||
						strings.Contains(strings.ToLower(acc.Type), kw) {
						return acc
					}
				}
			}
		}
	}
	return nil
}

func matchBody(accounts []*domain.Account, body string) *domain.Account {
	lowerBody := strings.ToLower(body)
	for _, acc := range accounts {
		if acc.Name != "" && strings.Contains(lowerBody, strings.ToLower(acc.Name)) {
			return acc
		}
		if acc.Number == "" {
			continue
		}
		if strings.Contains(body, acc.Number) {
			return acc
		}
		if tail := lastDigits(acc.Number, 4); tail != "" && strings.Contains(lowerBody, "xx"+strings.ToLower(tail)) {
			return acc
		}
	}
	return nil
}

func (r *Resolver) configuredDefault(ctx context.Context) (*domain.Account, error) {
	id, err := r.settings.DefaultAccountID(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account resolver: default account setting: %w", err)
	}
	acc, err := r.accounts.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// The configured default points at a deleted account; skip it.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account resolver: load default account: %w", err)
	}
	return acc, nil
}

func (r *Resolver) historicalPrecedent(ctx context.Context, sender string) (*domain.Account, error) {
	recent, err := r.txns.RecentBySender(ctx, sender, recentLookback)
	if err != nil {
		return nil, fmt.Errorf("account resolver: recent by sender: %w", err)
	}
	for _, txn := range recent {
		if txn.AccountID == nil {
			continue
		}
		acc, err := r.accounts.GetByID(ctx, *txn.AccountID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("account resolver: load precedent account: %w", err)
		}
		return acc, nil
	}
	return nil, nil
}

func lastDigits(s string, n int) string {
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < n {
		return ""
	}
	return string(digits[len(digits)-n:])
}
