// Package memory provides in-memory implementations of the store contracts.
// They are safe for concurrent use; data is lost on restart. They back the
// worker in single-device deployments and every test in the repository.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// TransactionStore is an in-memory implementation of store.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction
}

// NewTransactionStore creates an empty in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{txns: make(map[string]*domain.Transaction)}
}

func (s *TransactionStore) Insert(ctx context.Context, txn *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txns[txn.ID]; exists {
		return store.ErrConflict
	}
	cp := *txn
	s.txns[txn.ID] = &cp
	return nil
}

func (s *TransactionStore) Update(ctx context.Context, txn *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txns[txn.ID]; !exists {
		return store.ErrNotFound
	}
	cp := *txn
	s.txns[txn.ID] = &cp
	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txns[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.txns, id)
	return nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, exists := s.txns[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *txn
	return &cp, nil
}

func (s *TransactionStore) QueryByTimeRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*domain.Transaction
	for _, txn := range s.txns {
		if txn.OccurredAt.Before(from) || txn.OccurredAt.After(to) {
			continue
		}
		cp := *txn
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (s *TransactionStore) FindSimilar(ctx context.Context, direction domain.Direction, amountLow, amountHigh decimal.Decimal, from, to time.Time) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.txns {
		if txn.Direction != direction {
			continue
		}
		if txn.Amount.LessThan(amountLow) || txn.Amount.GreaterThan(amountHigh) {
			continue
		}
		if txn.OccurredAt.Before(from) || txn.OccurredAt.After(to) {
			continue
		}
		cp := *txn
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *TransactionStore) RecentBySender(ctx context.Context, sender string, limit int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(sender)
	var result []*domain.Transaction
	for _, txn := range s.txns {
		if txn.Manual {
			continue
		}
		if !strings.Contains(strings.ToLower(txn.Note), needle) {
			continue
		}
		cp := *txn
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// AccountStore is an in-memory implementation of store.AccountStore.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*domain.Account)}
}

func (s *AccountStore) List(ctx context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		cp := *acc
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, exists := s.accounts[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *AccountStore) Insert(ctx context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[acc.ID]; exists {
		return store.ErrConflict
	}
	cp := *acc
	s.accounts[acc.ID] = &cp
	return nil
}

func (s *AccountStore) Update(ctx context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[acc.ID]; !exists {
		return store.ErrNotFound
	}
	cp := *acc
	s.accounts[acc.ID] = &cp
	return nil
}

// CategoryStore is an in-memory implementation of store.CategoryStore.
type CategoryStore struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
}

// NewCategoryStore creates an in-memory category store seeded with the given set.
func NewCategoryStore(seed []*domain.Category) *CategoryStore {
	s := &CategoryStore{categories: make(map[string]*domain.Category)}
	for _, c := range seed {
		cp := *c
		s.categories[c.ID] = &cp
	}
	return s
}

func (s *CategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, exists := s.categories[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Insert adds a category after seeding time.
func (s *CategoryStore) Insert(ctx context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[c.ID]; exists {
		return store.ErrConflict
	}
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

// SettingsStore is an in-memory implementation of store.SettingsStore.
type SettingsStore struct {
	mu             sync.RWMutex
	sources        map[string]bool
	defaultAccount string
}

// NewSettingsStore creates a settings store. Sources not explicitly configured
// default to enabled.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{sources: make(map[string]bool)}
}

func (s *SettingsStore) IsSourceEnabled(ctx context.Context, source string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled, configured := s.sources[source]
	if !configured {
		return true, nil
	}
	return enabled, nil
}

func (s *SettingsStore) SetSourceEnabled(ctx context.Context, source string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source] = enabled
	return nil
}

func (s *SettingsStore) DefaultAccountID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.defaultAccount == "" {
		return "", store.ErrNotFound
	}
	return s.defaultAccount, nil
}

func (s *SettingsStore) SetDefaultAccountID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultAccount = id
	return nil
}

var (
	_ store.TransactionStore = (*TransactionStore)(nil)
	_ store.AccountStore     = (*AccountStore)(nil)
	_ store.CategoryStore    = (*CategoryStore)(nil)
	_ store.SettingsStore    = (*SettingsStore)(nil)
)
