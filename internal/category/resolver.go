// Package category maps free-text merchant and body content to one of the
// user's spending categories via ordered keyword rule tables.
package category

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// Resolver owns a lazily-built name → id cache over the category store. The
// cache is built at most once per Resolver lifetime and refreshed only through
// Refresh or Invalidate; the category set changes rarely enough that restart
// staleness is acceptable.
type Resolver struct {
	categories store.CategoryStore

	mu     sync.Mutex
	loaded bool
	byName map[string]string // lower-cased name → category id
}

// NewResolver creates a resolver over the given category store.
func NewResolver(categories store.CategoryStore) *Resolver {
	return &Resolver{categories: categories}
}

// Resolve returns the id of the best-matching category for the direction, or
// the direction's fallback category id when nothing matches. nil is returned
// only when even the fallback category does not exist in the store.
func (r *Resolver) Resolve(ctx context.Context, direction domain.Direction, counterparty, body string) (*string, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	rules := expenseRules
	fallback := fallbackExpense
	if direction == domain.Income {
		rules = incomeRules
		fallback = fallbackIncome
	}

	haystack := strings.ToLower(counterparty + " " + body)
	for _, rule := range rules {
		id, known := r.lookup(rule.name)
		if !known {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return &id, nil
			}
		}
	}

	if id, known := r.lookup(fallback); known {
		return &id, nil
	}
	return nil, nil
}

// Refresh rebuilds the cache from the store immediately.
func (r *Resolver) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Invalidate drops the cache; the next Resolve reloads it.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.byName = nil
}

func (r *Resolver) ensureLoaded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	return r.load(ctx)
}

// load must be called with r.mu held.
func (r *Resolver) load(ctx context.Context) error {
	all, err := r.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("category resolver: load categories: %w", err)
	}
	byName := make(map[string]string, len(all))
	for _, c := range all {
		byName[strings.ToLower(c.Name)] = c.ID
	}
	r.byName = byName
	r.loaded = true
	return nil
}

func (r *Resolver) lookup(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[strings.ToLower(name)]
	return id, ok
}
