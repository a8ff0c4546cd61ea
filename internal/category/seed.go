package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvignesh/smsledger/internal/domain"
)

// seedSpec is one entry of the fixed default category set.
type seedSpec struct {
	name      string
	direction domain.Direction
	icon      string
}

var defaultSet = []seedSpec{
	{"Food & Dining", domain.Expense, "🍽️"},
	{"Groceries", domain.Expense, "🛒"},
	{"Transport", domain.Expense, "🚕"},
	{"Fuel", domain.Expense, "⛽"},
	{"Shopping", domain.Expense, "🛍️"},
	{"Bills & Utilities", domain.Expense, "💡"},
	{"Entertainment", domain.Expense, "🎬"},
	{"Health", domain.Expense, "🏥"},
	{"Travel", domain.Expense, "✈️"},
	{"Education", domain.Expense, "🎓"},
	{"Rent", domain.Expense, "🏠"},
	{"EMI & Loans", domain.Expense, "🏦"},
	{"Insurance", domain.Expense, "🛡️"},
	{"Investments", domain.Expense, "📈"},
	{"Other", domain.Expense, "📋"},
	{"Salary", domain.Income, "💰"},
	{"Other Income", domain.Income, "💵"},
}

// Writer is the subset of category storage needed for first-run seeding.
type Writer interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Insert(ctx context.Context, c *domain.Category) error
}

// EnsureSeeded inserts the default category set when the store holds none.
// A store with any categories at all is left untouched, so reruns and
// user-curated sets are safe. Returns how many categories were inserted.
func EnsureSeeded(ctx context.Context, w Writer) (int, error) {
	existing, err := w.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed categories: list: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	seeds := DefaultCategories()
	for _, c := range seeds {
		if err := w.Insert(ctx, c); err != nil {
			return 0, fmt.Errorf("seed categories: insert %q: %w", c.Name, err)
		}
	}
	return len(seeds), nil
}

// DefaultCategories builds the fixed seed set applied at first run. The
// resolver only reads categories afterwards; users manage them from there.
func DefaultCategories() []*domain.Category {
	result := make([]*domain.Category, 0, len(defaultSet))
	for _, spec := range defaultSet {
		result = append(result, &domain.Category{
			ID:        uuid.NewString(),
			Name:      spec.name,
			Direction: spec.direction,
			Icon:      spec.icon,
		})
	}
	return result
}
