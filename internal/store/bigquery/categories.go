package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// CategoryRepository implements store.CategoryStore over the categories
// table. The pipeline only reads categories; Insert exists for the migrate
// command's first-run seeding.
type CategoryRepository struct {
	c *Client
}

// NewCategoryRepository creates a category repository on the shared client.
func NewCategoryRepository(c *Client) *CategoryRepository {
	return &CategoryRepository{c: c}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	sql := fmt.Sprintf(`
		SELECT category_id, category_name, direction, icon
		FROM %s
		ORDER BY category_name
	`, r.c.table(tableCategories))

	it, err := r.c.bq.Query(sql).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: query read: %w", err)
	}

	var result []*domain.Category
	for {
		var row CategoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list categories: iter next: %w", err)
		}
		result = append(result, categoryFromRow(&row))
	}
	return result, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	sql := fmt.Sprintf(`
		SELECT category_id, category_name, direction, icon
		FROM %s
		WHERE category_id = @category_id
	`, r.c.table(tableCategories))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{{Name: "category_id", Value: id}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("get category: query read: %w", err)
	}

	var row CategoryRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: iter next: %w", err)
	}
	return categoryFromRow(&row), nil
}

func (r *CategoryRepository) Insert(ctx context.Context, c *domain.Category) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (category_id, category_name, direction, icon)
		VALUES (@category_id, @category_name, @direction, @icon)
	`, r.c.table(tableCategories))

	if _, err := r.c.runDML(ctx, sql, []bigquery.QueryParameter{
		{Name: "category_id", Value: c.ID},
		{Name: "category_name", Value: c.Name},
		{Name: "direction", Value: string(c.Direction)},
		{Name: "icon", Value: c.Icon},
	}); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

var _ store.CategoryStore = (*CategoryRepository)(nil)
