package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// AccountRepository implements store.AccountStore over the accounts table.
type AccountRepository struct {
	c *Client
}

// NewAccountRepository creates an account repository on the shared client.
func NewAccountRepository(c *Client) *AccountRepository {
	return &AccountRepository{c: c}
}

const accountColumns = `account_id, account_name, account_type, account_number, balance, created_ts, updated_ts`

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s ORDER BY account_name`, accountColumns, r.c.table(tableAccounts))
	it, err := r.c.bq.Query(sql).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: query read: %w", err)
	}

	var result []*domain.Account
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list accounts: iter next: %w", err)
		}
		result = append(result, accountFromRow(&row))
	}
	return result, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE account_id = @account_id`, accountColumns, r.c.table(tableAccounts))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{{Name: "account_id", Value: id}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("get account: query read: %w", err)
	}

	var row AccountRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: iter next: %w", err)
	}
	return accountFromRow(&row), nil
}

func (r *AccountRepository) Insert(ctx context.Context, acc *domain.Account) error {
	inserter := r.c.bq.Dataset(r.c.dataset).Table(tableAccounts).Inserter()
	row := &AccountRow{
		AccountID:     acc.ID,
		AccountName:   acc.Name,
		AccountType:   acc.Type,
		AccountNumber: acc.Number,
		Balance:       ratFromDecimal(acc.Balance),
		CreatedTS:     acc.CreatedAt,
		UpdatedTS:     acc.UpdatedAt,
	}
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, acc *domain.Account) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET account_name = @account_name,
		    account_type = @account_type,
		    account_number = @account_number,
		    balance = @balance,
		    updated_ts = @updated_ts
		WHERE account_id = @account_id
	`, r.c.table(tableAccounts))

	affected, err := r.c.runDML(ctx, sql, []bigquery.QueryParameter{
		{Name: "account_name", Value: acc.Name},
		{Name: "account_type", Value: acc.Type},
		{Name: "account_number", Value: acc.Number},
		{Name: "balance", Value: ratFromDecimal(acc.Balance)},
		{Name: "updated_ts", Value: time.Now()},
		{Name: "account_id", Value: acc.ID},
	})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.AccountStore = (*AccountRepository)(nil)
