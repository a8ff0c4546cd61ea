package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// TransactionRepository implements store.TransactionStore over the
// transactions table.
type TransactionRepository struct {
	c *Client
}

// NewTransactionRepository creates a transaction repository on the shared client.
func NewTransactionRepository(c *Client) *TransactionRepository {
	return &TransactionRepository{c: c}
}

const transactionColumns = `
	transaction_id, amount, direction, occurred_ts, counterparty, note,
	channel, category_id, account_id, manual, origin_digest, created_ts, updated_ts`

func (r *TransactionRepository) Insert(ctx context.Context, txn *domain.Transaction) error {
	inserter := r.c.bq.Dataset(r.c.dataset).Table(tableTransactions).Inserter()
	if err := inserter.Put(ctx, rowFromTransaction(txn)); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET amount = @amount,
		    direction = @direction,
		    occurred_ts = @occurred_ts,
		    occurred_date = @occurred_date,
		    counterparty = @counterparty,
		    note = @note,
		    channel = @channel,
		    category_id = @category_id,
		    account_id = @account_id,
		    updated_ts = @updated_ts
		WHERE transaction_id = @transaction_id
	`, r.c.table(tableTransactions))

	affected, err := r.c.runDML(ctx, sql, []bigquery.QueryParameter{
		{Name: "amount", Value: ratFromDecimal(txn.Amount)},
		{Name: "direction", Value: string(txn.Direction)},
		{Name: "occurred_ts", Value: txn.OccurredAt},
		{Name: "occurred_date", Value: civil.DateOf(txn.OccurredAt.UTC())},
		{Name: "counterparty", Value: txn.Counterparty},
		{Name: "note", Value: txn.Note},
		{Name: "channel", Value: txn.Channel},
		{Name: "category_id", Value: nullableString(txn.CategoryID)},
		{Name: "account_id", Value: nullableString(txn.AccountID)},
		{Name: "updated_ts", Value: time.Now()},
		{Name: "transaction_id", Value: txn.ID},
	})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE transaction_id = @transaction_id`, r.c.table(tableTransactions))
	affected, err := r.c.runDML(ctx, sql, []bigquery.QueryParameter{
		{Name: "transaction_id", Value: id},
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE transaction_id = @transaction_id`,
		transactionColumns, r.c.table(tableTransactions))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{{Name: "transaction_id", Value: id}}

	rows, err := r.readTransactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0], nil
}

func (r *TransactionRepository) QueryByTimeRange(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE occurred_ts BETWEEN @from AND @to
		ORDER BY occurred_ts
	`, transactionColumns, r.c.table(tableTransactions))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "from", Value: from},
		{Name: "to", Value: to},
	}

	rows, err := r.readTransactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query transactions by time range: %w", err)
	}
	return rows, nil
}

func (r *TransactionRepository) FindSimilar(ctx context.Context, direction domain.Direction, amountLow, amountHigh decimal.Decimal, from, to time.Time) (*domain.Transaction, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE direction = @direction
		  AND amount BETWEEN @amount_low AND @amount_high
		  AND occurred_ts BETWEEN @from AND @to
		LIMIT 1
	`, transactionColumns, r.c.table(tableTransactions))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "direction", Value: string(direction)},
		{Name: "amount_low", Value: ratFromDecimal(amountLow)},
		{Name: "amount_high", Value: ratFromDecimal(amountHigh)},
		{Name: "from", Value: from},
		{Name: "to", Value: to},
	}

	rows, err := r.readTransactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find similar transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0], nil
}

func (r *TransactionRepository) RecentBySender(ctx context.Context, sender string, limit int) ([]*domain.Transaction, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE manual = FALSE
		  AND LOWER(note) LIKE CONCAT('%%', LOWER(@sender), '%%')
		ORDER BY occurred_ts DESC
		LIMIT @limit
	`, transactionColumns, r.c.table(tableTransactions))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "sender", Value: sender},
		{Name: "limit", Value: int64(limit)},
	}

	rows, err := r.readTransactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("recent transactions by sender: %w", err)
	}
	return rows, nil
}

func (r *TransactionRepository) readTransactions(ctx context.Context, q *bigquery.Query) ([]*domain.Transaction, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query read: %w", err)
	}
	var result []*domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iter next: %w", err)
		}
		result = append(result, transactionFromRow(&row))
	}
	return result, nil
}

var _ store.TransactionStore = (*TransactionRepository)(nil)
