package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store"
)

// Ledger couples transaction writes with their balance effects using
// multi-statement transaction scripts, so a failed script leaves neither the
// transaction nor the balance half-applied.
type Ledger struct {
	c    *Client
	txns *TransactionRepository
}

// NewLedger creates the ledger on the shared client.
func NewLedger(c *Client, txns *TransactionRepository) *Ledger {
	return &Ledger{c: c, txns: txns}
}

func (l *Ledger) RecordTransaction(ctx context.Context, txn *domain.Transaction) error {
	insert := fmt.Sprintf(`
		INSERT INTO %s (
			transaction_id, amount, direction, occurred_ts, occurred_date,
			counterparty, note, channel,
			category_id, account_id,
			manual, origin_digest,
			created_ts, updated_ts
		) VALUES (
			@transaction_id, @amount, @direction, @occurred_ts, @occurred_date,
			@counterparty, @note, @channel,
			@category_id, @account_id,
			@manual, @origin_digest,
			@created_ts, @updated_ts
		)
	`, l.c.table(tableTransactions))

	params := transactionParams(txn)

	if !txn.Linked() {
		if _, err := l.c.runDML(ctx, insert, params); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	}

	sql := fmt.Sprintf(`
		BEGIN TRANSACTION;
		%s;
		UPDATE %s
		SET balance = balance + @signed_amount, updated_ts = @updated_ts
		WHERE account_id = @account_id_key;
		COMMIT TRANSACTION;
	`, insert, l.c.table(tableAccounts))

	params = append(params,
		bigquery.QueryParameter{Name: "signed_amount", Value: ratFromDecimal(txn.SignedAmount())},
		bigquery.QueryParameter{Name: "account_id_key", Value: *txn.AccountID},
	)
	if _, err := l.c.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

func (l *Ledger) UpdateTransaction(ctx context.Context, txn *domain.Transaction) error {
	prior, err := l.txns.GetByID(ctx, txn.ID)
	if err != nil {
		return fmt.Errorf("update transaction: load prior: %w", err)
	}

	update := fmt.Sprintf(`
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
			manual = @manual,
			origin_digest = @origin_digest,
			updated_ts = @updated_ts
		WHERE transaction_id = @transaction_id
	`, l.c.table(tableTransactions))

	sql := "BEGIN TRANSACTION;\n" + update + ";\n"
	params := transactionParams(txn)

	if prior.Linked() {
		sql += fmt.Sprintf(`
			UPDATE %s
			SET balance = balance - @prior_signed, updated_ts = @updated_ts
			WHERE account_id = @prior_account_id;
		`, l.c.table(tableAccounts))
		params = append(params,
			bigquery.QueryParameter{Name: "prior_signed", Value: ratFromDecimal(prior.SignedAmount())},
			bigquery.QueryParameter{Name: "prior_account_id", Value: *prior.AccountID},
		)
	}
	if txn.Linked() {
		sql += fmt.Sprintf(`
			UPDATE %s
			SET balance = balance + @next_signed, updated_ts = @updated_ts
			WHERE account_id = @next_account_id;
		`, l.c.table(tableAccounts))
		params = append(params,
			bigquery.QueryParameter{Name: "next_signed", Value: ratFromDecimal(txn.SignedAmount())},
			bigquery.QueryParameter{Name: "next_account_id", Value: *txn.AccountID},
		)
	}
	sql += "COMMIT TRANSACTION;"

	if _, err := l.c.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	prior, err := l.txns.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: load prior: %w", err)
	}

	del := fmt.Sprintf(`DELETE FROM %s WHERE transaction_id = @transaction_id`,
		l.c.table(tableTransactions))
	params := []bigquery.QueryParameter{{Name: "transaction_id", Value: id}}

	if !prior.Linked() {
		if _, err := l.c.runDML(ctx, del, params); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	}

	sql := fmt.Sprintf(`
		BEGIN TRANSACTION;
		%s;
		UPDATE %s
		SET balance = balance - @prior_signed, updated_ts = @deleted_ts
		WHERE account_id = @prior_account_id;
		COMMIT TRANSACTION;
	`, del, l.c.table(tableAccounts))

	params = append(params,
		bigquery.QueryParameter{Name: "prior_signed", Value: ratFromDecimal(prior.SignedAmount())},
		bigquery.QueryParameter{Name: "prior_account_id", Value: *prior.AccountID},
		bigquery.QueryParameter{Name: "deleted_ts", Value: time.Now().UTC()},
	)
	if _, err := l.c.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func transactionParams(txn *domain.Transaction) []bigquery.QueryParameter {
	return []bigquery.QueryParameter{
		{Name: "transaction_id", Value: txn.ID},
		{Name: "amount", Value: ratFromDecimal(txn.Amount)},
		{Name: "direction", Value: string(txn.Direction)},
		{Name: "occurred_ts", Value: txn.OccurredAt},
		{Name: "occurred_date", Value: civil.DateOf(txn.OccurredAt.UTC())},
		{Name: "counterparty", Value: txn.Counterparty},
		{Name: "note", Value: txn.Note},
		{Name: "channel", Value: txn.Channel},
		{Name: "category_id", Value: nullableParam(txn.CategoryID)},
		{Name: "account_id", Value: nullableParam(txn.AccountID)},
		{Name: "manual", Value: txn.Manual},
		{Name: "origin_digest", Value: nullableParam(txn.OriginDigest)},
		{Name: "created_ts", Value: txn.CreatedAt},
		{Name: "updated_ts", Value: txn.UpdatedAt},
	}
}

func nullableParam(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

var _ store.Ledger = (*Ledger)(nil)
