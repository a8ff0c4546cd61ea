package bigquery

import (
	"context"
	"fmt"
)

// markerTableDDL is shared by the three digest families; each gets its own
// table so retention and caps apply independently.
const markerTableDDL = `(
	digest  STRING NOT NULL,
	seen_ts TIMESTAMP NOT NULL
)`

// schemaTables lists every table the repositories read or write, with the
// column definition part of its CREATE TABLE statement.
var schemaTables = []struct {
	name string
	ddl  string
}{
	{tableTransactions, `(
		transaction_id STRING NOT NULL,
		amount         NUMERIC NOT NULL,
		direction      STRING NOT NULL,
		occurred_ts    TIMESTAMP NOT NULL,
		occurred_date  DATE NOT NULL,
		counterparty   STRING,
		note           STRING,
		channel        STRING,
		category_id    STRING,
		account_id     STRING,
		manual         BOOL NOT NULL,
		origin_digest  STRING,
		created_ts     TIMESTAMP NOT NULL,
		updated_ts     TIMESTAMP NOT NULL
	)
	PARTITION BY occurred_date`},
	{tableAccounts, `(
		account_id     STRING NOT NULL,
		account_name   STRING,
		account_type   STRING,
		account_number STRING,
		balance        NUMERIC NOT NULL,
		created_ts     TIMESTAMP NOT NULL,
		updated_ts     TIMESTAMP NOT NULL
	)`},
	{tableCategories, `(
		category_id   STRING NOT NULL,
		category_name STRING NOT NULL,
		direction     STRING NOT NULL,
		icon          STRING
	)`},
	{tableSyntacticMarkers, markerTableDDL},
	{tableEventMarkers, markerTableDDL},
	{tableContentMarkers, markerTableDDL},
}

// EnsureSchema creates every table the repositories depend on. The statements
// are idempotent, so the migrate command can run on every deployment.
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, t := range schemaTables {
		sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", c.table(t.name), t.ddl)
		if _, err := c.runDML(ctx, sql, nil); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	return nil
}
