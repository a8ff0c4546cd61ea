package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// Table names inside the configured dataset.
const (
	tableTransactions     = "transactions"
	tableAccounts         = "accounts"
	tableCategories       = "categories"
	tableSyntacticMarkers = "syntactic_markers"
	tableEventMarkers     = "event_markers"
	tableContentMarkers   = "content_markers"
)

// Client wraps one shared BigQuery connection plus the dataset every
// repository reads and writes.
type Client struct {
	bq      *bigquery.Client
	dataset string
}

// NewClient connects to BigQuery for the given project and dataset.
func NewClient(ctx context.Context, projectID, dataset string) (*Client, error) {
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery: create client: %w", err)
	}
	return &Client{bq: bq, dataset: dataset}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.bq != nil {
		return c.bq.Close()
	}
	return nil
}

func (c *Client) table(name string) string {
	return fmt.Sprintf("%s.%s", c.dataset, name)
}

// runDML executes a parameterized DML query and waits for completion,
// returning the number of affected rows.
func (c *Client) runDML(ctx context.Context, sql string, params []bigquery.QueryParameter) (int64, error) {
	q := c.bq.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("run query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("wait for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("job error: %w", err)
	}

	if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return stats.NumDMLAffectedRows, nil
	}
	return 0, nil
}
