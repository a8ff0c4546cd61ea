package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvignesh/smsledger/internal/store"
)

// MarkerRepository implements store.MarkerStore over one marker table. Each
// digest family gets its own instance pointed at its own table.
type MarkerRepository struct {
	c     *Client
	table string
}

// NewSyntacticMarkerRepository returns the marker store backed by the
// syntactic_markers table.
func NewSyntacticMarkerRepository(c *Client) *MarkerRepository {
	return &MarkerRepository{c: c, table: tableSyntacticMarkers}
}

// NewEventMarkerRepository returns the marker store backed by the
// event_markers table, used for short-term (amount, direction, minute)
// duplicate reservations.
func NewEventMarkerRepository(c *Client) *MarkerRepository {
	return &MarkerRepository{c: c, table: tableEventMarkers}
}

// NewContentMarkerRepository returns the marker store backed by the
// content_markers table, used for long-term normalized content digests.
func NewContentMarkerRepository(c *Client) *MarkerRepository {
	return &MarkerRepository{c: c, table: tableContentMarkers}
}

// PutIfAbsent inserts the digest via MERGE, which BigQuery runs as one atomic
// statement. Of N concurrent calls with the same digest exactly one inserts.
func (r *MarkerRepository) PutIfAbsent(ctx context.Context, digest string, seenAt time.Time) (bool, error) {
	sql := fmt.Sprintf(`
		MERGE %s t
		USING (SELECT @digest AS digest, @seen_ts AS seen_ts) s
		ON t.digest = s.digest
		WHEN NOT MATCHED THEN
			INSERT (digest, seen_ts) VALUES (s.digest, s.seen_ts)
	`, r.c.table(r.table))
	params := []bigquery.QueryParameter{
		{Name: "digest", Value: digest},
		{Name: "seen_ts", Value: seenAt},
	}
	affected, err := r.c.runDML(ctx, sql, params)
	if err != nil {
		return false, fmt.Errorf("put marker: %w", err)
	}
	return affected > 0, nil
}

func (r *MarkerRepository) Seen(ctx context.Context, digest string) (time.Time, bool, error) {
	sql := fmt.Sprintf(`
		SELECT digest, seen_ts
		FROM %s
		WHERE digest = @digest
	`, r.c.table(r.table))
	q := r.c.bq.Query(sql)
	q.Parameters = []bigquery.QueryParameter{{Name: "digest", Value: digest}}

	it, err := q.Read(ctx)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("seen marker: query read: %w", err)
	}

	var row MarkerRow
	err = it.Next(&row)
	if err == iterator.Done {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("seen marker: iter next: %w", err)
	}
	return row.SeenTS, true, nil
}

func (r *MarkerRepository) Delete(ctx context.Context, digest string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE digest = @digest`, r.c.table(r.table))
	params := []bigquery.QueryParameter{{Name: "digest", Value: digest}}
	if _, err := r.c.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("delete marker: %w", err)
	}
	return nil
}

func (r *MarkerRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE seen_ts < @cutoff`, r.c.table(r.table))
	params := []bigquery.QueryParameter{{Name: "cutoff", Value: cutoff}}
	affected, err := r.c.runDML(ctx, sql, params)
	if err != nil {
		return 0, fmt.Errorf("delete old markers: %w", err)
	}
	return int(affected), nil
}

func (r *MarkerRepository) Count(ctx context.Context) (int, error) {
	sql := fmt.Sprintf(`SELECT COUNT(*) AS n FROM %s`, r.c.table(r.table))

	it, err := r.c.bq.Query(sql).Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("count markers: query read: %w", err)
	}
	var row struct {
		N int64 `bigquery:"n"`
	}
	if err := it.Next(&row); err != nil {
		return 0, fmt.Errorf("count markers: iter next: %w", err)
	}
	return int(row.N), nil
}

// TrimOldest keeps the max newest markers and deletes the rest.
func (r *MarkerRepository) TrimOldest(ctx context.Context, max int) error {
	sql := fmt.Sprintf(`
		DELETE FROM %s
		WHERE digest NOT IN (
			SELECT digest FROM %s
			ORDER BY seen_ts DESC
			LIMIT @keep
		)
	`, r.c.table(r.table), r.c.table(r.table))
	params := []bigquery.QueryParameter{{Name: "keep", Value: int64(max)}}
	if _, err := r.c.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("trim markers: %w", err)
	}
	return nil
}

var _ store.MarkerStore = (*MarkerRepository)(nil)
