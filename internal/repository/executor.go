package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/paramquery/internal/query"
)

// QueryExecutor runs composed queries against the backing store. The builder
// core never executes anything itself; this is the seam the HTTP and export
// layers use.
type QueryExecutor interface {
	Execute(ctx context.Context, q query.Query) ([]map[string]any, error)
	Count(ctx context.Context, q query.Query) (int64, error)
}

// pgExecutor implements QueryExecutor on a pgx connection pool
type pgExecutor struct {
	pool *pgxpool.Pool
}

// NewPgExecutor creates a Postgres-backed query executor
func NewPgExecutor(pool *pgxpool.Pool) QueryExecutor {
	return &pgExecutor{pool: pool}
}

// Execute renders the query to SQL and returns the result rows as generic
// column-name keyed maps.
func (e *pgExecutor) Execute(ctx context.Context, q query.Query) ([]map[string]any, error) {
	sql, args := q.ToSQL()

	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query on %s: %w", q.Table(), err)
	}
	defer rows.Close()

	descriptions := rows.FieldDescriptions()
	columns := make([]string, len(descriptions))
	for i, desc := range descriptions {
		columns[i] = desc.Name
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", q.Table(), err)
		}

		record := make(map[string]any, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows from %s: %w", q.Table(), err)
	}

	return results, nil
}

// Count runs the COUNT(*) form of the query.
func (e *pgExecutor) Count(ctx context.Context, q query.Query) (int64, error) {
	sql, args := q.ToCountSQL()

	var count int64
	if err := e.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows on %s: %w", q.Table(), err)
	}
	return count, nil
}
