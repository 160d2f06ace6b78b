package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/playersim/internal/domain/model"
)

// PgPool is the subset of *pgxpool.Pool the store needs.
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore reads per-game rows from a Postgres table with the same
// columns as the SQLite schema.
type PostgresStore struct {
	pool  PgPool
	table string
}

// NewPostgresStore creates a store over an existing pool.
func NewPostgresStore(pool PgPool, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{pool: pool, table: defaultPostgresTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConnectPostgres opens a pool and verifies connectivity.
func ConnectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Rows returns the rows of one position within a season range.
func (s *PostgresStore) Rows(ctx context.Context, q CohortQuery) ([]model.PlayerGameRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE position = $1 AND season BETWEEN $2 AND $3 ORDER BY player_id, season, week`,
		selectList(), pgx.Identifier{s.table}.Sanitize())

	rs, err := s.pool.Query(ctx, query, string(q.Position), q.FromSeason, q.ToSeason)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rs.Close()

	var out []model.PlayerGameRow
	for rs.Next() {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("read rows: %w", err)
		}
		row, err := scanRow(rs)
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return out, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
