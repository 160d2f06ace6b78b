package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/okian/playersim/internal/domain/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps per-game rows in a SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would get its own empty in-memory database.
		conn.SetMaxOpenConns(1)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Insert upserts rows in a single transaction.
func (s *SQLiteStore) Insert(ctx context.Context, rows []model.PlayerGameRow) error {
	cols := append(append([]string(nil), baseColumns...), statColumns()...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT OR REPLACE INTO player_games (%s) VALUES (%s)", strings.Join(cols, ", "), marks)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		r := &rows[i]
		src := r.RoutesSource
		if src == "" {
			src = model.RoutesNone
		}
		args := append([]any{r.PlayerID, r.Name, r.Season, r.Week, string(r.Position), string(src)}, statArgs(r)...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s %d/%d: %w", r.PlayerID, r.Season, r.Week, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// Rows returns the rows of one position within a season range, ordered by
// player, season and week.
func (s *SQLiteStore) Rows(ctx context.Context, q CohortQuery) ([]model.PlayerGameRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM player_games
		WHERE position = ? AND season BETWEEN ? AND ?
		ORDER BY player_id, season, week`, selectList())
	rs, err := s.conn.QueryContext(ctx, query, string(q.Position), q.FromSeason, q.ToSeason)
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

// Seasons returns the distinct seasons stored, ascending.
func (s *SQLiteStore) Seasons(ctx context.Context) ([]int, error) {
	rs, err := s.conn.QueryContext(ctx, "SELECT DISTINCT season FROM player_games ORDER BY season")
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rs.Close()
	var out []int
	for rs.Next() {
		var season int
		if err := rs.Scan(&season); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, season)
	}
	return out, rs.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (model.PlayerGameRow, error) {
	var (
		r        model.PlayerGameRow
		position string
		source   string
	)
	vals := make([]*float64, len(model.StatFields))
	dest := []any{&r.PlayerID, &r.Name, &r.Season, &r.Week, &position, &source}
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := sc.Scan(dest...); err != nil {
		return model.PlayerGameRow{}, fmt.Errorf("scan row: %w", err)
	}
	r.Position = model.Position(position)
	r.RoutesSource = routesSource(source)
	r.Stats = nullableStats(vals)
	return r, nil
}
