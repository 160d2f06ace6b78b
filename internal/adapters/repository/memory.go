package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/playersim/internal/domain/model"
)

type memKey struct {
	player string
	season int
	week   int
}

// MemoryStore keeps rows in process. It is used by tests and the CLI.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[memKey]model.PlayerGameRow
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[memKey]model.PlayerGameRow)}
}

// Insert upserts rows.
func (s *MemoryStore) Insert(_ context.Context, rows []model.PlayerGameRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rows[memKey{r.PlayerID, r.Season, r.Week}] = r
	}
	return nil
}

// Rows returns matching rows ordered by player, season and week.
func (s *MemoryStore) Rows(ctx context.Context, q CohortQuery) ([]model.PlayerGameRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]model.PlayerGameRow, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Position == q.Position && r.Season >= q.FromSeason && r.Season <= q.ToSeason {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.Week < b.Week
	})
	return out, ctx.Err()
}

// Len returns the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
