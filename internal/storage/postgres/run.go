package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gamecatalog/internal/domain"
)

// RunStore keeps the ledger of population runs.
type RunStore struct {
	db *sqlx.DB
}

func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Record(ctx context.Context, run *domain.PopulationRun) error {
	query := `
		INSERT INTO population_runs (status, games_count, duration_ms, error, started_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.QueryRowxContext(ctx, query,
		run.Status,
		run.GamesCount,
		run.DurationMs,
		run.Error,
		run.StartedAt,
	).Scan(&run.ID)
}

// Latest returns the most recent runs, newest first.
func (s *RunStore) Latest(ctx context.Context, limit int) ([]domain.PopulationRun, error) {
	query := `
		SELECT id, status, games_count, duration_ms, error, started_at
		FROM population_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1`

	runs := make([]domain.PopulationRun, 0)
	err := s.db.SelectContext(ctx, &runs, query, limit)
	return runs, err
}
