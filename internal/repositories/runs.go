package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// SyncRunRepository stores one row per completed sync pass so the status
// command can show what happened on previous runs.
type SyncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Record inserts a finished run. A missing ID is filled in before insert.
func (r *SyncRunRepository) Record(ctx context.Context, run *models.SyncRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("failed to validate sync run: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_runs
			(id, kind, name, total, matched, not_found, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.Name, run.Total, run.Matched, run.NotFound,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Recent returns the newest runs first, at most limit rows.
func (r *SyncRunRepository) Recent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, name, total, matched, not_found, started_at, finished_at
		 FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		if err := rows.Scan(
			&run.ID, &run.Kind, &run.Name, &run.Total, &run.Matched,
			&run.NotFound, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync runs: %w", err)
	}

	return runs, nil
}
