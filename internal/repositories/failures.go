package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// initialRetryInterval is how long a newly recorded failure suppresses
// retries. Every later failure doubles the elapsed age of the record, so
// items that keep failing get probed less and less often.
const initialRetryInterval = 7 * 24 * time.Hour

// FailureRepository is the persistent negative match cache. Source items
// that could not be matched are recorded here so later runs skip them
// until their retry window reopens.
type FailureRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewFailureRepository(db *sql.DB) *FailureRepository {
	return &FailureRepository{db: db, now: time.Now}
}

// Record notes a failed match for id. The first failure schedules a retry
// after the initial interval; each repeat failure pushes next_retry to
// now + 2*(now - first_failure). The read and write happen in one
// transaction so concurrent writers cannot interleave between them.
func (r *FailureRepository) Record(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: failure record requires an id", shared.ErrInvalidArgument)
	}

	now := r.now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin failure transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var first time.Time
	err = tx.QueryRowContext(ctx,
		"SELECT first_failure FROM match_failures WHERE id = ?", id,
	).Scan(&first)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO match_failures (id, first_failure, next_retry) VALUES (?, ?, ?)",
			id, now, now.Add(initialRetryInterval),
		)
		if err != nil {
			return fmt.Errorf("failed to insert match failure: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read match failure: %w", err)
	default:
		next := now.Add(2 * now.Sub(first))
		_, err = tx.ExecContext(ctx,
			"UPDATE match_failures SET next_retry = ? WHERE id = ?", next, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update match failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match failure: %w", err)
	}

	return nil
}

// HasLiveFailure reports whether id has a recorded failure whose retry
// window has not yet reopened. Unknown ids are not failures.
func (r *FailureRepository) HasLiveFailure(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	var next time.Time
	err := r.db.QueryRowContext(ctx,
		"SELECT next_retry FROM match_failures WHERE id = ?", id,
	).Scan(&next)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to read match failure: %w", err)
	}

	return next.After(r.now()), nil
}

// Clear removes the failure record for id, typically after a later run
// matched the item successfully. Clearing an unknown id is a no-op.
func (r *FailureRepository) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM match_failures WHERE id = ?", id,
	); err != nil {
		return fmt.Errorf("failed to clear match failure: %w", err)
	}

	return nil
}

// Get returns the stored failure record for id, or nil when none exists.
func (r *FailureRepository) Get(ctx context.Context, id string) (*models.MatchFailure, error) {
	var failure models.MatchFailure
	err := r.db.QueryRowContext(ctx,
		"SELECT id, first_failure, next_retry FROM match_failures WHERE id = ?", id,
	).Scan(&failure.ID, &failure.FirstFailure, &failure.NextRetry)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read match failure: %w", err)
	}

	return &failure, nil
}

// Prune deletes every record whose retry window has reopened and returns
// how many rows were removed.
func (r *FailureRepository) Prune(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM match_failures WHERE next_retry <= ?", r.now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune match failures: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned failures: %w", err)
	}

	return n, nil
}

// FailureStats summarizes the negative cache for status output.
type FailureStats struct {
	Total int64 `json:"total"`
	Live  int64 `json:"live"`
}

// Stats counts all recorded failures and the subset still suppressing
// retries.
func (r *FailureRepository) Stats(ctx context.Context) (FailureStats, error) {
	var stats FailureStats

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM match_failures",
	).Scan(&stats.Total); err != nil {
		return stats, fmt.Errorf("failed to count match failures: %w", err)
	}

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM match_failures WHERE next_retry > ?", r.now(),
	).Scan(&stats.Live); err != nil {
		return stats, fmt.Errorf("failed to count live failures: %w", err)
	}

	return stats, nil
}
