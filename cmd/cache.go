package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/repositories"
)

// CacheStats prints how many match failures are recorded and how many are
// still suppressing retries.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := repositories.NewFailureRepository(db).Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	r.writePlain("Match failures recorded: %d\n", stats.Total)
	r.writePlain("Still suppressing retries: %d\n", stats.Live)
	return nil
}

// CachePrune removes failure records whose retry window has already passed.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repositories.NewFailureRepository(db).Prune(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	r.writePlain("Pruned %d expired failure records\n", n)
	return nil
}

// CacheClear forgets the failure record for one item so the next sync
// searches for it again.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewFailureRepository(db).Clear(ctx, id); err != nil {
		return fmt.Errorf("failed to clear %q: %w", id, err)
	}

	r.writePlain("Cleared failure record for %q\n", id)
	return nil
}
