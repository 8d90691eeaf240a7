package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/repositories"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
	"github.com/spotify2tidal/spotify-to-tidal/internal/tasks"
)

// SyncAll reconciles the whole library: every playlist, liked songs,
// saved albums, and followed artists.
func (r *Runner) SyncAll(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.buildSession(ctx, sessionOpts{
		DryRun:        cmd.Bool("dry-run"),
		OnlyPlaylists: cmd.StringSlice("playlist"),
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	r.writePlain("Starting full library sync%s...\n\n", dryRunSuffix(cmd))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)

	summary, err := sess.engine.SyncAll(ctx, progressCh)
	close(progressCh)
	<-done

	r.writeReport(sess.engine)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	for _, col := range summary.Collections {
		r.writePlain("%-9s %-30s matched %d/%d, added %d (%s)\n",
			col.Kind, col.Name, col.Matched, col.Total, col.Added, col.Plan)
	}
	if len(summary.Failed) > 0 {
		r.writePlainln("Failed collections:")
		for _, failed := range summary.Failed {
			r.writePlain("  ✗ %s %q: %v\n", failed.Kind, failed.Name, failed.Err)
		}
	}

	return nil
}

// SyncPlaylist reconciles a single playlist selected by id or name.
func (r *Runner) SyncPlaylist(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	playlistName := cmd.String("name")

	if playlistID == "" && playlistName == "" {
		return fmt.Errorf("%w: either --id or --name is required", shared.ErrMissingArgument)
	}

	sess, err := r.buildSession(ctx, sessionOpts{DryRun: cmd.Bool("dry-run")})
	if err != nil {
		return err
	}
	defer sess.Close()

	playlist, err := r.findSourcePlaylist(ctx, playlistID, playlistName)
	if err != nil {
		return err
	}

	r.writePlain("Syncing playlist %q%s...\n\n", playlist.Name, dryRunSuffix(cmd))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)

	result, err := sess.engine.SyncPlaylist(ctx, *playlist, progressCh)
	close(progressCh)
	<-done

	r.writeReport(sess.engine)

	if err != nil {
		return err
	}

	r.printResult(result)
	return nil
}

// SyncFavorites reconciles liked songs onto Tidal favorite tracks.
func (r *Runner) SyncFavorites(ctx context.Context, cmd *cli.Command) error {
	return r.syncCollection(ctx, cmd, "liked songs", func(ctx context.Context, engine *tasks.Engine, progress chan<- tasks.ProgressUpdate) (*tasks.CollectionResult, error) {
		return engine.SyncFavoriteTracks(ctx, progress)
	})
}

// SyncAlbums reconciles saved albums onto Tidal favorite albums.
func (r *Runner) SyncAlbums(ctx context.Context, cmd *cli.Command) error {
	return r.syncCollection(ctx, cmd, "saved albums", func(ctx context.Context, engine *tasks.Engine, progress chan<- tasks.ProgressUpdate) (*tasks.CollectionResult, error) {
		return engine.SyncSavedAlbums(ctx, progress)
	})
}

// SyncArtists reconciles followed artists onto Tidal favorite artists.
func (r *Runner) SyncArtists(ctx context.Context, cmd *cli.Command) error {
	return r.syncCollection(ctx, cmd, "followed artists", func(ctx context.Context, engine *tasks.Engine, progress chan<- tasks.ProgressUpdate) (*tasks.CollectionResult, error) {
		return engine.SyncFollowedArtists(ctx, progress)
	})
}

// SyncHistory prints recent sync runs from the local database.
func (r *Runner) SyncHistory(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewSyncRunRepository(db).Recent(ctx, int(limit))
	if err != nil {
		return fmt.Errorf("failed to read sync history: %w", err)
	}

	if len(runs) == 0 {
		r.writePlain("No sync runs recorded yet.\n")
		return nil
	}

	r.writePlain("Last %d sync runs:\n\n", len(runs))
	for _, run := range runs {
		r.writePlain("%s  %-9s %-30s matched %d/%d, %d not found (%s)\n",
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Kind, run.Name, run.Matched, run.Total, run.NotFound,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}

	return nil
}

// syncCollection runs one singular-collection sync with progress printing
// and report handling shared across the favorites-style commands.
func (r *Runner) syncCollection(ctx context.Context, cmd *cli.Command, label string, op func(ctx context.Context, engine *tasks.Engine, progress chan<- tasks.ProgressUpdate) (*tasks.CollectionResult, error)) error {
	sess, err := r.buildSession(ctx, sessionOpts{DryRun: cmd.Bool("dry-run")})
	if err != nil {
		return err
	}
	defer sess.Close()

	r.writePlain("Syncing %s%s...\n\n", label, dryRunSuffix(cmd))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)

	result, err := op(ctx, sess.engine, progressCh)
	close(progressCh)
	<-done

	r.writeReport(sess.engine)

	if err != nil {
		return err
	}

	r.printResult(result)
	return nil
}

func dryRunSuffix(cmd *cli.Command) string {
	if cmd.Bool("dry-run") {
		return " (dry run)"
	}
	return ""
}

// findSourcePlaylist resolves the flag pair to one source playlist.
func (r *Runner) findSourcePlaylist(ctx context.Context, id, name string) (*models.Playlist, error) {
	if id != "" {
		playlist, err := r.spotify.GetPlaylist(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistNotFound, err)
		}
		return playlist, nil
	}

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	for _, playlist := range playlists {
		if strings.EqualFold(playlist.Name, name) {
			return &playlist, nil
		}
	}
	return nil, fmt.Errorf("%w: no Spotify playlist named %q", shared.ErrPlaylistNotFound, name)
}

// printProgress drains progress updates onto the terminal. The returned
// channel closes once the progress channel does, so callers can wait for
// the final line before printing the summary.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			switch update.Phase {
			case tasks.FetchSource, tasks.FetchTarget:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.MatchKnown:
				r.writePlain("🔗 %s\n", update.Message)
			case tasks.SearchItems:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.ApplyPlan:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()
	return done
}

func (r *Runner) printResult(result *tasks.CollectionResult) {
	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Collection: %s\n", result.Name)
	r.writePlain("Matched: %d/%d\n", result.Matched, result.Total)
	if result.NotFound > 0 {
		r.writePlain("Not found: %d\n", result.NotFound)
	}
	r.writePlain("Added: %d (%s)\n", result.Added, result.Plan)
	r.writePlain("Took: %s\n", result.Duration.Round(10*time.Millisecond))
}

// writeReport lands the not-found report next to the database and tells
// the user where it went. Report failures never fail a sync that already
// mutated the remote.
func (r *Runner) writeReport(engine *tasks.Engine) {
	report := engine.Report()
	if err := report.Write(r.config.Sync.ReportPath); err != nil {
		r.logger.Warn("failed to write not-found report", "error", err)
		return
	}
	if total := report.Total(); total > 0 {
		r.writePlain("\n⚠ %d items were not found; see %q\n", total, r.reportPath())
	}
}

func (r *Runner) reportPath() string {
	if r.config.Sync.ReportPath != "" {
		return r.config.Sync.ReportPath
	}
	return "items not found.txt"
}
