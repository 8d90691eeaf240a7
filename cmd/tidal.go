package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// TidalPlaylists lists the user's Tidal playlists.
func (r *Runner) TidalPlaylists(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.tidal == nil {
		return fmt.Errorf("%w: Tidal service not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.authenticateTidal(ctx); err != nil {
		return err
	}

	playlists, err := r.tidal.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n\n", p.TrackCount)
	}

	return nil
}

// TidalSearch runs one catalog search and prints the candidates, useful
// for diagnosing why an item refuses to match.
func (r *Runner) TidalSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	kind := cmd.String("kind")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	if r.tidal == nil {
		return fmt.Errorf("%w: Tidal service not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.authenticateTidal(ctx); err != nil {
		return err
	}

	r.logger.Info("searching tidal", "kind", kind, "query", query)

	switch kind {
	case "tracks":
		tracks, err := r.tidal.SearchTracks(ctx, query)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		if useJSON {
			return r.writeJSON(tracks, pretty)
		}
		r.writePlain("Found %d tracks:\n\n", len(tracks))
		for i, track := range tracks {
			r.writeTrackResult(i+1, track)
		}
	case "albums":
		albums, err := r.tidal.SearchAlbums(ctx, query)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		if useJSON {
			return r.writeJSON(albums, pretty)
		}
		r.writePlain("Found %d albums:\n\n", len(albums))
		for i, album := range albums {
			r.writePlain("%d. %s (id %s, %d tracks)\n", i+1, album.Description(), album.ID, album.TrackCount)
		}
	case "artists":
		artists, err := r.tidal.SearchArtists(ctx, query)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		if useJSON {
			return r.writeJSON(artists, pretty)
		}
		r.writePlain("Found %d artists:\n\n", len(artists))
		for i, artist := range artists {
			r.writePlain("%d. %s (id %s)\n", i+1, artist.Name, artist.ID)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q (must be tracks, albums, or artists)", shared.ErrInvalidArgument, kind)
	}

	return nil
}

func (r *Runner) writeTrackResult(n int, track models.Track) {
	r.writePlain("%d. %s (id %s)\n", n, track.Description(), track.ID)
	r.writePlain("   Duration: %s", shared.FormatDuration(int(track.Duration)))
	if track.Version != "" {
		r.writePlain("  Version: %s", track.Version)
	}
	if !track.Available {
		r.writePlain("  [unavailable]")
	}
	r.writePlain("\n")
}
