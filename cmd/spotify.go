package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/spotify2tidal/spotify-to-tidal/internal/formatter"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// SpotifyPlaylists lists Spotify playlists with optional limit.
func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.authenticateSpotify(ctx); err != nil {
		return err
	}

	r.logger.Info("listing spotify playlists", "limit", limit)

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}

	return nil
}

// SpotifyTracks lists the tracks of a single playlist in playlist order.
func (r *Runner) SpotifyTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.authenticateSpotify(ctx); err != nil {
		return err
	}

	r.logger.Info("listing spotify playlist tracks", "playlist", playlistID)

	playlist, err := r.spotify.GetPlaylist(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	tracks, err := r.spotify.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Playlist: %s\n", playlist.Name)
	r.writePlain("Tracks: %d\n\n", len(tracks))

	for i, track := range tracks {
		r.writePlain("%d. %s\n", i+1, track.Description())
		if track.Album.Name != "" {
			r.writePlain("   Album: %s\n", track.Album.Name)
		}
		r.writePlain("   Duration: %s\n", shared.FormatDuration(int(track.Duration)))
		if track.ISRC != "" {
			r.writePlain("   ISRC: %s\n", track.ISRC)
		}
	}

	return nil
}

// SpotifyExport writes a playlist with all its tracks to disk in the
// requested format.
func (r *Runner) SpotifyExport(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	format := cmd.String("format")
	output := cmd.String("output")

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.authenticateSpotify(ctx); err != nil {
		return err
	}

	r.logger.Info("exporting spotify playlist", "playlist", playlistID, "format", format)

	playlist, err := r.spotify.GetPlaylist(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	tracks, err := r.spotify.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(*playlist, tracks, output)
		if err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}
		r.writePlain("✓ Exported %d tracks\n", len(tracks))
		r.writePlain("  Tracks: %s\n", result.TracksFile)
		r.writePlain("  Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		file, err := formatter.WriteMarkdownExport(*playlist, tracks, output)
		if err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), file)
	case "text", "txt":
		file, err := formatter.WriteTextExport(*playlist, tracks, output)
		if err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), file)
	default:
		return fmt.Errorf("%w: unknown format %q (want csv, markdown, or text)", shared.ErrInvalidArgument, format)
	}

	return nil
}
