package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
)

// PlaylistLinkRepository remembers which Tidal playlist each Spotify
// playlist syncs into, so renames on either side do not orphan the pair.
// Config-file mappings take precedence over stored links; the engine only
// writes a link after it resolves or creates the target playlist.
type PlaylistLinkRepository struct {
	db *sql.DB
}

func NewPlaylistLinkRepository(db *sql.DB) *PlaylistLinkRepository {
	return &PlaylistLinkRepository{db: db}
}

// Upsert stores or refreshes the link for link.SpotifyID.
func (r *PlaylistLinkRepository) Upsert(ctx context.Context, link *models.PlaylistLink) error {
	if err := link.Validate(); err != nil {
		return fmt.Errorf("failed to validate playlist link: %w", err)
	}

	if link.LinkedAt.IsZero() {
		link.LinkedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO playlist_links (spotify_id, tidal_id, name, linked_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(spotify_id) DO UPDATE SET
			tidal_id = excluded.tidal_id,
			name = excluded.name,
			linked_at = excluded.linked_at`,
		link.SpotifyID, link.TidalID, link.Name, link.LinkedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert playlist link: %w", err)
	}

	return nil
}

// Get returns the stored link for spotifyID, or nil when none exists.
func (r *PlaylistLinkRepository) Get(ctx context.Context, spotifyID string) (*models.PlaylistLink, error) {
	var link models.PlaylistLink
	err := r.db.QueryRowContext(ctx,
		"SELECT spotify_id, tidal_id, name, linked_at FROM playlist_links WHERE spotify_id = ?",
		spotifyID,
	).Scan(&link.SpotifyID, &link.TidalID, &link.Name, &link.LinkedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read playlist link: %w", err)
	}

	return &link, nil
}

// All returns every stored link ordered by playlist name.
func (r *PlaylistLinkRepository) All(ctx context.Context) ([]models.PlaylistLink, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT spotify_id, tidal_id, name, linked_at FROM playlist_links ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist links: %w", err)
	}
	defer rows.Close()

	var links []models.PlaylistLink
	for rows.Next() {
		var link models.PlaylistLink
		if err := rows.Scan(&link.SpotifyID, &link.TidalID, &link.Name, &link.LinkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist links: %w", err)
	}

	return links, nil
}

// Delete removes the link for spotifyID. Deleting an unknown id is a no-op.
func (r *PlaylistLinkRepository) Delete(ctx context.Context, spotifyID string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM playlist_links WHERE spotify_id = ?", spotifyID,
	); err != nil {
		return fmt.Errorf("failed to delete playlist link: %w", err)
	}

	return nil
}
