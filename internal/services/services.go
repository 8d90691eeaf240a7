// package services implements the two catalog clients: Spotify as the
// read-only source and Tidal as the writable target.
//
// Both clients map their wire formats into the shared shapes in
// internal/models, so everything above this package is catalog-agnostic.
// Each HTTP round trip is wrapped in the retry policy from internal/shared,
// with rate-limit and server errors classified as retryable.
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// SourceService is the read side of a sync: the catalog the user's
// library is copied from. All fetchers return complete collections with
// pagination handled internally, preserving the catalog's item order.
type SourceService interface {
	// Name returns the service name for logs and output.
	Name() string

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// GetPlaylistTracks retrieves a playlist's tracks in playlist order.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// GetFavoriteTracks retrieves the user's liked songs, newest first.
	GetFavoriteTracks(ctx context.Context) ([]models.Track, error)

	// GetSavedAlbums retrieves the user's saved albums.
	GetSavedAlbums(ctx context.Context) ([]models.Album, error)

	// GetFollowedArtists retrieves the artists the user follows.
	GetFollowedArtists(ctx context.Context) ([]models.Artist, error)
}

// TargetService is the write side of a sync: the catalog being brought
// into correspondence with the source. Searches are single round trips;
// mutations chunk themselves to respect payload limits.
type TargetService interface {
	// Name returns the service name for logs and output.
	Name() string

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylistTracks retrieves a playlist's tracks in playlist order.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist and returns it.
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)

	// AddPlaylistTracks appends tracks to the end of a playlist in order.
	AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// ClearPlaylist removes every track from a playlist.
	ClearPlaylist(ctx context.Context, playlistID string) error

	// SearchTracks runs one track search query against the catalog.
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)

	// SearchAlbums runs one album search query against the catalog.
	SearchAlbums(ctx context.Context, query string) ([]models.Album, error)

	// SearchArtists runs one artist search query against the catalog.
	SearchArtists(ctx context.Context, query string) ([]models.Artist, error)

	// GetAlbumTracks retrieves an album's tracks in album order.
	GetAlbumTracks(ctx context.Context, albumID string) ([]models.Track, error)

	// GetFavoriteTracks retrieves the user's favorite tracks.
	GetFavoriteTracks(ctx context.Context) ([]models.Track, error)

	// GetFavoriteAlbums retrieves the user's favorite albums.
	GetFavoriteAlbums(ctx context.Context) ([]models.Album, error)

	// GetFavoriteArtists retrieves the user's followed artists.
	GetFavoriteArtists(ctx context.Context) ([]models.Artist, error)

	// AddFavorite adds one item of the given kind to the user's
	// favorites. Kind is one of "tracks", "albums", "artists".
	AddFavorite(ctx context.Context, kind, id string) error

	// RemoveFavorite removes one item of the given kind from the user's
	// favorites.
	RemoveFavorite(ctx context.Context, kind, id string) error
}

// classifyStatus maps an HTTP response status onto the shared error
// taxonomy so the retry policy can tell throttling and outages apart from
// permanent failures.
func classifyStatus(service string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned 429", shared.ErrRateLimited, service)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", shared.ErrNotAuthenticated, service, status)
	case status == http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %s returned 412", shared.ErrPreconditionFailed, service)
	case status >= 500:
		return fmt.Errorf("%w: %s returned %d", shared.ErrTransient, service, status)
	default:
		return fmt.Errorf("%w: %s returned unexpected status %d", shared.ErrAPIRequest, service, status)
	}
}
