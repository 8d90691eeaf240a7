// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
)

// MockSource is a no-op test double for [services.SourceService]
type MockSource struct{}

func (m *MockSource) Name() string { return "mock-source" }

func (m *MockSource) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return []models.Playlist{}, nil
}

func (m *MockSource) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	return nil, nil
}

func (m *MockSource) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockSource) GetFavoriteTracks(ctx context.Context) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockSource) GetSavedAlbums(ctx context.Context) ([]models.Album, error) {
	return []models.Album{}, nil
}

func (m *MockSource) GetFollowedArtists(ctx context.Context) ([]models.Artist, error) {
	return []models.Artist{}, nil
}

// MockTarget is a no-op test double for [services.TargetService]
type MockTarget struct{}

func (m *MockTarget) Name() string { return "mock-target" }

func (m *MockTarget) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return []models.Playlist{}, nil
}

func (m *MockTarget) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockTarget) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	return &models.Playlist{ID: "mock", Name: name, Description: description}, nil
}

func (m *MockTarget) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return nil
}

func (m *MockTarget) ClearPlaylist(ctx context.Context, playlistID string) error { return nil }

func (m *MockTarget) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockTarget) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	return []models.Album{}, nil
}

func (m *MockTarget) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	return []models.Artist{}, nil
}

func (m *MockTarget) GetAlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockTarget) GetFavoriteTracks(ctx context.Context) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockTarget) GetFavoriteAlbums(ctx context.Context) ([]models.Album, error) {
	return []models.Album{}, nil
}

func (m *MockTarget) GetFavoriteArtists(ctx context.Context) ([]models.Artist, error) {
	return []models.Artist{}, nil
}

func (m *MockTarget) AddFavorite(ctx context.Context, kind, id string) error { return nil }

func (m *MockTarget) RemoveFavorite(ctx context.Context, kind, id string) error { return nil }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
