// Spotify API implementation of [SourceService]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
}

// SpotifyTrack represents a Spotify track. Local files carry an empty id
// and is_local set; they can never be matched against another catalog.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	TrackNumber int             `json:"track_number"`
	ExternalIDs externalIDs     `json:"external_ids"`
	IsLocal     bool            `json:"is_local"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifyPlaylistsPage struct {
	Items []SpotifyPlaylist `json:"items"`
	Total int               `json:"total"`
	Next  *string           `json:"next"`
}

type spotifyPlaylistTrackItem struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

type spotifyPlaylistTracksPage struct {
	Items []spotifyPlaylistTrackItem `json:"items"`
	Total int                        `json:"total"`
	Next  *string                    `json:"next"`
}

type spotifySavedAlbumItem struct {
	AddedAt string       `json:"added_at"`
	Album   SpotifyAlbum `json:"album"`
}

type spotifySavedAlbumsPage struct {
	Items []spotifySavedAlbumItem `json:"items"`
	Total int                     `json:"total"`
	Next  *string                 `json:"next"`
}

type spotifyFollowedArtistsPage struct {
	Artists struct {
		Items   []SpotifyArtist `json:"items"`
		Total   int             `json:"total"`
		Next    *string         `json:"next"`
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
	} `json:"artists"`
}

// SpotifyService implements [SourceService] for the Spotify Web API.
// Authentication uses the OAuth2 authorization-code flow with the token
// persisted to disk between runs.
type SpotifyService struct {
	config    *oauth2.Config
	client    *http.Client
	retry     shared.RetryPolicy
	logger    *log.Logger
	tokenPath string
	baseURL   string
}

// NewSpotifyService creates a Spotify client from config. The client still
// needs Authenticate or ExchangeCode before it can issue API calls.
func NewSpotifyService(cfg shared.SpotifyConfig, retry shared.RetryPolicy, logger *log.Logger) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-read-collaborative",
			"user-library-read",
			"user-follow-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:    config,
		retry:     retry,
		logger:    logger,
		tokenPath: cfg.TokenPath,
		baseURL:   spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the OAuth2 config for the local callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// TokenPath returns where the service persists its OAuth token.
func (s *SpotifyService) TokenPath() string {
	return s.tokenPath
}

// ExchangeCode trades an authorization code for a token, persists it, and
// leaves the service authenticated.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) error {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}

	if err := SaveToken(s.tokenPath, token); err != nil {
		return err
	}

	s.setToken(ctx, token)
	return nil
}

// Authenticate loads the stored token from disk. Expired tokens refresh
// transparently on first use through the persisted refresh token.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	token, err := LoadToken(s.tokenPath)
	if err != nil {
		return err
	}

	s.setToken(ctx, token)
	return nil
}

// Authenticated reports whether the service holds a usable session.
func (s *SpotifyService) Authenticated() bool {
	return s.client != nil
}

func (s *SpotifyService) setToken(ctx context.Context, token *oauth2.Token) {
	src := s.config.TokenSource(ctx, token)
	s.client = oauth2.NewClient(ctx, newPersistingTokenSource(s.tokenPath, src, token))
}

// doRequest performs an authenticated GET against the Spotify API with the
// retry policy applied around each round trip. The source side is
// read-only, so GET is the only verb used.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.client == nil {
		return fmt.Errorf("%w: spotify login required", shared.ErrNotAuthenticated)
	}

	return shared.Retry(ctx, s.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: spotify request failed: %v", shared.ErrTransient, err)
		}
		defer resp.Body.Close()

		if err := classifyStatus("spotify", resp.StatusCode); err != nil {
			return err
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return fmt.Errorf("failed to decode spotify response: %w", err)
			}
		}
		return nil
	})
}

// GetPlaylists retrieves all of the user's playlists.
func (s *SpotifyService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist

	offset := 0
	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=50&offset=%d", offset)

		var page spotifyPlaylistsPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, sp := range page.Items {
			playlists = append(playlists, mapSpotifyPlaylist(sp))
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	return playlists, nil
}

// GetPlaylist retrieves a single playlist by ID.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var sp SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, endpoint, &sp); err != nil {
		return nil, err
	}

	playlist := mapSpotifyPlaylist(sp)
	return &playlist, nil
}

// GetPlaylistTracks retrieves a playlist's tracks in playlist order. Local
// files come back with empty ids and are kept in place so positions stay
// faithful to the source.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	var tracks []models.Track

	offset := 0
	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=100&offset=%d", url.PathEscape(playlistID), offset)

		var page spotifyPlaylistTracksPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			tracks = append(tracks, mapSpotifyTrack(item.Track))
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	return tracks, nil
}

// GetFavoriteTracks retrieves the user's liked songs.
func (s *SpotifyService) GetFavoriteTracks(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track

	offset := 0
	for {
		endpoint := fmt.Sprintf("/me/tracks?limit=50&offset=%d", offset)

		var page spotifyPlaylistTracksPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			tracks = append(tracks, mapSpotifyTrack(item.Track))
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	return tracks, nil
}

// GetSavedAlbums retrieves the user's saved albums.
func (s *SpotifyService) GetSavedAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album

	offset := 0
	for {
		endpoint := fmt.Sprintf("/me/albums?limit=50&offset=%d", offset)

		var page spotifySavedAlbumsPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			albums = append(albums, mapSpotifyAlbum(item.Album))
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}

	return albums, nil
}

// GetFollowedArtists retrieves the artists the user follows. This endpoint
// paginates by cursor rather than offset; a cursor that stops advancing
// ends the loop so a misbehaving response cannot spin forever.
func (s *SpotifyService) GetFollowedArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist

	after := ""
	for {
		endpoint := "/me/following?type=artist&limit=50"
		if after != "" {
			endpoint += "&after=" + url.QueryEscape(after)
		}

		var page spotifyFollowedArtistsPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, sa := range page.Artists.Items {
			artists = append(artists, models.Artist{ID: sa.ID, Name: sa.Name})
		}

		next := page.Artists.Cursors.After
		if page.Artists.Next == nil || next == "" || next == after || len(page.Artists.Items) == 0 {
			break
		}
		after = next
	}

	return artists, nil
}

func mapSpotifyPlaylist(sp SpotifyPlaylist) models.Playlist {
	return models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		TrackCount:  sp.Tracks.Total,
		Public:      sp.Public,
	}
}

func mapSpotifyArtists(artists []SpotifyArtist) []models.Artist {
	out := make([]models.Artist, 0, len(artists))
	for _, sa := range artists {
		out = append(out, models.Artist{ID: sa.ID, Name: sa.Name})
	}
	return out
}

func mapSpotifyAlbum(sa SpotifyAlbum) models.Album {
	return models.Album{
		ID:         sa.ID,
		Name:       sa.Name,
		Artists:    mapSpotifyArtists(sa.Artists),
		TrackCount: sa.TotalTracks,
	}
}

func mapSpotifyTrack(st SpotifyTrack) models.Track {
	return models.Track{
		ID:          st.ID,
		Name:        st.Name,
		Artists:     mapSpotifyArtists(st.Artists),
		Album:       mapSpotifyAlbum(st.Album),
		Duration:    float64(st.DurationMS) / 1000,
		TrackNumber: st.TrackNumber,
		ISRC:        st.ExternalIDs.ISRC,
		Available:   true,
	}
}
