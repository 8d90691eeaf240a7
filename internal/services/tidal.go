// Tidal API implementation of [TargetService]
//
// Authentication uses the OAuth2 device-code flow (the flow Tidal issues to
// TV-class clients), and playlist mutations follow the v1 API's optimistic
// concurrency scheme: every write carries the playlist's current entity tag
// and a stale tag comes back as 412.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

const (
	tidalDeviceAuthURL = "https://auth.tidal.com/v1/oauth2/device_authorization"
	tidalTokenURL      = "https://auth.tidal.com/v1/oauth2/token"
	tidalBaseURL       = "https://api.tidal.com/v1"

	// etagRetryDelay is the pause before re-reading the playlist after a
	// concurrent-modification conflict.
	etagRetryDelay = 500 * time.Millisecond
)

// TidalArtist represents a Tidal artist.
type TidalArtist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TidalAlbum represents a Tidal album. Responses carry either a single
// artist, an artist list, or both depending on the endpoint.
type TidalAlbum struct {
	ID             int           `json:"id"`
	Title          string        `json:"title"`
	Artist         TidalArtist   `json:"artist"`
	Artists        []TidalArtist `json:"artists"`
	NumberOfTracks int           `json:"numberOfTracks"`
}

// TidalTrack represents a Tidal track. Version carries edition tags like
// "Remix" that the title itself omits; streamReady marks availability in
// the user's region.
type TidalTrack struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Version     *string       `json:"version"`
	Duration    int           `json:"duration"`
	TrackNumber int           `json:"trackNumber"`
	ISRC        string        `json:"isrc"`
	StreamReady bool          `json:"streamReady"`
	Artist      TidalArtist   `json:"artist"`
	Artists     []TidalArtist `json:"artists"`
	Album       TidalAlbum    `json:"album"`
}

// TidalPlaylist represents a Tidal playlist.
type TidalPlaylist struct {
	UUID           string `json:"uuid"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	NumberOfTracks int    `json:"numberOfTracks"`
	PublicPlaylist bool   `json:"publicPlaylist"`
}

type tidalPlaylistsPage struct {
	Items              []TidalPlaylist `json:"items"`
	TotalNumberOfItems int             `json:"totalNumberOfItems"`
}

type tidalPlaylistItem struct {
	Type string     `json:"type"`
	Item TidalTrack `json:"item"`
}

type tidalPlaylistItemsPage struct {
	Items              []tidalPlaylistItem `json:"items"`
	TotalNumberOfItems int                 `json:"totalNumberOfItems"`
}

type tidalTracksPage struct {
	Items              []TidalTrack `json:"items"`
	TotalNumberOfItems int          `json:"totalNumberOfItems"`
}

type tidalAlbumsPage struct {
	Items              []TidalAlbum `json:"items"`
	TotalNumberOfItems int          `json:"totalNumberOfItems"`
}

type tidalArtistsPage struct {
	Items              []TidalArtist `json:"items"`
	TotalNumberOfItems int           `json:"totalNumberOfItems"`
}

type tidalFavoriteTrackItem struct {
	Created string     `json:"created"`
	Item    TidalTrack `json:"item"`
}

type tidalFavoriteTracksPage struct {
	Items              []tidalFavoriteTrackItem `json:"items"`
	TotalNumberOfItems int                      `json:"totalNumberOfItems"`
}

type tidalFavoriteAlbumItem struct {
	Created string     `json:"created"`
	Item    TidalAlbum `json:"item"`
}

type tidalFavoriteAlbumsPage struct {
	Items              []tidalFavoriteAlbumItem `json:"items"`
	TotalNumberOfItems int                      `json:"totalNumberOfItems"`
}

type tidalFavoriteArtistItem struct {
	Created string      `json:"created"`
	Item    TidalArtist `json:"item"`
}

type tidalFavoriteArtistsPage struct {
	Items              []tidalFavoriteArtistItem `json:"items"`
	TotalNumberOfItems int                       `json:"totalNumberOfItems"`
}

type tidalSession struct {
	UserID      int    `json:"userId"`
	SessionID   string `json:"sessionId"`
	CountryCode string `json:"countryCode"`
}

// TidalService implements [TargetService] for the Tidal v1 API.
type TidalService struct {
	// ChunkSize bounds how many items one mutation request carries.
	ChunkSize int

	config      *oauth2.Config
	client      *http.Client
	retry       shared.RetryPolicy
	logger      *log.Logger
	tokenPath   string
	baseURL     string
	userID      int
	countryCode string

	// sleep is swappable so the 412 retry loop can run instantly in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTidalService creates a Tidal client from config. The client still
// needs Authenticate or the device-login pair before it can issue API
// calls.
func NewTidalService(cfg shared.TidalConfig, retry shared.RetryPolicy, logger *log.Logger) (*TidalService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: tidal client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"r_usr", "w_usr"},
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: tidalDeviceAuthURL,
			TokenURL:      tidalTokenURL,
		},
	}

	return &TidalService{
		ChunkSize:   20,
		config:      config,
		retry:       retry,
		logger:      logger,
		tokenPath:   cfg.TokenPath,
		baseURL:     tidalBaseURL,
		countryCode: cfg.CountryCode,
	}, nil
}

func (s *TidalService) Name() string {
	return "Tidal"
}

// StartDeviceLogin begins the device-code flow. The caller shows the user
// the verification URL and code, then calls CompleteDeviceLogin.
func (s *TidalService) StartDeviceLogin(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	resp, err := s.config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start device login: %v", shared.ErrAuthFailed, err)
	}
	return resp, nil
}

// CompleteDeviceLogin polls for the device-flow token until the user
// approves or the code expires, then persists the token and opens the
// session.
func (s *TidalService) CompleteDeviceLogin(ctx context.Context, auth *oauth2.DeviceAuthResponse) error {
	token, err := s.config.DeviceAccessToken(ctx, auth)
	if err != nil {
		return fmt.Errorf("%w: device login was not approved: %v", shared.ErrAuthFailed, err)
	}

	if err := SaveToken(s.tokenPath, token); err != nil {
		return err
	}

	return s.openSession(ctx, token)
}

// Authenticate loads the stored token from disk and opens the session.
func (s *TidalService) Authenticate(ctx context.Context) error {
	token, err := LoadToken(s.tokenPath)
	if err != nil {
		return err
	}
	return s.openSession(ctx, token)
}

// Authenticated reports whether the service holds a usable session.
func (s *TidalService) Authenticated() bool {
	return s.client != nil && s.userID != 0
}

// openSession builds the authenticated client and resolves the session's
// user id and country code, which nearly every endpoint requires.
func (s *TidalService) openSession(ctx context.Context, token *oauth2.Token) error {
	src := s.config.TokenSource(ctx, token)
	s.client = oauth2.NewClient(ctx, newPersistingTokenSource(s.tokenPath, src, token))

	var session tidalSession
	if err := s.doRequest(ctx, http.MethodGet, "/sessions", nil, nil, "", &session); err != nil {
		s.client = nil
		return fmt.Errorf("failed to open tidal session: %w", err)
	}

	s.userID = session.UserID
	if session.CountryCode != "" {
		s.countryCode = session.CountryCode
	}
	if s.countryCode == "" {
		s.countryCode = "US"
	}

	s.logger.Debug("opened tidal session", "user_id", s.userID, "country", s.countryCode)
	return nil
}

// doRequest performs one authenticated call with the retry policy applied
// around the round trip. Query params gain the session country code; form
// values post as application/x-www-form-urlencoded; a non-empty etag is
// sent as an If-None-Match precondition.
func (s *TidalService) doRequest(ctx context.Context, method, endpoint string, query, form url.Values, etag string, result any) error {
	if s.client == nil {
		return fmt.Errorf("%w: tidal login required", shared.ErrNotAuthenticated)
	}

	if query == nil {
		query = url.Values{}
	}
	if s.countryCode != "" && query.Get("countryCode") == "" {
		query.Set("countryCode", s.countryCode)
	}

	apiURL := s.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		apiURL += "?" + encoded
	}

	return shared.Retry(ctx, s.retry, func(ctx context.Context) error {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}

		req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: tidal request failed: %v", shared.ErrTransient, err)
		}
		defer resp.Body.Close()

		if err := classifyStatus("tidal", resp.StatusCode); err != nil {
			return err
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return fmt.Errorf("failed to decode tidal response: %w", err)
			}
		}
		return nil
	})
}

// playlistWithETag reads a playlist and its current entity tag in one
// round trip. The tag is required on every mutation.
func (s *TidalService) playlistWithETag(ctx context.Context, playlistID string) (*TidalPlaylist, string, error) {
	if s.client == nil {
		return nil, "", fmt.Errorf("%w: tidal login required", shared.ErrNotAuthenticated)
	}

	query := url.Values{}
	query.Set("countryCode", s.countryCode)
	apiURL := fmt.Sprintf("%s/playlists/%s?%s", s.baseURL, url.PathEscape(playlistID), query.Encode())

	var playlist TidalPlaylist
	var etag string

	err := shared.Retry(ctx, s.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: tidal request failed: %v", shared.ErrTransient, err)
		}
		defer resp.Body.Close()

		if err := classifyStatus("tidal", resp.StatusCode); err != nil {
			return err
		}

		etag = resp.Header.Get("ETag")
		return json.NewDecoder(resp.Body).Decode(&playlist)
	})
	if err != nil {
		return nil, "", err
	}

	return &playlist, etag, nil
}

// GetPlaylists retrieves all of the user's playlists.
func (s *TidalService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist

	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "50")
		query.Set("offset", strconv.Itoa(offset))

		endpoint := fmt.Sprintf("/users/%d/playlists", s.userID)

		var page tidalPlaylistsPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, query, nil, "", &page); err != nil {
			return nil, err
		}

		for _, tp := range page.Items {
			playlists = append(playlists, mapTidalPlaylist(tp))
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			break
		}
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves a playlist's tracks in playlist order.
// Non-track items (videos) are dropped.
func (s *TidalService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	var tracks []models.Track

	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "100")
		query.Set("offset", strconv.Itoa(offset))

		endpoint := fmt.Sprintf("/playlists/%s/items", url.PathEscape(playlistID))

		var page tidalPlaylistItemsPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, query, nil, "", &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Type != "" && item.Type != "track" {
				continue
			}
			tracks = append(tracks, mapTidalTrack(item.Item))
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			break
		}
	}

	return tracks, nil
}

// CreatePlaylist creates an empty playlist owned by the session user.
func (s *TidalService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	form := url.Values{}
	form.Set("title", name)
	form.Set("description", description)

	endpoint := fmt.Sprintf("/users/%d/playlists", s.userID)

	var tp TidalPlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, nil, form, "", &tp); err != nil {
		return nil, fmt.Errorf("failed to create playlist %q: %w", name, err)
	}

	s.logger.Info("created tidal playlist", "name", name, "id", tp.UUID)

	playlist := mapTidalPlaylist(tp)
	return &playlist, nil
}

// AddPlaylistTracks appends tracks to the end of a playlist in order,
// one chunk per request. Each chunk re-reads the entity tag; a 412 from a
// concurrent writer refreshes the tag and retries the same chunk.
func (s *TidalService) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	chunk := s.chunkSize()
	for start := 0; start < len(trackIDs); start += chunk {
		end := min(start+chunk, len(trackIDs))

		if err := s.addPlaylistChunk(ctx, playlistID, trackIDs[start:end]); err != nil {
			return fmt.Errorf("failed to add tracks %d-%d to playlist %s: %w", start, end-1, playlistID, err)
		}

		s.logger.Info("added playlist chunk", "playlist", playlistID, "added", end, "total", len(trackIDs))
	}

	return nil
}

func (s *TidalService) addPlaylistChunk(ctx context.Context, playlistID string, trackIDs []string) error {
	for conflicts := 0; ; conflicts++ {
		playlist, etag, err := s.playlistWithETag(ctx, playlistID)
		if err != nil {
			return err
		}

		form := url.Values{}
		form.Set("trackIds", strings.Join(trackIDs, ","))
		form.Set("onArtifactNotFound", "SKIP")
		form.Set("onDupes", "SKIP")
		form.Set("toIndex", strconv.Itoa(playlist.NumberOfTracks))

		endpoint := fmt.Sprintf("/playlists/%s/items", url.PathEscape(playlistID))

		err = s.doRequest(ctx, http.MethodPost, endpoint, nil, form, etag, nil)
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrPreconditionFailed) {
			return err
		}
		if conflicts+1 >= s.retryBudget() {
			return fmt.Errorf("%w: playlist %s kept changing concurrently: %v", shared.ErrRetryBudgetExceeded, playlistID, err)
		}

		s.logger.Warn("playlist changed concurrently, refreshing etag", "playlist", playlistID)
		if err := s.sleepFn()(ctx, etagRetryDelay); err != nil {
			return err
		}
	}
}

// ClearPlaylist removes every track from a playlist, deleting from the
// front in chunks until none remain. Concurrent modification refreshes
// the entity tag and retries the same chunk rather than aborting.
func (s *TidalService) ClearPlaylist(ctx context.Context, playlistID string) error {
	chunk := s.chunkSize()
	conflicts := 0

	for {
		playlist, etag, err := s.playlistWithETag(ctx, playlistID)
		if err != nil {
			return err
		}
		if playlist.NumberOfTracks == 0 {
			return nil
		}

		count := min(chunk, playlist.NumberOfTracks)
		indices := make([]string, count)
		for i := range indices {
			indices[i] = strconv.Itoa(i)
		}

		endpoint := fmt.Sprintf("/playlists/%s/items/%s", url.PathEscape(playlistID), strings.Join(indices, ","))

		err = s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, etag, nil)
		switch {
		case err == nil:
			conflicts = 0
			s.logger.Info("cleared playlist chunk", "playlist", playlistID, "removed", count, "remaining", playlist.NumberOfTracks-count)
		case errors.Is(err, shared.ErrPreconditionFailed):
			conflicts++
			if conflicts >= s.retryBudget() {
				return fmt.Errorf("%w: playlist %s kept changing concurrently: %v", shared.ErrRetryBudgetExceeded, playlistID, err)
			}
			s.logger.Warn("playlist changed concurrently, refreshing etag", "playlist", playlistID)
			if err := s.sleepFn()(ctx, etagRetryDelay); err != nil {
				return err
			}
		default:
			return fmt.Errorf("failed to clear playlist %s: %w", playlistID, err)
		}
	}
}

// SearchTracks runs one track search query against the catalog.
func (s *TidalService) SearchTracks(ctx context.Context, searchQuery string) ([]models.Track, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("limit", "50")

	var page tidalTracksPage
	if err := s.doRequest(ctx, http.MethodGet, "/search/tracks", query, nil, "", &page); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, tt := range page.Items {
		tracks = append(tracks, mapTidalTrack(tt))
	}
	return tracks, nil
}

// SearchAlbums runs one album search query against the catalog.
func (s *TidalService) SearchAlbums(ctx context.Context, searchQuery string) ([]models.Album, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("limit", "50")

	var page tidalAlbumsPage
	if err := s.doRequest(ctx, http.MethodGet, "/search/albums", query, nil, "", &page); err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(page.Items))
	for _, ta := range page.Items {
		albums = append(albums, mapTidalAlbum(ta))
	}
	return albums, nil
}

// SearchArtists runs one artist search query against the catalog.
func (s *TidalService) SearchArtists(ctx context.Context, searchQuery string) ([]models.Artist, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("limit", "50")

	var page tidalArtistsPage
	if err := s.doRequest(ctx, http.MethodGet, "/search/artists", query, nil, "", &page); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(page.Items))
	for _, ta := range page.Items {
		artists = append(artists, mapTidalArtist(ta))
	}
	return artists, nil
}

// GetAlbumTracks retrieves an album's tracks in album order.
func (s *TidalService) GetAlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	var tracks []models.Track

	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "100")
		query.Set("offset", strconv.Itoa(offset))

		endpoint := fmt.Sprintf("/albums/%s/tracks", url.PathEscape(albumID))

		var page tidalTracksPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, query, nil, "", &page); err != nil {
			return nil, err
		}

		for _, tt := range page.Items {
			tracks = append(tracks, mapTidalTrack(tt))
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			break
		}
	}

	return tracks, nil
}

// GetFavoriteTracks retrieves the user's favorite tracks.
func (s *TidalService) GetFavoriteTracks(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track

	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "50")
		query.Set("offset", strconv.Itoa(offset))

		endpoint := fmt.Sprintf("/users/%d/favorites/tracks", s.userID)

		var page tidalFavoriteTracksPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, query, nil, "", &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			tracks = append(tracks, mapTidalTrack(item.Item))
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			break
		}
	}

	return tracks, nil
}

// GetFavoriteAlbums retrieves the user's favorite albums.
func (s *TidalService) GetFavoriteAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album

	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "50")
		query.Set("offset", strconv.Itoa(offset))

		endpoint := fmt.Sprintf("/users/%d/favorites/albums", s.userID)

		var page tidalFavoriteAlbumsPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, query, nil, "", &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			albums = append(albums, mapTidalAlbum(item.Item))
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			break
		}
	}

	return albums, nil
}

// GetFavoriteArtists retrieves the user's followed artists.
func (s *TidalService) GetFavoriteArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist

	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", "50")
		query.Set("offset", strconv.Itoa(offset))

		endpoint := fmt.Sprintf("/users/%d/favorites/artists", s.userID)

		var page tidalFavoriteArtistsPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, query, nil, "", &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			artists = append(artists, mapTidalArtist(item.Item))
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			break
		}
	}

	return artists, nil
}

// favoriteIDParams maps a favorite kind to the form field its id posts
// under.
var favoriteIDParams = map[string]string{
	"tracks":  "trackIds",
	"albums":  "albumIds",
	"artists": "artistIds",
}

// AddFavorite adds one item of the given kind to the user's favorites.
func (s *TidalService) AddFavorite(ctx context.Context, kind, id string) error {
	param, ok := favoriteIDParams[kind]
	if !ok {
		return fmt.Errorf("%w: unknown favorite kind %q", shared.ErrInvalidArgument, kind)
	}

	form := url.Values{}
	form.Set(param, id)

	endpoint := fmt.Sprintf("/users/%d/favorites/%s", s.userID, kind)

	if err := s.doRequest(ctx, http.MethodPost, endpoint, nil, form, "", nil); err != nil {
		return fmt.Errorf("failed to add favorite %s %s: %w", kind, id, err)
	}
	return nil
}

// RemoveFavorite removes one item of the given kind from the user's
// favorites.
func (s *TidalService) RemoveFavorite(ctx context.Context, kind, id string) error {
	if _, ok := favoriteIDParams[kind]; !ok {
		return fmt.Errorf("%w: unknown favorite kind %q", shared.ErrInvalidArgument, kind)
	}

	endpoint := fmt.Sprintf("/users/%d/favorites/%s/%s", s.userID, kind, url.PathEscape(id))

	if err := s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, "", nil); err != nil {
		return fmt.Errorf("failed to remove favorite %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *TidalService) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return 20
}

func (s *TidalService) retryBudget() int {
	if s.retry.MaxAttempts > 0 {
		return s.retry.MaxAttempts
	}
	return 5
}

func (s *TidalService) sleepFn() func(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		return s.sleep
	}
	return func(ctx context.Context, d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

func mapTidalPlaylist(tp TidalPlaylist) models.Playlist {
	return models.Playlist{
		ID:          tp.UUID,
		Name:        tp.Title,
		Description: tp.Description,
		TrackCount:  tp.NumberOfTracks,
		Public:      tp.PublicPlaylist,
	}
}

func mapTidalArtist(ta TidalArtist) models.Artist {
	return models.Artist{ID: strconv.Itoa(ta.ID), Name: ta.Name}
}

func tidalArtistList(artists []TidalArtist, fallback TidalArtist) []models.Artist {
	if len(artists) == 0 {
		if fallback.ID == 0 && fallback.Name == "" {
			return nil
		}
		return []models.Artist{mapTidalArtist(fallback)}
	}

	out := make([]models.Artist, 0, len(artists))
	for _, ta := range artists {
		out = append(out, mapTidalArtist(ta))
	}
	return out
}

func mapTidalAlbum(ta TidalAlbum) models.Album {
	if ta.ID == 0 && ta.Title == "" {
		return models.Album{}
	}
	return models.Album{
		ID:         strconv.Itoa(ta.ID),
		Name:       ta.Title,
		Artists:    tidalArtistList(ta.Artists, ta.Artist),
		TrackCount: ta.NumberOfTracks,
	}
}

func mapTidalTrack(tt TidalTrack) models.Track {
	version := ""
	if tt.Version != nil {
		version = *tt.Version
	}

	return models.Track{
		ID:          strconv.Itoa(tt.ID),
		Name:        tt.Title,
		Artists:     tidalArtistList(tt.Artists, tt.Artist),
		Album:       mapTidalAlbum(tt.Album),
		Duration:    float64(tt.Duration),
		TrackNumber: tt.TrackNumber,
		ISRC:        tt.ISRC,
		Version:     version,
		Available:   tt.StreamReady,
	}
}
