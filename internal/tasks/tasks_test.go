package tasks

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/spotify2tidal/spotify-to-tidal/internal/cache"
	"github.com/spotify2tidal/spotify-to-tidal/internal/matcher"
	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/repositories"
	"github.com/spotify2tidal/spotify-to-tidal/internal/search"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

type mockSource struct {
	playlists       []models.Playlist
	playlistTracks  map[string][]models.Track
	favoriteTracks  []models.Track
	savedAlbums     []models.Album
	followedArtists []models.Artist

	playlistsErr      error
	playlistTracksErr error
	favoritesErr      error
	albumsErr         error
	artistsErr        error
}

func (m *mockSource) Name() string { return "Spotify" }

func (m *mockSource) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.playlists, m.playlistsErr
}

func (m *mockSource) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	for _, p := range m.playlists {
		if p.ID == playlistID {
			return &p, nil
		}
	}
	return nil, shared.ErrPlaylistNotFound
}

func (m *mockSource) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.playlistTracksErr != nil {
		return nil, m.playlistTracksErr
	}
	return m.playlistTracks[playlistID], nil
}

func (m *mockSource) GetFavoriteTracks(ctx context.Context) ([]models.Track, error) {
	return m.favoriteTracks, m.favoritesErr
}

func (m *mockSource) GetSavedAlbums(ctx context.Context) ([]models.Album, error) {
	return m.savedAlbums, m.albumsErr
}

func (m *mockSource) GetFollowedArtists(ctx context.Context) ([]models.Artist, error) {
	return m.followedArtists, m.artistsErr
}

// playlistAdd is one recorded AddPlaylistTracks call.
type playlistAdd struct {
	playlistID string
	trackIDs   []string
}

// mockWriteTarget serves canned catalog state and records every mutation,
// so tests can assert exactly what a plan did to the remote.
type mockWriteTarget struct {
	mu sync.Mutex

	playlists       []models.Playlist
	playlistTracks  map[string][]models.Track
	trackResults    map[string][]models.Track
	albumResults    map[string][]models.Album
	artistResults   map[string][]models.Artist
	albumTracks     map[string][]models.Track
	favoriteTracks  []models.Track
	favoriteAlbums  []models.Album
	favoriteArtists []models.Artist

	adds           []playlistAdd
	cleared        []string
	favoritesAdded []string
	created        []string
}

func (m *mockWriteTarget) Name() string { return "Tidal" }

func (m *mockWriteTarget) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.playlists, nil
}

func (m *mockWriteTarget) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	return m.playlistTracks[playlistID], nil
}

func (m *mockWriteTarget) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, name)
	return &models.Playlist{ID: "created-" + name, Name: name, Description: description}, nil
}

func (m *mockWriteTarget) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds = append(m.adds, playlistAdd{playlistID: playlistID, trackIDs: append([]string(nil), trackIDs...)})
	return nil
}

func (m *mockWriteTarget) ClearPlaylist(ctx context.Context, playlistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, playlistID)
	return nil
}

func (m *mockWriteTarget) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	return m.trackResults[query], nil
}

func (m *mockWriteTarget) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	return m.albumResults[query], nil
}

func (m *mockWriteTarget) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	return m.artistResults[query], nil
}

func (m *mockWriteTarget) GetAlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	return m.albumTracks[albumID], nil
}

func (m *mockWriteTarget) GetFavoriteTracks(ctx context.Context) ([]models.Track, error) {
	return m.favoriteTracks, nil
}

func (m *mockWriteTarget) GetFavoriteAlbums(ctx context.Context) ([]models.Album, error) {
	return m.favoriteAlbums, nil
}

func (m *mockWriteTarget) GetFavoriteArtists(ctx context.Context) ([]models.Artist, error) {
	return m.favoriteArtists, nil
}

func (m *mockWriteTarget) AddFavorite(ctx context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favoritesAdded = append(m.favoritesAdded, kind+":"+id)
	return nil
}

func (m *mockWriteTarget) RemoveFavorite(ctx context.Context, kind, id string) error {
	return nil
}

func (m *mockWriteTarget) recordedAdds() []playlistAdd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]playlistAdd(nil), m.adds...)
}

func (m *mockWriteTarget) recordedClears() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cleared...)
}

func newTestEngine(t *testing.T, source *mockSource, target *mockWriteTarget) (*Engine, *repositories.FailureRepository) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	logger := shared.NewLogger(io.Discard)
	failures := repositories.NewFailureRepository(db)
	matchCache := cache.New()
	m := matcher.New(matcher.DefaultOptions())

	engine := NewEngine(EngineConfig{
		Source:  source,
		Target:  target,
		Matcher: m,
		Cache:   matchCache,
		Search:  search.NewOrchestrator(target, m, matchCache, failures, logger),
		Pool:    &search.Pool{Workers: 4, RateLimit: 1000},
		Logger:  logger,
	})
	return engine, failures
}

func TestSyncPlaylist(t *testing.T) {
	t.Run("resolves via isrc and substring match in source order", func(t *testing.T) {
		source := &mockSource{
			playlistTracks: map[string][]models.Track{
				"sp1": {
					{ID: "1", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X"},
					{ID: "2", Name: "Song (Live)", Artists: []models.Artist{{Name: "Artist & Co"}}, Duration: 180},
				},
			},
		}
		target := &mockWriteTarget{
			playlists: []models.Playlist{{ID: "tp1", Name: "Road Trip"}},
			trackResults: map[string][]models.Track{
				// ISRC agreement overrides everything else about the candidate.
				"anthem artist": {
					{ID: "tA", Name: "Anthem (2011 Remaster)", Artists: []models.Artist{{Name: "Artist"}}, Duration: 350, ISRC: "X", Available: true},
				},
				"song artist & co": {
					{ID: "tB", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 181, Available: true},
				},
			},
		}
		engine, _ := newTestEngine(t, source, target)

		result, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Road Trip"}, nil)
		if err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if result.Matched != 2 || result.NotFound != 0 {
			t.Errorf("matched = %d, not found = %d, want 2/0", result.Matched, result.NotFound)
		}
		adds := target.recordedAdds()
		if len(adds) != 1 {
			t.Fatalf("expected one add call, got %d", len(adds))
		}
		if adds[0].playlistID != "tp1" {
			t.Errorf("added to playlist %q, want tp1", adds[0].playlistID)
		}
		if want := []string{"tA", "tB"}; !reflect.DeepEqual(adds[0].trackIDs, want) {
			t.Errorf("added ids = %v, want %v", adds[0].trackIDs, want)
		}
		if len(target.recordedClears()) != 0 {
			t.Error("append plan must not clear the playlist")
		}
		if engine.Report().Total() != 0 {
			t.Errorf("expected empty report, got %d entries", engine.Report().Total())
		}
	})

	t.Run("no-op when remote already matches", func(t *testing.T) {
		sourceTracks := []models.Track{
			{ID: "1", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X"},
			{ID: "2", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 180},
		}
		targetTracks := []models.Track{
			{ID: "tA", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X", Available: true},
			{ID: "tB", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 181, Available: true},
		}
		source := &mockSource{playlistTracks: map[string][]models.Track{"sp1": sourceTracks}}
		target := &mockWriteTarget{
			playlists:      []models.Playlist{{ID: "tp1", Name: "Road Trip"}},
			playlistTracks: map[string][]models.Track{"tp1": targetTracks},
		}
		engine, _ := newTestEngine(t, source, target)

		result, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Road Trip"}, nil)
		if err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if result.Plan != PlanNoChange {
			t.Errorf("plan = %v, want no change", result.Plan)
		}
		if len(target.recordedAdds()) != 0 || len(target.recordedClears()) != 0 {
			t.Error("no-op plan must not touch the remote")
		}
	})

	t.Run("unmatched track lands in failure store and report", func(t *testing.T) {
		source := &mockSource{
			playlistTracks: map[string][]models.Track{
				"sp1": {
					{ID: "9", Name: "Totally Unique Song Nobody Has", Artists: []models.Artist{{Name: "Obscure Artist"}}, Duration: 100},
				},
			},
		}
		target := &mockWriteTarget{playlists: []models.Playlist{{ID: "tp1", Name: "Rarities"}}}
		engine, failures := newTestEngine(t, source, target)

		result, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Rarities"}, nil)
		if err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if result.NotFound != 1 {
			t.Errorf("not found = %d, want 1", result.NotFound)
		}
		if len(target.recordedAdds()) != 0 {
			t.Error("unmatched track must not be written anywhere")
		}

		live, err := failures.HasLiveFailure(context.Background(), "track:9")
		if err != nil {
			t.Fatalf("HasLiveFailure failed: %v", err)
		}
		if !live {
			t.Error("expected a live failure record for the missed track")
		}

		text := engine.Report().Render()
		if !strings.Contains(text, "TRACKS/SONGS:") {
			t.Error("report missing tracks section")
		}
		if !strings.Contains(text, "Obscure Artist - Totally Unique Song Nobody Has (from Rarities)") {
			t.Errorf("report missing the not-found line:\n%s", text)
		}
	})

	t.Run("duplicate source tracks write the target id once", func(t *testing.T) {
		source := &mockSource{
			playlistTracks: map[string][]models.Track{
				"sp1": {
					{ID: "1", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 180},
					{ID: "2", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 180},
				},
			},
		}
		target := &mockWriteTarget{
			playlists: []models.Playlist{{ID: "tp1", Name: "Mix"}},
			trackResults: map[string][]models.Track{
				"song artist": {
					{ID: "t1", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 180, Available: true},
				},
			},
		}
		engine, _ := newTestEngine(t, source, target)

		if _, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Mix"}, nil); err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		adds := target.recordedAdds()
		if len(adds) != 1 {
			t.Fatalf("expected one add call, got %d", len(adds))
		}
		if want := []string{"t1"}; !reflect.DeepEqual(adds[0].trackIDs, want) {
			t.Errorf("added ids = %v, want %v", adds[0].trackIDs, want)
		}
	})

	t.Run("local-only tracks are skipped without failure records", func(t *testing.T) {
		source := &mockSource{
			playlistTracks: map[string][]models.Track{
				"sp1": {
					{ID: "", Name: "Bootleg Rip", Artists: []models.Artist{{Name: "Someone"}}, Duration: 100},
				},
			},
		}
		target := &mockWriteTarget{playlists: []models.Playlist{{ID: "tp1", Name: "Local"}}}
		engine, failures := newTestEngine(t, source, target)

		result, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Local"}, nil)
		if err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if result.Matched != 0 || result.NotFound != 0 {
			t.Errorf("local track counted as matched or missing: %+v", result)
		}
		stats, err := failures.Stats(context.Background())
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.Total != 0 {
			t.Errorf("local track must not create failure records, got %d", stats.Total)
		}
	})

	t.Run("creates target playlist when none exists", func(t *testing.T) {
		source := &mockSource{
			playlistTracks: map[string][]models.Track{
				"sp1": {{ID: "1", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 180}},
			},
		}
		target := &mockWriteTarget{
			trackResults: map[string][]models.Track{
				"song artist": {
					{ID: "t1", Name: "Song", Artists: []models.Artist{{Name: "Artist"}}, Duration: 180, Available: true},
				},
			},
		}
		engine, _ := newTestEngine(t, source, target)

		if _, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Fresh"}, nil); err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if len(target.created) != 1 || target.created[0] != "Fresh" {
			t.Errorf("created playlists = %v, want [Fresh]", target.created)
		}
		adds := target.recordedAdds()
		if len(adds) != 1 || adds[0].playlistID != "created-Fresh" {
			t.Errorf("adds = %+v, want one add to the created playlist", adds)
		}
	})

	t.Run("explicit playlist mapping wins over name matching", func(t *testing.T) {
		source := &mockSource{playlistTracks: map[string][]models.Track{"sp1": nil}}
		target := &mockWriteTarget{
			playlists: []models.Playlist{{ID: "decoy", Name: "Mapped"}},
		}
		engine, _ := newTestEngine(t, source, target)
		engine.config.PlaylistMap = []shared.PlaylistMapping{{SpotifyID: "sp1", TidalID: "pinned"}}

		targetID, created, err := engine.resolveTargetPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Mapped"})
		if err != nil {
			t.Fatalf("resolveTargetPlaylist failed: %v", err)
		}
		if created {
			t.Error("mapped playlist must not be created")
		}
		if targetID != "pinned" {
			t.Errorf("target id = %q, want pinned", targetID)
		}
	})
}

func TestSyncFavoriteTracks(t *testing.T) {
	t.Run("adds only missing favorites and never clears", func(t *testing.T) {
		source := &mockSource{
			favoriteTracks: []models.Track{
				{ID: "1", Name: "Kept", Artists: []models.Artist{{Name: "Artist"}}, Duration: 100},
				{ID: "2", Name: "Fresh", Artists: []models.Artist{{Name: "Artist"}}, Duration: 120},
			},
		}
		target := &mockWriteTarget{
			favoriteTracks: []models.Track{
				{ID: "tKept", Name: "Kept", Artists: []models.Artist{{Name: "Artist"}}, Duration: 100, Available: true},
				{ID: "tExtra", Name: "Target Only", Artists: []models.Artist{{Name: "Other"}}, Duration: 90, Available: true},
			},
			trackResults: map[string][]models.Track{
				"fresh artist": {
					{ID: "tFresh", Name: "Fresh", Artists: []models.Artist{{Name: "Artist"}}, Duration: 120, Available: true},
				},
			},
		}
		engine, _ := newTestEngine(t, source, target)

		result, err := engine.SyncFavoriteTracks(context.Background(), nil)
		if err != nil {
			t.Fatalf("SyncFavoriteTracks failed: %v", err)
		}

		if result.Plan != PlanAppend {
			t.Errorf("plan = %v, want append", result.Plan)
		}
		if want := []string{"tracks:tFresh"}; !reflect.DeepEqual(target.favoritesAdded, want) {
			t.Errorf("favorites added = %v, want %v", target.favoritesAdded, want)
		}
		if len(target.recordedClears()) != 0 {
			t.Error("favorites sync must never clear anything")
		}
	})

	t.Run("no-op when everything is already favorited", func(t *testing.T) {
		source := &mockSource{
			favoriteTracks: []models.Track{
				{ID: "1", Name: "Kept", Artists: []models.Artist{{Name: "Artist"}}, Duration: 100},
			},
		}
		target := &mockWriteTarget{
			favoriteTracks: []models.Track{
				{ID: "tKept", Name: "Kept", Artists: []models.Artist{{Name: "Artist"}}, Duration: 100, Available: true},
			},
		}
		engine, _ := newTestEngine(t, source, target)

		result, err := engine.SyncFavoriteTracks(context.Background(), nil)
		if err != nil {
			t.Fatalf("SyncFavoriteTracks failed: %v", err)
		}
		if result.Plan != PlanNoChange {
			t.Errorf("plan = %v, want no change", result.Plan)
		}
		if len(target.favoritesAdded) != 0 {
			t.Errorf("unexpected favorite adds: %v", target.favoritesAdded)
		}
	})
}

func TestSyncAll(t *testing.T) {
	t.Run("a failed collection does not stop the batch", func(t *testing.T) {
		source := &mockSource{
			favoritesErr: errors.New("spotify hiccup"),
		}
		target := &mockWriteTarget{}
		engine, _ := newTestEngine(t, source, target)

		summary, err := engine.SyncAll(context.Background(), nil)
		if err != nil {
			t.Fatalf("SyncAll failed: %v", err)
		}

		if len(summary.Failed) != 1 {
			t.Fatalf("failed = %d, want 1", len(summary.Failed))
		}
		if summary.Failed[0].Kind != "favorites" {
			t.Errorf("failed kind = %q, want favorites", summary.Failed[0].Kind)
		}
		// Albums and artists still ran after the favorites failure.
		if len(summary.Collections) != 2 {
			t.Errorf("collections = %d, want 2", len(summary.Collections))
		}
	})

	t.Run("auth failure aborts the whole batch", func(t *testing.T) {
		source := &mockSource{
			playlistsErr: shared.ErrNotAuthenticated,
		}
		target := &mockWriteTarget{}
		engine, _ := newTestEngine(t, source, target)

		_, err := engine.SyncAll(context.Background(), nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected auth error to propagate, got %v", err)
		}
	})

	t.Run("excluded playlists are skipped", func(t *testing.T) {
		source := &mockSource{
			playlists: []models.Playlist{
				{ID: "sp1", Name: "Discover Weekly"},
			},
			playlistTracks: map[string][]models.Track{"sp1": nil},
		}
		target := &mockWriteTarget{}
		engine, _ := newTestEngine(t, source, target)
		engine.config.Sync.ExcludePlaylists = []string{"discover weekly"}

		summary, err := engine.SyncAll(context.Background(), nil)
		if err != nil {
			t.Fatalf("SyncAll failed: %v", err)
		}

		for _, col := range summary.Collections {
			if col.Kind == "playlist" {
				t.Errorf("excluded playlist was synced: %+v", col)
			}
		}
	})
}

func TestProgressUpdates(t *testing.T) {
	t.Run("sync emits phases in order without blocking", func(t *testing.T) {
		source := &mockSource{playlistTracks: map[string][]models.Track{"sp1": nil}}
		target := &mockWriteTarget{playlists: []models.Playlist{{ID: "tp1", Name: "Empty"}}}
		engine, _ := newTestEngine(t, source, target)

		progress := make(chan ProgressUpdate, 16)
		if _, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Empty"}, progress); err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) == 0 {
			t.Fatal("expected progress updates")
		}
		if phases[0] != FetchSource {
			t.Errorf("first phase = %v, want fetch_source", phases[0])
		}
		if phases[len(phases)-1] != ApplyPlan {
			t.Errorf("last phase = %v, want apply_plan", phases[len(phases)-1])
		}
	})

	t.Run("nil progress channel is fine", func(t *testing.T) {
		source := &mockSource{playlistTracks: map[string][]models.Track{"sp1": nil}}
		target := &mockWriteTarget{playlists: []models.Playlist{{ID: "tp1", Name: "Empty"}}}
		engine, _ := newTestEngine(t, source, target)

		if _, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Empty"}, nil); err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}
	})
}

func TestDryRun(t *testing.T) {
	t.Run("reports the plan without touching the remote", func(t *testing.T) {
		source := &mockSource{
			playlistTracks: map[string][]models.Track{
				"sp1": {
					{ID: "1", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X"},
				},
			},
		}
		target := &mockWriteTarget{
			trackResults: map[string][]models.Track{
				"anthem artist": {
					{ID: "tA", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X", Available: true},
				},
			},
		}
		engine, _ := newTestEngine(t, source, target)
		engine.dryRun = true

		result, err := engine.SyncPlaylist(context.Background(), models.Playlist{ID: "sp1", Name: "Fresh"}, nil)
		if err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if result.Added != 1 {
			t.Errorf("planned adds = %d, want 1", result.Added)
		}
		if len(target.created) != 0 {
			t.Errorf("dry run created playlists: %v", target.created)
		}
		if len(target.recordedAdds()) != 0 || len(target.recordedClears()) != 0 {
			t.Error("dry run must not mutate the remote")
		}
	})

	t.Run("favorites dry run adds nothing", func(t *testing.T) {
		source := &mockSource{
			favoriteTracks: []models.Track{
				{ID: "1", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X"},
			},
		}
		target := &mockWriteTarget{
			trackResults: map[string][]models.Track{
				"anthem artist": {
					{ID: "tA", Name: "Anthem", Artists: []models.Artist{{Name: "Artist"}}, Duration: 200, ISRC: "X", Available: true},
				},
			},
		}
		engine, _ := newTestEngine(t, source, target)
		engine.dryRun = true

		result, err := engine.SyncFavoriteTracks(context.Background(), nil)
		if err != nil {
			t.Fatalf("SyncFavoriteTracks failed: %v", err)
		}

		if result.Added != 1 {
			t.Errorf("planned adds = %d, want 1", result.Added)
		}
		if len(target.favoritesAdded) != 0 {
			t.Errorf("dry run added favorites: %v", target.favoritesAdded)
		}
	})
}

func TestSyncAllPlaylistFilter(t *testing.T) {
	source := &mockSource{
		playlists: []models.Playlist{
			{ID: "sp1", Name: "Keep"},
			{ID: "sp2", Name: "Skip"},
		},
		playlistTracks: map[string][]models.Track{"sp1": nil, "sp2": nil},
	}
	target := &mockWriteTarget{
		playlists: []models.Playlist{
			{ID: "tp1", Name: "Keep"},
			{ID: "tp2", Name: "Skip"},
		},
	}
	engine, _ := newTestEngine(t, source, target)
	engine.only = []string{"keep"}

	summary, err := engine.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	var playlistNames []string
	for _, col := range summary.Collections {
		if col.Kind == "playlist" {
			playlistNames = append(playlistNames, col.Name)
		}
	}
	if !reflect.DeepEqual(playlistNames, []string{"Keep"}) {
		t.Errorf("synced playlists = %v, want [Keep]", playlistNames)
	}
}
