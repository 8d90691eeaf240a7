// package tasks implements library reconciliation between the source and
// target catalogs.
//
// The core abstraction is Engine, which drives one collection at a time
// through the same pipeline: fetch both sides, pre-populate the match cache
// from items that already correspond, search for the remainder, compute a
// mutation plan against current remote state, and apply it. Operations emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spotify2tidal/spotify-to-tidal/internal/cache"
	"github.com/spotify2tidal/spotify-to-tidal/internal/matcher"
	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/repositories"
	"github.com/spotify2tidal/spotify-to-tidal/internal/search"
	"github.com/spotify2tidal/spotify-to-tidal/internal/services"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// CollectionResult summarizes one collection's reconciliation.
type CollectionResult struct {
	Kind     string        // playlist, favorites, albums, artists
	Name     string        // collection name for display
	Total    int           // source items considered
	Matched  int           // items resolved to a target id
	NotFound int           // items with no acceptable counterpart
	Added    int           // items written to the target
	Plan     PlanKind      // mutation strategy that was applied
	Duration time.Duration // wall time for the collection
}

// CollectionError wraps a failure that aborted a single collection's sync.
type CollectionError struct {
	Kind string
	Name string
	Err  error
}

func (e CollectionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e CollectionError) Unwrap() error { return e.Err }

// SyncSummary aggregates a batch run across collections. Failed holds the
// collections that aborted; the rest made it into Collections.
type SyncSummary struct {
	Collections []CollectionResult
	Failed      []CollectionError
}

// EngineConfig carries the engine's collaborators. Source, Target,
// Matcher, Cache, and Search are required; the rest default sensibly.
type EngineConfig struct {
	Source  services.SourceService
	Target  services.TargetService
	Matcher *matcher.Matcher
	Cache   *cache.MatchCache
	Search  *search.Orchestrator
	Pool    *search.Pool
	Links   *repositories.PlaylistLinkRepository
	Runs    *repositories.SyncRunRepository
	Report  *Report
	Config  *shared.Config
	Logger  *log.Logger

	// DryRun computes and reports plans without mutating the target or
	// recording run history.
	DryRun bool

	// OnlyPlaylists restricts SyncAll to the named playlists when
	// non-empty. The config exclude list still applies.
	OnlyPlaylists []string
}

// Engine reconciles source collections against the target catalog.
type Engine struct {
	source  services.SourceService
	target  services.TargetService
	matcher *matcher.Matcher
	cache   *cache.MatchCache
	search  *search.Orchestrator
	pool    *search.Pool
	links   *repositories.PlaylistLinkRepository
	runs    *repositories.SyncRunRepository
	report  *Report
	config  *shared.Config
	logger  *log.Logger
	dryRun  bool
	only    []string
	now     func() time.Time
}

// NewEngine creates an Engine from the provided collaborators. Links and
// Runs repositories are optional; without them linking and run history are
// simply skipped.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Config == nil {
		cfg.Config = shared.DefaultConfig()
	}
	if cfg.Report == nil {
		cfg.Report = NewReport()
	}
	if cfg.Pool == nil {
		cfg.Pool = &search.Pool{
			Workers:   cfg.Config.Sync.MaxConcurrency,
			RateLimit: cfg.Config.Sync.RateLimit,
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(os.Stderr)
	}

	return &Engine{
		source:  cfg.Source,
		target:  cfg.Target,
		matcher: cfg.Matcher,
		cache:   cfg.Cache,
		search:  cfg.Search,
		pool:    cfg.Pool,
		links:   cfg.Links,
		runs:    cfg.Runs,
		report:  cfg.Report,
		config:  cfg.Config,
		logger:  cfg.Logger,
		dryRun:  cfg.DryRun,
		only:    cfg.OnlyPlaylists,
		now:     time.Now,
	}
}

// Report exposes the engine's not-found collector so callers can write
// the report file once a run finishes.
func (e *Engine) Report() *Report {
	return e.report
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls a sync.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SyncPlaylist reconciles one source playlist onto the target. The target
// playlist is taken from the explicit config mapping first, then from a
// stored link, then by name, and is created when nothing matches.
func (e *Engine) SyncPlaylist(ctx context.Context, playlist models.Playlist, progress chan<- ProgressUpdate) (*CollectionResult, error) {
	started := e.now()
	logger := shared.WithLogger(e.logger, "playlist", playlist.Name)

	e.sendProgress(progress, fetchSourceUpdate(fmt.Sprintf("playlist %q", playlist.Name)))
	sourceTracks, err := e.source.GetPlaylistTracks(ctx, playlist.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch source playlist %q: %v", shared.ErrCollectionSync, playlist.Name, err)
	}

	targetID, created, err := e.resolveTargetPlaylist(ctx, playlist)
	if err != nil {
		return nil, err
	}

	var targetTracks []models.Track
	if !created {
		e.sendProgress(progress, fetchTargetUpdate(fmt.Sprintf("playlist %q", playlist.Name)))
		targetTracks, err = e.target.GetPlaylistTracks(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch target playlist %q: %v", shared.ErrCollectionSync, playlist.Name, err)
		}
	}

	known := e.prepopulateTracks(sourceTracks, targetTracks)
	e.sendProgress(progress, matchKnownUpdate(known, len(sourceTracks)))
	logger.Debug("pre-populated track matches", "known", known, "source_tracks", len(sourceTracks))

	e.sendProgress(progress, searchItemsUpdate(len(sourceTracks)))
	results, err := e.pool.FindTracks(ctx, e.search, sourceTracks)
	if err != nil {
		return nil, fmt.Errorf("track search aborted for playlist %q: %w", playlist.Name, err)
	}

	result := &CollectionResult{Kind: "playlist", Name: playlist.Name, Total: len(sourceTracks)}
	for i, r := range results {
		track := sourceTracks[i]
		if track.ID == "" {
			logger.Debug("skipping local-only track", "track", track.Description())
			continue
		}
		if !r.Found {
			result.NotFound++
			e.report.AddTrack(track.Description(), playlist.Name)
			continue
		}
		result.Matched++
	}
	e.sendProgress(progress, searchDoneUpdate(result.Matched, len(sourceTracks)))

	desired := dedupedIDs(results, func(i int) string { return sourceTracks[i].Description() }, logger)
	current := trackIDs(targetTracks)

	plan := BuildPlan(current, desired)
	e.sendProgress(progress, applyPlanUpdate(plan))
	if err := e.applyPlaylistPlan(ctx, targetID, plan, logger); err != nil {
		return nil, fmt.Errorf("%w: failed to apply changes to playlist %q: %v", shared.ErrCollectionSync, playlist.Name, err)
	}

	result.Added = planAddCount(plan)
	result.Plan = plan.Kind
	result.Duration = e.now().Sub(started)
	e.recordRun(ctx, result, started)

	logger.Info("playlist sync finished",
		"plan", plan.Kind.String(),
		"matched", result.Matched,
		"not_found", result.NotFound,
		"added", result.Added)
	return result, nil
}

// SyncFavoriteTracks reconciles the user's liked songs onto the target's
// favorite tracks. Favorites are add-only: the desired state is the
// current remote list plus whatever is missing, so the plan always comes
// out as an append and nothing a user favorited on the target side alone
// is ever removed.
func (e *Engine) SyncFavoriteTracks(ctx context.Context, progress chan<- ProgressUpdate) (*CollectionResult, error) {
	started := e.now()
	logger := shared.WithLogger(e.logger, "collection", "favorite tracks")

	e.sendProgress(progress, fetchSourceUpdate("liked songs"))
	sourceTracks, err := e.source.GetFavoriteTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch liked songs: %v", shared.ErrCollectionSync, err)
	}

	e.sendProgress(progress, fetchTargetUpdate("favorite tracks"))
	targetTracks, err := e.target.GetFavoriteTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch favorite tracks: %v", shared.ErrCollectionSync, err)
	}

	known := e.prepopulateTracks(sourceTracks, targetTracks)
	e.sendProgress(progress, matchKnownUpdate(known, len(sourceTracks)))

	e.sendProgress(progress, searchItemsUpdate(len(sourceTracks)))
	results, err := e.pool.FindTracks(ctx, e.search, sourceTracks)
	if err != nil {
		return nil, fmt.Errorf("track search aborted for liked songs: %w", err)
	}

	result := &CollectionResult{Kind: "favorites", Name: "Liked Songs", Total: len(sourceTracks)}
	for i, r := range results {
		track := sourceTracks[i]
		if track.ID == "" {
			continue
		}
		if !r.Found {
			result.NotFound++
			e.report.AddTrack(track.Description(), "Liked Songs")
			continue
		}
		result.Matched++
	}
	e.sendProgress(progress, searchDoneUpdate(result.Matched, len(sourceTracks)))

	plan := e.favoritesPlan(trackIDs(targetTracks), results, func(i int) string {
		return sourceTracks[i].Description()
	}, logger)
	e.sendProgress(progress, applyPlanUpdate(plan))
	if err := e.applyFavoritesPlan(ctx, "tracks", plan, logger); err != nil {
		return nil, fmt.Errorf("%w: failed to add favorite tracks: %v", shared.ErrCollectionSync, err)
	}

	result.Added = planAddCount(plan)
	result.Plan = plan.Kind
	result.Duration = e.now().Sub(started)
	e.recordRun(ctx, result, started)

	logger.Info("favorite tracks sync finished",
		"matched", result.Matched,
		"not_found", result.NotFound,
		"added", result.Added)
	return result, nil
}

// SyncSavedAlbums reconciles the user's saved albums onto the target's
// favorite albums, add-only like the other favorites.
func (e *Engine) SyncSavedAlbums(ctx context.Context, progress chan<- ProgressUpdate) (*CollectionResult, error) {
	started := e.now()
	logger := shared.WithLogger(e.logger, "collection", "saved albums")

	e.sendProgress(progress, fetchSourceUpdate("saved albums"))
	sourceAlbums, err := e.source.GetSavedAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch saved albums: %v", shared.ErrCollectionSync, err)
	}

	e.sendProgress(progress, fetchTargetUpdate("favorite albums"))
	targetAlbums, err := e.target.GetFavoriteAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch favorite albums: %v", shared.ErrCollectionSync, err)
	}

	known := e.prepopulateAlbums(sourceAlbums, targetAlbums)
	e.sendProgress(progress, matchKnownUpdate(known, len(sourceAlbums)))

	e.sendProgress(progress, searchItemsUpdate(len(sourceAlbums)))
	results, err := e.pool.FindAlbums(ctx, e.search, sourceAlbums)
	if err != nil {
		return nil, fmt.Errorf("album search aborted: %w", err)
	}

	result := &CollectionResult{Kind: "albums", Name: "Saved Albums", Total: len(sourceAlbums)}
	for i, r := range results {
		album := sourceAlbums[i]
		if album.ID == "" {
			continue
		}
		if !r.Found {
			result.NotFound++
			e.report.AddAlbum(album.Description())
			continue
		}
		result.Matched++
	}
	e.sendProgress(progress, searchDoneUpdate(result.Matched, len(sourceAlbums)))

	plan := e.favoritesPlan(albumIDs(targetAlbums), results, func(i int) string {
		return sourceAlbums[i].Description()
	}, logger)
	e.sendProgress(progress, applyPlanUpdate(plan))
	if err := e.applyFavoritesPlan(ctx, "albums", plan, logger); err != nil {
		return nil, fmt.Errorf("%w: failed to add favorite albums: %v", shared.ErrCollectionSync, err)
	}

	result.Added = planAddCount(plan)
	result.Plan = plan.Kind
	result.Duration = e.now().Sub(started)
	e.recordRun(ctx, result, started)

	logger.Info("saved albums sync finished",
		"matched", result.Matched,
		"not_found", result.NotFound,
		"added", result.Added)
	return result, nil
}

// SyncFollowedArtists reconciles the user's followed artists onto the
// target's favorite artists, add-only like the other favorites.
func (e *Engine) SyncFollowedArtists(ctx context.Context, progress chan<- ProgressUpdate) (*CollectionResult, error) {
	started := e.now()
	logger := shared.WithLogger(e.logger, "collection", "followed artists")

	e.sendProgress(progress, fetchSourceUpdate("followed artists"))
	sourceArtists, err := e.source.GetFollowedArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch followed artists: %v", shared.ErrCollectionSync, err)
	}

	e.sendProgress(progress, fetchTargetUpdate("favorite artists"))
	targetArtists, err := e.target.GetFavoriteArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch favorite artists: %v", shared.ErrCollectionSync, err)
	}

	known := e.prepopulateArtists(sourceArtists, targetArtists)
	e.sendProgress(progress, matchKnownUpdate(known, len(sourceArtists)))

	e.sendProgress(progress, searchItemsUpdate(len(sourceArtists)))
	results, err := e.pool.FindArtists(ctx, e.search, sourceArtists)
	if err != nil {
		return nil, fmt.Errorf("artist search aborted: %w", err)
	}

	result := &CollectionResult{Kind: "artists", Name: "Followed Artists", Total: len(sourceArtists)}
	for i, r := range results {
		artist := sourceArtists[i]
		if artist.ID == "" {
			continue
		}
		if !r.Found {
			result.NotFound++
			e.report.AddArtist(artist.Name)
			continue
		}
		result.Matched++
	}
	e.sendProgress(progress, searchDoneUpdate(result.Matched, len(sourceArtists)))

	plan := e.favoritesPlan(artistIDs(targetArtists), results, func(i int) string {
		return sourceArtists[i].Name
	}, logger)
	e.sendProgress(progress, applyPlanUpdate(plan))
	if err := e.applyFavoritesPlan(ctx, "artists", plan, logger); err != nil {
		return nil, fmt.Errorf("%w: failed to add favorite artists: %v", shared.ErrCollectionSync, err)
	}

	result.Added = planAddCount(plan)
	result.Plan = plan.Kind
	result.Duration = e.now().Sub(started)
	e.recordRun(ctx, result, started)

	logger.Info("followed artists sync finished",
		"matched", result.Matched,
		"not_found", result.NotFound,
		"added", result.Added)
	return result, nil
}

// SyncAll runs every playlist not excluded by config, then liked songs,
// saved albums, and followed artists. A collection that fails is logged
// and recorded in the summary without stopping the batch; authentication
// failures and cancellation abort everything.
func (e *Engine) SyncAll(ctx context.Context, progress chan<- ProgressUpdate) (*SyncSummary, error) {
	summary := &SyncSummary{}
	e.report.Reset()

	playlists, err := e.source.GetPlaylists(ctx)
	if err != nil {
		if isFatal(err) {
			return summary, err
		}
		e.logger.Error("failed to list source playlists", "error", err)
		summary.Failed = append(summary.Failed, CollectionError{Kind: "playlist", Name: "*", Err: err})
	}

	for _, playlist := range playlists {
		if e.excluded(playlist.Name) {
			e.logger.Debug("skipping excluded playlist", "playlist", playlist.Name)
			continue
		}
		res, err := e.SyncPlaylist(ctx, playlist, progress)
		if !summary.add(res, err, "playlist", playlist.Name, e.logger) {
			return summary, err
		}
	}

	res, err := e.SyncFavoriteTracks(ctx, progress)
	if !summary.add(res, err, "favorites", "Liked Songs", e.logger) {
		return summary, err
	}

	res, err = e.SyncSavedAlbums(ctx, progress)
	if !summary.add(res, err, "albums", "Saved Albums", e.logger) {
		return summary, err
	}

	res, err = e.SyncFollowedArtists(ctx, progress)
	if !summary.add(res, err, "artists", "Followed Artists", e.logger) {
		return summary, err
	}

	return summary, nil
}

// add folds one collection outcome into the summary. It returns false
// when the error is fatal to the whole batch.
func (s *SyncSummary) add(res *CollectionResult, err error, kind, name string, logger *log.Logger) bool {
	if err != nil {
		if isFatal(err) {
			return false
		}
		logger.Error("collection sync failed", "kind", kind, "name", name, "error", err)
		s.Failed = append(s.Failed, CollectionError{Kind: kind, Name: name, Err: err})
		return true
	}
	s.Collections = append(s.Collections, *res)
	return true
}

// resolveTargetPlaylist finds or creates the target playlist for a source
// playlist. Explicit config pairs win, then previously stored links, then
// a case-insensitive name match; otherwise a fresh playlist is created.
func (e *Engine) resolveTargetPlaylist(ctx context.Context, playlist models.Playlist) (string, bool, error) {
	for _, mapping := range e.config.PlaylistMap {
		if mapping.SpotifyID == playlist.ID {
			e.saveLink(ctx, playlist, mapping.TidalID)
			return mapping.TidalID, false, nil
		}
	}

	if e.links != nil {
		link, err := e.links.Get(ctx, playlist.ID)
		if err != nil {
			e.logger.Warn("failed to read playlist link", "playlist", playlist.Name, "error", err)
		} else if link != nil {
			return link.TidalID, false, nil
		}
	}

	existing, err := e.target.GetPlaylists(ctx)
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to list target playlists: %v", shared.ErrCollectionSync, err)
	}
	for _, candidate := range existing {
		if strings.EqualFold(candidate.Name, playlist.Name) {
			e.saveLink(ctx, playlist, candidate.ID)
			return candidate.ID, false, nil
		}
	}

	if e.dryRun {
		e.logger.Info("dry run: would create playlist", "playlist", playlist.Name)
		return "", true, nil
	}

	created, err := e.target.CreatePlaylist(ctx, playlist.Name, playlist.Description)
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to create playlist %q: %v", shared.ErrCollectionSync, playlist.Name, err)
	}
	e.saveLink(ctx, playlist, created.ID)
	return created.ID, true, nil
}

func (e *Engine) saveLink(ctx context.Context, playlist models.Playlist, targetID string) {
	if e.links == nil {
		return
	}
	err := e.links.Upsert(ctx, &models.PlaylistLink{
		SpotifyID: playlist.ID,
		TidalID:   targetID,
		Name:      playlist.Name,
	})
	if err != nil {
		e.logger.Warn("failed to store playlist link", "playlist", playlist.Name, "error", err)
	}
}

// applyPlaylistPlan drives the target mutations for a playlist plan. The
// target service owns chunking and the optimistic-concurrency retries.
func (e *Engine) applyPlaylistPlan(ctx context.Context, playlistID string, plan Plan, logger *log.Logger) error {
	switch plan.Kind {
	case PlanNoChange:
		logger.Info("playlist already in sync")
		return nil
	}
	if e.dryRun {
		logger.Info("dry run: skipping playlist mutation",
			"plan", plan.Kind.String(), "add", len(plan.Add))
		return nil
	}
	switch plan.Kind {
	case PlanAppend:
		return e.target.AddPlaylistTracks(ctx, playlistID, plan.Add)
	case PlanReplace:
		if err := e.target.ClearPlaylist(ctx, playlistID); err != nil {
			return err
		}
		if len(plan.Add) == 0 {
			return nil
		}
		return e.target.AddPlaylistTracks(ctx, playlistID, plan.Add)
	default:
		return fmt.Errorf("%w: unknown plan kind %d", shared.ErrInvalidArgument, plan.Kind)
	}
}

// favoritesPlan builds the add-only plan for a favorites collection: the
// desired state is the current remote ids followed by resolved ids not
// yet present, so BuildPlan always lands on no-change or append.
func (e *Engine) favoritesPlan(current []string, results []search.Result, describe func(i int) string, logger *log.Logger) Plan {
	present := make(map[string]struct{}, len(current))
	for _, id := range current {
		present[id] = struct{}{}
	}

	desired := append([]string(nil), current...)
	for i, result := range results {
		if !result.Found {
			continue
		}
		if _, ok := present[result.TargetID]; ok {
			logger.Debug("target item already present, skipping",
				"item", describe(i), "target_id", result.TargetID)
			continue
		}
		present[result.TargetID] = struct{}{}
		desired = append(desired, result.TargetID)
	}

	return BuildPlan(current, desired)
}

// applyFavoritesPlan adds each new id to the user's favorites. The remote
// exposes only single-item favorite mutations, so this is a per-id loop.
func (e *Engine) applyFavoritesPlan(ctx context.Context, kind string, plan Plan, logger *log.Logger) error {
	if plan.Kind == PlanNoChange {
		logger.Info("favorites already in sync")
		return nil
	}
	if e.dryRun {
		logger.Info("dry run: skipping favorites mutation", "kind", kind, "add", len(plan.Add))
		return nil
	}
	for i, id := range plan.Add {
		if err := e.target.AddFavorite(ctx, kind, id); err != nil {
			return fmt.Errorf("failed to add favorite %d of %d: %w", i+1, len(plan.Add), err)
		}
	}
	return nil
}

// prepopulateTracks cross-matches existing target tracks against source
// tracks so already-linked pairs skip search entirely. The first pass
// walks target items consuming at most one source item each; the second
// walks leftover source items against the full target list consuming at
// most one target item each, which lets duplicate source tracks reuse an
// already-claimed target. Unavailable target tracks never count as
// present. Returns how many pairs were cached.
func (e *Engine) prepopulateTracks(sourceTracks, targetTracks []models.Track) int {
	remaining := make([]models.Track, 0, len(sourceTracks))
	for _, track := range sourceTracks {
		if track.ID != "" {
			remaining = append(remaining, track)
		}
	}
	targets := make([]models.Track, 0, len(targetTracks))
	for _, track := range targetTracks {
		if track.Available {
			targets = append(targets, track)
		}
	}

	matched := 0
	for _, target := range targets {
		for i, source := range remaining {
			if e.matcher.TrackMatch(target, source) {
				e.cache.PutTrack(source.ID, target.ID)
				remaining = append(remaining[:i], remaining[i+1:]...)
				matched++
				break
			}
		}
	}

	for _, source := range remaining {
		for i, target := range targets {
			if e.matcher.TrackMatch(target, source) {
				e.cache.PutTrack(source.ID, target.ID)
				targets = append(targets[:i], targets[i+1:]...)
				matched++
				break
			}
		}
	}

	return matched
}

// prepopulateAlbums is the album variant of the two-pass cross-match.
func (e *Engine) prepopulateAlbums(sourceAlbums, targetAlbums []models.Album) int {
	remaining := make([]models.Album, 0, len(sourceAlbums))
	for _, album := range sourceAlbums {
		if album.ID != "" {
			remaining = append(remaining, album)
		}
	}
	targets := append([]models.Album(nil), targetAlbums...)

	matched := 0
	for _, target := range targets {
		for i, source := range remaining {
			if e.matcher.AlbumMatch(target, source) {
				e.cache.PutAlbum(source.ID, target.ID)
				remaining = append(remaining[:i], remaining[i+1:]...)
				matched++
				break
			}
		}
	}

	for _, source := range remaining {
		for i, target := range targets {
			if e.matcher.AlbumMatch(target, source) {
				e.cache.PutAlbum(source.ID, target.ID)
				targets = append(targets[:i], targets[i+1:]...)
				matched++
				break
			}
		}
	}

	return matched
}

// prepopulateArtists is the artist variant of the two-pass cross-match.
func (e *Engine) prepopulateArtists(sourceArtists, targetArtists []models.Artist) int {
	remaining := make([]models.Artist, 0, len(sourceArtists))
	for _, artist := range sourceArtists {
		if artist.ID != "" {
			remaining = append(remaining, artist)
		}
	}
	targets := append([]models.Artist(nil), targetArtists...)

	matched := 0
	for _, target := range targets {
		for i, source := range remaining {
			if e.matcher.ArtistMatch(target, source) {
				e.cache.PutArtist(source.ID, target.ID)
				remaining = append(remaining[:i], remaining[i+1:]...)
				matched++
				break
			}
		}
	}

	for _, source := range remaining {
		for i, target := range targets {
			if e.matcher.ArtistMatch(target, source) {
				e.cache.PutArtist(source.ID, target.ID)
				targets = append(targets[:i], targets[i+1:]...)
				matched++
				break
			}
		}
	}

	return matched
}

// excluded reports whether a playlist should be skipped by SyncAll: it is
// either on the config's skip list, or an include filter is set and does
// not name it.
func (e *Engine) excluded(name string) bool {
	for _, excluded := range e.config.Sync.ExcludePlaylists {
		if strings.EqualFold(excluded, name) {
			return true
		}
	}
	if len(e.only) == 0 {
		return false
	}
	for _, only := range e.only {
		if strings.EqualFold(only, name) {
			return false
		}
	}
	return true
}

// recordRun persists the collection outcome when a runs repository is
// wired in. Failures here are logged, never fatal.
func (e *Engine) recordRun(ctx context.Context, result *CollectionResult, started time.Time) {
	if e.runs == nil || e.dryRun {
		return
	}
	run := &models.SyncRun{
		Kind:       result.Kind,
		Name:       result.Name,
		Total:      result.Total,
		Matched:    result.Matched,
		NotFound:   result.NotFound,
		StartedAt:  started,
		FinishedAt: e.now(),
	}
	if err := e.runs.Record(ctx, run); err != nil {
		e.logger.Warn("failed to record sync run", "kind", result.Kind, "error", err)
	}
}

func planAddCount(plan Plan) int {
	if plan.Kind == PlanNoChange {
		return 0
	}
	return len(plan.Add)
}

func trackIDs(tracks []models.Track) []string {
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		ids[i] = track.ID
	}
	return ids
}

func albumIDs(albums []models.Album) []string {
	ids := make([]string, len(albums))
	for i, album := range albums {
		ids[i] = album.ID
	}
	return ids
}

func artistIDs(artists []models.Artist) []string {
	ids := make([]string, len(artists))
	for i, artist := range artists {
		ids[i] = artist.ID
	}
	return ids
}

// isFatal reports whether an error must abort the whole batch rather than
// a single collection.
func isFatal(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
