package search

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/spotify2tidal/spotify-to-tidal/internal/cache"
	"github.com/spotify2tidal/spotify-to-tidal/internal/matcher"
	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
	"github.com/spotify2tidal/spotify-to-tidal/internal/repositories"
	"github.com/spotify2tidal/spotify-to-tidal/internal/services"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

// defaultArtistSearchLimit bounds how many results of a broad artist-only
// album query get scanned before giving up on that rung.
const defaultArtistSearchLimit = 50

// Orchestrator resolves source catalog items to target catalog IDs. Each
// lookup consults the in-memory match cache and the persistent failure
// store before issuing any network calls, then walks the item's query
// ladder until the match predicate accepts a candidate.
type Orchestrator struct {
	// ArtistSearchLimit overrides the scan bound for artist-only album
	// queries. Zero means the default.
	ArtistSearchLimit int

	target   services.TargetService
	matcher  *matcher.Matcher
	cache    *cache.MatchCache
	failures *repositories.FailureRepository
	logger   *log.Logger
}

func NewOrchestrator(
	target services.TargetService,
	m *matcher.Matcher,
	c *cache.MatchCache,
	failures *repositories.FailureRepository,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		target:   target,
		matcher:  m,
		cache:    c,
		failures: failures,
		logger:   logger,
	}
}

// FindTrack resolves a source track to a target track ID. The album
// lookup runs first because positional matching inside the right album is
// far more reliable than free-text track search; the per-artist track
// queries are the fallback. Returns found=false when every query is
// exhausted, in which case the miss is recorded for backoff.
func (o *Orchestrator) FindTrack(ctx context.Context, track models.Track) (string, bool, error) {
	if track.ID == "" {
		return "", false, nil
	}
	if id, ok := o.cache.GetTrack(track.ID); ok {
		return id, true, nil
	}

	skip, err := o.shouldSkip(ctx, failureKey("track", track.ID), track.Description())
	if err != nil || skip {
		return "", false, err
	}

	if id, ok, err := o.findTrackViaAlbum(ctx, track); err != nil {
		return "", false, err
	} else if ok {
		return o.accept(ctx, "track", track.ID, id)
	}

	for _, query := range trackQueries(track) {
		candidates, err := o.target.SearchTracks(ctx, query)
		if err != nil {
			if isFatal(err) {
				return "", false, err
			}
			o.logger.Warn("track search query failed", "query", query, "error", err)
			continue
		}
		o.logger.Debug("searched for track", "query", query, "results", len(candidates))

		for _, candidate := range candidates {
			if !candidate.Available {
				continue
			}
			if o.matcher.TrackMatch(candidate, track) {
				return o.accept(ctx, "track", track.ID, candidate.ID)
			}
		}
	}

	return o.miss(ctx, "track", track.ID, track.Description())
}

// FindAlbum resolves a source album to a target album ID.
func (o *Orchestrator) FindAlbum(ctx context.Context, album models.Album) (string, bool, error) {
	if album.ID == "" {
		return "", false, nil
	}
	if id, ok := o.cache.GetAlbum(album.ID); ok {
		return id, true, nil
	}

	skip, err := o.shouldSkip(ctx, failureKey("album", album.ID), album.Description())
	if err != nil || skip {
		return "", false, err
	}

	for _, query := range albumQueries(album) {
		candidates, err := o.target.SearchAlbums(ctx, query.text)
		if err != nil {
			if isFatal(err) {
				return "", false, err
			}
			o.logger.Warn("album search query failed", "query", query.text, "error", err)
			continue
		}
		o.logger.Debug("searched for album", "query", query.text, "results", len(candidates))

		if limit := o.artistSearchLimit(); query.capped && len(candidates) > limit {
			candidates = candidates[:limit]
		}

		for _, candidate := range candidates {
			if o.matcher.AlbumMatch(candidate, album) {
				return o.accept(ctx, "album", album.ID, candidate.ID)
			}
		}
	}

	return o.miss(ctx, "album", album.ID, album.Description())
}

// FindArtist resolves a source artist to a target artist ID. Among the
// candidates a single query returns, the most similar accepted name wins,
// so "Angel Olsen" is not beaten to the punch by a tribute act that merely
// contains the name.
func (o *Orchestrator) FindArtist(ctx context.Context, artist models.Artist) (string, bool, error) {
	if artist.ID == "" {
		return "", false, nil
	}
	if id, ok := o.cache.GetArtist(artist.ID); ok {
		return id, true, nil
	}

	skip, err := o.shouldSkip(ctx, failureKey("artist", artist.ID), artist.Name)
	if err != nil || skip {
		return "", false, err
	}

	for _, query := range artistQueries(artist) {
		candidates, err := o.target.SearchArtists(ctx, query)
		if err != nil {
			if isFatal(err) {
				return "", false, err
			}
			o.logger.Warn("artist search query failed", "query", query, "error", err)
			continue
		}
		o.logger.Debug("searched for artist", "query", query, "results", len(candidates))

		if best, ok := o.matcher.BestArtistMatch(candidates, artist); ok {
			return o.accept(ctx, "artist", artist.ID, best.ID)
		}
	}

	return o.miss(ctx, "artist", artist.ID, artist.Name)
}

// findTrackViaAlbum searches for the track's album and checks the track
// sitting at the source track number. Albums reporting fewer tracks than
// the source track number cannot contain it, and albums whose fetched
// track list is shorter than their own reported count are skipped as
// incomplete data.
func (o *Orchestrator) findTrackViaAlbum(ctx context.Context, track models.Track) (string, bool, error) {
	if track.TrackNumber <= 0 || track.Album.Name == "" {
		return "", false, nil
	}

	query := strings.ToLower(matcher.Simplest(track.Album.Name) + " " + matcher.Simplest(track.Album.FirstArtist()))
	albums, err := o.target.SearchAlbums(ctx, strings.TrimSpace(query))
	if err != nil {
		if isFatal(err) {
			return "", false, err
		}
		o.logger.Warn("album search query failed", "query", query, "error", err)
		return "", false, nil
	}
	o.logger.Debug("searched for track via album", "query", query, "results", len(albums))

	for _, album := range albums {
		if album.TrackCount < track.TrackNumber {
			continue
		}

		tracks, err := o.target.GetAlbumTracks(ctx, album.ID)
		if err != nil {
			if isFatal(err) {
				return "", false, err
			}
			o.logger.Warn("failed to fetch album tracks", "album", album.Name, "error", err)
			continue
		}
		if len(tracks) < album.TrackCount {
			o.logger.Debug("skipping album with incomplete track list",
				"album", album.Name, "reported", album.TrackCount, "fetched", len(tracks))
			continue
		}

		candidate := tracks[track.TrackNumber-1]
		if candidate.Available && o.matcher.TrackMatch(candidate, track) {
			return candidate.ID, true, nil
		}
	}

	return "", false, nil
}

// failureKey namespaces a source id by item kind. Tracks, albums, and
// artists share the failure table, and source catalogs do not promise
// their id spaces are disjoint across kinds.
func failureKey(kind, id string) string {
	return kind + ":" + id
}

// shouldSkip consults the failure store and reports whether the item is
// still inside its retry suppression window.
func (o *Orchestrator) shouldSkip(ctx context.Context, key, description string) (bool, error) {
	live, err := o.failures.HasLiveFailure(ctx, key)
	if err != nil {
		return false, err
	}
	if live {
		o.logger.Debug("skipping recently failed item", "item", description)
	}
	return live, nil
}

// accept caches the resolved pair and clears any stale failure record.
func (o *Orchestrator) accept(ctx context.Context, kind, sourceID, targetID string) (string, bool, error) {
	switch kind {
	case "track":
		o.cache.PutTrack(sourceID, targetID)
	case "album":
		o.cache.PutAlbum(sourceID, targetID)
	case "artist":
		o.cache.PutArtist(sourceID, targetID)
	}

	if err := o.failures.Clear(ctx, failureKey(kind, sourceID)); err != nil {
		o.logger.Warn("failed to clear match failure", "id", sourceID, "error", err)
	}

	return targetID, true, nil
}

// miss records the exhausted lookup so later runs back off.
func (o *Orchestrator) miss(ctx context.Context, kind, sourceID, description string) (string, bool, error) {
	o.logger.Info("no match found", "type", kind, "item", description)
	if err := o.failures.Record(ctx, failureKey(kind, sourceID)); err != nil {
		o.logger.Warn("failed to record match failure", "id", sourceID, "error", err)
	}
	return "", false, nil
}

func (o *Orchestrator) artistSearchLimit() int {
	if o.ArtistSearchLimit > 0 {
		return o.ArtistSearchLimit
	}
	return defaultArtistSearchLimit
}

// isFatal reports whether a search error should abort the whole lookup
// rather than fall through to the next query. Authentication failures and
// context cancellation never get better by querying again.
func isFatal(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
