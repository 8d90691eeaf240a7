package models

import (
	"fmt"
	"time"
)

// MatchFailure records that a source item failed to find a counterpart,
// with an exponential-backoff retry schedule. Invariant: NextRetry is
// strictly after FirstFailure.
type MatchFailure struct {
	ID           string
	FirstFailure time.Time
	NextRetry    time.Time
}

// Live reports whether the failure still suppresses searching at the given time.
func (f MatchFailure) Live(now time.Time) bool {
	return f.NextRetry.After(now)
}

// Validate checks the record's invariants.
func (f MatchFailure) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("match failure requires an id")
	}
	if !f.NextRetry.After(f.FirstFailure) {
		return fmt.Errorf("next retry %v must be after first failure %v", f.NextRetry, f.FirstFailure)
	}
	return nil
}

// SyncRun is one sync invocation for a single collection.
type SyncRun struct {
	ID         string
	Kind       string // playlist, favorites, albums, artists
	Name       string
	Total      int
	Matched    int
	NotFound   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Validate checks the record's invariants.
func (r SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run requires an id")
	}
	switch r.Kind {
	case "playlist", "favorites", "albums", "artists":
	default:
		return fmt.Errorf("unknown sync run kind %q", r.Kind)
	}
	if r.Total < 0 || r.Matched < 0 || r.NotFound < 0 {
		return fmt.Errorf("sync run counts must be non-negative")
	}
	return nil
}

// PlaylistLink pairs a Spotify playlist with the Tidal playlist it syncs to.
type PlaylistLink struct {
	SpotifyID string
	TidalID   string
	Name      string
	LinkedAt  time.Time
}

// Validate checks the record's invariants.
func (l PlaylistLink) Validate() error {
	if l.SpotifyID == "" || l.TidalID == "" {
		return fmt.Errorf("playlist link requires both ids")
	}
	return nil
}
