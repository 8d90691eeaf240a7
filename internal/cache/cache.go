// Package cache holds the in-process positive match results for one sync
// session: source-catalog id to target-catalog id, per entity kind. The
// cache is rebuilt every run from pre-population and search results, so
// nothing here touches disk. Persistent negative results live in the
// repositories package instead.
package cache

import "sync"

// MatchCache maps source ids to matched target ids for tracks, albums,
// and artists. It is safe for concurrent use by search workers. Source
// items without an id are never cached.
type MatchCache struct {
	mu      sync.RWMutex
	tracks  map[string]string
	albums  map[string]string
	artists map[string]string
}

func New() *MatchCache {
	return &MatchCache{
		tracks:  make(map[string]string),
		albums:  make(map[string]string),
		artists: make(map[string]string),
	}
}

// PutTrack records a track match. Inserting again overwrites the previous
// target id.
func (c *MatchCache) PutTrack(sourceID, targetID string) {
	c.put(c.tracks, sourceID, targetID)
}

// GetTrack returns the matched track id for sourceID, if any.
func (c *MatchCache) GetTrack(sourceID string) (string, bool) {
	return c.get(c.tracks, sourceID)
}

// PutAlbum records an album match.
func (c *MatchCache) PutAlbum(sourceID, targetID string) {
	c.put(c.albums, sourceID, targetID)
}

// GetAlbum returns the matched album id for sourceID, if any.
func (c *MatchCache) GetAlbum(sourceID string) (string, bool) {
	return c.get(c.albums, sourceID)
}

// PutArtist records an artist match.
func (c *MatchCache) PutArtist(sourceID, targetID string) {
	c.put(c.artists, sourceID, targetID)
}

// GetArtist returns the matched artist id for sourceID, if any.
func (c *MatchCache) GetArtist(sourceID string) (string, bool) {
	return c.get(c.artists, sourceID)
}

// Stats reports how many matches are cached per entity kind.
type Stats struct {
	Tracks  int `json:"tracks"`
	Albums  int `json:"albums"`
	Artists int `json:"artists"`
}

func (c *MatchCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Tracks:  len(c.tracks),
		Albums:  len(c.albums),
		Artists: len(c.artists),
	}
}

func (c *MatchCache) put(m map[string]string, sourceID, targetID string) {
	if sourceID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m[sourceID] = targetID
}

func (c *MatchCache) get(m map[string]string, sourceID string) (string, bool) {
	if sourceID == "" {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	targetID, ok := m[sourceID]
	return targetID, ok
}
