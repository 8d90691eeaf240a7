package models

import "strings"

// Artist is a catalog artist from either service.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is a catalog album. TrackCount is the album's reported total and
// is only trustworthy on items fetched from the target catalog.
type Album struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	TrackCount int      `json:"track_count,omitempty"`
}

// Track is the shared track shape both catalogs map into. Spotify tracks
// carry ISRC and album context; Tidal tracks carry Version and the
// availability flag. Duration is in seconds.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Album       Album    `json:"album,omitempty"`
	Duration    float64  `json:"duration"`
	TrackNumber int      `json:"track_number,omitempty"`
	ISRC        string   `json:"isrc,omitempty"`
	Version     string   `json:"version,omitempty"`
	Available   bool     `json:"available"`
}

// Playlist is a catalog playlist reference.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// FirstArtist returns the primary artist name, or "" when none is listed.
func (t Track) FirstArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// FirstArtist returns the primary album artist name, or "" when none is listed.
func (a Album) FirstArtist() string {
	if len(a.Artists) == 0 {
		return ""
	}
	return a.Artists[0].Name
}

// ArtistNames joins all artist names for display.
func ArtistNames(artists []Artist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// Description renders the track as "Artists - Name" for logs and reports.
func (t Track) Description() string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return ArtistNames(t.Artists) + " - " + t.Name
}

// Description renders the album as "Artists - Name" for logs and reports.
func (a Album) Description() string {
	if len(a.Artists) == 0 {
		return a.Name
	}
	return ArtistNames(a.Artists) + " - " + a.Name
}
