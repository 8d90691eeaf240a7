package tasks

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// defaultReportPath is where the not-found report lands when the config
// does not override it. The filename is part of the tool's contract with
// long-time users, spaces and all.
const defaultReportPath = "items not found.txt"

// Report collects the items a run could not find on the target side,
// grouped by kind. Safe for concurrent adds from search workers.
type Report struct {
	mu      sync.Mutex
	tracks  []string
	albums  []string
	artists []string
}

func NewReport() *Report {
	return &Report{}
}

// AddTrack records a missing track with the playlist it came from.
func (r *Report) AddTrack(description, playlist string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if playlist != "" {
		description = fmt.Sprintf("%s (from %s)", description, playlist)
	}
	r.tracks = append(r.tracks, description)
}

// AddAlbum records a missing album.
func (r *Report) AddAlbum(description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.albums = append(r.albums, description)
}

// AddArtist records a missing artist.
func (r *Report) AddArtist(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artists = append(r.artists, name)
}

// Reset drops all collected entries, starting a fresh run.
func (r *Report) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracks = nil
	r.albums = nil
	r.artists = nil
}

// Total returns how many missing items have been collected.
func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tracks) + len(r.albums) + len(r.artists)
}

// Render produces the report text: a header, one section per non-empty
// kind in track/album/artist order, and a total footer.
func (r *Report) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	b.WriteString("Spotify to Tidal Sync Log\n")
	b.WriteString("=========================\n\n")
	b.WriteString("Items Not Found on Tidal\n")
	b.WriteString("------------------------\n")

	if len(r.tracks) > 0 {
		b.WriteString("\nTRACKS/SONGS:\n")
		for _, entry := range r.tracks {
			fmt.Fprintf(&b, "  - %s\n", entry)
		}
	}
	if len(r.albums) > 0 {
		b.WriteString("\nALBUMS:\n")
		for _, entry := range r.albums {
			fmt.Fprintf(&b, "  - %s\n", entry)
		}
	}
	if len(r.artists) > 0 {
		b.WriteString("\nARTISTS:\n")
		for _, entry := range r.artists {
			fmt.Fprintf(&b, "  - %s\n", entry)
		}
	}

	total := len(r.tracks) + len(r.albums) + len(r.artists)
	fmt.Fprintf(&b, "\nTotal items not found: %d\n", total)

	return b.String()
}

// Write puts the rendered report at path, overwriting any previous run's
// file. With nothing to report it writes no file and removes a stale one
// so an old list cannot outlive the run that fixed it. An empty path uses
// the default.
func (r *Report) Write(path string) error {
	if path == "" {
		path = defaultReportPath
	}

	if r.Total() == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale report: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
