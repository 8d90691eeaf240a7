package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	t.Run("render groups entries by kind", func(t *testing.T) {
		report := NewReport()
		report.AddTrack("Artist - Song Name", "Playlist 1")
		report.AddAlbum("Artist - Album Name")
		report.AddArtist("Lonely Artist")

		text := report.Render()

		if !strings.Contains(text, "TRACKS/SONGS:") {
			t.Error("expected TRACKS/SONGS section")
		}
		if !strings.Contains(text, "Artist - Song Name (from Playlist 1)") {
			t.Error("expected track entry with playlist attribution")
		}
		if !strings.Contains(text, "ALBUMS:") {
			t.Error("expected ALBUMS section")
		}
		if !strings.Contains(text, "ARTISTS:") {
			t.Error("expected ARTISTS section")
		}
		if !strings.Contains(text, "Total items not found: 3") {
			t.Error("expected total footer")
		}
	})

	t.Run("empty kinds are omitted", func(t *testing.T) {
		report := NewReport()
		report.AddTrack("Artist - Song", "")

		text := report.Render()

		if strings.Contains(text, "ALBUMS:") || strings.Contains(text, "ARTISTS:") {
			t.Error("empty sections should not be rendered")
		}
		if !strings.Contains(text, "Artist - Song\n") {
			t.Error("track without playlist should render bare")
		}
	})

	t.Run("reset clears all entries", func(t *testing.T) {
		report := NewReport()
		report.AddTrack("a", "p")
		report.AddAlbum("b")
		report.Reset()

		if report.Total() != 0 {
			t.Errorf("expected empty report after reset, got %d", report.Total())
		}
	})

	t.Run("write overwrites previous run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not_found.txt")

		report := NewReport()
		report.AddTrack("First Run Track", "P")
		if err := report.Write(path); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		report.Reset()
		report.AddTrack("Second Run Track", "P")
		if err := report.Write(path); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if strings.Contains(string(data), "First Run Track") {
			t.Error("old entries should not survive a rewrite")
		}
		if !strings.Contains(string(data), "Second Run Track") {
			t.Error("new entries missing from report file")
		}
	})

	t.Run("write removes stale file when nothing to report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not_found.txt")

		report := NewReport()
		report.AddTrack("Track", "P")
		if err := report.Write(path); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		report.Reset()
		if err := report.Write(path); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected stale report to be removed")
		}
	})
}
