package matcher

import (
	"math"
	"strings"
	"testing"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
)

func artists(names ...string) []models.Artist {
	out := make([]models.Artist, 0, len(names))
	for _, name := range names {
		out = append(out, models.Artist{Name: name})
	}
	return out
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "ok computer", "ok computer", 1},
		{"both empty", "", "", 1},
		{"one substitution", "ok computer", "ok komputer", 1 - 1.0/11},
		{"disjoint", "abc", "xyz", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Similarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

// Similarity at the configured threshold must be a sharp cutoff: 0.81 in,
// 0.79 out.
func TestFuzzyThresholdBoundary(t *testing.T) {
	m := New(Options{EnableFuzzy: true})

	base := strings.Repeat("a", 100)
	nineteenEdits := strings.Repeat("b", 19) + strings.Repeat("a", 81)
	twentyOneEdits := strings.Repeat("b", 21) + strings.Repeat("a", 79)

	if got := Similarity(base, nineteenEdits); math.Abs(got-0.81) > 1e-9 {
		t.Fatalf("Similarity with 19 edits = %v, want 0.81", got)
	}
	if got := Similarity(base, twentyOneEdits); math.Abs(got-0.79) > 1e-9 {
		t.Fatalf("Similarity with 21 edits = %v, want 0.79", got)
	}

	source := models.Album{ID: "s1", Name: base, Artists: artists("Artist")}

	above := models.Album{ID: "t1", Name: nineteenEdits, Artists: artists("Artist")}
	if !m.AlbumMatch(above, source) {
		t.Error("similarity 0.81 should clear the 0.80 name threshold")
	}

	below := models.Album{ID: "t2", Name: twentyOneEdits, Artists: artists("Artist")}
	if m.AlbumMatch(below, source) {
		t.Error("similarity 0.79 should not clear the 0.80 name threshold")
	}
}

func TestTrackMatchISRC(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Track{
		ID: "sp1", Name: "Completely Different", Artists: artists("Nobody"),
		Duration: 100, ISRC: "USUM71703861",
	}
	candidate := models.Track{
		ID: "td1", Name: "Another Name Entirely", Artists: artists("Someone Else"),
		Duration: 300, ISRC: "usum71703861",
	}

	if !m.TrackMatch(candidate, source) {
		t.Error("matching ISRC should short-circuit all other checks")
	}

	candidate.ISRC = ""
	if m.TrackMatch(candidate, source) {
		t.Error("without a shared ISRC the heuristics should reject this pair")
	}
}

func TestTrackMatchEmptySourceID(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Track{
		Name: "Song", Artists: artists("Artist"), Duration: 200, ISRC: "X1",
	}
	candidate := models.Track{
		ID: "td1", Name: "Song", Artists: artists("Artist"), Duration: 200, ISRC: "X1",
	}

	if m.TrackMatch(candidate, source) {
		t.Error("source tracks without an id must never match")
	}
}

func TestTrackMatchReflexive(t *testing.T) {
	m := New(DefaultOptions())

	track := models.Track{
		ID: "1", Name: "Karma Police", Artists: artists("Radiohead"), Duration: 261,
	}
	if !m.TrackMatch(track, track) {
		t.Error("a track must match itself")
	}
}

func TestTrackMatchDuration(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Track{ID: "1", Name: "Song", Artists: artists("Artist"), Duration: 200}

	cases := []struct {
		name     string
		duration float64
		want     bool
	}{
		{"inside tolerance", 201.9, true},
		{"exactly at tolerance", 202.0, false},
		{"outside tolerance", 203.0, false},
		{"inside below", 198.1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := models.Track{ID: "t", Name: "Song", Artists: artists("Artist"), Duration: tc.duration}
			if got := m.TrackMatch(candidate, source); got != tc.want {
				t.Errorf("duration %v: match = %v, want %v", tc.duration, got, tc.want)
			}
		})
	}
}

func TestTrackMatchExclusionRule(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Track{ID: "1", Name: "Song", Artists: artists("Artist"), Duration: 200}

	remix := models.Track{ID: "t", Name: "Song (Remix)", Artists: artists("Artist"), Duration: 200}
	if m.TrackMatch(remix, source) {
		t.Error("a remix must not match the untagged original")
	}

	versionRemix := models.Track{ID: "t", Name: "Song", Version: "Remix", Artists: artists("Artist"), Duration: 200}
	if m.TrackMatch(versionRemix, source) {
		t.Error("a remix tagged via version must not match the untagged original")
	}

	remixSource := models.Track{ID: "2", Name: "Song (Remix)", Artists: artists("Artist"), Duration: 200}
	if !m.TrackMatch(versionRemix, remixSource) {
		t.Error("remix-to-remix should match when both sides carry the tag")
	}

	instrumental := models.Track{ID: "t", Name: "Song (Instrumental)", Artists: artists("Artist"), Duration: 200}
	if m.TrackMatch(instrumental, source) {
		t.Error("an instrumental must not match the vocal original")
	}
}

func TestTrackMatchFeaturedClause(t *testing.T) {
	m := New(DefaultOptions())

	cases := []struct {
		name       string
		sourceName string
	}{
		{"feat outside brackets", "Song feat. Somebody"},
		{"feat inside brackets", "Song (feat. Somebody)"},
		{"ft abbreviation", "Song ft. Somebody"},
	}

	candidate := models.Track{ID: "t", Name: "Song", Artists: artists("Artist"), Duration: 200}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := models.Track{ID: "1", Name: tc.sourceName, Artists: artists("Artist"), Duration: 200}
			if !m.TrackMatch(candidate, source) {
				t.Errorf("%q should match plain %q", tc.sourceName, candidate.Name)
			}
		})
	}
}

func TestTrackMatchArtistOverlap(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Track{ID: "1", Name: "Song", Artists: artists("Artist & Co"), Duration: 200}

	shared := models.Track{ID: "t", Name: "Song", Artists: artists("Artist"), Duration: 200}
	if !m.TrackMatch(shared, source) {
		t.Error("one overlapping atomic artist should satisfy the overlap check")
	}

	disjoint := models.Track{ID: "t", Name: "Song", Artists: artists("Unrelated Band"), Duration: 200}
	if m.TrackMatch(disjoint, source) {
		t.Error("disjoint artist sets must not match")
	}

	accented := models.Track{ID: "2", Name: "Song", Artists: artists("Beyoncé"), Duration: 200}
	folded := models.Track{ID: "t", Name: "Song", Artists: artists("Beyonce"), Duration: 200}
	if !m.TrackMatch(folded, accented) {
		t.Error("artist overlap should survive diacritic folding")
	}

	commaList := models.Track{ID: "3", Name: "Song", Artists: artists("Earth, Wind & Fire"), Duration: 200}
	single := models.Track{ID: "t", Name: "Song", Artists: artists("Wind"), Duration: 200}
	if !m.TrackMatch(single, commaList) {
		t.Error("comma-separated collaborators should split into atomic names")
	}
}

func TestTrackMatchNormalizedName(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Track{ID: "1", Name: "Héroes del Silencio Theme", Artists: artists("Artist"), Duration: 200}
	candidate := models.Track{ID: "t", Name: "Heroes del Silencio Theme", Artists: artists("Artist"), Duration: 200}

	if !m.TrackMatch(candidate, source) {
		t.Error("name containment should survive diacritic folding")
	}
}

func TestAlbumMatchLadder(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Album{ID: "1", Name: "OK Computer", Artists: artists("Radiohead")}

	cases := []struct {
		name      string
		candidate models.Album
		want      bool
	}{
		{
			"exact lowercase",
			models.Album{ID: "t", Name: "ok computer", Artists: artists("Radiohead")},
			true,
		},
		{
			"edition suffix",
			models.Album{ID: "t", Name: "OK Computer (Deluxe Edition)", Artists: artists("Radiohead")},
			true,
		},
		{
			"substring artist",
			models.Album{ID: "t", Name: "OK Computer", Artists: artists("The Radiohead Ensemble")},
			true,
		},
		{
			"different artist",
			models.Album{ID: "t", Name: "OK Computer", Artists: artists("Coldplay")},
			false,
		},
		{
			"different album",
			models.Album{ID: "t", Name: "In Rainbows", Artists: artists("Radiohead")},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.AlbumMatch(tc.candidate, source); got != tc.want {
				t.Errorf("AlbumMatch = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAlbumMatchFuzzyGate(t *testing.T) {
	source := models.Album{ID: "1", Name: "OK Computer", Artists: artists("Radiohead")}
	typo := models.Album{ID: "t", Name: "OK Komputer", Artists: artists("Radiohead")}

	strict := New(DefaultOptions())
	if strict.AlbumMatch(typo, source) {
		t.Error("fuzzy-only match should be rejected while fuzzy matching is off")
	}

	fuzzy := New(Options{EnableFuzzy: true})
	if !fuzzy.AlbumMatch(typo, source) {
		t.Error("a one-letter typo should clear the 0.80 threshold with fuzzy on")
	}
}

func TestArtistMatch(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Artist{ID: "1", Name: "Tame Impala"}

	if !m.ArtistMatch(models.Artist{ID: "t", Name: "Tame Impala"}, source) {
		t.Error("identical names should match")
	}
	if !m.ArtistMatch(models.Artist{ID: "t", Name: "tame impala official"}, source) {
		t.Error("substring containment should match")
	}
	if m.ArtistMatch(models.Artist{ID: "t", Name: "King Gizzard"}, source) {
		t.Error("unrelated names must not match")
	}
	if m.ArtistMatch(models.Artist{ID: "t", Name: "Tame Impala"}, models.Artist{Name: "Tame Impala"}) {
		t.Error("source artists without an id must never match")
	}

	fuzzy := New(Options{EnableFuzzy: true})
	if !fuzzy.ArtistMatch(models.Artist{ID: "t", Name: "The Beetles"}, models.Artist{ID: "2", Name: "The Beatles"}) {
		t.Error("a one-letter typo should clear the 0.85 artist threshold")
	}
}

func TestBestArtistMatch(t *testing.T) {
	m := New(DefaultOptions())

	source := models.Artist{ID: "1", Name: "Daft Punk"}
	candidates := []models.Artist{
		{ID: "t1", Name: "Daft Punk Tribute Band"},
		{ID: "t2", Name: "Daft Punk"},
		{ID: "t3", Name: "Unrelated"},
	}

	best, ok := m.BestArtistMatch(candidates, source)
	if !ok {
		t.Fatal("expected a best match")
	}
	if best.ID != "t2" {
		t.Errorf("best match = %q, want the exact-name candidate", best.ID)
	}

	if _, ok := m.BestArtistMatch(nil, source); ok {
		t.Error("no candidates should yield no match")
	}
	if _, ok := m.BestArtistMatch(candidates, models.Artist{Name: "Daft Punk"}); ok {
		t.Error("a source artist without an id should yield no match")
	}
}
