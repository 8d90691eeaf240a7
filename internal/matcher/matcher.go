package matcher

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
)

// durationTolerance is the maximum allowed gap between two durations, in
// seconds, for tracks to still count as the same recording.
const durationTolerance = 2.0

// exclusionPatterns are edition keywords that must appear on both sides or
// neither. Without this rule a remix happily matches its original, since
// the original's name is a substring of the remix's.
var exclusionPatterns = []string{"instrumental", "acapella", "remix"}

// artistSeparators rewrites the common collaboration joiners so a single
// split on " and " yields atomic artist names.
var artistSeparators = strings.NewReplacer("&", " and ", ",", " and ")

// Options tunes the matcher. Fuzzy comparison is off unless enabled, and
// non-positive thresholds fall back to the defaults.
type Options struct {
	EnableFuzzy           bool
	NameThreshold         float64
	ArtistThreshold       float64
	ArtistEntityThreshold float64
}

// DefaultOptions returns the stock thresholds with fuzzy matching off.
func DefaultOptions() Options {
	return Options{
		NameThreshold:         0.80,
		ArtistThreshold:       0.75,
		ArtistEntityThreshold: 0.85,
	}
}

// Matcher evaluates cross-catalog equivalence predicates.
type Matcher struct {
	opts Options
}

func New(opts Options) *Matcher {
	defaults := DefaultOptions()
	if opts.NameThreshold <= 0 {
		opts.NameThreshold = defaults.NameThreshold
	}
	if opts.ArtistThreshold <= 0 {
		opts.ArtistThreshold = defaults.ArtistThreshold
	}
	if opts.ArtistEntityThreshold <= 0 {
		opts.ArtistEntityThreshold = defaults.ArtistEntityThreshold
	}
	return &Matcher{opts: opts}
}

// Similarity returns an edit-distance ratio in [0, 1], where 1 means the
// strings are identical. The distance is normalized by the longer string's
// rune count.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// TrackMatch reports whether candidate from the target catalog is the same
// recording as source. A shared ISRC is authoritative and short-circuits
// every other check; otherwise duration, name, and artists must all agree.
// Source tracks without an id (local files) never match.
func (m *Matcher) TrackMatch(candidate, source models.Track) bool {
	if source.ID == "" {
		return false
	}

	if source.ISRC != "" && candidate.ISRC != "" && strings.EqualFold(source.ISRC, candidate.ISRC) {
		return true
	}

	if math.Abs(candidate.Duration-source.Duration) >= durationTolerance {
		return false
	}
	if !trackNameMatch(candidate, source) {
		return false
	}

	return artistsOverlap(candidate.Artists, source.Artists)
}

// AlbumMatch reports whether candidate is the same album as source,
// comparing names through the laddered variant comparison and requiring
// artist agreement.
func (m *Matcher) AlbumMatch(candidate, source models.Album) bool {
	if source.ID == "" {
		return false
	}
	if !m.nameMatch(candidate.Name, source.Name, m.opts.NameThreshold) {
		return false
	}
	return m.albumArtistsMatch(candidate.Artists, source.Artists)
}

// ArtistMatch reports whether candidate is the same artist as source using
// the laddered name comparison at the artist-entity threshold.
func (m *Matcher) ArtistMatch(candidate, source models.Artist) bool {
	if source.ID == "" {
		return false
	}
	return m.nameMatch(candidate.Name, source.Name, m.opts.ArtistEntityThreshold)
}

// BestArtistMatch picks the accepted candidate whose name is most similar
// to the source artist. The second return is false when no candidate
// passes ArtistMatch.
func (m *Matcher) BestArtistMatch(candidates []models.Artist, source models.Artist) (models.Artist, bool) {
	var best models.Artist
	bestScore := -1.0

	for _, candidate := range candidates {
		if !m.ArtistMatch(candidate, source) {
			continue
		}
		score := Similarity(strings.ToLower(candidate.Name), strings.ToLower(source.Name))
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best, bestScore >= 0
}

// nameMatch runs the laddered comparison over every pair of simplify
// variants: exact lowercase equality, substring in either direction,
// diacritic-folded substring, then optional similarity at threshold on
// both raw and folded forms.
func (m *Matcher) nameMatch(candidateName, sourceName string, threshold float64) bool {
	sourceVariants := Simplify(strings.ToLower(sourceName))
	candidateVariants := Simplify(strings.ToLower(candidateName))

	for _, sv := range sourceVariants {
		for _, cv := range candidateVariants {
			if sv == cv {
				return true
			}
		}
	}

	for _, sv := range sourceVariants {
		for _, cv := range candidateVariants {
			if strings.Contains(cv, sv) || strings.Contains(sv, cv) {
				return true
			}
		}
	}

	for _, sv := range sourceVariants {
		for _, cv := range candidateVariants {
			nsv, ncv := NormalizeUnicode(sv), NormalizeUnicode(cv)
			if strings.Contains(ncv, nsv) || strings.Contains(nsv, ncv) {
				return true
			}
		}
	}

	if !m.opts.EnableFuzzy {
		return false
	}

	for _, sv := range sourceVariants {
		for _, cv := range candidateVariants {
			if Similarity(sv, cv) >= threshold {
				return true
			}
			if Similarity(NormalizeUnicode(sv), NormalizeUnicode(cv)) >= threshold {
				return true
			}
		}
	}

	return false
}

// trackNameMatch applies the exclusion rule, then requires the simplified
// source name, minus any featured-artist clause, to appear in the
// candidate name, raw first and diacritic-folded second.
func trackNameMatch(candidate, source models.Track) bool {
	sourceName := strings.ToLower(source.Name)
	candidateName := strings.ToLower(candidate.Name)
	candidateVersion := strings.ToLower(candidate.Version)

	for _, pattern := range exclusionPatterns {
		inSource := strings.Contains(sourceName, pattern)
		inCandidate := strings.Contains(candidateName, pattern) ||
			(candidateVersion != "" && strings.Contains(candidateVersion, pattern))
		if inSource != inCandidate {
			return false
		}
	}

	simple := stripFeatured(Simplest(sourceName))
	if strings.Contains(candidateName, simple) {
		return true
	}
	return strings.Contains(NormalizeUnicode(candidateName), NormalizeUnicode(simple))
}

// stripFeatured cuts a trailing "feat." or "ft." clause from a lowercased
// track name.
func stripFeatured(name string) string {
	for _, marker := range []string{"feat.", "ft."} {
		if strings.HasPrefix(name, marker) {
			return ""
		}
		if idx := strings.Index(name, " "+marker); idx >= 0 {
			name = name[:idx]
		}
	}
	return strings.TrimSpace(name)
}

// albumArtistsMatch compares the two atomic-artist sets, trying exact
// equality, substring containment, and optional similarity per atom pair,
// on raw forms first and diacritic-folded forms second.
func (m *Matcher) albumArtistsMatch(candidateArtists, sourceArtists []models.Artist) bool {
	for _, normalized := range []bool{false, true} {
		source := artistAtoms(sourceArtists, normalized)
		cand := artistAtoms(candidateArtists, normalized)
		for s := range source {
			for c := range cand {
				if s == c {
					return true
				}
				if strings.Contains(c, s) || strings.Contains(s, c) {
					return true
				}
				if m.opts.EnableFuzzy && Similarity(s, c) >= m.opts.ArtistThreshold {
					return true
				}
			}
		}
	}
	return false
}

// artistsOverlap reports whether the two artist lists share at least one
// atomic name, raw first and diacritic-folded second.
func artistsOverlap(candidateArtists, sourceArtists []models.Artist) bool {
	if setsIntersect(artistAtoms(candidateArtists, false), artistAtoms(sourceArtists, false)) {
		return true
	}
	return setsIntersect(artistAtoms(candidateArtists, true), artistAtoms(sourceArtists, true))
}

// artistAtoms splits every artist name into atomic names and returns the
// simplified lowercase set.
func artistAtoms(artists []models.Artist, normalized bool) map[string]struct{} {
	atoms := make(map[string]struct{})
	for _, artist := range artists {
		name := artist.Name
		if normalized {
			name = NormalizeUnicode(name)
		}
		for _, atom := range splitArtistName(name) {
			atom = strings.TrimSpace(atom)
			if atom == "" {
				continue
			}
			atoms[Simplest(strings.ToLower(atom))] = struct{}{}
		}
	}
	return atoms
}

func splitArtistName(name string) []string {
	return strings.Split(artistSeparators.Replace(name), " and ")
}

func setsIntersect(a, b map[string]struct{}) bool {
	for atom := range a {
		if _, ok := b[atom]; ok {
			return true
		}
	}
	return false
}
