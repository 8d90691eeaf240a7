package search

import (
	"strings"

	"github.com/spotify2tidal/spotify-to-tidal/internal/matcher"
	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
)

// trackQueries builds the fallback queries for a track, one per source
// artist. The album path runs before these, so they only fire when the
// album lookup came up empty.
func trackQueries(track models.Track) []string {
	queries := make([]string, 0, len(track.Artists))
	name := matcher.Simplest(track.Name)
	for _, artist := range track.Artists {
		queries = append(queries, strings.ToLower(name+" "+matcher.Simplest(artist.Name)))
	}
	return dedupe(queries)
}

// albumQuery is one rung of the album ladder. Capped queries are broad
// enough that only a bounded prefix of their results is worth scanning.
type albumQuery struct {
	text   string
	capped bool
}

// albumQueries builds the query ladder for an album, most specific first.
// Name and artist variants are crossed, then the bare name, then the name
// with apostrophes stripped (the catalogs disagree on curly quotes more
// often than on anything else), then the artist alone as a broad, capped
// last resort.
func albumQueries(album models.Album) []albumQuery {
	artist := album.FirstArtist()
	names := matcher.Simplify(album.Name)
	artists := matcher.Simplify(artist)

	queries := make([]albumQuery, 0, len(names)*len(artists)+3)
	for _, n := range names {
		for _, a := range artists {
			queries = append(queries, albumQuery{text: strings.ToLower(n + " " + a)})
		}
	}
	queries = append(queries, albumQuery{text: strings.ToLower(matcher.Simplest(album.Name))})
	simple := strings.ToLower(strings.TrimSpace(matcher.Simplest(album.Name) + " " + matcher.Simplest(artist)))
	if stripped := strings.ReplaceAll(simple, "'", ""); stripped != simple {
		queries = append(queries, albumQuery{text: stripped})
	}
	if artist != "" {
		queries = append(queries, albumQuery{text: strings.ToLower(artist), capped: true})
	}
	return dedupeAlbumQueries(queries)
}

// artistQueries builds the queries for an artist, full name first and the
// simplified form after it when they differ.
func artistQueries(artist models.Artist) []string {
	variants := matcher.Simplify(artist.Name)
	queries := make([]string, 0, len(variants))
	for _, v := range variants {
		queries = append(queries, strings.ToLower(v))
	}
	return dedupe(queries)
}

// dedupe drops repeated queries while keeping first-seen order, and skips
// blank entries outright.
func dedupe(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0]
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

func dedupeAlbumQueries(queries []albumQuery) []albumQuery {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0]
	for _, q := range queries {
		q.text = strings.TrimSpace(q.text)
		if q.text == "" {
			continue
		}
		if _, ok := seen[q.text]; ok {
			continue
		}
		seen[q.text] = struct{}{}
		out = append(out, q)
	}
	return out
}
