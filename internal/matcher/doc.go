// Package matcher decides whether items from the two catalogs are the same
// work. Tracks match on ISRC when both sides carry one, otherwise on
// duration tolerance plus name and artist agreement. Albums and artists
// match through a laddered name comparison that starts strict (exact
// lowercase equality) and loosens stepwise (substring, diacritic-folded
// substring, then optional edit-distance similarity).
//
// All predicates are pure string work with no I/O, so they are safe to call
// from concurrent search workers.
package matcher
