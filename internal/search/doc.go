// Package search finds each source item's counterpart in the target
// catalog. For every unmatched item it builds a priority-ordered query
// ladder, issues the queries until a candidate passes the match predicate,
// and records the outcome: hits go to the in-memory match cache, misses to
// the persistent failure store with backoff so later runs do not repeat
// futile lookups.
//
// Bulk lookups run through a bounded worker pool behind a shared rate
// limiter; results land in an index-aligned slice so callers always see
// source order regardless of completion order.
package search
