// Package models defines the rows persisted by the sync engine: negative
// match-cache entries and per-invocation sync run records.
//
// Positive match caches are process-local (see internal/cache) and have no
// model here on purpose: only match failures are required to survive restarts.
package models
