// Package repositories provides sqlite-backed persistence for the sync
// engine: the negative match cache, sync run history, and playlist links.
//
// The match-failure store is shared between concurrently running processes,
// so every mutation there is scoped to a single-record transaction
// (read, check, write) to avoid lost updates. The other repositories are
// bookkeeping only and have no cross-process contract.
package repositories
