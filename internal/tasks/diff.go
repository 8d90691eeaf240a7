package tasks

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/spotify2tidal/spotify-to-tidal/internal/search"
)

// PlanKind is the mutation strategy chosen for a collection.
type PlanKind int

const (
	// PlanNoChange means the remote collection already matches.
	PlanNoChange PlanKind = iota
	// PlanAppend means the remote state is a prefix of the desired state
	// and only the tail needs adding.
	PlanAppend
	// PlanReplace means the remote collection is cleared and rebuilt.
	PlanReplace
)

func (k PlanKind) String() string {
	switch k {
	case PlanNoChange:
		return "no_change"
	case PlanAppend:
		return "append"
	case PlanReplace:
		return "replace"
	default:
		return ""
	}
}

// Plan is the reconciliation decision for one collection. Add holds the
// ids to write: the new tail for an append, the full desired order for a
// replace, nothing for a no-op.
type Plan struct {
	Kind PlanKind
	Add  []string
}

// BuildPlan compares the current remote order with the desired order.
// Equal lists need nothing. When current is a prefix of desired, the
// grown tail is appended, avoiding a full rewrite for the common
// "playlist grew" case. Any reorder, deletion, or mid-list insert forces
// a clear-and-rebuild, since the remote API has no positional patch.
func BuildPlan(current, desired []string) Plan {
	if slices.Equal(current, desired) {
		return Plan{Kind: PlanNoChange}
	}
	if len(desired) > len(current) && slices.Equal(desired[:len(current)], current) {
		return Plan{Kind: PlanAppend, Add: desired[len(current):]}
	}
	return Plan{Kind: PlanReplace, Add: desired}
}

// dedupedIDs collects the resolved target ids from index-aligned search
// results, preserving source order. A target id about to be inserted a
// second time is skipped and logged, since ordered collections must not
// receive the same id twice.
func dedupedIDs(results []search.Result, describe func(i int) string, logger *log.Logger) []string {
	ids := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))

	for i, result := range results {
		if !result.Found {
			continue
		}
		if _, dup := seen[result.TargetID]; dup {
			logger.Warn("skipping duplicate, target item already in the sync list",
				"item", describe(i), "target_id", result.TargetID)
			continue
		}
		seen[result.TargetID] = struct{}{}
		ids = append(ids, result.TargetID)
	}

	return ids
}
