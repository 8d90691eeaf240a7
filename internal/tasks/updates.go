package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running sync.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within the collection sync
	Total   int    // Total steps for the collection sync
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	FetchTarget
	MatchKnown
	SearchItems
	ApplyPlan
)

// syncSteps is the number of coarse steps a single collection sync emits.
const syncSteps = 5

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchTarget:
		return "fetch_target"
	case MatchKnown:
		return "match_known"
	case SearchItems:
		return "search_items"
	case ApplyPlan:
		return "apply_plan"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   syncSteps,
		Message: fmt.Sprintf("Fetching %s from Spotify...", name),
	}
}

func fetchTargetUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTarget,
		Step:    2,
		Total:   syncSteps,
		Message: fmt.Sprintf("Fetching %s from Tidal...", name),
	}
}

func matchKnownUpdate(matched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchKnown,
		Step:    3,
		Total:   syncSteps,
		Message: fmt.Sprintf("Matched %d of %d items against existing Tidal entries", matched, total),
	}
}

func searchItemsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchItems,
		Step:    4,
		Total:   syncSteps,
		Message: fmt.Sprintf("Searching Tidal for %d items...", total),
	}
}

func searchDoneUpdate(found, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchItems,
		Step:    4,
		Total:   syncSteps,
		Message: fmt.Sprintf("Resolved %d of %d items", found, total),
	}
}

func applyPlanUpdate(plan Plan) ProgressUpdate {
	update := ProgressUpdate{
		Phase: ApplyPlan,
		Step:  5,
		Total: syncSteps,
		Data:  plan,
	}
	switch plan.Kind {
	case PlanNoChange:
		update.Message = "Already in sync, nothing to do"
	case PlanAppend:
		update.Message = fmt.Sprintf("Appending %d items...", len(plan.Add))
	case PlanReplace:
		update.Message = fmt.Sprintf("Rebuilding collection with %d items...", len(plan.Add))
	}
	return update
}
