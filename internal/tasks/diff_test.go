package tasks

import (
	"io"
	"reflect"
	"testing"

	"github.com/spotify2tidal/spotify-to-tidal/internal/search"
	"github.com/spotify2tidal/spotify-to-tidal/internal/shared"
)

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		desired []string
		want    Plan
	}{
		{
			name:    "identical lists need nothing",
			current: []string{"a", "b", "c"},
			desired: []string{"a", "b", "c"},
			want:    Plan{Kind: PlanNoChange},
		},
		{
			name:    "both empty",
			current: nil,
			desired: nil,
			want:    Plan{Kind: PlanNoChange},
		},
		{
			name:    "grown tail appends",
			current: []string{"a", "b"},
			desired: []string{"a", "b", "c", "d"},
			want:    Plan{Kind: PlanAppend, Add: []string{"c", "d"}},
		},
		{
			name:    "empty remote appends everything",
			current: nil,
			desired: []string{"a", "b"},
			want:    Plan{Kind: PlanAppend, Add: []string{"a", "b"}},
		},
		{
			name:    "reorder forces replace",
			current: []string{"a", "b", "c"},
			desired: []string{"c", "b", "a"},
			want:    Plan{Kind: PlanReplace, Add: []string{"c", "b", "a"}},
		},
		{
			name:    "deletion forces replace",
			current: []string{"a", "b", "c"},
			desired: []string{"a", "c"},
			want:    Plan{Kind: PlanReplace, Add: []string{"a", "c"}},
		},
		{
			name:    "mid-list insert forces replace",
			current: []string{"a", "c"},
			desired: []string{"a", "b", "c"},
			want:    Plan{Kind: PlanReplace, Add: []string{"a", "b", "c"}},
		},
		{
			name:    "desired empty but remote not forces replace",
			current: []string{"a"},
			desired: nil,
			want:    Plan{Kind: PlanReplace},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPlan(tt.current, tt.desired)
			if got.Kind != tt.want.Kind {
				t.Errorf("BuildPlan kind = %v, want %v", got.Kind, tt.want.Kind)
			}
			if !reflect.DeepEqual(got.Add, tt.want.Add) {
				t.Errorf("BuildPlan add = %v, want %v", got.Add, tt.want.Add)
			}
		})
	}

	t.Run("append never includes existing ids", func(t *testing.T) {
		current := []string{"x", "y"}
		extras := [][]string{{"z"}, {"z", "w"}, {"1", "2", "3"}}
		for _, extra := range extras {
			desired := append(append([]string(nil), current...), extra...)
			plan := BuildPlan(current, desired)
			if plan.Kind != PlanAppend {
				t.Fatalf("expected append for extra %v, got %v", extra, plan.Kind)
			}
			if !reflect.DeepEqual(plan.Add, extra) {
				t.Errorf("plan add = %v, want %v", plan.Add, extra)
			}
		}
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		desired := []string{"a", "b", "c"}
		first := BuildPlan(nil, desired)
		if first.Kind != PlanAppend {
			t.Fatalf("expected append on empty remote, got %v", first.Kind)
		}
		second := BuildPlan(desired, desired)
		if second.Kind != PlanNoChange {
			t.Errorf("second run should be a no-op, got %v", second.Kind)
		}
	})
}

func TestDedupedIDs(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	describe := func(i int) string { return "item" }

	t.Run("keeps source order and skips misses", func(t *testing.T) {
		results := []search.Result{
			{TargetID: "t1", Found: true},
			{Found: false},
			{TargetID: "t2", Found: true},
		}
		got := dedupedIDs(results, describe, logger)
		want := []string{"t1", "t2"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("dedupedIDs = %v, want %v", got, want)
		}
	})

	t.Run("same target id appears exactly once", func(t *testing.T) {
		results := []search.Result{
			{TargetID: "t1", Found: true},
			{TargetID: "t1", Found: true},
			{TargetID: "t2", Found: true},
			{TargetID: "t1", Found: true},
		}
		got := dedupedIDs(results, describe, logger)
		want := []string{"t1", "t2"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("dedupedIDs = %v, want %v", got, want)
		}
	})

	t.Run("empty results give empty list", func(t *testing.T) {
		got := dedupedIDs(nil, describe, logger)
		if len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
	})
}
