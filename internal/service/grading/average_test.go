package grading

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAggregateEntries_Empty(t *testing.T) {
	got := AggregateEntries(nil)
	if got.Grade != 0 || got.TotalWeight != 0 {
		t.Errorf("expected zero aggregate, got %+v", got)
	}

	got = AggregateEntries([]Entry{})
	if got.Grade != 0 || got.TotalWeight != 0 {
		t.Errorf("expected zero aggregate, got %+v", got)
	}
}

func TestAggregateEntries_Weighted(t *testing.T) {
	entries := []Entry{
		{ID: "1", Grade: 92, Weight: 10},
		{ID: "2", Grade: 88, Weight: 15},
		{ID: "3", Grade: 82, Weight: 25},
	}

	got := AggregateEntries(entries)
	if !approx(got.TotalWeight, 50) {
		t.Errorf("TotalWeight = %v, want 50", got.TotalWeight)
	}
	if !approx(got.Grade, 85.8) {
		t.Errorf("Grade = %v, want 85.8", got.Grade)
	}
}

func TestAggregateEntries_ZeroWeights(t *testing.T) {
	got := AggregateEntries([]Entry{{Grade: 90, Weight: 0}, {Grade: 40, Weight: 0}})
	if got.Grade != 0 || got.TotalWeight != 0 {
		t.Errorf("expected zero aggregate for zero weights, got %+v", got)
	}
}

func TestAggregateEntries_WithinGradeBounds(t *testing.T) {
	cases := [][]Entry{
		{{Grade: 50, Weight: 1}, {Grade: 100, Weight: 99}},
		{{Grade: 0, Weight: 30}, {Grade: 70, Weight: 30}, {Grade: 65.5, Weight: 40}},
		{{Grade: 77.7, Weight: 12.5}},
		{{Grade: 10, Weight: 0.1}, {Grade: 99, Weight: 0.2}, {Grade: 45, Weight: 60}},
	}

	for i, entries := range cases {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, e := range entries {
			lo = math.Min(lo, e.Grade)
			hi = math.Max(hi, e.Grade)
		}

		got := AggregateEntries(entries)
		if got.Grade < lo-1e-9 || got.Grade > hi+1e-9 {
			t.Errorf("case %d: grade %v outside [%v, %v]", i, got.Grade, lo, hi)
		}
	}
}

func TestAggregateEntries_Idempotent(t *testing.T) {
	entries := []Entry{{ID: "a", Grade: 81, Weight: 20}, {ID: "b", Grade: 64, Weight: 35}}
	snapshot := append([]Entry(nil), entries...)

	first := AggregateEntries(entries)
	second := AggregateEntries(entries)
	if first != second {
		t.Errorf("aggregate not idempotent: %+v vs %+v", first, second)
	}
	for i := range entries {
		if entries[i] != snapshot[i] {
			t.Errorf("input mutated at %d: %+v", i, entries[i])
		}
	}
}
