package main

import (
	"math"
	"testing"
	"time"
)

func weightsOn(days []int, kgs []float64) []weightEntry {
	entries := make([]weightEntry, len(days))
	for i := range days {
		entries[i] = weightEntry{
			ID:       i + 1,
			UserID:   1,
			Date:     DateOnly{time.Date(2026, 8, days[i], 0, 0, 0, 0, time.UTC)},
			WeightKG: kgs[i],
		}
	}
	return entries
}

// TestTrendAverage verifies the window mean and that short histories use
// whatever is available.
func TestTrendAverage(t *testing.T) {
	entries := weightsOn([]int{1, 2, 3, 4}, []float64{85, 84, 83, 82})

	avg, ok := trendAverage(entries, 7)
	if !ok || avg != 83.5 {
		t.Errorf("trendAverage over all = %.2f ok=%v, want 83.50", avg, ok)
	}

	avg, ok = trendAverage(entries, 2)
	if !ok || avg != 82.5 {
		t.Errorf("trendAverage last 2 = %.2f ok=%v, want 82.50", avg, ok)
	}

	if _, ok := trendAverage(nil, 7); ok {
		t.Error("expected ok=false for empty history")
	}
}

// TestObservedRate verifies the loss rate from first/last entries:
// 1.0 kg over 7 days is 1.0 kg/week.
func TestObservedRate(t *testing.T) {
	entries := weightsOn([]int{1, 8}, []float64{85, 84})
	rate, ok := observedRate(entries)
	if !ok || math.Abs(rate-1.0) > 1e-9 {
		t.Errorf("observedRate = %.4f ok=%v, want 1.0", rate, ok)
	}

	if _, ok := observedRate(entries[:1]); ok {
		t.Error("expected ok=false with a single entry")
	}

	// Two entries on the same date: no elapsed time, no rate.
	same := weightsOn([]int{5, 5}, []float64{85, 84})
	if _, ok := observedRate(same); ok {
		t.Error("expected ok=false for zero elapsed days")
	}
}

// TestProjectGoalDate verifies the projected date arithmetic: 6 kg remaining
// at 0.5 kg/week is 12 weeks (84 days) out.
func TestProjectGoalDate(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	when, weeks, ok := projectGoalDate(84, 78, 0.5, today)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if weeks != 12 {
		t.Errorf("weeks = %.2f, want 12", weeks)
	}
	if want := today.AddDate(0, 0, 84); !when.Equal(want) {
		t.Errorf("projected date = %v, want %v", when, want)
	}
}

// TestProjectGoalDate_DegenerateInputs verifies ok=false when the goal is
// already met or the rate is non-positive.
func TestProjectGoalDate_DegenerateInputs(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if _, _, ok := projectGoalDate(78, 78, 0.5, today); ok {
		t.Error("expected ok=false when already at target")
	}
	if _, _, ok := projectGoalDate(76, 78, 0.5, today); ok {
		t.Error("expected ok=false when below target")
	}
	if _, _, ok := projectGoalDate(84, 78, 0, today); ok {
		t.Error("expected ok=false for zero rate")
	}
}
