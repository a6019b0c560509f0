package blocks

import (
	"testing"
	"time"
)

func utcDate(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestEngine_Expand(t *testing.T) {
	t.Parallel()

	engine := NewEngine(time.UTC)

	t.Run("weekly rule closes the selected weekdays only", func(t *testing.T) {
		t.Parallel()

		rule := Rule{
			ID:        "rule-1",
			UnitID:    "unit-1",
			Label:     "cleaning",
			Frequency: FrequencyWeekly,
			Weekdays:  []time.Weekday{time.Monday},
			StartsOn:  utcDate(t, 2025, time.June, 1),
		}

		// June 2, 9, 16, 23, 30 are the Mondays of June 2025.
		out, err := engine.Expand(rule, utcDate(t, 2025, time.June, 1), utcDate(t, 2025, time.July, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 5 {
			t.Fatalf("expected 5 blocks, got %d", len(out))
		}
		for _, block := range out {
			if block.Start.Weekday() != time.Monday {
				t.Fatalf("expected Monday, got %v", block.Start.Weekday())
			}
			if !block.End.Equal(block.Start.AddDate(0, 0, 1)) {
				t.Fatalf("expected whole-day block, got %v..%v", block.Start, block.End)
			}
			if block.RuleID != "rule-1" || block.UnitID != "unit-1" {
				t.Fatalf("block lost its rule linkage: %+v", block)
			}
		}
	})

	t.Run("daily rule honours the EndsOn bound", func(t *testing.T) {
		t.Parallel()

		ends := utcDate(t, 2025, time.June, 5)
		rule := Rule{
			Frequency: FrequencyDaily,
			StartsOn:  utcDate(t, 2025, time.June, 1),
			EndsOn:    &ends,
		}

		out, err := engine.Expand(rule, utcDate(t, 2025, time.June, 1), utcDate(t, 2025, time.July, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 5 {
			t.Fatalf("expected 5 blocks through June 5, got %d", len(out))
		}
	})

	t.Run("rejects an unspecified frequency", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Expand(Rule{StartsOn: utcDate(t, 2025, time.June, 1)},
			utcDate(t, 2025, time.June, 1), utcDate(t, 2025, time.July, 1))
		if err != ErrInvalidFrequency {
			t.Fatalf("expected ErrInvalidFrequency, got %v", err)
		}
	})

	t.Run("rejects a reversed window", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Expand(Rule{Frequency: FrequencyDaily, StartsOn: utcDate(t, 2025, time.June, 1)},
			utcDate(t, 2025, time.July, 1), utcDate(t, 2025, time.June, 1))
		if err != ErrInvalidWindow {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})

	t.Run("weekly rule without weekdays generates nothing", func(t *testing.T) {
		t.Parallel()

		out, err := engine.Expand(Rule{Frequency: FrequencyWeekly, StartsOn: utcDate(t, 2025, time.June, 1)},
			utcDate(t, 2025, time.June, 1), utcDate(t, 2025, time.July, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != nil {
			t.Fatalf("expected no blocks, got %d", len(out))
		}
	})

	t.Run("rule ending before the window generates nothing", func(t *testing.T) {
		t.Parallel()

		ends := utcDate(t, 2025, time.May, 1)
		rule := Rule{Frequency: FrequencyDaily, StartsOn: utcDate(t, 2025, time.April, 1), EndsOn: &ends}

		out, err := engine.Expand(rule, utcDate(t, 2025, time.June, 1), utcDate(t, 2025, time.July, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != nil {
			t.Fatalf("expected no blocks, got %d", len(out))
		}
	})
}
