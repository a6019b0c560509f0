package calendar

import (
	"testing"
	"time"
)

func sgt(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("SGT", 8*60*60)
}

func date(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, sgt(t))
}

func TestBuildMonth(t *testing.T) {
	t.Parallel()

	t.Run("always yields at least six sunday-first rows", func(t *testing.T) {
		t.Parallel()

		// February 2026 starts on a Sunday and has 28 days: exactly four
		// natural rows, padded up to six.
		cells := BuildMonth(date(t, 2026, time.February, 1), time.Time{})
		if len(cells) != 42 {
			t.Fatalf("expected 42 cells, got %d", len(cells))
		}
		if cells[0].Date.Weekday() != time.Sunday {
			t.Fatalf("expected Sunday-first grid, got %v", cells[0].Date.Weekday())
		}
		if got := cells[0].Date; !got.Equal(date(t, 2026, time.February, 1)) {
			t.Fatalf("expected grid to start on Feb 1, got %v", got)
		}
	})

	t.Run("backfills the leading weekday offset from the previous month", func(t *testing.T) {
		t.Parallel()

		// June 1 2025 is a Sunday; July 1 2025 is a Tuesday.
		cells := BuildMonth(date(t, 2025, time.July, 15), time.Time{})
		if got := cells[0].Date; !got.Equal(date(t, 2025, time.June, 29)) {
			t.Fatalf("expected first cell June 29, got %v", got)
		}
		if cells[0].InFocusedMonth {
			t.Fatal("previous-month cell must not be flagged as in the focused month")
		}
		if !cells[2].InFocusedMonth {
			t.Fatalf("July 1 cell should be in focused month, got %+v", cells[2])
		}
	})

	t.Run("adjacent-month cells carry real dates", func(t *testing.T) {
		t.Parallel()

		cells := BuildMonth(date(t, 2025, time.July, 1), time.Time{})
		for _, cell := range cells {
			if cell.Date.IsZero() {
				t.Fatal("every cell must carry a real date")
			}
		}
		last := cells[len(cells)-1]
		if last.InFocusedMonth {
			t.Fatalf("trailing pad cell should belong to the next month, got %v", last.Date)
		}
	})

	t.Run("cell count is always a multiple of seven", func(t *testing.T) {
		t.Parallel()

		for month := time.January; month <= time.December; month++ {
			cells := BuildMonth(date(t, 2025, month, 10), time.Time{})
			if len(cells)%7 != 0 {
				t.Fatalf("%v: %d cells is not a multiple of 7", month, len(cells))
			}
			if len(cells) < 42 {
				t.Fatalf("%v: expected at least 42 cells, got %d", month, len(cells))
			}
		}
	})

	t.Run("marks today", func(t *testing.T) {
		t.Parallel()

		today := date(t, 2025, time.July, 9)
		cells := BuildMonth(date(t, 2025, time.July, 1), today)
		marked := 0
		for _, cell := range cells {
			if cell.Today {
				marked++
				if !cell.Date.Equal(today) {
					t.Fatalf("wrong cell marked as today: %v", cell.Date)
				}
			}
		}
		if marked != 1 {
			t.Fatalf("expected exactly one today cell, got %d", marked)
		}
	})
}

func TestBuildWeek(t *testing.T) {
	t.Parallel()

	t.Run("centers the focused date at index three", func(t *testing.T) {
		t.Parallel()

		for day := 1; day <= 14; day++ {
			focused := date(t, 2025, time.June, day)
			columns := BuildWeek(focused)
			if len(columns) != 7 {
				t.Fatalf("expected 7 columns, got %d", len(columns))
			}
			if !columns[3].Date.Equal(focused) {
				t.Fatalf("day %d: expected focused date at index 3, got %v", day, columns[3].Date)
			}
		}
	})

	t.Run("spans three days either side", func(t *testing.T) {
		t.Parallel()

		columns := BuildWeek(date(t, 2025, time.June, 10))
		if !columns[0].Date.Equal(date(t, 2025, time.June, 7)) {
			t.Fatalf("expected first column June 7, got %v", columns[0].Date)
		}
		if !columns[6].Date.Equal(date(t, 2025, time.June, 13)) {
			t.Fatalf("expected last column June 13, got %v", columns[6].Date)
		}
	})

	t.Run("crosses month boundaries", func(t *testing.T) {
		t.Parallel()

		columns := BuildWeek(date(t, 2025, time.July, 1))
		if !columns[0].Date.Equal(date(t, 2025, time.June, 28)) {
			t.Fatalf("expected first column June 28, got %v", columns[0].Date)
		}
	})
}
