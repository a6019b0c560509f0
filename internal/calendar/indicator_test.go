package calendar

import (
	"testing"
	"time"
)

func TestGeometry_Position(t *testing.T) {
	t.Parallel()

	geometry := Geometry{RowHeight: 48, HeaderHeight: 72, ColumnWidth: 160}

	t.Run("places the line within today's column", func(t *testing.T) {
		t.Parallel()

		columns := BuildWeek(date(t, 2025, time.June, 11))
		now := time.Date(2025, time.June, 11, 9, 30, 0, 0, sgt(t))

		indicator, ok := geometry.Position(now, columns, 0)
		if !ok {
			t.Fatal("expected indicator to be shown")
		}
		if indicator.Column != 3 {
			t.Fatalf("expected focused column 3, got %d", indicator.Column)
		}
		// 9h30m = 9.5 rows of 48px plus the 72px header.
		if want := 72 + 9.5*48; indicator.Top != want {
			t.Fatalf("expected top %v, got %v", want, indicator.Top)
		}
		if want := 3 * 160.0; indicator.Left != want {
			t.Fatalf("expected left %v, got %v", want, indicator.Left)
		}
	})

	t.Run("re-anchors against the scroll offset", func(t *testing.T) {
		t.Parallel()

		columns := BuildWeek(date(t, 2025, time.June, 11))
		now := time.Date(2025, time.June, 11, 9, 30, 0, 0, sgt(t))

		indicator, ok := geometry.Position(now, columns, 100)
		if !ok {
			t.Fatal("expected indicator to be shown")
		}
		if want := 3*160.0 - 100; indicator.Left != want {
			t.Fatalf("expected left %v, got %v", want, indicator.Left)
		}
	})

	t.Run("suppresses the line when today is not visible", func(t *testing.T) {
		t.Parallel()

		columns := BuildWeek(date(t, 2025, time.June, 11))
		now := time.Date(2025, time.June, 20, 9, 30, 0, 0, sgt(t))

		if _, ok := geometry.Position(now, columns, 0); ok {
			t.Fatal("expected indicator to be suppressed, not clamped")
		}
	})

	t.Run("midnight sits at the top of the first row", func(t *testing.T) {
		t.Parallel()

		columns := BuildWeek(date(t, 2025, time.June, 11))
		now := time.Date(2025, time.June, 11, 0, 0, 0, 0, sgt(t))

		indicator, ok := geometry.Position(now, columns, 0)
		if !ok {
			t.Fatal("expected indicator to be shown")
		}
		if indicator.Top != geometry.HeaderHeight {
			t.Fatalf("expected top %v, got %v", geometry.HeaderHeight, indicator.Top)
		}
	})
}
