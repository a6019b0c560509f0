package availability

import (
	"testing"
	"time"
)

func day(t *testing.T, d int) time.Time {
	t.Helper()
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestDetectOverlaps(t *testing.T) {
	t.Parallel()

	existing := []Stay{
		{ReservationID: "r1", UnitID: "unit-1", Status: "booked", CheckIn: day(t, 10), CheckOut: day(t, 13)},
		{ReservationID: "r2", UnitID: "unit-2", Status: "booked", CheckIn: day(t, 10), CheckOut: day(t, 13)},
		{ReservationID: "r3", UnitID: "unit-1", Status: "available", CheckIn: day(t, 10), CheckOut: day(t, 20)},
	}

	t.Run("flags intersecting nights of the same unit", func(t *testing.T) {
		t.Parallel()

		overlaps := DetectOverlaps(existing, Stay{
			UnitID: "unit-1", Status: "booked", CheckIn: day(t, 12), CheckOut: day(t, 14),
		})
		if len(overlaps) != 1 {
			t.Fatalf("expected 1 overlap, got %d", len(overlaps))
		}
		if overlaps[0].WithReservationID != "r1" {
			t.Fatalf("expected overlap with r1, got %q", overlaps[0].WithReservationID)
		}
	})

	t.Run("back-to-back stays do not collide", func(t *testing.T) {
		t.Parallel()

		overlaps := DetectOverlaps(existing, Stay{
			UnitID: "unit-1", Status: "booked", CheckIn: day(t, 13), CheckOut: day(t, 15),
		})
		if overlaps != nil {
			t.Fatalf("expected no overlaps, got %v", overlaps)
		}
	})

	t.Run("other units never collide", func(t *testing.T) {
		t.Parallel()

		overlaps := DetectOverlaps(existing, Stay{
			UnitID: "unit-3", Status: "booked", CheckIn: day(t, 10), CheckOut: day(t, 13),
		})
		if overlaps != nil {
			t.Fatalf("expected no overlaps, got %v", overlaps)
		}
	})

	t.Run("available intervals are transparent", func(t *testing.T) {
		t.Parallel()

		overlaps := DetectOverlaps(existing, Stay{
			UnitID: "unit-1", Status: "booked", CheckIn: day(t, 15), CheckOut: day(t, 18),
		})
		if overlaps != nil {
			t.Fatalf("expected the open interval to be ignored, got %v", overlaps)
		}
	})

	t.Run("a reservation never overlaps itself on update", func(t *testing.T) {
		t.Parallel()

		overlaps := DetectOverlaps(existing, Stay{
			ReservationID: "r1", UnitID: "unit-1", Status: "booked", CheckIn: day(t, 10), CheckOut: day(t, 13),
		})
		if overlaps != nil {
			t.Fatalf("expected no self overlap, got %v", overlaps)
		}
	})

	t.Run("unparseable candidate dates disable detection", func(t *testing.T) {
		t.Parallel()

		overlaps := DetectOverlaps(existing, Stay{UnitID: "unit-1", Status: "booked"})
		if overlaps != nil {
			t.Fatalf("expected nil, got %v", overlaps)
		}
	})
}
