package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/example/staybook/internal/calendar"
)

func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	n := calendar.NewNormalizer(nil)
	exporter := NewExporter(n, fixedNow)

	t.Run("serialises one event per reservation", func(t *testing.T) {
		t.Parallel()

		out := exporter.Export("Seaside Loft", []calendar.ReservationInterval{
			{
				CheckIn:     n.InstantOf("2025-06-10"),
				CheckOut:    n.InstantOf("2025-06-13T12:00:00"),
				Status:      calendar.StatusBooked,
				GuestLabel:  "Alice",
				ReferenceID: "BK-1001",
			},
			{
				CheckIn:    n.InstantOf("2025-06-20"),
				CheckOut:   n.InstantOf("2025-06-22"),
				Status:     calendar.StatusPending,
				GuestLabel: "Bob",
			},
		})

		if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
			t.Fatalf("expected 2 events, got %d\n%s", got, out)
		}
		if !strings.Contains(out, "SUMMARY:Seaside Loft - Alice") {
			t.Fatalf("missing summary:\n%s", out)
		}
		if !strings.Contains(out, "UID:BK-1001@staybook") {
			t.Fatalf("missing reference UID:\n%s", out)
		}
		if !strings.Contains(out, "STATUS:TENTATIVE") {
			t.Fatalf("pending reservation should be tentative:\n%s", out)
		}
		if !strings.Contains(out, "STATUS:CONFIRMED") {
			t.Fatalf("booked reservation should be confirmed:\n%s", out)
		}
	})

	t.Run("applies default hours to unspecified times", func(t *testing.T) {
		t.Parallel()

		out := exporter.Export("Loft", []calendar.ReservationInterval{
			{
				CheckIn:    n.InstantOf("2025-06-10"),
				CheckOut:   n.InstantOf("2025-06-12"),
				Status:     calendar.StatusBooked,
				GuestLabel: "Alice",
			},
		})

		// Check-in defaults to 14:00 and check-out to 12:00 in UTC+8; the
		// feed serialises timestamps in UTC.
		if !strings.Contains(out, "20250610T060000Z") {
			t.Fatalf("expected default check-in time in output:\n%s", out)
		}
		if !strings.Contains(out, "20250612T040000Z") {
			t.Fatalf("expected default check-out time in output:\n%s", out)
		}
	})

	t.Run("skips intervals without parseable dates", func(t *testing.T) {
		t.Parallel()

		out := exporter.Export("Loft", []calendar.ReservationInterval{
			{CheckIn: n.InstantOf("garbage"), CheckOut: n.InstantOf("2025-06-12")},
		})
		if strings.Contains(out, "BEGIN:VEVENT") {
			t.Fatalf("expected no events:\n%s", out)
		}
	})

	t.Run("empty reservation set yields a bare calendar", func(t *testing.T) {
		t.Parallel()

		out := exporter.Export("Loft", nil)
		if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
			t.Fatalf("expected a well-formed empty calendar:\n%s", out)
		}
	})
}
