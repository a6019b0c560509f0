package calendar

import "time"

// Status classifies a reservation's occupancy state.
type Status string

const (
	// StatusBooked marks a confirmed stay.
	StatusBooked Status = "booked"
	// StatusPending marks a stay awaiting confirmation or payment.
	StatusPending Status = "pending"
	// StatusAvailable marks an interval explicitly opened for booking.
	StatusAvailable Status = "available"
	// StatusBlocked marks an interval closed by the host (maintenance, personal use).
	StatusBlocked Status = "blocked"
)

// ParseStatus maps a raw status string onto the closed status set. Unset or
// unrecognised values fall back to StatusBooked.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusBooked, StatusPending, StatusAvailable, StatusBlocked:
		return Status(raw)
	default:
		return StatusBooked
	}
}

// Instant is one endpoint of a stay: the raw stored representation alongside
// the calendar date parsed from it. Date is midnight in the engine's location
// and zero when the raw value carries no parseable date.
type Instant struct {
	Raw  string
	Date time.Time
}

// ReservationInterval is one booking's occupancy of a unit, immutable for the
// duration of a rendering pass.
type ReservationInterval struct {
	CheckIn     Instant
	CheckOut    Instant
	Status      Status
	GuestLabel  string
	TotalAmount float64
	ReferenceID string
}

// SpansDates reports whether both endpoints carry parseable dates, which the
// segmenter requires before the interval can touch any cell.
func (r ReservationInterval) SpansDates() bool {
	return !r.CheckIn.Date.IsZero() && !r.CheckOut.Date.IsZero()
}

// NormalizedTime is the normalizer's verdict for one instant. Hour is only
// meaningful when HasExplicitTime is true; callers substitute a view-specific
// default otherwise.
type NormalizedTime struct {
	HasExplicitTime bool
	Hour            int
}

// DayStay summarises one reservation's presence on a month-view date.
type DayStay struct {
	Reservation  *ReservationInterval
	GuestLabel   string
	RangeLabel   string
	CheckInLabel string
}

// CalendarCell is one date slot of the month grid. Cells outside the focused
// month still carry real dates so boundary-spanning stays can be evaluated.
type CalendarCell struct {
	Date           time.Time
	InFocusedMonth bool
	Today          bool
	Stays          []DayStay
}

// Segment is a reservation's contribution to one specific day of an hour
// grid. StartHour is 0 when the day is strictly interior to the stay and
// EndHour is 24; otherwise the normalized check-in/check-out hours apply.
// Invariant: 0 <= StartHour < EndHour <= 24.
type Segment struct {
	StartHour   int
	EndHour     int
	Reservation *ReservationInterval
}

// HoursPerDay is the number of hour rows in a week-view column.
const HoursPerDay = 24

// GridColumn is one day of the 7-day hour grid. Slots indexes segments by
// their start hour so renderers can place start markers without rescanning.
type GridColumn struct {
	Date     time.Time
	Segments []Segment
	Slots    [HoursPerDay][]int
}

func sameDate(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	in := t.In(loc)
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, loc)
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first.AddDate(0, 1, -1).Day()
}
