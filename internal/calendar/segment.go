package calendar

import (
	"fmt"
	"sort"
	"time"
)

// Default hours substituted whenever the normalizer reports no explicit time.
const (
	DefaultCheckInHour  = 14
	DefaultCheckOutHour = 12
)

// Segmenter renders reservation intervals onto grid cells. Month cells use
// nights-stayed occupancy (checkout date excluded); hour-grid columns include
// the checkout date so the checkout morning still shows a visible block.
type Segmenter struct {
	normalizer      *Normalizer
	checkInDefault  int
	checkOutDefault int
}

// NewSegmenter builds a segmenter over the given normalizer with the standard
// 14:00 / 12:00 default substitution hours.
func NewSegmenter(normalizer *Normalizer) *Segmenter {
	return &Segmenter{
		normalizer:      normalizer,
		checkInDefault:  DefaultCheckInHour,
		checkOutDefault: DefaultCheckOutHour,
	}
}

// SetDefaultHours overrides the substitution hours used when a timestamp has
// no explicit time. Out-of-range values are ignored.
func (s *Segmenter) SetDefaultHours(checkIn, checkOut int) {
	if checkIn >= 0 && checkIn < HoursPerDay {
		s.checkInDefault = checkIn
	}
	if checkOut > 0 && checkOut <= HoursPerDay {
		s.checkOutDefault = checkOut
	}
}

// SegmentMonth annotates month cells with the reservations occupying them. A
// reservation occupies date d iff checkInDate <= d < checkOutDate. Each cell
// holds at most one stay: the first matching reservation in fetch order wins.
// That is a deliberate simplification carried over from the original month
// view, not an oversight.
func (s *Segmenter) SegmentMonth(reservations []ReservationInterval, cells []CalendarCell) []CalendarCell {
	for i := range cells {
		cells[i].Stays = nil
		for j := range reservations {
			r := &reservations[j]
			if !r.SpansDates() {
				continue
			}
			if !s.occupiesNight(*r, cells[i].Date) {
				continue
			}
			cells[i].Stays = append(cells[i].Stays, s.dayStay(r))
			break
		}
	}
	return cells
}

// SegmentWeek annotates hour-grid columns. A reservation occupies date d iff
// checkInDate <= d <= checkOutDate. Segments are ordered by effective start
// hour with fetch order breaking ties; overlapping reservations stack rather
// than replace one another.
func (s *Segmenter) SegmentWeek(reservations []ReservationInterval, columns []GridColumn) []GridColumn {
	for i := range columns {
		date := columns[i].Date
		segments := make([]Segment, 0)
		for j := range reservations {
			r := &reservations[j]
			if !r.SpansDates() {
				continue
			}
			if date.Before(r.CheckIn.Date) || date.After(r.CheckOut.Date) {
				continue
			}
			start, end := s.hoursFor(*r, date)
			segments = append(segments, Segment{StartHour: start, EndHour: end, Reservation: r})
		}

		sort.SliceStable(segments, func(a, b int) bool {
			return segments[a].StartHour < segments[b].StartHour
		})

		columns[i].Segments = segments
		for slot := range columns[i].Slots {
			columns[i].Slots[slot] = nil
		}
		for idx, seg := range segments {
			columns[i].Slots[seg.StartHour] = append(columns[i].Slots[seg.StartHour], idx)
		}
	}
	return columns
}

// occupiesNight applies the checkout-exclusive month rule.
func (s *Segmenter) occupiesNight(r ReservationInterval, date time.Time) bool {
	return !date.Before(r.CheckIn.Date) && date.Before(r.CheckOut.Date)
}

// hoursFor computes a day's segment bounds. Interior days span the whole day;
// boundary days use the normalized hour with default substitution. Same-day
// stays apply both bounds at once, and a degenerate ordering (for example
// default check-in 14:00 against default check-out 12:00 on one date) is
// clamped to a minimum one-hour block so the segment invariant holds.
func (s *Segmenter) hoursFor(r ReservationInterval, date time.Time) (start, end int) {
	start, end = 0, HoursPerDay

	if sameDate(date, r.CheckIn.Date) {
		start = s.effectiveHour(r.CheckIn.Raw, s.checkInDefault)
	}
	if sameDate(date, r.CheckOut.Date) {
		end = s.effectiveHour(r.CheckOut.Raw, s.checkOutDefault)
	}

	if end <= start {
		end = start + 1
		if end > HoursPerDay {
			start, end = HoursPerDay-1, HoursPerDay
		}
	}
	return start, end
}

func (s *Segmenter) effectiveHour(raw string, fallback int) int {
	nt := s.normalizer.Normalize(raw)
	if !nt.HasExplicitTime {
		return fallback
	}
	return nt.Hour
}

func (s *Segmenter) dayStay(r *ReservationInterval) DayStay {
	return DayStay{
		Reservation:  r,
		GuestLabel:   r.GuestLabel,
		RangeLabel:   rangeLabel(r.CheckIn.Date, r.CheckOut.Date),
		CheckInLabel: fmt.Sprintf("%02d:00", s.effectiveHour(r.CheckIn.Raw, s.checkInDefault)),
	}
}

// rangeLabel formats a compact stay range, eliding the month when both
// endpoints share it.
func rangeLabel(in, out time.Time) string {
	if in.IsZero() || out.IsZero() {
		return ""
	}
	if in.Month() == out.Month() && in.Year() == out.Year() {
		return fmt.Sprintf("%s %d–%d", in.Month().String()[:3], in.Day(), out.Day())
	}
	return fmt.Sprintf("%s %d – %s %d", in.Month().String()[:3], in.Day(), out.Month().String()[:3], out.Day())
}
