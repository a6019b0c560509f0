package calendar

import "time"

// minMonthCells keeps the month grid at a stable six rows regardless of the
// month's length and weekday offset.
const minMonthCells = 6 * 7

// weekSpan is the number of columns in the hour grid; the focused date sits
// in the middle at index weekCenter.
const (
	weekSpan   = 7
	weekCenter = 3
)

// BuildMonth produces the Sunday-first month grid containing reference. Cells
// belonging to the previous or next month are flagged InFocusedMonth == false
// but carry real dates so boundary-spanning stays still evaluate. The result
// is always a multiple of seven cells and never fewer than 42. today may be
// zero when no current-day highlight is wanted.
func BuildMonth(reference, today time.Time) []CalendarCell {
	loc := reference.Location()
	first := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, loc)

	offset := int(first.Weekday())
	total := offset + daysInMonth(first.Year(), first.Month(), loc)
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}
	if total < minMonthCells {
		total = minMonthCells
	}

	cells := make([]CalendarCell, 0, total)
	cursor := first.AddDate(0, 0, -offset)
	for i := 0; i < total; i++ {
		cells = append(cells, CalendarCell{
			Date:           cursor,
			InFocusedMonth: cursor.Month() == first.Month() && cursor.Year() == first.Year(),
			Today:          sameDate(cursor, today),
		})
		cursor = cursor.AddDate(0, 0, 1)
	}
	return cells
}

// BuildWeek produces the seven hour-grid columns centered on focused: three
// days before through three days after. Centering on the focused date rather
// than aligning to calendar weeks keeps the clicked or current date visually
// centered regardless of weekday.
func BuildWeek(focused time.Time) []GridColumn {
	start := midnight(focused, focused.Location())
	columns := make([]GridColumn, 0, weekSpan)
	for i := -weekCenter; i <= weekSpan-1-weekCenter; i++ {
		columns = append(columns, GridColumn{Date: start.AddDate(0, 0, i)})
	}
	return columns
}
