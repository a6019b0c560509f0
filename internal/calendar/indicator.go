package calendar

import "time"

// Geometry captures the fixed pixel metrics of the hour grid. The engine does
// no drawing itself; it converts times into offsets that the host renderer
// positions absolutely.
type Geometry struct {
	// RowHeight is the height of one hour row.
	RowHeight float64
	// HeaderHeight is the height of the grid's header band, added on top of
	// the in-grid vertical offset.
	HeaderHeight float64
	// ColumnWidth is the width of one day column.
	ColumnWidth float64
}

// Indicator is the computed placement of the current-time line.
type Indicator struct {
	// Column is the index of the visible column whose date is today.
	Column int
	// Top is the absolute vertical offset including the header band.
	Top float64
	// Left is the horizontal offset of the column relative to the current
	// scroll position.
	Left float64
}

// Position places the current-time indicator within the given week columns.
// The indicator only exists in the column whose date equals now's date; when
// today is not among the visible columns it is suppressed entirely rather
// than clamped to an edge. Left is computed against scrollOffset so the
// caller must re-invoke on every scroll event, not only on clock ticks.
// Minute precision is sufficient: the smallest row unit is one hour.
func (g Geometry) Position(now time.Time, columns []GridColumn, scrollOffset float64) (Indicator, bool) {
	column := -1
	for i := range columns {
		if sameDate(columns[i].Date, now) {
			column = i
			break
		}
	}
	if column < 0 {
		return Indicator{}, false
	}

	minutes := float64(now.Hour()*60 + now.Minute())
	return Indicator{
		Column: column,
		Top:    g.HeaderHeight + minutes/60*g.RowHeight,
		Left:   float64(column)*g.ColumnWidth - scrollOffset,
	}, true
}
