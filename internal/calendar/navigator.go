package calendar

import "time"

// Mode identifies which calendar projection is active.
type Mode int

const (
	// ModeMonth shows the 6x7 month grid.
	ModeMonth Mode = iota
	// ModeWeek shows the 7-day hour grid centered on the focused date.
	ModeWeek
)

// String renders the mode for logs and transport payloads.
func (m Mode) String() string {
	if m == ModeWeek {
		return "week"
	}
	return "month"
}

// ParseMode maps a transport value to a Mode, defaulting to month.
func ParseMode(raw string) Mode {
	if raw == "week" {
		return ModeWeek
	}
	return ModeMonth
}

// Navigator tracks the session's view cursor: the active mode, the reference
// month the month grid displays, and the focused date the week grid centers
// on. It is an explicit value threaded through the engine rather than a
// hidden global, so it can be exercised without a live UI runtime. All
// transitions are total functions over valid dates.
type Navigator struct {
	mode     Mode
	focused  time.Time
	refYear  int
	refMonth time.Month
	loc      *time.Location
	now      func() time.Time
}

// NewNavigator builds a navigator focused on start. A zero start focuses the
// current date reported by now; a nil now falls back to time.Now.
func NewNavigator(start time.Time, loc *time.Location, now func() time.Time) *Navigator {
	if loc == nil {
		loc = defaultLocation
	}
	if now == nil {
		now = time.Now
	}
	if start.IsZero() {
		start = now()
	}
	focused := midnight(start, loc)
	return &Navigator{
		mode:     ModeMonth,
		focused:  focused,
		refYear:  focused.Year(),
		refMonth: focused.Month(),
		loc:      loc,
		now:      now,
	}
}

// Mode returns the active projection.
func (n *Navigator) Mode() Mode { return n.mode }

// Focused returns the date the week view centers on.
func (n *Navigator) Focused() time.Time { return n.focused }

// Reference returns the first day of the month the month view displays.
func (n *Navigator) Reference() time.Time {
	return time.Date(n.refYear, n.refMonth, 1, 0, 0, 0, 0, n.loc)
}

// NextMonth advances the reference month, clamping the focused day-of-month
// to the new month's last valid day (January 31 -> February 28/29, never
// March).
func (n *Navigator) NextMonth() { n.stepMonth(1) }

// PrevMonth retreats the reference month with the same clamping rule.
func (n *Navigator) PrevMonth() { n.stepMonth(-1) }

func (n *Navigator) stepMonth(delta int) {
	first := time.Date(n.refYear, n.refMonth, 1, 0, 0, 0, 0, n.loc).AddDate(0, delta, 0)
	n.refYear, n.refMonth = first.Year(), first.Month()

	day := n.focused.Day()
	if max := daysInMonth(n.refYear, n.refMonth, n.loc); day > max {
		day = max
	}
	n.focused = time.Date(n.refYear, n.refMonth, day, 0, 0, 0, 0, n.loc)
}

// NextWeek shifts the focused date forward by exactly seven calendar days and
// re-synchronizes the reference month so month mode, if re-entered, opens on
// the month containing the new focus.
func (n *Navigator) NextWeek() { n.stepWeek(7) }

// PrevWeek shifts the focused date backward by exactly seven calendar days.
func (n *Navigator) PrevWeek() { n.stepWeek(-7) }

func (n *Navigator) stepWeek(days int) {
	n.focused = n.focused.AddDate(0, 0, days)
	n.refYear, n.refMonth = n.focused.Year(), n.focused.Month()
}

// SetMode switches projections. Entering week mode keeps the focused date
// when it already falls within the visible month; otherwise today is
// substituted if today is in the visible month, else the 1st of the visible
// month.
func (n *Navigator) SetMode(mode Mode) {
	if mode == n.mode {
		return
	}
	if mode == ModeWeek && !n.inReferenceMonth(n.focused) {
		today := midnight(n.now(), n.loc)
		if n.inReferenceMonth(today) {
			n.focused = today
		} else {
			n.focused = n.Reference()
		}
	}
	n.mode = mode
}

// ClickCell focuses the clicked date. A cell belonging to an adjacent month
// also moves the reference month to that cell's month.
func (n *Navigator) ClickCell(date time.Time) {
	n.focused = midnight(date, n.loc)
	n.refYear, n.refMonth = n.focused.Year(), n.focused.Month()
}

// Today returns the current date in the navigator's location.
func (n *Navigator) Today() time.Time {
	return midnight(n.now(), n.loc)
}

func (n *Navigator) inReferenceMonth(t time.Time) bool {
	return t.Year() == n.refYear && t.Month() == n.refMonth
}
