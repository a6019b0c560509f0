package calendar

import "time"

// DefaultGeometry matches the layout metrics of the reference renderer.
var DefaultGeometry = Geometry{RowHeight: 48, HeaderHeight: 72, ColumnWidth: 160}

// ViewConfig collects the collaborators a View needs. Zero-value fields pick
// engine defaults.
type ViewConfig struct {
	Normalizer *Normalizer
	Segmenter  *Segmenter
	Geometry   Geometry
	Start      time.Time
	Now        func() time.Time
}

// View is one calendar session: an immutable reservation snapshot, the
// navigation cursor, and the geometry needed to place the current-time
// indicator. All recomputation is synchronous; the host invokes Render on
// clock ticks, scroll events, and after any navigation call.
type View struct {
	nav          *Navigator
	normalizer   *Normalizer
	segmenter    *Segmenter
	geometry     Geometry
	now          func() time.Time
	reservations []ReservationInterval
	scroll       float64
}

// NewView builds a calendar session.
func NewView(cfg ViewConfig) *View {
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	segmenter := cfg.Segmenter
	if segmenter == nil {
		segmenter = NewSegmenter(normalizer)
	}
	geometry := cfg.Geometry
	if geometry == (Geometry{}) {
		geometry = DefaultGeometry
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &View{
		nav:        NewNavigator(cfg.Start, normalizer.Location(), now),
		normalizer: normalizer,
		segmenter:  segmenter,
		geometry:   geometry,
		now:        now,
	}
}

// SetReservations replaces the session's reservation snapshot. The snapshot
// is treated as immutable until the next call; the engine never mutates the
// intervals themselves.
func (v *View) SetReservations(reservations []ReservationInterval) {
	snapshot := make([]ReservationInterval, len(reservations))
	copy(snapshot, reservations)
	v.reservations = snapshot
}

// SetScroll records the horizontal scroll offset of the hour grid so the
// indicator re-anchors on the next render.
func (v *View) SetScroll(offset float64) { v.scroll = offset }

// Navigator exposes the session's navigation cursor.
func (v *View) Navigator() *Navigator { return v.nav }

// RenderState is the per-frame projection handed to the surrounding UI.
// Exactly one of MonthCells or WeekColumns is populated depending on Mode.
type RenderState struct {
	Mode        Mode
	Reference   time.Time
	Focused     time.Time
	MonthCells  []CalendarCell
	WeekColumns []GridColumn
	Indicator   *Indicator
}

// Render recomputes the active grid with segments attached and, in week mode,
// the current-time indicator. It reads only the immutable snapshot and the
// navigation cursor, so it is safe to call from any single-threaded event
// source at any frequency.
func (v *View) Render() RenderState {
	state := RenderState{
		Mode:      v.nav.Mode(),
		Reference: v.nav.Reference(),
		Focused:   v.nav.Focused(),
	}

	now := v.now().In(v.normalizer.Location())

	switch state.Mode {
	case ModeWeek:
		columns := BuildWeek(v.nav.Focused())
		state.WeekColumns = v.segmenter.SegmentWeek(v.reservations, columns)
		if indicator, ok := v.geometry.Position(now, state.WeekColumns, v.scroll); ok {
			state.Indicator = &indicator
		}
	default:
		cells := BuildMonth(v.nav.Reference(), midnight(now, v.normalizer.Location()))
		state.MonthCells = v.segmenter.SegmentMonth(v.reservations, cells)
	}

	return state
}
