// Package ics serialises a unit's reservation calendar as an iCalendar feed
// so hosts can subscribe from external calendar clients.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/example/staybook/internal/calendar"
)

// Exporter renders reservation intervals as VEVENTs. Event times are built
// from the same normalized hours the grid uses, so the feed and the in-app
// calendar always agree.
type Exporter struct {
	normalizer *calendar.Normalizer
	segmenter  *calendar.Segmenter
	now        func() time.Time
}

// NewExporter wires an exporter over the engine's normalizer. A nil now falls
// back to time.Now; it only stamps DTSTAMP values.
func NewExporter(normalizer *calendar.Normalizer, now func() time.Time) *Exporter {
	if normalizer == nil {
		normalizer = calendar.NewNormalizer(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		normalizer: normalizer,
		segmenter:  calendar.NewSegmenter(normalizer),
		now:        now,
	}
}

// Export serialises the reservations of one unit. Intervals without
// parseable dates are skipped; everything else becomes one event spanning
// check-in to check-out with default-time substitution applied.
func (e *Exporter) Export(unitTitle string, reservations []calendar.ReservationInterval) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	stamp := e.now().UTC()
	loc := e.normalizer.Location()

	for i, r := range reservations {
		if !r.SpansDates() {
			continue
		}

		event := cal.AddEvent(eventUID(unitTitle, i, r))
		event.SetDtStampTime(stamp)
		event.SetStartAt(e.eventTime(r.CheckIn, calendar.DefaultCheckInHour, loc))
		event.SetEndAt(e.eventTime(r.CheckOut, calendar.DefaultCheckOutHour, loc))
		event.SetSummary(eventSummary(unitTitle, r))
		if r.ReferenceID != "" {
			event.SetDescription(fmt.Sprintf("Reference %s", r.ReferenceID))
		}

		switch r.Status {
		case calendar.StatusPending:
			event.SetStatus(ical.ObjectStatusTentative)
		case calendar.StatusBlocked:
			event.SetStatus(ical.ObjectStatusCancelled)
		default:
			event.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize()
}

// eventTime turns an instant into a concrete timestamp, substituting the
// view defaults when no explicit time was recorded.
func (e *Exporter) eventTime(instant calendar.Instant, fallback int, loc *time.Location) time.Time {
	hour := fallback
	if nt := e.normalizer.Normalize(instant.Raw); nt.HasExplicitTime {
		hour = nt.Hour
	}
	d := instant.Date
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
}

func eventUID(unitTitle string, index int, r calendar.ReservationInterval) string {
	if r.ReferenceID != "" {
		return fmt.Sprintf("%s@staybook", r.ReferenceID)
	}
	return fmt.Sprintf("%s-%d-%s@staybook", unitTitle, index, r.CheckIn.Date.Format("20060102"))
}

func eventSummary(unitTitle string, r calendar.ReservationInterval) string {
	label := r.GuestLabel
	if label == "" {
		label = string(r.Status)
	}
	if unitTitle == "" {
		return label
	}
	return fmt.Sprintf("%s - %s", unitTitle, label)
}
