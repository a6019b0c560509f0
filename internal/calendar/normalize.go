package calendar

import (
	"strings"
	"time"
)

// Raw timestamps arrive in a handful of shapes: bare dates, local date-time
// combinations, zoned RFC 3339 values, and occasionally a stray clock
// fragment. Layouts are tried in order; the first match wins.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

var dateOnlyLayouts = []string{
	"2006-01-02",
	"2006/01/02",
}

var clockOnlyLayouts = []string{
	"15:04:05",
	"15:04",
}

// defaultLocation is the fallback target timezone (UTC+8). With this offset a
// UTC-midnight placeholder re-expresses as 08:00 local, which is the pattern
// the placeholder heuristic screens out.
var defaultLocation = time.FixedZone("SGT", 8*60*60)

// Normalizer converts raw stored timestamp values into either a concrete
// hour-of-day in a fixed target timezone or an "unspecified" verdict. It is a
// pure function of its input and the configured location.
type Normalizer struct {
	loc             *time.Location
	placeholderHour int
}

// NewNormalizer builds a normalizer targeting the given location. A nil
// location selects the UTC+8 default.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = defaultLocation
	}
	// A UTC-midnight value stored by upstream systems as a "no time chosen"
	// placeholder converts to this hour in the target zone.
	placeholder := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).In(loc).Hour()
	return &Normalizer{loc: loc, placeholderHour: placeholder}
}

// Location returns the normalizer's target timezone.
func (n *Normalizer) Location() *time.Location {
	if n == nil || n.loc == nil {
		return defaultLocation
	}
	return n.loc
}

// Normalize classifies a raw timestamp value. Values without a time
// component, malformed values, and recognised placeholder encodings all
// degrade to HasExplicitTime == false; there are no error conditions.
//
// The placeholder heuristic treats a literal 00:00:00 clock, a converted hour
// of 0, and a converted hour matching the UTC-midnight pattern as
// "unspecified". A guest who genuinely checks in at local midnight (or at the
// UTC-midnight equivalent hour) is indistinguishable from a missing value;
// that false negative is accepted and documented rather than patched over.
func (n *Normalizer) Normalize(raw string) NormalizedTime {
	parsed, hasTime, ok := n.parse(raw)
	if !ok || !hasTime {
		return NormalizedTime{}
	}

	if parsed.Hour() == 0 && parsed.Minute() == 0 && parsed.Second() == 0 {
		return NormalizedTime{}
	}

	hour := parsed.In(n.Location()).Hour()
	if hour == 0 || hour == n.placeholderHour {
		return NormalizedTime{}
	}

	return NormalizedTime{HasExplicitTime: true, Hour: hour}
}

// DateOf extracts the calendar date from a raw value as midnight in the
// target timezone. The zero time is returned when no date is present.
func (n *Normalizer) DateOf(raw string) time.Time {
	parsed, _, ok := n.parse(raw)
	if !ok || parsed.Year() == 0 {
		return time.Time{}
	}
	in := parsed.In(n.Location())
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, n.Location())
}

// InstantOf bundles the raw representation with its parsed date.
func (n *Normalizer) InstantOf(raw string) Instant {
	return Instant{Raw: raw, Date: n.DateOf(raw)}
}

// parse attempts the known layouts. The boolean results report whether a time
// component was present and whether parsing succeeded at all.
func (n *Normalizer) parse(raw string) (parsed time.Time, hasTime bool, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false, false
	}

	loc := n.Location()

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true, true
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, false, true
		}
	}
	for _, layout := range clockOnlyLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true, true
		}
	}

	return time.Time{}, false, false
}
