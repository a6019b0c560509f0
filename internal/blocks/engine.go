package blocks

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency represents supported block recurrence intervals.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily closes the unit every day within the rule's range.
	FrequencyDaily
	// FrequencyWeekly closes the unit on the selected weekdays.
	FrequencyWeekly
)

// Rule describes a recurring blocked period for a unit, such as a weekly
// cleaning day or a seasonal maintenance window.
type Rule struct {
	ID        string
	UnitID    string
	Label     string
	Frequency Frequency
	Weekdays  []time.Weekday
	StartsOn  time.Time
	EndsOn    *time.Time
}

// Block is one expanded closed day: [Start, End) in the engine's timezone.
type Block struct {
	RuleID string
	UnitID string
	Label  string
	Start  time.Time
	End    time.Time
}

var (
	// ErrInvalidFrequency indicates the rule frequency is not supported.
	ErrInvalidFrequency = errors.New("blocks: invalid frequency")
	// ErrInvalidWindow indicates the expansion window is empty or reversed.
	ErrInvalidWindow = errors.New("blocks: window end must be after window start")
)

// Engine expands block rules into concrete closed days.
type Engine struct {
	location *time.Location
}

// NewEngine constructs an engine that normalizes results to the provided
// location. A nil location falls back to UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{location: loc}
}

// Expand produces the closed days a rule generates within [windowStart,
// windowEnd). Each occurrence covers a whole day; the rule's EndsOn bound is
// honoured when it falls before the window end.
func (e *Engine) Expand(rule Rule, windowStart, windowEnd time.Time) ([]Block, error) {
	if !windowEnd.After(windowStart) {
		return nil, ErrInvalidWindow
	}

	freq, err := rruleFrequency(rule.Frequency)
	if err != nil {
		return nil, err
	}

	loc := e.location
	start := midnight(rule.StartsOn, loc)
	windowStart = midnight(windowStart, loc)
	windowEnd = midnight(windowEnd, loc)

	until := windowEnd.AddDate(0, 0, -1)
	if rule.EndsOn != nil {
		if ends := midnight(*rule.EndsOn, loc); ends.Before(until) {
			until = ends
		}
	}
	if until.Before(start) {
		return nil, nil
	}

	option := rrule.ROption{
		Freq:    freq,
		Dtstart: start,
		Until:   until,
	}
	if len(rule.Weekdays) > 0 {
		option.Byweekday = rruleWeekdays(rule.Weekdays)
	} else if rule.Frequency == FrequencyWeekly {
		// A weekly rule without weekday selections generates nothing.
		return nil, nil
	}

	r, err := rrule.NewRRule(option)
	if err != nil {
		return nil, err
	}

	occurrences := r.Between(windowStart, windowEnd.AddDate(0, 0, -1), true)
	out := make([]Block, 0, len(occurrences))
	for _, occ := range occurrences {
		day := midnight(occ, loc)
		out = append(out, Block{
			RuleID: rule.ID,
			UnitID: rule.UnitID,
			Label:  rule.Label,
			Start:  day,
			End:    day.AddDate(0, 0, 1),
		})
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func rruleFrequency(freq Frequency) (rrule.Frequency, error) {
	switch freq {
	case FrequencyDaily:
		return rrule.DAILY, nil
	case FrequencyWeekly:
		return rrule.WEEKLY, nil
	default:
		return 0, ErrInvalidFrequency
	}
}

var weekdayMap = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

func rruleWeekdays(days []time.Weekday) []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(days))
	for _, day := range days {
		out = append(out, weekdayMap[day])
	}
	return out
}

func midnight(t time.Time, loc *time.Location) time.Time {
	in := t.In(loc)
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, loc)
}
