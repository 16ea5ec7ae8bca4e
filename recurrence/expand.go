package recurrence

import (
	"errors"
	"time"
)

const (
	// DefaultPreviewLimit suits the "upcoming occurrences" summary views.
	DefaultPreviewLimit = 12
	// DefaultCalendarLimit covers a visible month plus margin.
	DefaultCalendarLimit = 100

	// maxSteps bounds the advancement loop independently of the caller's
	// limit, so expansion terminates even for rules that cannot advance.
	maxSteps = 1000
)

// ErrInvalidLimit reports a non-positive occurrence limit. That is a
// programming error in the caller, not bad rule data, so unlike field-level
// junk it is surfaced instead of degraded.
var ErrInvalidLimit = errors.New("recurrence: limit must be positive")

// Expand returns the ordered publish instants for one scheduled post: the
// anchor followed by up to limit-1 repeats. A disabled rule yields the
// anchor alone.
//
// Expansion stops at the first of: limit occurrences collected, the internal
// step cap reached, or a candidate past the end boundary. The boundary is
// the rule's end date when set, otherwise exactly one calendar year after
// the anchor; a candidate landing exactly on the boundary is kept, one past
// it is discarded. A cadence that cannot move strictly forward (unknown
// type, missing custom unit) is terminal rather than retried.
//
// Expand is pure: no clock reads, no shared state, identical inputs yield
// identical output.
func Expand(anchor time.Time, rule Rule, limit int) ([]time.Time, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	occurrences := []time.Time{anchor}
	if !rule.Enabled {
		return occurrences, nil
	}

	boundary := rule.End.boundary(anchor)
	current := anchor
	for steps := 0; len(occurrences) < limit && steps < maxSteps; steps++ {
		next, ok := advance(current, rule)
		if !ok || !next.After(current) {
			break
		}
		if next.After(boundary) {
			break
		}
		occurrences = append(occurrences, next)
		current = next
	}
	return occurrences, nil
}

// boundary resolves the effective end boundary for an expansion starting at
// anchor.
func (p EndPolicy) boundary(anchor time.Time) time.Time {
	if p.OnDate {
		return p.Until
	}
	return anchor.AddDate(1, 0, 0)
}

// advance computes the instant one cadence step after t. ok is false when
// the rule defines no forward movement.
func advance(t time.Time, rule Rule) (time.Time, bool) {
	switch rule.Cadence {
	case CadenceHourly:
		return t.Add(time.Hour), true
	case CadenceDaily:
		return t.AddDate(0, 0, 1), true
	case CadenceWeekly:
		return t.AddDate(0, 0, 7), true
	case CadenceWeekday:
		next := t.AddDate(0, 0, 1)
		for isWeekend(next) {
			next = next.AddDate(0, 0, 1)
		}
		return next, true
	case CadenceWeekend:
		next := t.AddDate(0, 0, 1)
		for !isWeekend(next) {
			next = next.AddDate(0, 0, 1)
		}
		return next, true
	case CadenceCustom:
		return advanceCustom(t, rule.Custom)
	default:
		return t, false
	}
}

func advanceCustom(t time.Time, c CustomCadence) (time.Time, bool) {
	interval := c.Interval
	if interval < 1 {
		interval = 1
	}
	switch c.Unit {
	case UnitHourly:
		return t.Add(time.Duration(interval) * time.Hour), true
	case UnitDaily:
		return t.AddDate(0, 0, interval), true
	case UnitWeekly:
		return t.AddDate(0, 0, 7*interval), true
	case UnitMonthly:
		return t.AddDate(0, interval, 0), true
	case UnitYearly:
		return t.AddDate(interval, 0, 0), true
	default:
		return t, false
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
