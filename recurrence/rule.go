package recurrence

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Cadence identifies how often a scheduled post repeats.
type Cadence string

const (
	CadenceNone    Cadence = ""
	CadenceHourly  Cadence = "hourly"
	CadenceDaily   Cadence = "daily"
	CadenceWeekday Cadence = "weekday"
	CadenceWeekend Cadence = "weekend"
	CadenceWeekly  Cadence = "weekly"
	CadenceCustom  Cadence = "custom"
)

// Unit is the calendar unit a custom cadence advances by.
type Unit string

const (
	UnitNone    Unit = ""
	UnitHourly  Unit = "hourly"
	UnitDaily   Unit = "daily"
	UnitWeekly  Unit = "weekly"
	UnitMonthly Unit = "monthly"
	UnitYearly  Unit = "yearly"
)

// EndPolicy bounds a recurrence. The zero value means "never", which still
// caps expansion at one calendar year past the anchor.
type EndPolicy struct {
	OnDate bool
	Until  time.Time
}

// CustomCadence describes a "every N units" repeat. A missing or
// unrecognized Unit defines no advancement; an Interval below 1 is treated
// as 1 during expansion.
type CustomCadence struct {
	Unit     Unit
	Interval int
}

// Rule is the validated repeat policy attached to one scheduled post.
// Rules are immutable value types; expansion never modifies them. The zero
// value is a disabled rule producing a single occurrence.
type Rule struct {
	Enabled bool
	Cadence Cadence
	End     EndPolicy
	Custom  CustomCadence
}

// ParseRule turns a loosely-typed payload (persisted JSON, a form body) into
// a Rule. The rule is active only when the payload's "enabled" field is the
// boolean true; a missing field, false, or any truthy non-boolean yields
// None, so malformed data can never switch recurrence on. Field-level junk
// is dropped rather than rejected; this function never fails.
func ParseRule(raw map[string]any) mo.Option[Rule] {
	if raw == nil {
		return mo.None[Rule]()
	}
	enabled, ok := raw["enabled"].(bool)
	if !ok || !enabled {
		return mo.None[Rule]()
	}

	rule := Rule{Enabled: true}

	if s, ok := raw["type"].(string); ok {
		rule.Cadence = parseCadence(s)
	}
	if s, ok := raw["endType"].(string); ok && s == "date" {
		if ds, ok := raw["endDate"].(string); ok {
			if until, ok := parseEndDate(ds); ok {
				rule.End = EndPolicy{OnDate: true, Until: until}
			}
		}
	}
	if s, ok := raw["customFrequency"].(string); ok {
		rule.Custom.Unit = parseUnit(s)
	}
	if n, ok := parseNumber(raw["customInterval"]); ok {
		rule.Custom.Interval = n
	}

	return mo.Some(rule)
}

func parseCadence(s string) Cadence {
	switch Cadence(s) {
	case CadenceHourly, CadenceDaily, CadenceWeekday, CadenceWeekend, CadenceWeekly, CadenceCustom:
		return Cadence(s)
	default:
		return CadenceNone
	}
}

func parseUnit(s string) Unit {
	switch Unit(s) {
	case UnitHourly, UnitDaily, UnitWeekly, UnitMonthly, UnitYearly:
		return Unit(s)
	default:
		return UnitNone
	}
}

// parseEndDate accepts RFC 3339 instants and bare dates. A bare date bounds
// the recurrence inclusively through the end of that day in UTC.
func parseEndDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), true
	}
	return time.Time{}, false
}

// parseNumber tolerates the numeric types JSON decoding and form handling
// produce. Anything else is treated as absent.
func parseNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Fingerprint returns a stable textual form of the rule, usable as part of a
// memoization key alongside the anchor and limit.
func (r Rule) Fingerprint() string {
	until := "never"
	if r.End.OnDate {
		until = r.End.Until.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%t|%s|%s|%s|%d", r.Enabled, r.Cadence, until, r.Custom.Unit, r.Custom.Interval)
}
