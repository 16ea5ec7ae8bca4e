package recurrence

import (
	"fmt"
	"time"
)

// Describe maps a rule to the short phrase the dashboard shows next to a
// scheduled post, e.g. "Every 3 weeks until 2026-04-08".
func Describe(rule Rule) string {
	if !rule.Enabled {
		return "Does not repeat"
	}

	var phrase string
	switch rule.Cadence {
	case CadenceHourly:
		phrase = "Every hour"
	case CadenceDaily:
		phrase = "Every day"
	case CadenceWeekday:
		phrase = "Every weekday"
	case CadenceWeekend:
		phrase = "Every weekend"
	case CadenceWeekly:
		phrase = "Every week"
	case CadenceCustom:
		phrase = describeCustom(rule.Custom)
	default:
		return "Does not repeat"
	}

	if rule.End.OnDate {
		phrase += " until " + rule.End.Until.UTC().Format(time.DateOnly)
	}
	return phrase
}

func describeCustom(c CustomCadence) string {
	var noun string
	switch c.Unit {
	case UnitHourly:
		noun = "hour"
	case UnitDaily:
		noun = "day"
	case UnitWeekly:
		noun = "week"
	case UnitMonthly:
		noun = "month"
	case UnitYearly:
		noun = "year"
	default:
		return "Custom schedule"
	}

	interval := c.Interval
	if interval < 1 {
		interval = 1
	}
	if interval == 1 {
		return "Every " + noun
	}
	return fmt.Sprintf("Every %d %ss", interval, noun)
}
