// Package ical renders scheduled posts as an iCalendar feed, so the
// marketing team can subscribe to the publishing plan from a desktop
// calendar. Recurring posts carry an RRULE equivalent to their rule;
// expansion itself stays in the recurrence package.
package ical

import (
	"fmt"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/listora/postqueue/recurrence"
	"github.com/listora/postqueue/schedule"
)

const productID = "-//Listora//postqueue//EN"

// Export builds an iCalendar feed with one VEVENT per scheduled post. Rules
// the expander treats as non-advancing (no cadence, custom without a unit)
// are exported as single events, keeping the feed consistent with what the
// dashboard actually schedules.
func Export(posts []schedule.Post) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, post := range posts {
		event := ical.NewComponent(ical.CompEvent)
		event.Props.SetText(ical.PropUID, post.ID.String())
		event.Props.SetText(ical.PropSummary, post.Caption)
		event.Props.SetText(ical.PropDescription, recurrence.Describe(post.Rule()))
		event.Props.SetDateTime(ical.PropDateTimeStart, post.PublishAt)
		event.Props.SetDateTime(ical.PropDateTimeStamp, post.PublishAt)

		if rr, ok := RuleString(post.Rule()); ok {
			event.Props.SetText(ical.PropRecurrenceRule, rr)
		}

		cal.Children = append(cal.Children, event)
	}
	return cal
}

// RuleString maps a recurrence rule onto an RFC 5545 RRULE value (without
// the "RRULE:" prefix). ok is false for disabled rules and for cadences
// with no defined advancement.
func RuleString(rule recurrence.Rule) (string, bool) {
	if !rule.Enabled {
		return "", false
	}

	var (
		freq     rrule.Frequency
		interval int
		byDay    []rrule.Weekday
	)

	switch rule.Cadence {
	case recurrence.CadenceHourly:
		freq = rrule.HOURLY
	case recurrence.CadenceDaily:
		freq = rrule.DAILY
	case recurrence.CadenceWeekly:
		freq = rrule.WEEKLY
	case recurrence.CadenceWeekday:
		freq = rrule.WEEKLY
		byDay = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	case recurrence.CadenceWeekend:
		freq = rrule.WEEKLY
		byDay = []rrule.Weekday{rrule.SA, rrule.SU}
	case recurrence.CadenceCustom:
		f, ok := unitFrequency(rule.Custom.Unit)
		if !ok {
			return "", false
		}
		freq = f
		interval = rule.Custom.Interval
	default:
		return "", false
	}

	parts := []string{"FREQ=" + frequencyName(freq)}
	if interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", interval))
	}
	if len(byDay) > 0 {
		dayNames := map[rrule.Weekday]string{
			rrule.MO: "MO", rrule.TU: "TU", rrule.WE: "WE", rrule.TH: "TH",
			rrule.FR: "FR", rrule.SA: "SA", rrule.SU: "SU",
		}
		days := make([]string, len(byDay))
		for i, d := range byDay {
			days[i] = dayNames[d]
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	if rule.End.OnDate {
		parts = append(parts, "UNTIL="+rule.End.Until.UTC().Format("20060102T150405Z"))
	}
	return strings.Join(parts, ";"), true
}

func unitFrequency(unit recurrence.Unit) (rrule.Frequency, bool) {
	switch unit {
	case recurrence.UnitHourly:
		return rrule.HOURLY, true
	case recurrence.UnitDaily:
		return rrule.DAILY, true
	case recurrence.UnitWeekly:
		return rrule.WEEKLY, true
	case recurrence.UnitMonthly:
		return rrule.MONTHLY, true
	case recurrence.UnitYearly:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

func frequencyName(freq rrule.Frequency) string {
	switch freq {
	case rrule.HOURLY:
		return "HOURLY"
	case rrule.DAILY:
		return "DAILY"
	case rrule.WEEKLY:
		return "WEEKLY"
	case rrule.MONTHLY:
		return "MONTHLY"
	default:
		return "YEARLY"
	}
}
