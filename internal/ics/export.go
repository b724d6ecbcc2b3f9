// Package ics maps masters and overrides to and from iCalendar. Note
// the semantic mismatch at this boundary: RRULE skips months without
// the target day-of-month while daybook clamps to the last valid day,
// so a monthly 31st series exports as the closest RRULE equivalent.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/daybook-app/daybook/internal/models"
)

const icsTimeLayout = "20060102T150405Z"

// Export renders masters (with their deleted-occurrence overrides as
// EXDATEs) into a serialized iCalendar document.
func Export(items []models.Item, overrides []models.Override) (string, error) {
	deletedByParent := make(map[string][]time.Time)
	for _, ov := range overrides {
		if ov.Deleted {
			deletedByParent[ov.ParentID] = append(deletedByParent[ov.ParentID], ov.DayKey)
		}
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//daybook//daybook calendar//EN")

	for _, it := range items {
		ev := cal.AddEvent(it.ID)
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetSummary(it.Title)
		if it.Location != "" {
			ev.SetLocation(it.Location)
		}
		if it.AllDay {
			ev.SetAllDayStartAt(it.Start)
			ev.SetAllDayEndAt(it.End.AddDate(0, 0, 1))
		} else {
			ev.SetStartAt(it.Start)
			ev.SetEndAt(it.End)
		}

		if it.Repeats() {
			rule, err := ruleString(it.RecurrenceRule)
			if err != nil {
				return "", fmt.Errorf("item %s: %w", it.ID, err)
			}
			ev.AddRrule(rule)

			for _, day := range deletedByParent[it.ID] {
				// EXDATE at the occurrence's start instant on that day.
				ex := time.Date(day.Year(), day.Month(), day.Day(),
					it.Start.Hour(), it.Start.Minute(), it.Start.Second(), 0, it.Start.Location())
				ev.AddExdate(ex.UTC().Format(icsTimeLayout))
			}
		}
	}

	return cal.Serialize(), nil
}

// ruleString maps a RecurrenceRule to an RRULE property value.
func ruleString(r models.RecurrenceRule) (string, error) {
	opt := rrule.ROption{Until: r.EndRepeat.UTC()}

	switch r.Schedule {
	case models.RepeatDaily:
		opt.Freq = rrule.DAILY
	case models.RepeatWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = rruleWeekdays(r.Days)
	case models.RepeatBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
		opt.Byweekday = rruleWeekdays(r.Days)
	case models.RepeatMonthly:
		opt.Freq = rrule.MONTHLY
	case models.RepeatYearly:
		opt.Freq = rrule.YEARLY
	default:
		return "", fmt.Errorf("schedule %q does not repeat", r.Schedule)
	}

	return opt.RRuleString(), nil
}

func rruleWeekdays(days models.Weekdays) []rrule.Weekday {
	byDay := map[time.Weekday]rrule.Weekday{
		time.Sunday:    rrule.SU,
		time.Monday:    rrule.MO,
		time.Tuesday:   rrule.TU,
		time.Wednesday: rrule.WE,
		time.Thursday:  rrule.TH,
		time.Friday:    rrule.FR,
		time.Saturday:  rrule.SA,
	}
	var out []rrule.Weekday
	for _, d := range days.List() {
		out = append(out, byDay[d])
	}
	return out
}
