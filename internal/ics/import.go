package ics

import (
	"errors"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
)

// ImportedEvent is a VEVENT normalized into daybook's recurrence model,
// ready to be persisted as a master item.
type ImportedEvent struct {
	UID      string
	Title    string
	Location string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Rule     models.RecurrenceRule
}

// Parse reads an iCalendar stream and maps each supported VEVENT into
// an ImportedEvent. Events with recurrence rules daybook cannot express
// are skipped with a warning rather than failing the whole import.
func Parse(r io.Reader) ([]ImportedEvent, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}

	var out []ImportedEvent
	for _, ve := range cal.Events() {
		ev, err := parseEvent(ve)
		if err != nil {
			logging.Warn().Err(err).Str("uid", ev.UID).Msg("skipping vevent")
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func parseEvent(ve *ical.VEvent) (ImportedEvent, error) {
	var out ImportedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if out.Title == "" {
		return out, errors.New("missing summary")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start.Add(time.Hour)
	}
	out.Start = start
	out.End = end

	// All-day when DTSTART is a date-only value.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if !strings.Contains(p.Value, "T") {
			out.AllDay = true
			// ICS all-day DTEND is exclusive; daybook spans are inclusive.
			out.End = end.AddDate(0, 0, -1)
		}
	}

	out.Rule = models.RecurrenceRule{Schedule: models.RepeatNone, EndRepeat: out.End}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rule, err := mapRule(p.Value, out.Start)
		if err != nil {
			return out, err
		}
		out.Rule = rule
	}
	return out, nil
}

// mapRule converts an RRULE value into a RecurrenceRule. Unbounded
// rules get a one-year horizon from the event start, since every
// daybook series carries an end-of-repeat bound.
func mapRule(raw string, start time.Time) (models.RecurrenceRule, error) {
	var rule models.RecurrenceRule

	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return rule, err
	}

	switch opt.Freq {
	case rrule.DAILY:
		if opt.Interval > 1 {
			return rule, errors.New("unsupported DAILY interval")
		}
		rule.Schedule = models.RepeatDaily
	case rrule.WEEKLY:
		switch opt.Interval {
		case 0, 1:
			rule.Schedule = models.RepeatWeekly
		case 2:
			rule.Schedule = models.RepeatBiweekly
		default:
			return rule, errors.New("unsupported WEEKLY interval")
		}
		rule.Days = weekdayMask(opt.Byweekday).With(start.Weekday())
	case rrule.MONTHLY:
		if opt.Interval > 1 {
			return rule, errors.New("unsupported MONTHLY interval")
		}
		rule.Schedule = models.RepeatMonthly
	case rrule.YEARLY:
		if opt.Interval > 1 {
			return rule, errors.New("unsupported YEARLY interval")
		}
		rule.Schedule = models.RepeatYearly
	default:
		return rule, errors.New("unsupported RRULE frequency")
	}

	if !opt.Until.IsZero() {
		rule.EndRepeat = opt.Until
	} else {
		rule.EndRepeat = start.AddDate(1, 0, 0)
		logging.Warn().Str("rrule", raw).Msg("unbounded rrule; capped at one year")
	}
	return rule, nil
}

func weekdayMask(days []rrule.Weekday) models.Weekdays {
	byDay := map[int]time.Weekday{
		rrule.MO.Day(): time.Monday,
		rrule.TU.Day(): time.Tuesday,
		rrule.WE.Day(): time.Wednesday,
		rrule.TH.Day(): time.Thursday,
		rrule.FR.Day(): time.Friday,
		rrule.SA.Day(): time.Saturday,
		rrule.SU.Day(): time.Sunday,
	}
	var mask models.Weekdays
	for _, d := range days {
		if wd, ok := byDay[d.Day()]; ok {
			mask = mask.With(wd)
		}
	}
	return mask
}
