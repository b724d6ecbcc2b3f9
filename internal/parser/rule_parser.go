package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/daybook-app/daybook/internal/models"
)

// ParseSchedule parses a repeat cadence name with common shorthands.
func ParseSchedule(input string) (models.Schedule, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "", "none", "no", "once":
		return models.RepeatNone, nil
	case "daily", "day", "d":
		return models.RepeatDaily, nil
	case "weekly", "week", "w":
		return models.RepeatWeekly, nil
	case "biweekly", "bi-weekly", "fortnightly", "2w":
		return models.RepeatBiweekly, nil
	case "monthly", "month", "m":
		return models.RepeatMonthly, nil
	case "yearly", "annual", "annually", "year", "y":
		return models.RepeatYearly, nil
	default:
		return "", fmt.Errorf("unknown repeat schedule %q. Use: none, daily, weekly, biweekly, monthly, yearly", input)
	}
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday, "0": time.Sunday,
	"mon": time.Monday, "monday": time.Monday, "1": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday, "2": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "3": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thursday": time.Thursday, "4": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "5": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "6": time.Saturday,
}

// ParseWeekdays parses a comma-separated weekday list like
// "mon,wed,fri" or "1,3,5" into a weekday set.
func ParseWeekdays(input string) (models.Weekdays, error) {
	var days models.Weekdays

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		d, ok := weekdayNames[part]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", part)
		}
		days = days.With(d)
	}

	return days, nil
}
