package recurrence

import (
	"math"
	"time"

	"github.com/daybook-app/daybook/internal/models"
)

// Safety cap so a malformed rule can never stall a render pass.
const maxOccurrencesPerItem = 5000

// Generate expands a master item into every occurrence whose span
// intersects [windowStart, windowEnd] (inclusive on both ends). Pure and
// side-effect free: identical arguments yield equal results, and the
// returned occurrences are fresh values each call.
//
// For all-day items every boundary comparison is performed on date-only
// granularity and emitted occurrences carry midnight times, so an
// all-day span never drifts into adjacent days.
func Generate(it models.Item, windowStart, windowEnd time.Time) []Occurrence {
	if windowEnd.Before(windowStart) {
		return nil
	}

	if it.AllDay {
		it.Start = StartOfDay(it.Start)
		it.End = StartOfDay(it.End)
		if !it.EndRepeat.IsZero() {
			it.EndRepeat = StartOfDay(it.EndRepeat)
		}
		windowStart = StartOfDay(windowStart)
		windowEnd = StartOfDay(windowEnd)
	}

	endRepeat := it.EndRepeat
	if endRepeat.IsZero() {
		if it.Repeats() {
			// Unbounded series: the window itself bounds the expansion.
			endRepeat = windowEnd
		} else {
			endRepeat = it.End
		}
	}

	switch it.Schedule {
	case models.RepeatDaily:
		return generateDaily(it, windowStart, windowEnd, endRepeat)
	case models.RepeatWeekly:
		return generateWeekly(it, windowStart, windowEnd, endRepeat, 7)
	case models.RepeatBiweekly:
		return generateWeekly(it, windowStart, windowEnd, endRepeat, 14)
	case models.RepeatMonthly:
		return generateMonthly(it, windowStart, windowEnd, endRepeat)
	case models.RepeatYearly:
		return generateYearly(it, windowStart, windowEnd, endRepeat)
	default:
		// Single occurrence: the master itself, iff it intersects.
		if intersects(it.Start, it.End, windowStart, windowEnd) {
			return []Occurrence{newInstance(it, it.Start)}
		}
		return nil
	}
}

func generateDaily(it models.Item, ws, we, endRepeat time.Time) []Occurrence {
	var out []Occurrence
	dur := it.Duration()

	cursor := it.Start
	if lower := ws.Add(-dur); lower.After(cursor) {
		cursor = lower
	}
	cursor = StartOfDay(cursor)

	limit := minTime(we, endRepeat)
	for !cursor.After(limit) && len(out) < maxOccurrencesPerItem {
		start := withClock(cursor, it.Start)
		if !start.Before(it.Start) && !start.After(endRepeat) &&
			intersects(start, start.Add(dur), ws, we) {
			out = append(out, newInstance(it, start))
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return out
}

func generateWeekly(it models.Item, ws, we, endRepeat time.Time, stepDays int) []Occurrence {
	var out []Occurrence
	dur := it.Duration()

	anchor := StartOfWeek(it.Start)

	from := it.Start
	if lower := ws.Add(-dur); lower.After(from) {
		from = lower
	}
	week := StartOfWeek(from)

	// Keep biweekly parity anchored to the master's start week.
	if off := weeksBetween(anchor, week) % (stepDays / 7); off != 0 {
		week = week.AddDate(0, 0, -7*off)
	}

	limit := minTime(we, endRepeat)
	for !week.After(limit) && len(out) < maxOccurrencesPerItem {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if !it.Days.Has(d) {
				continue
			}
			start := withClock(week.AddDate(0, 0, int(d)), it.Start)
			if start.Before(it.Start) || start.After(endRepeat) {
				continue
			}
			if intersects(start, start.Add(dur), ws, we) {
				out = append(out, newInstance(it, start))
			}
		}
		week = week.AddDate(0, 0, stepDays)
	}
	return out
}

func generateMonthly(it models.Item, ws, we, endRepeat time.Time) []Occurrence {
	var out []Occurrence
	dur := it.Duration()
	limit := minTime(we, endRepeat)

	// Fast-forward from the earliest start whose span can still reach
	// the window, as the daily/weekly lower bound does.
	i := 0
	if ahead := monthsBetween(it.Start, ws.Add(-dur)) - 1; ahead > 0 {
		i = ahead
	}
	for len(out) < maxOccurrencesPerItem {
		start := addMonthsClamped(it.Start, i)
		if start.After(limit) {
			break
		}
		if !start.Before(it.Start) && intersects(start, start.Add(dur), ws, we) {
			out = append(out, newInstance(it, start))
		}
		i++
	}
	return out
}

func generateYearly(it models.Item, ws, we, endRepeat time.Time) []Occurrence {
	var out []Occurrence
	dur := it.Duration()
	limit := minTime(we, endRepeat)

	i := 0
	if ahead := ws.Add(-dur).Year() - it.Start.Year() - 1; ahead > 0 {
		i = ahead
	}
	for len(out) < maxOccurrencesPerItem {
		start := addMonthsClamped(it.Start, i*12)
		if start.After(limit) {
			break
		}
		if !start.Before(it.Start) && intersects(start, start.Add(dur), ws, we) {
			out = append(out, newInstance(it, start))
		}
		i++
	}
	return out
}

// intersects reports whether [aStart, aEnd] touches [bStart, bEnd].
// Zero-length windows still intersect at their instant.
func intersects(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !aStart.After(bEnd)
}

// addMonthsClamped advances base by n months, clamping the day-of-month
// to the target month's last valid day (31st -> 28th/29th/30th). This is
// deliberately not AddDate, which rolls excess days into the next month.
func addMonthsClamped(base time.Time, n int) time.Time {
	m := int(base.Month()) - 1 + n
	y := base.Year() + m/12
	m = m % 12

	day := base.Day()
	if last := daysInMonth(y, time.Month(m+1)); day > last {
		day = last
	}
	return time.Date(y, time.Month(m+1), day,
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// weeksBetween counts whole weeks from a to b, tolerating DST skew.
func weeksBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / (24 * 7)))
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
