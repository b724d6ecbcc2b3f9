package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/models"
)

func dt(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func timedItem(start, end time.Time, rule models.RecurrenceRule) models.Item {
	return models.Item{
		ID:             "it-1",
		Kind:           models.KindEvent,
		Title:          "Standup",
		Start:          start,
		End:            end,
		RecurrenceRule: rule,
	}
}

func starts(occs []Occurrence) []time.Time {
	out := make([]time.Time, len(occs))
	for i, o := range occs {
		out[i] = o.Start
	}
	return out
}

func TestGenerateNone(t *testing.T) {
	it := timedItem(dt(2025, 3, 10, 14, 0), dt(2025, 3, 10, 15, 0), models.RecurrenceRule{})

	occs := Generate(it, dt(2025, 3, 10, 0, 0), dt(2025, 3, 10, 23, 59))
	require.Len(t, occs, 1)
	assert.Equal(t, it.Start, occs[0].Start)
	assert.Equal(t, it.End, occs[0].End)

	assert.Empty(t, Generate(it, dt(2025, 3, 11, 0, 0), dt(2025, 3, 11, 23, 59)))
}

func TestGenerateNoneBoundaryTouch(t *testing.T) {
	// Window intersection is inclusive: an occurrence ending exactly at
	// the window start is still in.
	it := timedItem(dt(2025, 3, 10, 14, 0), dt(2025, 3, 10, 15, 0), models.RecurrenceRule{})

	occs := Generate(it, dt(2025, 3, 10, 15, 0), dt(2025, 3, 10, 16, 0))
	assert.Len(t, occs, 1)

	occs = Generate(it, dt(2025, 3, 10, 13, 0), dt(2025, 3, 10, 14, 0))
	assert.Len(t, occs, 1)
}

func TestGenerateDaily(t *testing.T) {
	it := timedItem(dt(2025, 1, 1, 8, 0), dt(2025, 1, 1, 8, 30), models.RecurrenceRule{
		Schedule:  models.RepeatDaily,
		EndRepeat: dt(2025, 1, 10, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 5, 0, 0), dt(2025, 1, 7, 23, 59))
	require.Len(t, occs, 3)
	assert.Equal(t, []time.Time{
		dt(2025, 1, 5, 8, 0), dt(2025, 1, 6, 8, 0), dt(2025, 1, 7, 8, 0),
	}, starts(occs))

	// Nothing after end-of-repeat.
	assert.Empty(t, Generate(it, dt(2025, 1, 11, 0, 0), dt(2025, 1, 20, 23, 59)))
	// Nothing before the series start.
	assert.Empty(t, Generate(it, dt(2024, 12, 20, 0, 0), dt(2024, 12, 31, 23, 59)))
}

func TestGenerateWeeklyMidSeriesWindow(t *testing.T) {
	// Weekly Mon/Wed/Fri starting Monday 2025-01-06 09:00, repeating
	// through January. A window over the second week yields exactly the
	// 13th, 15th and 17th, each 09:00-10:00.
	it := timedItem(dt(2025, 1, 6, 9, 0), dt(2025, 1, 6, 10, 0), models.RecurrenceRule{
		Schedule:  models.RepeatWeekly,
		Days:      models.WeekdaysOf(time.Monday, time.Wednesday, time.Friday),
		EndRepeat: dt(2025, 1, 31, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 13, 0, 0), dt(2025, 1, 19, 23, 59))
	require.Len(t, occs, 3)
	assert.Equal(t, []time.Time{
		dt(2025, 1, 13, 9, 0), dt(2025, 1, 15, 9, 0), dt(2025, 1, 17, 9, 0),
	}, starts(occs))
	for _, occ := range occs {
		assert.Equal(t, time.Hour, occ.End.Sub(occ.Start))
	}
}

func TestGenerateWeeklySkipsDaysBeforeStart(t *testing.T) {
	// Starting on a Wednesday with Mon in the weekday set: the Monday of
	// the start week precedes the series start and must not appear.
	it := timedItem(dt(2025, 1, 8, 9, 0), dt(2025, 1, 8, 10, 0), models.RecurrenceRule{
		Schedule:  models.RepeatWeekly,
		Days:      models.WeekdaysOf(time.Monday, time.Wednesday),
		EndRepeat: dt(2025, 1, 15, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 5, 0, 0), dt(2025, 1, 18, 23, 59))
	assert.Equal(t, []time.Time{
		dt(2025, 1, 8, 9, 0), dt(2025, 1, 13, 9, 0), dt(2025, 1, 15, 9, 0),
	}, starts(occs))
}

func TestGenerateBiweeklyParity(t *testing.T) {
	// Biweekly Tuesdays from 2025-01-07. On-weeks are Jan 7, 21, Feb 4;
	// the in-between Tuesdays must not fire even when the window starts
	// inside an off-week.
	it := timedItem(dt(2025, 1, 7, 11, 0), dt(2025, 1, 7, 12, 0), models.RecurrenceRule{
		Schedule:  models.RepeatBiweekly,
		Days:      models.WeekdaysOf(time.Tuesday),
		EndRepeat: dt(2025, 2, 28, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 12, 0, 0), dt(2025, 2, 8, 23, 59))
	assert.Equal(t, []time.Time{
		dt(2025, 1, 21, 11, 0), dt(2025, 2, 4, 11, 0),
	}, starts(occs))
}

func TestGenerateMonthlyClampsShortMonths(t *testing.T) {
	// Monthly on the 31st: short months clamp to their last day instead
	// of skipping.
	it := timedItem(dt(2025, 1, 31, 12, 0), dt(2025, 1, 31, 13, 0), models.RecurrenceRule{
		Schedule:  models.RepeatMonthly,
		EndRepeat: dt(2025, 4, 30, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 5, 31, 23, 59))
	assert.Equal(t, []time.Time{
		dt(2025, 1, 31, 12, 0),
		dt(2025, 2, 28, 12, 0),
		dt(2025, 3, 31, 12, 0),
		dt(2025, 4, 30, 12, 0),
	}, starts(occs))
}

func TestGenerateMonthlyLeapFebruary(t *testing.T) {
	it := timedItem(dt(2024, 1, 31, 9, 0), dt(2024, 1, 31, 9, 30), models.RecurrenceRule{
		Schedule:  models.RepeatMonthly,
		EndRepeat: dt(2024, 3, 31, 23, 59),
	})

	occs := Generate(it, dt(2024, 2, 1, 0, 0), dt(2024, 2, 29, 23, 59))
	require.Len(t, occs, 1)
	assert.Equal(t, dt(2024, 2, 29, 9, 0), occs[0].Start)
}

func TestGenerateMonthlyLongDurationTail(t *testing.T) {
	// A span longer than a month still surfaces when only its tail
	// crosses the window.
	it := timedItem(dt(2025, 1, 1, 0, 0), dt(2025, 1, 1, 0, 0).AddDate(0, 0, 73), models.RecurrenceRule{
		Schedule:  models.RepeatMonthly,
		EndRepeat: dt(2025, 12, 31, 23, 59),
	})

	occs := Generate(it, dt(2025, 6, 10, 0, 0), dt(2025, 6, 11, 23, 59))
	assert.Equal(t, []time.Time{
		dt(2025, 4, 1, 0, 0), dt(2025, 5, 1, 0, 0), dt(2025, 6, 1, 0, 0),
	}, starts(occs))
}

func TestGenerateYearly(t *testing.T) {
	it := timedItem(dt(2023, 6, 15, 0, 0), dt(2023, 6, 15, 1, 0), models.RecurrenceRule{
		Schedule:  models.RepeatYearly,
		EndRepeat: dt(2026, 12, 31, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 1, 0, 0), dt(2026, 12, 31, 23, 59))
	assert.Equal(t, []time.Time{
		dt(2025, 6, 15, 0, 0), dt(2026, 6, 15, 0, 0),
	}, starts(occs))
}

func TestGenerateYearlyLongDurationTail(t *testing.T) {
	it := timedItem(dt(2023, 1, 1, 0, 0), dt(2023, 1, 1, 0, 0).AddDate(0, 0, 800), models.RecurrenceRule{
		Schedule:  models.RepeatYearly,
		EndRepeat: dt(2030, 12, 31, 23, 59),
	})

	// The 2023 span runs through 2025-03-11 and must still be seen by a
	// window two years in.
	occs := Generate(it, dt(2025, 3, 1, 0, 0), dt(2025, 3, 2, 23, 59))
	assert.Equal(t, []time.Time{
		dt(2023, 1, 1, 0, 0), dt(2024, 1, 1, 0, 0), dt(2025, 1, 1, 0, 0),
	}, starts(occs))
}

func TestGenerateYearlyLeapDayClamp(t *testing.T) {
	it := timedItem(dt(2024, 2, 29, 10, 0), dt(2024, 2, 29, 11, 0), models.RecurrenceRule{
		Schedule:  models.RepeatYearly,
		EndRepeat: dt(2026, 12, 31, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 12, 31, 23, 59))
	require.Len(t, occs, 1)
	assert.Equal(t, dt(2025, 2, 28, 10, 0), occs[0].Start)
}

func TestGenerateAllDayStaysOnItsDay(t *testing.T) {
	// All-day items normalize to midnight; an odd stored clock must not
	// leak the occurrence into a neighboring day.
	it := timedItem(dt(2025, 3, 10, 17, 30), dt(2025, 3, 10, 18, 30), models.RecurrenceRule{
		Schedule:  models.RepeatDaily,
		EndRepeat: dt(2025, 3, 20, 23, 59),
	})
	it.AllDay = true

	occs := Generate(it, dt(2025, 3, 12, 0, 0), dt(2025, 3, 12, 23, 59))
	require.Len(t, occs, 1)
	assert.Equal(t, dt(2025, 3, 12, 0, 0), occs[0].Start)
	assert.True(t, occs[0].AllDay)
}

func TestGenerateUnboundedSeriesStopsAtWindow(t *testing.T) {
	it := timedItem(dt(2025, 1, 1, 7, 0), dt(2025, 1, 1, 7, 15), models.RecurrenceRule{
		Schedule: models.RepeatDaily,
	})

	occs := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 1, 5, 23, 59))
	assert.Len(t, occs, 5)
}

func TestGenerateEmptyWindow(t *testing.T) {
	it := timedItem(dt(2025, 1, 1, 7, 0), dt(2025, 1, 1, 8, 0), models.RecurrenceRule{
		Schedule:  models.RepeatDaily,
		EndRepeat: dt(2025, 12, 31, 23, 59),
	})
	assert.Nil(t, Generate(it, dt(2025, 2, 2, 0, 0), dt(2025, 2, 1, 0, 0)))
}

func TestGenerateDeterministic(t *testing.T) {
	it := timedItem(dt(2025, 1, 6, 9, 0), dt(2025, 1, 6, 10, 0), models.RecurrenceRule{
		Schedule:  models.RepeatWeekly,
		Days:      models.WeekdaysOf(time.Monday, time.Friday),
		EndRepeat: dt(2025, 3, 31, 23, 59),
	})

	a := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 2, 28, 23, 59))
	b := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 2, 28, 23, 59))
	assert.Equal(t, a, b)
}

func TestGenerateWindowCompleteness(t *testing.T) {
	// Splitting a window in two must yield the same occurrences as
	// expanding it whole.
	it := timedItem(dt(2025, 1, 2, 9, 0), dt(2025, 1, 2, 10, 0), models.RecurrenceRule{
		Schedule:  models.RepeatDaily,
		EndRepeat: dt(2025, 3, 31, 23, 59),
	})

	whole := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 2, 28, 23, 59))
	first := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 1, 31, 23, 59))
	second := Generate(it, dt(2025, 2, 1, 0, 0), dt(2025, 2, 28, 23, 59))
	assert.Equal(t, whole, append(first, second...))
}

func TestGenerateWindowCompletenessSplit(t *testing.T) {
	// Same property for a weekly rule with a multi-day weekday set.
	it := timedItem(dt(2025, 1, 6, 9, 0), dt(2025, 1, 6, 10, 0), models.RecurrenceRule{
		Schedule:  models.RepeatWeekly,
		Days:      models.WeekdaysOf(time.Monday, time.Wednesday, time.Friday),
		EndRepeat: dt(2025, 2, 28, 23, 59),
	})

	whole := Generate(it, dt(2025, 1, 1, 0, 0), dt(2025, 2, 28, 23, 59))
	var parts []Occurrence
	for d := dt(2025, 1, 1, 0, 0); d.Before(dt(2025, 3, 1, 0, 0)); d = d.AddDate(0, 0, 1) {
		parts = append(parts, Generate(it, d, d.AddDate(0, 0, 1).Add(-time.Second))...)
	}
	assert.Equal(t, whole, parts)
}

func TestGenerateWindowCompletenessLongDuration(t *testing.T) {
	// A narrow window agrees with a wide expansion filtered down to the
	// occurrences intersecting it, even when spans outlast a month.
	it := timedItem(dt(2025, 1, 1, 0, 0), dt(2025, 3, 15, 0, 0), models.RecurrenceRule{
		Schedule:  models.RepeatMonthly,
		EndRepeat: dt(2025, 12, 31, 23, 59),
	})
	ws, we := dt(2025, 6, 10, 0, 0), dt(2025, 6, 11, 23, 59)

	var want []Occurrence
	for _, o := range Generate(it, dt(2024, 12, 1, 0, 0), dt(2026, 1, 31, 23, 59)) {
		if !o.End.Before(ws) && !o.Start.After(we) {
			want = append(want, o)
		}
	}
	require.NotEmpty(t, want)
	assert.Equal(t, want, Generate(it, ws, we))
}

func TestGenerateDurationPreserved(t *testing.T) {
	it := timedItem(dt(2025, 1, 1, 22, 0), dt(2025, 1, 2, 2, 0), models.RecurrenceRule{
		Schedule:  models.RepeatDaily,
		EndRepeat: dt(2025, 1, 31, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 10, 0, 0), dt(2025, 1, 12, 23, 59))
	require.NotEmpty(t, occs)
	for _, occ := range occs {
		assert.Equal(t, 4*time.Hour, occ.End.Sub(occ.Start))
	}
}

func TestGenerateCrossMidnightCaughtByWindow(t *testing.T) {
	// An occurrence starting the day before the window still shows when
	// its span reaches into the window.
	it := timedItem(dt(2025, 1, 1, 22, 0), dt(2025, 1, 2, 2, 0), models.RecurrenceRule{
		Schedule:  models.RepeatDaily,
		EndRepeat: dt(2025, 1, 31, 23, 59),
	})

	occs := Generate(it, dt(2025, 1, 10, 0, 0), dt(2025, 1, 10, 23, 59))
	require.Len(t, occs, 2)
	assert.Equal(t, dt(2025, 1, 9, 22, 0), occs[0].Start)
	assert.Equal(t, dt(2025, 1, 10, 22, 0), occs[1].Start)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		base time.Time
		n    int
		want time.Time
	}{
		{"plain", dt(2025, 1, 15, 9, 0), 1, dt(2025, 2, 15, 9, 0)},
		{"clamp feb", dt(2025, 1, 31, 9, 0), 1, dt(2025, 2, 28, 9, 0)},
		{"clamp leap feb", dt(2024, 1, 31, 9, 0), 1, dt(2024, 2, 29, 9, 0)},
		{"clamp april", dt(2025, 3, 31, 9, 0), 1, dt(2025, 4, 30, 9, 0)},
		{"year rollover", dt(2025, 11, 30, 9, 0), 3, dt(2026, 2, 28, 9, 0)},
		{"zero", dt(2025, 5, 31, 9, 0), 0, dt(2025, 5, 31, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addMonthsClamped(tt.base, tt.n))
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2025-01-08 is a Wednesday; its week starts Sunday the 5th.
	assert.Equal(t, dt(2025, 1, 5, 0, 0), StartOfWeek(dt(2025, 1, 8, 15, 30)))
	assert.Equal(t, dt(2025, 1, 5, 0, 0), StartOfWeek(dt(2025, 1, 5, 0, 0)))
}
