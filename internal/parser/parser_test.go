package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/models"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("15/01/2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), *d)

	d, err = ParseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), *d)

	d, err = ParseDate("today")
	require.NoError(t, err)
	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), *d)

	d, err = ParseDate("tomorrow")
	require.NoError(t, err)
	assert.Equal(t, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1), *d)
}

func TestParseDateRelative(t *testing.T) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	d, err := ParseDate("3 days")
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, 3), *d)

	d, err = ParseDate("2 weeks")
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, 14), *d)
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"31/02/2025", "1/13/2025", "someday", "0 days", "400 days"} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 5, m)

	h, m, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	for _, input := range []string{"24:00", "12:60", "noon", "12", "12:5"} {
		_, _, err := ParseClock(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		input string
		want  models.Schedule
	}{
		{"", models.RepeatNone},
		{"none", models.RepeatNone},
		{"daily", models.RepeatDaily},
		{"d", models.RepeatDaily},
		{"Weekly", models.RepeatWeekly},
		{"fortnightly", models.RepeatBiweekly},
		{"2w", models.RepeatBiweekly},
		{"month", models.RepeatMonthly},
		{"annually", models.RepeatYearly},
	}
	for _, tt := range tests {
		got, err := ParseSchedule(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}

	_, err := ParseSchedule("hourly")
	assert.Error(t, err)
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("mon,wed,fri")
	require.NoError(t, err)
	assert.Equal(t, models.WeekdaysOf(time.Monday, time.Wednesday, time.Friday), days)

	days, err = ParseWeekdays("1, 3 ,5")
	require.NoError(t, err)
	assert.Equal(t, models.WeekdaysOf(time.Monday, time.Wednesday, time.Friday), days)

	days, err = ParseWeekdays("Sunday,SAT")
	require.NoError(t, err)
	assert.Equal(t, models.WeekdaysOf(time.Sunday, time.Saturday), days)

	_, err = ParseWeekdays("mon,funday")
	assert.Error(t, err)
}
