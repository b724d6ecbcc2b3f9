package recurrence

import (
	"time"

	"github.com/daybook-app/daybook/internal/models"
)

// Occurrence is one concrete, dated instance of a master item. It is
// derived at read time, never persisted, and never mutated in place.
type Occurrence struct {
	ItemID string
	Kind   models.Kind

	Title    string
	Color    string
	Location string
	Priority int
	Privacy  string
	AllDay   bool

	Start time.Time
	End   time.Time

	// Set by Merge when an override diverges the instance.
	Completed   bool
	CompletedAt *time.Time
	Deleted     bool
}

// newInstance builds a fresh occurrence of it starting at start, with
// the master's duration and payload copied over. The master is never
// mutated.
func newInstance(it models.Item, start time.Time) Occurrence {
	return Occurrence{
		ItemID:   it.ID,
		Kind:     it.Kind,
		Title:    it.Title,
		Color:    it.Color,
		Location: it.Location,
		Priority: it.Priority,
		Privacy:  it.Privacy,
		AllDay:   it.AllDay,
		Start:    start,
		End:      start.Add(it.Duration()),
	}
}

// DayKey is the override key for this occurrence: UTC midnight of its
// calendar day.
func (o Occurrence) DayKey() time.Time {
	return models.DayKeyOf(o.Start)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek truncates t to the Sunday-aligned start of its week.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// withClock places ref's time-of-day onto day's date.
func withClock(day, ref time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}
