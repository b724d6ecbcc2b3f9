package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/models"
)

func strp(s string) *string { return &s }

func intp(i int) *int { return &i }

func timep(t time.Time) *time.Time { return &t }

func TestMergeAllNilFallsBackToMaster(t *testing.T) {
	occ := Occurrence{
		ItemID: "it-1", Title: "Gym", Location: "Downtown",
		Start: dt(2025, 4, 1, 18, 0), End: dt(2025, 4, 1, 19, 0),
	}
	merged := Merge(occ, models.Override{ParentID: "it-1"})
	assert.Equal(t, occ, merged)
}

func TestMergeFieldOverrides(t *testing.T) {
	occ := Occurrence{
		ItemID: "it-1", Title: "Gym", Priority: 1,
		Start: dt(2025, 4, 1, 18, 0), End: dt(2025, 4, 1, 19, 0),
	}
	merged := Merge(occ, models.Override{
		Title:    strp("Gym (moved)"),
		Location: strp("Home"),
		Priority: intp(3),
		Color:    strp("red"),
	})
	assert.Equal(t, "Gym (moved)", merged.Title)
	assert.Equal(t, "Home", merged.Location)
	assert.Equal(t, 3, merged.Priority)
	assert.Equal(t, "red", merged.Color)
	// Untouched fields pass through.
	assert.Equal(t, occ.Start, merged.Start)
	assert.Equal(t, occ.End, merged.End)
}

func TestMergeStartShiftKeepsDuration(t *testing.T) {
	occ := Occurrence{
		ItemID: "it-1",
		Start:  dt(2025, 4, 1, 18, 0), End: dt(2025, 4, 1, 19, 30),
	}
	merged := Merge(occ, models.Override{Start: timep(dt(2025, 4, 1, 20, 0))})
	assert.Equal(t, dt(2025, 4, 1, 20, 0), merged.Start)
	assert.Equal(t, dt(2025, 4, 1, 21, 30), merged.End)
}

func TestMergeStartAndEndBothOverridden(t *testing.T) {
	occ := Occurrence{
		ItemID: "it-1",
		Start:  dt(2025, 4, 1, 18, 0), End: dt(2025, 4, 1, 19, 0),
	}
	merged := Merge(occ, models.Override{
		Start: timep(dt(2025, 4, 1, 20, 0)),
		End:   timep(dt(2025, 4, 1, 20, 45)),
	})
	assert.Equal(t, dt(2025, 4, 1, 20, 0), merged.Start)
	assert.Equal(t, dt(2025, 4, 1, 20, 45), merged.End)
}

func TestMergeCompletion(t *testing.T) {
	done := dt(2025, 4, 1, 18, 30)
	merged := Merge(Occurrence{ItemID: "it-1"}, models.Override{CompletedAt: &done})
	assert.True(t, merged.Completed)
	require.NotNil(t, merged.CompletedAt)
	assert.Equal(t, done, *merged.CompletedAt)
}

func TestApplyOverridesMatchesByDayKey(t *testing.T) {
	occs := []Occurrence{
		{ItemID: "it-1", Title: "Run", Start: dt(2025, 4, 1, 7, 0), End: dt(2025, 4, 1, 8, 0)},
		{ItemID: "it-1", Title: "Run", Start: dt(2025, 4, 2, 7, 0), End: dt(2025, 4, 2, 8, 0)},
		{ItemID: "it-2", Title: "Call", Start: dt(2025, 4, 1, 7, 0), End: dt(2025, 4, 1, 7, 30)},
	}
	overrides := []models.Override{
		{ParentID: "it-1", DayKey: models.DayKeyOf(dt(2025, 4, 2, 7, 0)), Title: strp("Long run")},
		// Same day, different parent: must not leak across items.
		{ParentID: "it-2", DayKey: models.DayKeyOf(dt(2025, 4, 2, 7, 0)), Title: strp("Wrong")},
	}

	out := ApplyOverrides(occs, overrides)
	require.Len(t, out, 3)
	assert.Equal(t, "Run", out[0].Title)
	assert.Equal(t, "Call", out[1].Title)
	assert.Equal(t, "Long run", out[2].Title)
}

func TestApplyOverridesDropsDeleted(t *testing.T) {
	occs := []Occurrence{
		{ItemID: "it-1", Title: "Run", Start: dt(2025, 4, 1, 7, 0), End: dt(2025, 4, 1, 8, 0)},
		{ItemID: "it-1", Title: "Run", Start: dt(2025, 4, 2, 7, 0), End: dt(2025, 4, 2, 8, 0)},
	}
	overrides := []models.Override{
		{ParentID: "it-1", DayKey: models.DayKeyOf(dt(2025, 4, 1, 7, 0)), Deleted: true},
	}

	out := ApplyOverrides(occs, overrides)
	require.Len(t, out, 1)
	assert.Equal(t, dt(2025, 4, 2, 7, 0), out[0].Start)
}

func TestApplyOverridesSortsByStart(t *testing.T) {
	occs := []Occurrence{
		{ItemID: "it-1", Title: "B", Start: dt(2025, 4, 1, 9, 0), End: dt(2025, 4, 1, 10, 0)},
		{ItemID: "it-2", Title: "A", Start: dt(2025, 4, 1, 9, 0), End: dt(2025, 4, 1, 9, 30)},
		{ItemID: "it-3", Title: "C", Start: dt(2025, 4, 1, 8, 0), End: dt(2025, 4, 1, 8, 30)},
	}

	out := ApplyOverrides(occs, nil)
	require.Len(t, out, 3)
	assert.Equal(t, "C", out[0].Title)
	assert.Equal(t, "A", out[1].Title)
	assert.Equal(t, "B", out[2].Title)
}

func TestApplyOverridesMovedStartKeepsDayKeyBinding(t *testing.T) {
	// An override that moves an occurrence to another calendar day stays
	// keyed to the original day: the same override row keeps applying.
	occs := []Occurrence{
		{ItemID: "it-1", Title: "Shift", Start: dt(2025, 4, 1, 23, 0), End: dt(2025, 4, 1, 23, 30)},
	}
	overrides := []models.Override{
		{ParentID: "it-1", DayKey: models.DayKeyOf(dt(2025, 4, 1, 23, 0)),
			Start: timep(dt(2025, 4, 2, 1, 0))},
	}

	out := ApplyOverrides(occs, overrides)
	require.Len(t, out, 1)
	assert.Equal(t, dt(2025, 4, 2, 1, 0), out[0].Start)
}
