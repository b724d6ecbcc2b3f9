package edit

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

func strp(s string) *string { return &s }

// weeklyMaster is a Mon/Wed/Fri 09:00-10:00 series over early 2025.
func weeklyMaster(endRepeat time.Time) models.Item {
	return models.Item{
		ID:    "master-1",
		Kind:  models.KindEvent,
		Title: "Standup",
		Start: dt(2025, 1, 6, 9, 0),
		End:   dt(2025, 1, 6, 10, 0),
		RecurrenceRule: models.RecurrenceRule{
			Schedule:  models.RepeatWeekly,
			Days:      models.WeekdaysOf(time.Monday, time.Wednesday, time.Friday),
			EndRepeat: endRepeat,
		},
	}
}

func TestApplyEmptyEditIsNoop(t *testing.T) {
	plan, err := Apply(weeklyMaster(dt(2025, 1, 31, 23, 59)), Edit{}, ScopeToday, dt(2025, 1, 6, 0, 0), nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestApplyUnknownScope(t *testing.T) {
	e := Edit{Title: strp("X")}
	_, err := Apply(weeklyMaster(dt(2025, 1, 31, 23, 59)), e, Scope("weekly"), dt(2025, 1, 6, 0, 0), nil)
	assert.Error(t, err)
}

func TestApplyTodayCreatesOverride(t *testing.T) {
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))
	anchor := dt(2025, 1, 8, 0, 0)

	plan, err := Apply(master, Edit{Title: strp("Standup (solo)")}, ScopeToday, anchor, nil)
	require.NoError(t, err)
	require.Len(t, plan.Upserts, 1)
	assert.Empty(t, plan.MasterPatch)
	assert.Nil(t, plan.NewMaster)

	ov := plan.Upserts[0]
	assert.Equal(t, "master-1", ov.ParentID)
	assert.Equal(t, models.DayKeyOf(anchor), ov.DayKey)
	require.NotNil(t, ov.Title)
	assert.Equal(t, "Standup (solo)", *ov.Title)
}

func TestApplyTodayEqualValueIsNoop(t *testing.T) {
	// Editing a field to its master value with no existing row changes
	// nothing.
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))

	plan, err := Apply(master, Edit{Title: strp("Standup")}, ScopeToday, dt(2025, 1, 8, 0, 0), nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestApplyTodayRevertsToMasterAsNil(t *testing.T) {
	// An existing override edited back to the master value keeps the row
	// but stores nil, so later master edits show through again.
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))
	key := models.DayKeyOf(dt(2025, 1, 8, 0, 0))
	existing := []models.Override{
		{ID: "ov-1", ParentID: "master-1", DayKey: key, Title: strp("Moved")},
	}

	plan, err := Apply(master, Edit{Title: strp("Standup")}, ScopeToday, dt(2025, 1, 8, 0, 0), existing)
	require.NoError(t, err)
	require.Len(t, plan.Upserts, 1)
	assert.Equal(t, "ov-1", plan.Upserts[0].ID)
	assert.Nil(t, plan.Upserts[0].Title)
}

func TestApplyTodayStartShift(t *testing.T) {
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))
	anchor := dt(2025, 1, 8, 0, 0)
	newStart := dt(2025, 1, 8, 14, 0)

	plan, err := Apply(master, Edit{Start: &newStart}, ScopeToday, anchor, nil)
	require.NoError(t, err)
	require.Len(t, plan.Upserts, 1)
	require.NotNil(t, plan.Upserts[0].Start)
	assert.Equal(t, newStart, *plan.Upserts[0].Start)
	assert.Nil(t, plan.Upserts[0].End)
}

func TestApplyFutureNonStructural(t *testing.T) {
	// Title change from Wed Jan 15 onward touches every remaining
	// occurrence except completed ones.
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))
	anchor := dt(2025, 1, 15, 0, 0)
	done := dt(2025, 1, 17, 10, 0)
	existing := []models.Override{
		{ID: "ov-done", ParentID: "master-1",
			DayKey: models.DayKeyOf(dt(2025, 1, 17, 0, 0)), CompletedAt: &done},
	}

	plan, err := Apply(master, Edit{Title: strp("Planning")}, ScopeFuture, anchor, existing)
	require.NoError(t, err)
	assert.Nil(t, plan.NewMaster)
	assert.Empty(t, plan.MasterPatch)

	// Jan 15, 20, 22, 24, 27, 29, 31 - the completed 17th is skipped.
	require.Len(t, plan.Upserts, 7)
	for _, ov := range plan.Upserts {
		assert.NotEqual(t, models.DayKeyOf(dt(2025, 1, 17, 0, 0)), ov.DayKey)
		require.NotNil(t, ov.Title)
		assert.Equal(t, "Planning", *ov.Title)
	}
	assert.Equal(t, models.DayKeyOf(anchor), plan.Upserts[0].DayKey)
}

func TestApplyFutureStructuralSplits(t *testing.T) {
	// Changing the weekday set from Mon Feb 3 onward splits the series:
	// the original ends just before Feb 3 and a successor carries the new
	// shape from there, inheriting the original end-of-repeat.
	master := weeklyMaster(dt(2025, 2, 28, 23, 59))
	anchor := dt(2025, 2, 3, 0, 0)
	newDays := models.WeekdaysOf(time.Monday, time.Tuesday)

	staleDone := dt(2025, 2, 5, 10, 0)
	existing := []models.Override{
		{ID: "ov-past", ParentID: "master-1",
			DayKey: models.DayKeyOf(dt(2025, 1, 15, 0, 0)), Title: strp("Moved")},
		{ID: "ov-future", ParentID: "master-1",
			DayKey: models.DayKeyOf(dt(2025, 2, 5, 0, 0)), Title: strp("Moved"), CompletedAt: &staleDone},
	}

	plan, err := Apply(master, Edit{Days: &newDays}, ScopeFuture, anchor, existing)
	require.NoError(t, err)

	// Original series stops at the end of Feb 2.
	assert.Equal(t, dt(2025, 2, 2, 23, 59).Add(59*time.Second+999*time.Millisecond),
		plan.MasterPatch["end_repeat"])

	require.NotNil(t, plan.NewMaster)
	nm := plan.NewMaster
	assert.Equal(t, dt(2025, 2, 3, 9, 0), nm.Start)
	assert.Equal(t, dt(2025, 2, 3, 10, 0), nm.End)
	assert.Equal(t, newDays, nm.Days)
	assert.Equal(t, master.EndRepeat, nm.EndRepeat)
	assert.Equal(t, "", nm.ID)

	// Only overrides on or after the anchor have the edited field nulled;
	// completion markers are columns the nullify never names.
	require.Len(t, plan.Nullify, 1)
	assert.Equal(t, "ov-future", plan.Nullify[0].OverrideID)
	assert.Equal(t, []Field{FieldDays}, plan.Nullify[0].Fields)
}

func TestApplyFutureStructuralBadAnchor(t *testing.T) {
	// Tuesday Feb 4 is not a Mon/Wed/Fri occurrence; the split must fail
	// whole rather than strand the series.
	master := weeklyMaster(dt(2025, 2, 28, 23, 59))
	sched := models.RepeatDaily

	_, err := Apply(master, Edit{Schedule: &sched}, ScopeFuture, dt(2025, 2, 4, 0, 0), nil)
	assert.ErrorIs(t, err, ErrAnchorNotOccurrence)
}

func TestApplyAllRebasesMaster(t *testing.T) {
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))
	done := dt(2025, 1, 10, 10, 0)
	existing := []models.Override{
		{ID: "ov-plain", ParentID: "master-1",
			DayKey: models.DayKeyOf(dt(2025, 1, 8, 0, 0)), Title: strp("Moved")},
		{ID: "ov-done", ParentID: "master-1",
			DayKey: models.DayKeyOf(dt(2025, 1, 10, 0, 0)), Title: strp("Moved"), CompletedAt: &done},
	}

	plan, err := Apply(master, Edit{Title: strp("Sync")}, ScopeAll, dt(2025, 1, 15, 0, 0), existing)
	require.NoError(t, err)
	assert.Equal(t, "Sync", plan.MasterPatch["title"])
	assert.Nil(t, plan.NewMaster)
	assert.Empty(t, plan.Upserts)

	// Completed occurrences keep their state.
	require.Len(t, plan.Nullify, 1)
	assert.Equal(t, "ov-plain", plan.Nullify[0].OverrideID)
}

func TestApplyAllStartReanchorsClock(t *testing.T) {
	// An all-scope start edit moves the series clock, not its first date.
	master := weeklyMaster(dt(2025, 1, 31, 23, 59))
	newStart := dt(2025, 1, 15, 14, 30)

	plan, err := Apply(master, Edit{Start: &newStart}, ScopeAll, dt(2025, 1, 15, 0, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, dt(2025, 1, 6, 14, 30), plan.MasterPatch["start"])
	assert.Equal(t, dt(2025, 1, 6, 15, 30), plan.MasterPatch["end"])
}

func TestEditStructural(t *testing.T) {
	days := models.WeekdaysOf(time.Monday)
	sched := models.RepeatDaily

	assert.False(t, Edit{Title: strp("X")}.Structural())
	assert.True(t, Edit{Days: &days}.Structural())
	assert.True(t, Edit{Schedule: &sched}.Structural())
}

func TestEditFields(t *testing.T) {
	prio := 2
	e := Edit{Title: strp("X"), Priority: &prio}
	assert.ElementsMatch(t, []Field{FieldTitle, FieldPriority}, e.Fields())
	assert.Empty(t, Edit{}.Fields())
}
