// Package edit plans how a field edit propagates across a recurring
// series: patch one override, fan out to future occurrences, split the
// master, or rebase the master itself. Plans are pure values; executing
// them against the store is the db package's job.
package edit

import (
	"errors"
	"time"

	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/recurrence"
)

// Scope is the breadth of an edit across a recurring series.
type Scope string

const (
	ScopeToday  Scope = "today"
	ScopeFuture Scope = "future"
	ScopeAll    Scope = "all"
)

// ValidScope reports whether s is a known scope.
func ValidScope(s Scope) bool {
	return s == ScopeToday || s == ScopeFuture || s == ScopeAll
}

// ErrAnchorNotOccurrence is returned when a future-scoped structural
// edit is anchored on a date the master never generates; splitting there
// would leave an inconsistent pair of masters, so the whole edit fails.
var ErrAnchorNotOccurrence = errors.New("edit: anchor date is not a generated occurrence")

// Edit carries the changed fields; nil means untouched.
type Edit struct {
	Title    *string
	Start    *time.Time // new start instant for the anchor occurrence
	End      *time.Time
	Location *string
	Priority *int
	Privacy  *string
	Color    *string

	// Structural fields: changing either under ScopeFuture splits the master.
	Days     *models.Weekdays
	Schedule *models.Schedule
}

// Structural reports whether the edit changes the recurrence shape.
func (e Edit) Structural() bool {
	return e.Days != nil || e.Schedule != nil
}

// Field names an overridable field; values double as master column names.
type Field string

const (
	FieldTitle    Field = "title"
	FieldStart    Field = "start"
	FieldEnd      Field = "end"
	FieldLocation Field = "location"
	FieldPriority Field = "priority"
	FieldPrivacy  Field = "privacy"
	FieldColor    Field = "color"
	FieldDays     Field = "days"
	FieldSchedule Field = "schedule"
)

// Fields lists the fields the edit touches.
func (e Edit) Fields() []Field {
	var out []Field
	if e.Title != nil {
		out = append(out, FieldTitle)
	}
	if e.Start != nil {
		out = append(out, FieldStart)
	}
	if e.End != nil {
		out = append(out, FieldEnd)
	}
	if e.Location != nil {
		out = append(out, FieldLocation)
	}
	if e.Priority != nil {
		out = append(out, FieldPriority)
	}
	if e.Privacy != nil {
		out = append(out, FieldPrivacy)
	}
	if e.Color != nil {
		out = append(out, FieldColor)
	}
	if e.Days != nil {
		out = append(out, FieldDays)
	}
	if e.Schedule != nil {
		out = append(out, FieldSchedule)
	}
	return out
}

// Nullify asks the store to reset the named override fields to nil so
// the occurrence falls back to its master's values again.
type Nullify struct {
	OverrideID string
	Fields     []Field
}

// Plan is the persistence-layer work an edit resolves to. Upserts with
// an empty ID are creations keyed by (ParentID, DayKey).
type Plan struct {
	MasterPatch map[string]any
	NewMaster   *models.Item
	Upserts     []models.Override
	Nullify     []Nullify
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.MasterPatch) == 0 && p.NewMaster == nil &&
		len(p.Upserts) == 0 && len(p.Nullify) == 0
}

// Apply resolves an edit against a master and its current overrides.
//
//   - today: one override for the anchor's day is created or patched;
//     the only scope allowed to touch a completed occurrence.
//   - future + structural: the master is split at the anchor (which must
//     be a real generated occurrence) and stale overrides from the
//     anchor onward have the edited fields nulled.
//   - future, non-structural: per-occurrence overrides from the anchor
//     onward, skipping completed ones.
//   - all: the master becomes the new baseline and non-completed
//     overrides have the edited fields nulled; no new rows.
//
// For every scope, an edited value equal to the master's current value
// is stored as nil (explicit fallback), never as a duplicate.
func Apply(master models.Item, e Edit, scope Scope, anchor time.Time, overrides []models.Override) (Plan, error) {
	var plan Plan
	if !ValidScope(scope) {
		return plan, errors.New("edit: unknown scope")
	}
	fields := e.Fields()
	if len(fields) == 0 {
		return plan, nil
	}
	key := models.DayKeyOf(anchor)

	switch scope {
	case ScopeToday:
		ov, found := overrideForDay(overrides, master.ID, key)
		patchOverride(&ov, e, master, anchor)
		if found || ov.Diverges() {
			plan.Upserts = append(plan.Upserts, ov)
		}

	case ScopeFuture:
		if e.Structural() {
			if !anchorIsOccurrence(master, anchor) {
				return plan, ErrAnchorNotOccurrence
			}
			plan.MasterPatch = map[string]any{
				"end_repeat": key.Add(-time.Millisecond),
			}
			nm := successorMaster(master, e, anchor)
			plan.NewMaster = &nm
			for _, ov := range overrides {
				if ov.ParentID == master.ID && !ov.DayKey.Before(key) {
					plan.Nullify = append(plan.Nullify, Nullify{OverrideID: ov.ID, Fields: fields})
				}
			}
			return plan, nil
		}

		occs := recurrence.Generate(master, recurrence.StartOfDay(anchor), master.EndRepeat)
		for _, occ := range occs {
			if occ.DayKey().Before(key) {
				continue
			}
			ov, found := overrideForDay(overrides, master.ID, occ.DayKey())
			if found && ov.CompletedAt != nil {
				// Completed occurrences keep their state; siblings in the
				// batch are still valid targets.
				continue
			}
			patchOverride(&ov, e, master, occ.Start)
			if found || ov.Diverges() {
				plan.Upserts = append(plan.Upserts, ov)
			}
		}

	case ScopeAll:
		plan.MasterPatch = masterPatch(e, master)
		for _, ov := range overrides {
			if ov.ParentID != master.ID || ov.CompletedAt != nil {
				continue
			}
			plan.Nullify = append(plan.Nullify, Nullify{OverrideID: ov.ID, Fields: fields})
		}
	}
	return plan, nil
}

// overrideForDay returns a copy of the override for (parentID, key), or
// a fresh one keyed there. Copies keep monotonic markers intact.
func overrideForDay(overrides []models.Override, parentID string, key time.Time) (models.Override, bool) {
	for _, ov := range overrides {
		if ov.ParentID == parentID && ov.DayKey.Equal(key) {
			return ov, true
		}
	}
	return models.Override{ParentID: parentID, DayKey: key}, false
}

// patchOverride writes the edit into ov, nulling any field whose edited
// value equals the master's current value for that occurrence.
func patchOverride(ov *models.Override, e Edit, master models.Item, occStart time.Time) {
	masterStart := withClock(occStart, master.Start)
	masterEnd := masterStart.Add(master.Duration())

	if e.Title != nil {
		ov.Title = nilIfEqualString(*e.Title, master.Title)
	}
	if e.Start != nil {
		ov.Start = nilIfEqualTime(*e.Start, masterStart)
	}
	if e.End != nil {
		ov.End = nilIfEqualTime(*e.End, masterEnd)
	}
	if e.Location != nil {
		ov.Location = nilIfEqualString(*e.Location, master.Location)
	}
	if e.Priority != nil {
		if *e.Priority == master.Priority {
			ov.Priority = nil
		} else {
			v := *e.Priority
			ov.Priority = &v
		}
	}
	if e.Privacy != nil {
		ov.Privacy = nilIfEqualString(*e.Privacy, master.Privacy)
	}
	if e.Color != nil {
		ov.Color = nilIfEqualString(*e.Color, master.Color)
	}
	if e.Days != nil {
		if *e.Days == master.Days {
			ov.Days = nil
		} else {
			v := *e.Days
			ov.Days = &v
		}
	}
	if e.Schedule != nil {
		if *e.Schedule == master.Schedule {
			ov.Schedule = nil
		} else {
			v := *e.Schedule
			ov.Schedule = &v
		}
	}
}

// masterPatch builds the column updates for an all-scope rebase.
func masterPatch(e Edit, master models.Item) map[string]any {
	patch := make(map[string]any)
	if e.Title != nil {
		patch["title"] = *e.Title
	}
	if e.Start != nil {
		// Re-anchor the series clock, keeping the original date.
		newStart := withClock(master.Start, *e.Start)
		patch["start"] = newStart
		if e.End == nil {
			patch["end"] = newStart.Add(master.Duration())
		}
	}
	if e.End != nil {
		patch["end"] = withClock(master.End, *e.End)
	}
	if e.Location != nil {
		patch["location"] = *e.Location
	}
	if e.Priority != nil {
		patch["priority"] = *e.Priority
	}
	if e.Privacy != nil {
		patch["privacy"] = *e.Privacy
	}
	if e.Color != nil {
		patch["color"] = *e.Color
	}
	if e.Days != nil {
		patch["days"] = *e.Days
	}
	if e.Schedule != nil {
		patch["schedule"] = *e.Schedule
	}
	return patch
}

// successorMaster builds the new master created by a future-scoped
// structural split: it starts on the anchor's date, carries the edited
// fields, and inherits the original end-of-repeat bound.
func successorMaster(master models.Item, e Edit, anchor time.Time) models.Item {
	nm := master
	nm.ID = ""
	nm.CreatedAt = time.Time{}
	nm.UpdatedAt = time.Time{}
	nm.Subtasks = nil
	nm.Categories = nil

	nm.Start = withClock(anchor, master.Start)
	nm.End = nm.Start.Add(master.Duration())
	nm.EndRepeat = master.EndRepeat

	if e.Schedule != nil {
		nm.Schedule = *e.Schedule
	}
	if e.Days != nil {
		nm.Days = *e.Days
	}
	if e.Title != nil {
		nm.Title = *e.Title
	}
	if e.Start != nil {
		nm.Start = *e.Start
		nm.End = nm.Start.Add(master.Duration())
	}
	if e.End != nil {
		nm.End = *e.End
	}
	if e.Location != nil {
		nm.Location = *e.Location
	}
	if e.Priority != nil {
		nm.Priority = *e.Priority
	}
	if e.Privacy != nil {
		nm.Privacy = *e.Privacy
	}
	if e.Color != nil {
		nm.Color = *e.Color
	}
	return nm
}

// anchorIsOccurrence checks that the master actually generates an
// occurrence on the anchor's calendar day.
func anchorIsOccurrence(master models.Item, anchor time.Time) bool {
	day := recurrence.StartOfDay(anchor)
	key := models.DayKeyOf(anchor)
	for _, occ := range recurrence.Generate(master, day, day.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
		if occ.DayKey().Equal(key) {
			return true
		}
	}
	return false
}

func nilIfEqualString(edited, current string) *string {
	if edited == current {
		return nil
	}
	return &edited
}

func nilIfEqualTime(edited, current time.Time) *time.Time {
	if edited.Equal(current) {
		return nil
	}
	return &edited
}

func withClock(day, ref time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}
