package recurrence

import (
	"sort"
	"time"

	"github.com/daybook-app/daybook/internal/models"
)

// Merge applies an override's non-nil fields on top of a generated
// occurrence and returns the merged copy. An override with every field
// nil yields an occurrence identical to what the master alone produced.
//
// A Start override moves the instance while preserving its duration
// unless End is also overridden.
func Merge(o Occurrence, ov models.Override) Occurrence {
	if ov.Title != nil {
		o.Title = *ov.Title
	}
	if ov.Start != nil {
		dur := o.End.Sub(o.Start)
		o.Start = *ov.Start
		o.End = o.Start.Add(dur)
	}
	if ov.End != nil {
		o.End = *ov.End
	}
	if ov.Location != nil {
		o.Location = *ov.Location
	}
	if ov.Priority != nil {
		o.Priority = *ov.Priority
	}
	if ov.Privacy != nil {
		o.Privacy = *ov.Privacy
	}
	if ov.Color != nil {
		o.Color = *ov.Color
	}
	if ov.CompletedAt != nil {
		o.Completed = true
		t := *ov.CompletedAt
		o.CompletedAt = &t
	}
	if ov.Deleted {
		o.Deleted = true
	}
	return o
}

// ApplyOverrides merges each occurrence with its override (matched by
// day key), drops occurrences tombstoned by a deleted override, and
// returns the result sorted by start time.
func ApplyOverrides(occs []Occurrence, overrides []models.Override) []Occurrence {
	byDay := make(map[string]map[time.Time]models.Override, len(overrides))
	for _, ov := range overrides {
		m, ok := byDay[ov.ParentID]
		if !ok {
			m = make(map[time.Time]models.Override)
			byDay[ov.ParentID] = m
		}
		m[ov.DayKey] = ov
	}

	out := make([]Occurrence, 0, len(occs))
	for _, o := range occs {
		if ov, ok := byDay[o.ItemID][o.DayKey()]; ok {
			o = Merge(o, ov)
		}
		if o.Deleted {
			continue
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Title < out[j].Title
	})
	return out
}
