package models

import "time"

// Override is a per-occurrence exception, keyed by (ParentID, DayKey)
// where DayKey is UTC midnight of the occurrence's calendar day.
//
// Pointer fields are nullable overrides: nil means "fall back to the
// master's current value", non-nil means this occurrence diverges.
// CompletedAt, AllMembersStarted, StartedSubtasks and Deleted are
// monotonic - once set they are never reverted through the edit path.
type Override struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ParentID string    `gorm:"index:idx_override_day,unique;not null" json:"parent_id"`
	DayKey   time.Time `gorm:"index:idx_override_day,unique;not null" json:"day_key"`

	Title    *string    `json:"title"`
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
	Location *string    `json:"location"`
	Priority *int       `json:"priority"`
	Privacy  *string    `json:"privacy"`
	Color    *string    `json:"color"`
	Days     *Weekdays  `json:"days"`
	Schedule *Schedule  `json:"schedule"`

	// State markers (monotonic)
	CompletedAt       *time.Time `json:"completed_at"`
	AllMembersStarted bool       `gorm:"default:false" json:"all_members_started"`
	StartedSubtasks   bool       `gorm:"default:false" json:"started_subtasks"`
	Deleted           bool       `gorm:"default:false" json:"deleted"`

	// Collection-divergence flags: when true the occurrence's subtask /
	// category set no longer mirrors the master's.
	SubtasksOverridden   bool `gorm:"default:false" json:"subtasks_overridden"`
	CategoriesOverridden bool `gorm:"default:false" json:"categories_overridden"`

	ImageRef string `json:"image_ref"`

	SubtaskOverrides []SubtaskOverride `gorm:"foreignKey:OverrideID" json:"subtask_overrides"`
}

// Diverges reports whether any field-level override is set.
func (o Override) Diverges() bool {
	return o.Title != nil || o.Start != nil || o.End != nil ||
		o.Location != nil || o.Priority != nil || o.Privacy != nil ||
		o.Color != nil || o.Days != nil || o.Schedule != nil
}

// SubtaskOverride is an occurrence-local subtask row. SourceID points
// back to the master subtask it was seeded from so completion history
// survives the first override; nil for subtasks added to the occurrence.
type SubtaskOverride struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	OverrideID string     `gorm:"index;not null" json:"override_id"`
	SourceID   *string    `json:"source_id"`
	Title      string     `gorm:"not null" json:"title"`
	Position   int        `json:"position"`
	Done       bool       `gorm:"default:false" json:"done"`
	DoneAt     *time.Time `json:"done_at"`
}

// OverrideCategory is the occurrence-local category set, used only when
// CategoriesOverridden is true.
type OverrideCategory struct {
	OverrideID string `gorm:"primaryKey"`
	CategoryID string `gorm:"primaryKey"`
}

// DayKeyOf maps an occurrence start to its override key: UTC midnight
// of the occurrence's calendar day.
func DayKeyOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
