package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Kind tags an Item as either a calendar event or a todo.
type Kind string

const (
	KindEvent Kind = "event"
	KindTodo  Kind = "todo"
)

// Schedule is the repeat cadence of a recurring item.
type Schedule string

const (
	RepeatNone     Schedule = "none"
	RepeatDaily    Schedule = "daily"
	RepeatWeekly   Schedule = "weekly"
	RepeatBiweekly Schedule = "biweekly"
	RepeatMonthly  Schedule = "monthly"
	RepeatYearly   Schedule = "yearly"
)

// ValidSchedule reports whether s is a known repeat cadence.
func ValidSchedule(s Schedule) bool {
	switch s {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatBiweekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// Weekdays is a set of weekdays stored as a bitmask (bit 0 = Sunday).
type Weekdays int

// WeekdaysOf builds a weekday set from individual days.
func WeekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.With(d)
	}
	return w
}

// Has reports whether d is in the set.
func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// With returns the set with d added.
func (w Weekdays) With(d time.Weekday) Weekdays {
	return w | (1 << uint(d))
}

// IsEmpty reports whether no weekday is set.
func (w Weekdays) IsEmpty() bool {
	return w == 0
}

// List returns the set as a sorted slice of weekdays.
func (w Weekdays) List() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String renders the set like "Mon,Wed,Fri".
func (w Weekdays) String() string {
	var parts []string
	for _, d := range w.List() {
		parts = append(parts, d.String()[:3])
	}
	return strings.Join(parts, ",")
}

// RecurrenceRule is the repeat definition shared by events and todos.
// EndRepeat bounds the last permissible occurrence start; Days is only
// meaningful for weekly/biweekly schedules and must contain the weekday
// of the item's start.
type RecurrenceRule struct {
	Schedule  Schedule  `gorm:"default:none" json:"schedule"`
	Days      Weekdays  `json:"days"`
	EndRepeat time.Time `json:"end_repeat"`
}

// Repeats reports whether the rule describes a recurring series.
func (r RecurrenceRule) Repeats() bool {
	return r.Schedule != "" && r.Schedule != RepeatNone
}

// Item is the master definition of an event or todo. Occurrences are
// derived from it at read time and never persisted.
type Item struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Kind  Kind   `gorm:"not null" json:"kind"`
	Title string `gorm:"not null" json:"title"`
	Color string `json:"color"`

	// Start/End define the first occurrence's span; End-Start is the
	// duration of every generated occurrence.
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `gorm:"default:false" json:"all_day"`

	// Event-specific
	Location string `json:"location"`

	// Todo-specific
	Priority int `gorm:"default:0" json:"priority"` // 0=none, 1=low, 2=medium, 3=high

	Privacy string `gorm:"default:private" json:"privacy"` // private, friends, public

	RecurrenceRule `gorm:"embedded"`

	// Relationships
	Subtasks   []Subtask  `gorm:"foreignKey:ItemID" json:"subtasks"`
	Categories []Category `gorm:"many2many:item_categories;" json:"categories"`
}

// Duration is the span of a single occurrence.
func (i Item) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Subtask is a child step of a todo master. Completion state lives here
// until the owning occurrence's subtasks are overridden.
type Subtask struct {
	ID       string     `gorm:"primaryKey" json:"id"`
	ItemID   string     `gorm:"index;not null" json:"item_id"`
	Title    string     `gorm:"not null" json:"title"`
	Position int        `json:"position"`
	Done     bool       `gorm:"default:false" json:"done"`
	DoneAt   *time.Time `json:"done_at"`
}

// Category labels items; shared across masters.
type Category struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	Items []Item `gorm:"many2many:item_categories;" json:"-"`
}

// ItemCategory is the join table for the many-to-many relationship.
type ItemCategory struct {
	ItemID     string `gorm:"primaryKey"`
	CategoryID string `gorm:"primaryKey"`
}
