package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/recurrence"
)

// CreateItemRequest holds the data needed to create a new master item.
type CreateItemRequest struct {
	Kind     models.Kind
	Title    string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Color    string
	Location string
	Priority int
	Privacy  string

	Schedule  models.Schedule
	Days      models.Weekdays
	EndRepeat time.Time

	Subtasks   []string
	Categories []string
}

// CreateItem validates and persists a new master item.
//
// Recurrence validation happens here, not in the generator: a weekly or
// biweekly item whose weekday set misses its own start weekday would
// silently never recur as itself, so the start weekday is auto-included.
func CreateItem(req CreateItemRequest) (*models.Item, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.Kind != models.KindEvent && req.Kind != models.KindTodo {
		return nil, fmt.Errorf("kind must be event or todo, got %q", req.Kind)
	}
	if req.Schedule == "" {
		req.Schedule = models.RepeatNone
	}
	if !models.ValidSchedule(req.Schedule) {
		return nil, fmt.Errorf("unknown repeat schedule %q", req.Schedule)
	}
	if req.End.IsZero() {
		req.End = req.Start.Add(time.Hour)
	}
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("end %s is before start %s", req.End.Format(time.RFC3339), req.Start.Format(time.RFC3339))
	}
	if req.Privacy == "" {
		req.Privacy = "private"
	}

	rule := models.RecurrenceRule{Schedule: req.Schedule, Days: req.Days, EndRepeat: req.EndRepeat}
	if rule.Repeats() {
		if rule.EndRepeat.IsZero() {
			return nil, fmt.Errorf("repeating items need an end-of-repeat date")
		}
		if rule.EndRepeat.Before(req.Start) {
			return nil, fmt.Errorf("end-of-repeat is before start")
		}
		if req.Schedule == models.RepeatWeekly || req.Schedule == models.RepeatBiweekly {
			rule.Days = rule.Days.With(req.Start.Weekday())
		} else {
			rule.Days = 0
		}
	} else {
		rule.Days = 0
		rule.EndRepeat = req.End
	}

	item := models.Item{
		ID:             uuid.NewString(),
		Kind:           req.Kind,
		Title:          req.Title,
		Color:          req.Color,
		Start:          req.Start,
		End:            req.End,
		AllDay:         req.AllDay,
		Location:       req.Location,
		Priority:       req.Priority,
		Privacy:        req.Privacy,
		RecurrenceRule: rule,
	}

	for i, title := range req.Subtasks {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		item.Subtasks = append(item.Subtasks, models.Subtask{
			ID:       uuid.NewString(),
			Title:    title,
			Position: i,
		})
	}

	if len(req.Categories) > 0 {
		categories, err := findOrCreateCategories(req.Categories)
		if err != nil {
			return nil, err
		}
		item.Categories = categories
	}

	if err := DB.Create(&item).Error; err != nil {
		return nil, err
	}

	logging.Info().Str("id", item.ID).Str("kind", string(item.Kind)).
		Str("schedule", string(item.Schedule)).Msg("item created")
	return &item, nil
}

// findOrCreateCategories finds existing categories or creates new ones.
func findOrCreateCategories(names []string) ([]models.Category, error) {
	var categories []models.Category

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var category models.Category
		err := DB.Where("name = ?", name).First(&category).Error
		if err != nil {
			category = models.Category{ID: uuid.NewString(), Name: name}
			if err := DB.Create(&category).Error; err != nil {
				return nil, err
			}
		}

		categories = append(categories, category)
	}

	return categories, nil
}

// GetItemByID retrieves one master with its children.
func GetItemByID(id string) (*models.Item, error) {
	var item models.Item
	if err := DB.Preload("Subtasks").Preload("Categories").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItems retrieves all masters with their children.
func GetItems() ([]models.Item, error) {
	var items []models.Item
	if err := DB.Preload("Subtasks").Preload("Categories").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItem removes a master and cascades its overrides and children.
func DeleteItem(id string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var overrideIDs []string
		if err := tx.Model(&models.Override{}).Where("parent_id = ?", id).
			Pluck("id", &overrideIDs).Error; err != nil {
			return err
		}
		if len(overrideIDs) > 0 {
			if err := tx.Where("override_id IN ?", overrideIDs).Delete(&models.SubtaskOverride{}).Error; err != nil {
				return err
			}
			if err := tx.Where("override_id IN ?", overrideIDs).Delete(&models.OverrideCategory{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("parent_id = ?", id).Delete(&models.Override{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		logging.Info().Str("id", id).Msg("item deleted")
		return nil
	})
}

// OccurrencesBetween expands every master over [from, to], merges
// overrides and returns the visible occurrences sorted by start.
func OccurrencesBetween(from, to time.Time) ([]recurrence.Occurrence, error) {
	items, err := GetItems()
	if err != nil {
		return nil, err
	}

	var occs []recurrence.Occurrence
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
		occs = append(occs, recurrence.Generate(it, from, to)...)
	}
	if len(occs) == 0 {
		return nil, nil
	}

	// Day keys are UTC midnights derived from local dates; pad the range
	// a day each way so zone offsets can't drop an override.
	var overrides []models.Override
	if err := DB.Where("parent_id IN ? AND day_key BETWEEN ? AND ?",
		ids, models.DayKeyOf(from).AddDate(0, 0, -1), models.DayKeyOf(to).AddDate(0, 0, 1)).
		Find(&overrides).Error; err != nil {
		return nil, err
	}

	return recurrence.ApplyOverrides(occs, overrides), nil
}
