package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daybook-app/daybook/internal/edit"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
)

// GetOverrides retrieves every override row for a master.
func GetOverrides(masterID string) ([]models.Override, error) {
	var overrides []models.Override
	if err := DB.Where("parent_id = ?", masterID).Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// EditResult reports what an applied edit did, for command output.
type EditResult struct {
	Plan        edit.Plan
	NewMasterID string
}

// ApplyEdit plans an edit against the master's current state and
// executes the plan in a single transaction. Nothing is considered
// changed until the transaction commits.
func ApplyEdit(masterID string, e edit.Edit, scope edit.Scope, anchor time.Time) (*EditResult, error) {
	master, err := GetItemByID(masterID)
	if err != nil {
		return nil, err
	}
	overrides, err := GetOverrides(masterID)
	if err != nil {
		return nil, err
	}

	plan, err := edit.Apply(*master, e, scope, anchor, overrides)
	if err != nil {
		return nil, err
	}
	result := &EditResult{Plan: plan}
	if plan.Empty() {
		return result, nil
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		if len(plan.MasterPatch) > 0 {
			if err := tx.Model(&models.Item{}).Where("id = ?", master.ID).
				Updates(plan.MasterPatch).Error; err != nil {
				return err
			}
		}

		if plan.NewMaster != nil {
			nm := *plan.NewMaster
			nm.ID = uuid.NewString()
			// The successor inherits the master's checklist as fresh rows
			// and shares its categories.
			for _, st := range master.Subtasks {
				nm.Subtasks = append(nm.Subtasks, models.Subtask{
					ID:       uuid.NewString(),
					Title:    st.Title,
					Position: st.Position,
				})
			}
			nm.Categories = master.Categories
			if err := tx.Create(&nm).Error; err != nil {
				return err
			}
			result.NewMasterID = nm.ID
		}

		for _, ov := range plan.Upserts {
			if err := upsertOverride(tx, ov); err != nil {
				return err
			}
		}

		for _, n := range plan.Nullify {
			if n.OverrideID == "" || len(n.Fields) == 0 {
				continue
			}
			if err := tx.Model(&models.Override{}).Where("id = ?", n.OverrideID).
				Updates(nullColumns(n.Fields)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info().Str("id", master.ID).Str("scope", string(scope)).
		Int("upserts", len(plan.Upserts)).Int("nullified", len(plan.Nullify)).
		Bool("split", plan.NewMaster != nil).Msg("edit applied")
	return result, nil
}

// upsertOverride writes an override row keyed by (parent_id, day_key),
// preserving the monotonic markers of any row already there.
func upsertOverride(tx *gorm.DB, ov models.Override) error {
	var existing models.Override
	err := tx.Where("parent_id = ? AND day_key = ?", ov.ParentID, ov.DayKey).
		First(&existing).Error
	switch {
	case err == nil:
		ov.ID = existing.ID
		ov.CreatedAt = existing.CreatedAt
		mergeMonotonic(&ov, existing)
		return tx.Save(&ov).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		if ov.ID == "" {
			ov.ID = uuid.NewString()
		}
		return tx.Create(&ov).Error
	default:
		return err
	}
}

// mergeMonotonic keeps one-way markers set: a||b for the flags, and a
// CompletedAt already recorded wins over anything later.
func mergeMonotonic(dst *models.Override, prev models.Override) {
	if prev.CompletedAt != nil {
		dst.CompletedAt = prev.CompletedAt
	}
	dst.AllMembersStarted = dst.AllMembersStarted || prev.AllMembersStarted
	dst.StartedSubtasks = dst.StartedSubtasks || prev.StartedSubtasks
	dst.Deleted = dst.Deleted || prev.Deleted
	dst.SubtasksOverridden = dst.SubtasksOverridden || prev.SubtasksOverridden
	dst.CategoriesOverridden = dst.CategoriesOverridden || prev.CategoriesOverridden
	if dst.ImageRef == "" {
		dst.ImageRef = prev.ImageRef
	}
}

// nullColumns maps edited fields to column resets.
func nullColumns(fields []edit.Field) map[string]any {
	cols := make(map[string]any, len(fields))
	for _, f := range fields {
		cols[string(f)] = nil
	}
	return cols
}

// CompleteOccurrence marks one occurrence done via its override row.
// Completion is monotonic: a second call is a no-op.
func CompleteOccurrence(masterID string, day time.Time) (*models.Override, error) {
	key := models.DayKeyOf(day)
	var result models.Override
	err := DB.Transaction(func(tx *gorm.DB) error {
		ov, err := overrideRowFor(tx, masterID, key)
		if err != nil {
			return err
		}
		if ov.CompletedAt == nil {
			now := time.Now()
			ov.CompletedAt = &now
		}
		result = *ov
		return tx.Save(ov).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteOccurrence tombstones one occurrence. The deleted override
// cascades: its subtask and category override rows go with it, and any
// stored image reference is released.
func DeleteOccurrence(masterID string, day time.Time) error {
	key := models.DayKeyOf(day)
	return DB.Transaction(func(tx *gorm.DB) error {
		ov, err := overrideRowFor(tx, masterID, key)
		if err != nil {
			return err
		}
		ov.Deleted = true
		ov.ImageRef = ""
		if err := tx.Where("override_id = ?", ov.ID).Delete(&models.SubtaskOverride{}).Error; err != nil {
			return err
		}
		if err := tx.Where("override_id = ?", ov.ID).Delete(&models.OverrideCategory{}).Error; err != nil {
			return err
		}
		return tx.Save(ov).Error
	})
}

// OverrideSubtasks replaces one occurrence's checklist with the given
// titles. On the first divergence the master's subtasks are seeded into
// override rows - completed ones re-pointed, not dropped, so completion
// history survives. Afterwards edits operate purely on the override set.
func OverrideSubtasks(masterID string, day time.Time, titles []string) error {
	key := models.DayKeyOf(day)
	return DB.Transaction(func(tx *gorm.DB) error {
		ov, err := overrideRowFor(tx, masterID, key)
		if err != nil {
			return err
		}

		if !ov.SubtasksOverridden {
			var masterSubs []models.Subtask
			if err := tx.Where("item_id = ?", masterID).Order("position").
				Find(&masterSubs).Error; err != nil {
				return err
			}
			for _, st := range masterSubs {
				src := st.ID
				row := models.SubtaskOverride{
					ID:         uuid.NewString(),
					OverrideID: ov.ID,
					SourceID:   &src,
					Title:      st.Title,
					Position:   st.Position,
					Done:       st.Done,
					DoneAt:     st.DoneAt,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			ov.SubtasksOverridden = true
			if err := tx.Save(ov).Error; err != nil {
				return err
			}
		}

		var existing []models.SubtaskOverride
		if err := tx.Where("override_id = ?", ov.ID).Order("position").
			Find(&existing).Error; err != nil {
			return err
		}

		wanted := make(map[string]bool, len(titles))
		for _, t := range titles {
			wanted[strings.TrimSpace(t)] = true
		}

		kept := make(map[string]bool)
		for _, row := range existing {
			if wanted[row.Title] {
				kept[row.Title] = true
				continue
			}
			// Removed subtasks lose their rows and completion state.
			if err := tx.Delete(&row).Error; err != nil {
				return err
			}
		}

		pos := len(existing)
		for _, t := range titles {
			t = strings.TrimSpace(t)
			if t == "" || kept[t] {
				continue
			}
			row := models.SubtaskOverride{
				ID:         uuid.NewString(),
				OverrideID: ov.ID,
				Title:      t,
				Position:   pos,
			}
			pos++
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// OverrideCategories replaces one occurrence's category set with the
// named categories, creating any that don't exist yet.
func OverrideCategories(masterID string, day time.Time, names []string) error {
	categories, err := findOrCreateCategories(names)
	if err != nil {
		return err
	}

	key := models.DayKeyOf(day)
	return DB.Transaction(func(tx *gorm.DB) error {
		ov, err := overrideRowFor(tx, masterID, key)
		if err != nil {
			return err
		}

		if err := tx.Where("override_id = ?", ov.ID).Delete(&models.OverrideCategory{}).Error; err != nil {
			return err
		}
		for _, cat := range categories {
			row := models.OverrideCategory{OverrideID: ov.ID, CategoryID: cat.ID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		ov.CategoriesOverridden = true
		return tx.Save(ov).Error
	})
}

// RevertSubtaskOverridesForAll reverts subtask divergence on every
// occurrence of a master at once.
//
// WARNING: destructive by contract. Every subtask override row for the
// master is deleted, including completed ones - their completion history
// is gone. Callers must confirm before invoking this.
func RevertSubtaskOverridesForAll(masterID string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var overrideIDs []string
		if err := tx.Model(&models.Override{}).
			Where("parent_id = ? AND subtasks_overridden = ?", masterID, true).
			Pluck("id", &overrideIDs).Error; err != nil {
			return err
		}
		if len(overrideIDs) == 0 {
			return nil
		}
		if err := tx.Where("override_id IN ?", overrideIDs).
			Delete(&models.SubtaskOverride{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Override{}).Where("id IN ?", overrideIDs).
			Update("subtasks_overridden", false).Error; err != nil {
			return err
		}
		logging.Warn().Str("id", masterID).Int("overrides", len(overrideIDs)).
			Msg("subtask overrides reverted; completion history discarded")
		return nil
	})
}

// overrideRowFor loads or creates the override row for (masterID, key).
func overrideRowFor(tx *gorm.DB, masterID string, key time.Time) (*models.Override, error) {
	var ov models.Override
	err := tx.Where("parent_id = ? AND day_key = ?", masterID, key).First(&ov).Error
	switch {
	case err == nil:
		return &ov, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		ov = models.Override{
			ID:       uuid.NewString(),
			ParentID: masterID,
			DayKey:   key,
		}
		if err := tx.Create(&ov).Error; err != nil {
			return nil, fmt.Errorf("failed to create override: %w", err)
		}
		return &ov, nil
	default:
		return nil, err
	}
}
