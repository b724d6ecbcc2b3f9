package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/edit"
	"github.com/daybook-app/daybook/internal/parser"
)

var editCmd = &cobra.Command{
	Use:   "edit [item-id]",
	Short: "Edit an item across a chosen scope",
	Long: `Edit fields of an item with a scope controlling how far the change
reaches:

  today   change only the occurrence on the anchor date
  future  change the anchor occurrence and everything after it
  all     change every occurrence, past and future

Changing --repeat or --days with --scope future splits the series: the
original stops before the anchor and a new item carries on from it.`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		item, err := resolveItem(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		scopeStr, _ := cmd.Flags().GetString("scope")
		scope := edit.Scope(scopeStr)
		if !edit.ValidScope(scope) {
			fmt.Printf("Error: scope must be today, future or all, got '%s'\n", scopeStr)
			return
		}

		onStr, _ := cmd.Flags().GetString("on")
		if onStr == "" {
			onStr = "today"
		}
		day, err := parser.ParseDate(onStr)
		if err != nil {
			fmt.Printf("Error parsing --on: %v\n", err)
			return
		}
		anchor := *day

		// Subtask changes ride their own path, not the field-edit planner.
		if cmd.Flags().Changed("subtasks") {
			titles, _ := cmd.Flags().GetStringSlice("subtasks")
			if err := db.OverrideSubtasks(item.ID, anchor, titles); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("✅ Subtasks updated for \"%s\" on %s\n", item.Title, parser.FormatDay(anchor))
			return
		}
		if cmd.Flags().Changed("categories") {
			names, _ := cmd.Flags().GetStringSlice("categories")
			if err := db.OverrideCategories(item.ID, anchor, names); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("✅ Categories updated for \"%s\" on %s\n", item.Title, parser.FormatDay(anchor))
			return
		}
		if revert, _ := cmd.Flags().GetBool("revert-subtasks"); revert {
			if !confirmRevert(cmd) {
				fmt.Println("❌ Cancelled.")
				return
			}
			if err := db.RevertSubtaskOverridesForAll(item.ID); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("✅ Subtask changes reverted on every occurrence of \"%s\"\n", item.Title)
			return
		}

		e, err := buildEdit(cmd, anchor)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(e.Fields()) == 0 {
			fmt.Println("Nothing to change. Pass at least one field flag (see --help).")
			return
		}

		result, err := db.ApplyEdit(item.ID, *e, scope, anchor)
		if err != nil {
			if errors.Is(err, edit.ErrAnchorNotOccurrence) {
				fmt.Printf("Error: \"%s\" has no occurrence on %s, cannot split there\n",
					item.Title, parser.FormatDay(anchor))
				return
			}
			fmt.Printf("Error: %v\n", err)
			return
		}

		printEditResult(item.Title, scope, anchor, result)
	}),
}

// buildEdit turns the changed flags into an edit value. --at and
// --duration resolve against the anchor date.
func buildEdit(cmd *cobra.Command, anchor time.Time) (*edit.Edit, error) {
	var e edit.Edit

	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		e.Title = &v
	}
	if cmd.Flags().Changed("at") {
		atStr, _ := cmd.Flags().GetString("at")
		hour, minute, err := parser.ParseClock(atStr)
		if err != nil {
			return nil, fmt.Errorf("parsing --at: %w", err)
		}
		start := anchor.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		e.Start = &start

		if cmd.Flags().Changed("duration") {
			mins, _ := cmd.Flags().GetInt("duration")
			if mins < 0 {
				return nil, fmt.Errorf("duration must be a number of minutes")
			}
			end := start.Add(time.Duration(mins) * time.Minute)
			e.End = &end
		}
	} else if cmd.Flags().Changed("duration") {
		return nil, fmt.Errorf("--duration needs --at")
	}
	if cmd.Flags().Changed("location") {
		v, _ := cmd.Flags().GetString("location")
		e.Location = &v
	}
	if cmd.Flags().Changed("priority") {
		v, _ := cmd.Flags().GetInt("priority")
		if v < 0 || v > 3 {
			return nil, fmt.Errorf("priority must be 0-3")
		}
		e.Priority = &v
	}
	if cmd.Flags().Changed("privacy") {
		v, _ := cmd.Flags().GetString("privacy")
		e.Privacy = &v
	}
	if cmd.Flags().Changed("color") {
		v, _ := cmd.Flags().GetString("color")
		e.Color = &v
	}
	if cmd.Flags().Changed("days") {
		daysStr, _ := cmd.Flags().GetString("days")
		days, err := parser.ParseWeekdays(daysStr)
		if err != nil {
			return nil, fmt.Errorf("parsing --days: %w", err)
		}
		e.Days = &days
	}
	if cmd.Flags().Changed("repeat") {
		repeatStr, _ := cmd.Flags().GetString("repeat")
		schedule, err := parser.ParseSchedule(repeatStr)
		if err != nil {
			return nil, fmt.Errorf("parsing --repeat: %w", err)
		}
		e.Schedule = &schedule
	}
	return &e, nil
}

// confirmRevert prompts before discarding subtask completion history.
func confirmRevert(cmd *cobra.Command) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Print("⚠️  This discards subtask completion history on every occurrence. Continue? [y/N] ")
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}

func printEditResult(title string, scope edit.Scope, anchor time.Time, result *db.EditResult) {
	if result.Plan.Empty() {
		fmt.Println("No change: the values already match.")
		return
	}

	switch scope {
	case edit.ScopeToday:
		fmt.Printf("✅ Changed \"%s\" on %s only\n", title, parser.FormatDay(anchor))
	case edit.ScopeFuture:
		if result.NewMasterID != "" {
			fmt.Printf("✅ Split \"%s\" at %s\n", title, parser.FormatDay(anchor))
			fmt.Printf("New series ID: %s\n", shortID(result.NewMasterID))
		} else {
			fmt.Printf("✅ Changed \"%s\" from %s onward (%d occurrences)\n",
				title, parser.FormatDay(anchor), len(result.Plan.Upserts))
		}
	case edit.ScopeAll:
		fmt.Printf("✅ Changed \"%s\" everywhere\n", title)
		if len(result.Plan.Nullify) > 0 {
			fmt.Printf("Reset %d earlier per-occurrence edits\n", len(result.Plan.Nullify))
		}
	}
}

func init() {
	editCmd.Flags().StringP("scope", "s", "today", "Edit scope: today, future or all")
	editCmd.Flags().String("on", "", "Anchor date: dd/mm/yyyy, today, tomorrow")
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().String("at", "", "New start time HH:MM")
	editCmd.Flags().Int("duration", 0, "New duration in minutes (with --at)")
	editCmd.Flags().StringP("location", "l", "", "New location")
	editCmd.Flags().IntP("priority", "p", 0, "New priority 0-3")
	editCmd.Flags().String("privacy", "", "New privacy: private, friends or public")
	editCmd.Flags().String("color", "", "New color name")
	editCmd.Flags().String("days", "", "New weekdays: mon,wed,fri (structural)")
	editCmd.Flags().StringP("repeat", "r", "", "New schedule (structural)")
	editCmd.Flags().StringSlice("subtasks", []string{}, "Replace the occurrence's subtasks")
	editCmd.Flags().StringSlice("categories", []string{}, "Replace the occurrence's categories")
	editCmd.Flags().Bool("revert-subtasks", false, "Revert subtask changes on every occurrence")
	editCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
}
