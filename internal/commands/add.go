package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/parser"
	"github.com/daybook-app/daybook/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new event or todo",
	Long: `Add a new event or todo, optionally recurring.

Modes:
  Interactive: daybook add (no arguments)
  Quick: daybook add "Standup" --on tomorrow --at 09:30 --repeat weekly --days mon,wed,fri --until 31/12/2026

Without --at the item is all-day.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initDB()

		// No args: go interactive
		if len(args) == 0 {
			prefilled := prefilledFromFlags(cmd)
			if err := tui.RunItemForm(prefilled); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		runDirectAdd(cmd, strings.Join(args, " "))
	},
}

// prefilledFromFlags maps flag values into form fields.
func prefilledFromFlags(cmd *cobra.Command) map[string]string {
	prefilled := make(map[string]string)
	flagKeys := map[string]string{
		"kind": "kind", "on": "date", "at": "time", "duration": "duration",
		"repeat": "repeat", "days": "days", "until": "until",
		"location": "location", "priority": "priority",
	}
	for flag, field := range flagKeys {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			prefilled[field] = v
		}
	}
	if subtasks, _ := cmd.Flags().GetStringSlice("subtask"); len(subtasks) > 0 {
		prefilled["subtasks"] = strings.Join(subtasks, ", ")
	}
	if categories, _ := cmd.Flags().GetStringSlice("category"); len(categories) > 0 {
		prefilled["categories"] = strings.Join(categories, ", ")
	}
	return prefilled
}

// runDirectAdd creates the item directly without the TUI.
func runDirectAdd(cmd *cobra.Command, title string) {
	req := db.CreateItemRequest{Title: title, Kind: models.KindEvent}

	if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
		req.Kind = models.Kind(kind)
	}

	onStr, _ := cmd.Flags().GetString("on")
	if onStr == "" {
		onStr = "today"
	}
	date, err := parser.ParseDate(onStr)
	if err != nil {
		fmt.Printf("Error parsing --on: %v\n", err)
		return
	}

	atStr, _ := cmd.Flags().GetString("at")
	if atStr == "" {
		req.AllDay = true
		req.Start = *date
		req.End = *date
	} else {
		hour, minute, err := parser.ParseClock(atStr)
		if err != nil {
			fmt.Printf("Error parsing --at: %v\n", err)
			return
		}
		req.Start = date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

		durMins, _ := cmd.Flags().GetInt("duration")
		if durMins <= 0 {
			durMins = 60
		}
		req.End = req.Start.Add(time.Duration(durMins) * time.Minute)
	}

	repeatStr, _ := cmd.Flags().GetString("repeat")
	req.Schedule, err = parser.ParseSchedule(repeatStr)
	if err != nil {
		fmt.Printf("Error parsing --repeat: %v\n", err)
		return
	}
	if daysStr, _ := cmd.Flags().GetString("days"); daysStr != "" {
		req.Days, err = parser.ParseWeekdays(daysStr)
		if err != nil {
			fmt.Printf("Error parsing --days: %v\n", err)
			return
		}
	}
	if untilStr, _ := cmd.Flags().GetString("until"); untilStr != "" {
		until, err := parser.ParseDate(untilStr)
		if err != nil {
			fmt.Printf("Error parsing --until: %v\n", err)
			return
		}
		req.EndRepeat = until.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	req.Location, _ = cmd.Flags().GetString("location")
	req.Color, _ = cmd.Flags().GetString("color")
	req.Priority, _ = cmd.Flags().GetInt("priority")
	req.Subtasks, _ = cmd.Flags().GetStringSlice("subtask")
	req.Categories, _ = cmd.Flags().GetStringSlice("category")

	item, err := db.CreateItem(req)
	if err != nil {
		fmt.Printf("Error creating item: %v\n", err)
		return
	}

	fmt.Printf("Created %s %s: %s\n", item.Kind, shortID(item.ID), item.Title)
	if item.AllDay {
		fmt.Printf("  When: %s (all day)\n", parser.FormatDay(item.Start))
	} else {
		fmt.Printf("  When: %s %s-%s\n", parser.FormatDay(item.Start),
			item.Start.Format("15:04"), item.End.Format("15:04"))
	}
	if item.Repeats() {
		line := fmt.Sprintf("  Repeats: %s", item.Schedule)
		if !item.Days.IsEmpty() {
			line += fmt.Sprintf(" on %s", item.Days)
		}
		line += fmt.Sprintf(" until %s", item.EndRepeat.Format("02/01/2006"))
		fmt.Println(line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	addCmd.Flags().StringP("kind", "k", "", "Item kind: event or todo")
	addCmd.Flags().String("on", "", "Date: dd/mm/yyyy, today, tomorrow, X days")
	addCmd.Flags().String("at", "", "Start time HH:MM (omit for all-day)")
	addCmd.Flags().Int("duration", 60, "Duration in minutes")
	addCmd.Flags().StringP("repeat", "r", "", "Repeat: none, daily, weekly, biweekly, monthly, yearly")
	addCmd.Flags().String("days", "", "Weekdays for weekly/biweekly: mon,wed,fri")
	addCmd.Flags().String("until", "", "Last repeat date: dd/mm/yyyy")
	addCmd.Flags().StringP("location", "l", "", "Location (events)")
	addCmd.Flags().String("color", "", "Color: red, orange, yellow, green, teal, blue, purple, pink, grey")
	addCmd.Flags().IntP("priority", "p", 0, "Priority 0-3 (todos)")
	addCmd.Flags().StringSlice("subtask", []string{}, "Subtask title (repeatable)")
	addCmd.Flags().StringSlice("category", []string{}, "Category name (repeatable)")
}
