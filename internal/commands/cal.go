package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/tui"
)

var calCmd = &cobra.Command{
	Use:   "cal",
	Short: "Open the calendar in the configured default view",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		if err := tui.RunCalendar(cfg.DefaultView, cfg.HourHeight, cfg.WeekStart); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Open the interactive day view",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		if err := tui.RunCalendar("day", cfg.HourHeight, cfg.WeekStart); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Open the interactive week view",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		if err := tui.RunCalendar("week", cfg.HourHeight, cfg.WeekStart); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}
