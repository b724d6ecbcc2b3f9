package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/parser"
)

var doneCmd = &cobra.Command{
	Use:   "done [item-id]",
	Short: "Mark one occurrence as completed",
	Long: `Mark one occurrence of an item as completed. Completion sticks to the
single occurrence, not the series, and is never undone by later edits.`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		item, err := resolveItem(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
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

		ov, err := db.CompleteOccurrence(item.ID, *day)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Completed \"%s\" on %s\n", item.Title, parser.FormatDay(*day))
		if ov.CompletedAt != nil {
			fmt.Printf("Completed at: %s\n", ov.CompletedAt.Format("15:04:05"))
		}
	}),
}

func init() {
	doneCmd.Flags().String("on", "", "Occurrence date: dd/mm/yyyy, today, tomorrow")
}
