package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/parser"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete an item or one of its occurrences",
	Long: `Delete a master item and everything attached to it, or with --on just
tombstone the single occurrence on that date.`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		item, err := resolveItem(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		onStr, _ := cmd.Flags().GetString("on")
		if onStr != "" {
			day, err := parser.ParseDate(onStr)
			if err != nil {
				fmt.Printf("Error parsing --on: %v\n", err)
				return
			}
			if err := db.DeleteOccurrence(item.ID, *day); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("🗑️  Removed \"%s\" on %s (series unchanged)\n", item.Title, parser.FormatDay(*day))
			return
		}

		if err := db.DeleteItem(item.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted %s \"%s\" and all its occurrences\n", item.Kind, item.Title)
	}),
}

func init() {
	deleteCmd.Flags().String("on", "", "Delete only the occurrence on this date")
}
