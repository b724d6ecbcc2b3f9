package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/ics"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/parser"
	"github.com/daybook-app/daybook/internal/recurrence"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all items as iCalendar",
	Long: `Export every item as an iCalendar (.ics) document. Repeat rules map
onto RRULEs and deleted occurrences onto EXDATEs. Writes to stdout
unless --output is given.`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		items, err := db.GetItems()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		items, err = filterByWindow(cmd, items)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var overrides []models.Override
		for _, it := range items {
			ovs, err := db.GetOverrides(it.ID)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			overrides = append(overrides, ovs...)
		}

		out, err := ics.Export(items, overrides)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" {
			fmt.Print(out)
			return
		}
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			return
		}
		fmt.Printf("✅ Exported %d items to %s\n", len(items), path)
	}),
}

// filterByWindow keeps only items with at least one occurrence in the
// --from/--to window, when either flag is set.
func filterByWindow(cmd *cobra.Command, items []models.Item) ([]models.Item, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	if fromStr == "" && toStr == "" {
		return items, nil
	}

	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.Local)
	if fromStr != "" {
		d, err := parser.ParseDate(fromStr)
		if err != nil {
			return nil, fmt.Errorf("parsing --from: %w", err)
		}
		from = *d
	}
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)
	if toStr != "" {
		d, err := parser.ParseDate(toStr)
		if err != nil {
			return nil, fmt.Errorf("parsing --to: %w", err)
		}
		to = d.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	var out []models.Item
	for _, it := range items {
		if len(recurrence.Generate(it, from, to)) > 0 {
			out = append(out, it)
		}
	}
	return out, nil
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().String("from", "", "Only items occurring on or after this date")
	exportCmd.Flags().String("to", "", "Only items occurring on or before this date")
}
