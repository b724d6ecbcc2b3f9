package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/ics"
	"github.com/daybook-app/daybook/internal/models"
)

var importCmd = &cobra.Command{
	Use:   "import [file.ics]",
	Short: "Import events from an iCalendar file",
	Long: `Import VEVENTs from an iCalendar (.ics) file as new items. Supported
RRULEs become repeat rules; events daybook cannot express are skipped
with a warning.`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Printf("Error opening %s: %v\n", args[0], err)
			return
		}
		defer f.Close()

		events, err := ics.Parse(f)
		if err != nil {
			fmt.Printf("Error parsing %s: %v\n", args[0], err)
			return
		}
		if len(events) == 0 {
			fmt.Println("No importable events found.")
			return
		}

		imported := 0
		for _, ev := range events {
			req := db.CreateItemRequest{
				Kind:      models.KindEvent,
				Title:     ev.Title,
				Location:  ev.Location,
				Start:     ev.Start,
				End:       ev.End,
				AllDay:    ev.AllDay,
				Schedule:  ev.Rule.Schedule,
				Days:      ev.Rule.Days,
				EndRepeat: ev.Rule.EndRepeat,
			}
			item, err := db.CreateItem(req)
			if err != nil {
				fmt.Printf("❌ Skipped \"%s\": %v\n", ev.Title, err)
				continue
			}
			imported++
			fmt.Printf("✅ Imported \"%s\" as %s\n", item.Title, shortID(item.ID))
		}
		fmt.Printf("Done: %d of %d events imported.\n", imported, len(events))
	}),
}
