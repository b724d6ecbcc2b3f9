package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/parser"
	"github.com/daybook-app/daybook/internal/recurrence"
	"github.com/daybook-app/daybook/internal/tui"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "List upcoming occurrences",
	Long: `List the expanded occurrences over the coming days, with per-occurrence
edits and completions already applied.`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		if days < 1 {
			days = 1
		}

		fromStr, _ := cmd.Flags().GetString("from")
		if fromStr == "" {
			fromStr = "today"
		}
		fromDate, err := parser.ParseDate(fromStr)
		if err != nil {
			fmt.Printf("Error parsing --from: %v\n", err)
			return
		}

		from := *fromDate
		to := from.AddDate(0, 0, days).Add(-time.Nanosecond)
		occs, err := db.OccurrencesBetween(from, to)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(occs) == 0 {
			fmt.Printf("Nothing scheduled between %s and %s.\n",
				parser.FormatDay(from), parser.FormatDay(to))
			return
		}

		printAgenda(occs, from, days)
	}),
}

func printAgenda(occs []recurrence.Occurrence, from time.Time, days int) {
	dayStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentMain))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSecondaryText))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorSuccess)).Strikethrough(true)

	byDay := make(map[time.Time][]recurrence.Occurrence)
	for _, occ := range occs {
		day := recurrence.StartOfDay(occ.Start)
		byDay[day] = append(byDay[day], occ)
	}

	for d := 0; d < days; d++ {
		day := recurrence.StartOfDay(from).AddDate(0, 0, d)
		dayOccs := byDay[day]
		if len(dayOccs) == 0 {
			continue
		}

		fmt.Println(dayStyle.Render(day.Format("Monday, 02 Jan")))
		for _, occ := range dayOccs {
			var when string
			if occ.AllDay {
				when = "all day    "
			} else {
				when = fmt.Sprintf("%s-%s", occ.Start.Format("15:04"), occ.End.Format("15:04"))
			}

			line := occ.Title
			if occ.Kind == models.KindTodo {
				box := "[ ]"
				if occ.Completed {
					box = "[x]"
				}
				line = box + " " + line
			}
			if occ.Location != "" {
				line += dimStyle.Render(" @ " + occ.Location)
			}
			if occ.Completed {
				line = doneStyle.Render(line)
			}
			fmt.Printf("  %s  %s  %s\n", dimStyle.Render(when), line, dimStyle.Render(shortID(occ.ItemID)))
		}
		fmt.Println()
	}
}

func init() {
	agendaCmd.Flags().IntP("days", "n", 7, "Number of days to show")
	agendaCmd.Flags().String("from", "", "First date: dd/mm/yyyy, today, tomorrow")
}
