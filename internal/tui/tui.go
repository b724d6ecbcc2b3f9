package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunItemForm starts the interactive add/edit item TUI.
func RunItemForm(prefilled map[string]string) error {
	model := NewItemFormModel(prefilled)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()

	// Handle exit messages after TUI closes
	if err != nil {
		return err
	}

	if m, ok := finalModel.(ItemFormModel); ok {
		if m.cancelled {
			fmt.Println("❌ Cancelled.")
		} else if m.completed && m.createdID != "" {
			fmt.Printf("✅ %s \"%s\" added - ID: %s\n", m.createdKind, m.createdTitle, shortID(m.createdID))
		} else if m.err != nil {
			fmt.Printf("❌ Error: %v\n", m.err)
		}
	}

	return nil
}

// RunCalendar starts the interactive day/week calendar TUI.
func RunCalendar(view string, hourHeight float64, weekStart string) error {
	model := NewCalendarModel(view, hourHeight, weekStart)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
