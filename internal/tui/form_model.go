package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/parser"
)

// Form field indices
const (
	fieldTitle = iota
	fieldKind
	fieldDate
	fieldTime
	fieldDuration
	fieldRepeat
	fieldDays
	fieldUntil
	fieldLocation
	fieldPriority
	fieldSubtasks
	fieldCategories
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Kind (event/todo)",
	"Date (dd/mm/yyyy, today, tomorrow)",
	"Time (HH:MM, empty = all-day)",
	"Duration (minutes)",
	"Repeat (none/daily/weekly/biweekly/monthly/yearly)",
	"Weekdays (mon,wed,fri - weekly/biweekly only)",
	"Repeat until (dd/mm/yyyy)",
	"Location",
	"Priority (0-3)",
	"Subtasks (comma-separated)",
	"Categories (comma-separated)",
}

// ItemFormModel is the interactive create-item form.
type ItemFormModel struct {
	width  int
	height int

	inputs  [fieldCount]textinput.Model
	focused int

	errMsg string

	// Exit state read by the runner after the TUI closes
	cancelled    bool
	completed    bool
	createdID    string
	createdTitle string
	createdKind  models.Kind
	err          error
}

// NewItemFormModel creates the form, optionally prefilled.
func NewItemFormModel(prefilled map[string]string) ItemFormModel {
	m := ItemFormModel{}

	placeholders := [fieldCount]string{
		"Dentist appointment",
		"event",
		"today",
		"09:00",
		"60",
		"none",
		"",
		"",
		"",
		"0",
		"",
		"",
	}
	keys := [fieldCount]string{
		"title", "kind", "date", "time", "duration",
		"repeat", "days", "until", "location", "priority",
		"subtasks", "categories",
	}

	for i := 0; i < fieldCount; i++ {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = 44
		if v, ok := prefilled[keys[i]]; ok {
			ti.SetValue(v)
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Focus()
	return m
}

// Init initializes the form model
func (m ItemFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m ItemFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "tab", "down", "enter":
			if msg.String() == "enter" && m.focused == fieldCount-1 {
				return m.submit()
			}
			m.inputs[m.focused].Blur()
			m.focused = (m.focused + 1) % fieldCount
			m.inputs[m.focused].Focus()
			return m, nil

		case "shift+tab", "up":
			m.inputs[m.focused].Blur()
			m.focused = (m.focused - 1 + fieldCount) % fieldCount
			m.inputs[m.focused].Focus()
			return m, nil

		case "ctrl+s":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// submit validates the form and creates the item.
func (m ItemFormModel) submit() (tea.Model, tea.Cmd) {
	req, err := m.buildRequest()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	item, err := db.CreateItem(*req)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	m.completed = true
	m.createdID = item.ID
	m.createdTitle = item.Title
	m.createdKind = item.Kind
	return m, tea.Quit
}

// buildRequest converts raw field text into a create request.
func (m ItemFormModel) buildRequest() (*db.CreateItemRequest, error) {
	req := db.CreateItemRequest{
		Title:    strings.TrimSpace(m.inputs[fieldTitle].Value()),
		Location: strings.TrimSpace(m.inputs[fieldLocation].Value()),
	}

	switch strings.TrimSpace(strings.ToLower(m.inputs[fieldKind].Value())) {
	case "", "event", "e":
		req.Kind = models.KindEvent
	case "todo", "t":
		req.Kind = models.KindTodo
	default:
		return nil, fmt.Errorf("kind must be event or todo")
	}

	dateStr := m.inputs[fieldDate].Value()
	if dateStr == "" {
		dateStr = "today"
	}
	date, err := parser.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	clock := strings.TrimSpace(m.inputs[fieldTime].Value())
	if clock == "" {
		req.AllDay = true
		req.Start = *date
		req.End = *date
	} else {
		hour, minute, err := parser.ParseClock(clock)
		if err != nil {
			return nil, err
		}
		req.Start = date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

		durStr := strings.TrimSpace(m.inputs[fieldDuration].Value())
		if durStr == "" {
			durStr = "60"
		}
		mins, err := strconv.Atoi(durStr)
		if err != nil || mins < 0 {
			return nil, fmt.Errorf("duration must be a number of minutes")
		}
		req.End = req.Start.Add(time.Duration(mins) * time.Minute)
	}

	req.Schedule, err = parser.ParseSchedule(m.inputs[fieldRepeat].Value())
	if err != nil {
		return nil, err
	}
	if daysStr := strings.TrimSpace(m.inputs[fieldDays].Value()); daysStr != "" {
		req.Days, err = parser.ParseWeekdays(daysStr)
		if err != nil {
			return nil, err
		}
	}
	if untilStr := strings.TrimSpace(m.inputs[fieldUntil].Value()); untilStr != "" {
		until, err := parser.ParseDate(untilStr)
		if err != nil {
			return nil, err
		}
		// End-of-repeat bounds the last occurrence start, so push it to
		// the end of the chosen day.
		req.EndRepeat = until.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	if prioStr := strings.TrimSpace(m.inputs[fieldPriority].Value()); prioStr != "" {
		prio, err := strconv.Atoi(prioStr)
		if err != nil || prio < 0 || prio > 3 {
			return nil, fmt.Errorf("priority must be 0-3")
		}
		req.Priority = prio
	}

	req.Subtasks = splitList(m.inputs[fieldSubtasks].Value())
	req.Categories = splitList(m.inputs[fieldCategories].Value())
	return &req, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// View renders the form
func (m ItemFormModel) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	focusedLabelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("daybook · new item"))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		style := labelStyle
		if i == m.focused {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + m.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
		Render("tab/↓ next · shift+tab/↑ previous · ctrl+s save · esc cancel"))
	return b.String()
}
