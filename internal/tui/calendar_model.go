package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/layout"
	"github.com/daybook-app/daybook/internal/recurrence"
)

const gutterWidth = 7 // "09:00 │"

// CalendarModel renders day and week calendar views on top of the
// layout engine. One terminal row equals one layout pixel, so zooming
// changes rows-per-hour directly.
type CalendarModel struct {
	width  int
	height int

	view      string // "day" or "week"
	anchor    time.Time
	weekStart string

	hourHeight float64

	occs    []recurrence.Occurrence
	loading bool
	err     error
}

type occurrencesMsg struct {
	occs []recurrence.Occurrence
	err  error
}

// NewCalendarModel creates a calendar model anchored on today.
func NewCalendarModel(view string, hourHeight float64, weekStart string) CalendarModel {
	if view != "day" && view != "week" {
		view = "week"
	}
	return CalendarModel{
		view:       view,
		anchor:     time.Now(),
		weekStart:  weekStart,
		hourHeight: layout.ClampHourHeight(hourHeight),
		loading:    true,
	}
}

// Init loads the first window of occurrences.
func (m CalendarModel) Init() tea.Cmd {
	return m.loadOccurrences()
}

// loadOccurrences fetches the visible window from the store.
func (m CalendarModel) loadOccurrences() tea.Cmd {
	from, to := m.visibleWindow()
	return func() tea.Msg {
		occs, err := db.OccurrencesBetween(from, to)
		return occurrencesMsg{occs: occs, err: err}
	}
}

// visibleWindow is the date span the current view shows.
func (m CalendarModel) visibleWindow() (time.Time, time.Time) {
	if m.view == "day" {
		day := recurrence.StartOfDay(m.anchor)
		return day, day.AddDate(0, 0, 1)
	}
	week := m.weekOrigin()
	return week, week.AddDate(0, 0, 7)
}

// weekOrigin is the first visible day of the anchor's week, honoring
// the configured week start.
func (m CalendarModel) weekOrigin() time.Time {
	day := recurrence.StartOfDay(m.anchor)
	first := time.Sunday
	if m.weekStart == "monday" {
		first = time.Monday
	}
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// Update handles messages
func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case occurrencesMsg:
		m.loading = false
		m.occs = msg.occs
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "+", "=":
			m.hourHeight = layout.ClampHourHeight(m.hourHeight + 24)
			return m, nil
		case "-", "_":
			m.hourHeight = layout.ClampHourHeight(m.hourHeight - 24)
			return m, nil

		case "left", "h":
			m.anchor = m.anchor.AddDate(0, 0, -m.stepDays())
			m.loading = true
			return m, m.loadOccurrences()
		case "right", "l":
			m.anchor = m.anchor.AddDate(0, 0, m.stepDays())
			m.loading = true
			return m, m.loadOccurrences()
		case "t":
			m.anchor = time.Now()
			m.loading = true
			return m, m.loadOccurrences()

		case "d":
			m.view = "day"
			m.loading = true
			return m, m.loadOccurrences()
		case "w":
			m.view = "week"
			m.loading = true
			return m, m.loadOccurrences()
		case "r":
			m.loading = true
			return m, m.loadOccurrences()
		}
	}

	return m, nil
}

func (m CalendarModel) stepDays() int {
	if m.view == "day" {
		return 1
	}
	return 7
}

// rowsPerHour maps the zoom factor onto terminal rows.
func (m CalendarModel) rowsPerHour() int {
	rows := int(m.hourHeight / 24)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the calendar
func (m CalendarModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.view == "day" {
		b.WriteString(m.renderDay())
	} else {
		b.WriteString(m.renderWeek())
	}

	help := "q quit · h/l navigate · t today · d/w view · +/- zoom · r refresh"
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Render(help))
	return b.String()
}

func (m CalendarModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain))
	var title string
	if m.view == "day" {
		title = m.anchor.Format("Monday, 02 January 2006")
	} else {
		from, to := m.visibleWindow()
		title = fmt.Sprintf("Week %s – %s", from.Format("02 Jan"), to.AddDate(0, 0, -1).Format("02 Jan 2006"))
	}
	if m.loading {
		title += " …"
	}
	return titleStyle.Render(title)
}

// renderDay draws a single day: all-day strip, then the timed grid.
func (m CalendarModel) renderDay() string {
	gridWidth := m.width - gutterWidth
	if gridWidth < 10 {
		gridWidth = 10
	}

	dl := layout.Day(m.occs, m.anchor, float64(m.rowsPerHour()), float64(gridWidth))

	var b strings.Builder
	for _, ad := range dl.AllDay {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(paletteColor(ad.Occ.Color)))
		marker := "≡"
		if ad.Occ.Completed {
			marker = "✓"
		}
		b.WriteString(strings.Repeat(" ", gutterWidth))
		b.WriteString(style.Render(fmt.Sprintf("%s %s", marker, ad.Occ.Title)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderTimedGrid(dl.Timed, dl.StripHeight, gridWidth))
	return b.String()
}

// renderWeek draws the shared all-day strip, then seven day columns.
func (m CalendarModel) renderWeek() string {
	colWidth := (m.width - gutterWidth) / 7
	if colWidth < 6 {
		colWidth = 6
	}

	wl := layout.Week(m.occs, m.weekOrigin(), float64(m.rowsPerHour()), float64(colWidth))

	var b strings.Builder

	// Weekday header row.
	b.WriteString(strings.Repeat(" ", gutterWidth))
	headStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	todayStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	today := recurrence.StartOfDay(time.Now())
	for col := 0; col < 7; col++ {
		day := wl.WeekStart.AddDate(0, 0, col)
		label := pad(day.Format("Mon 02"), colWidth)
		if day.Equal(today) {
			b.WriteString(todayStyle.Render(label))
		} else {
			b.WriteString(headStyle.Render(label))
		}
	}
	b.WriteString("\n")

	// All-day strip: one line per stack row, blocks spanning columns.
	for row := 0; row < wl.Rows; row++ {
		line := make([]string, 7)
		styles := make([]string, 7)
		for _, ad := range wl.AllDay {
			if ad.Row != row {
				continue
			}
			span := (ad.EndCol - ad.StartCol + 1) * colWidth
			text := pad("≡ "+ad.Occ.Title, span)
			line[ad.StartCol] = text
			styles[ad.StartCol] = paletteColor(ad.Occ.Color)
			for c := ad.StartCol + 1; c <= ad.EndCol; c++ {
				line[c] = "" // consumed by the span
				styles[c] = "-"
			}
		}
		b.WriteString(strings.Repeat(" ", gutterWidth))
		for c := 0; c < 7; c++ {
			if styles[c] == "-" {
				continue
			}
			if line[c] == "" {
				b.WriteString(strings.Repeat(" ", colWidth))
				continue
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(styles[c])).Render(line[c]))
		}
		b.WriteString("\n")
	}

	// Timed grids side by side.
	columns := make([][]string, 7)
	for col := 0; col < 7; col++ {
		grid := m.renderTimedGrid(wl.Columns[col].Timed, wl.StripHeight, colWidth)
		columns[col] = strings.Split(grid, "\n")
	}
	rows := len(columns[0])
	for r := 0; r < rows; r++ {
		for col := 0; col < 7; col++ {
			cell := ""
			if r < len(columns[col]) {
				cell = columns[col][r]
			}
			if col == 0 {
				b.WriteString(cell)
			} else {
				// Strip the gutter from all but the first column.
				if len(cell) >= gutterWidth {
					cell = cell[gutterWidth:]
				}
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTimedGrid paints timed blocks onto an hour grid. Block geometry
// comes straight from the layout engine with rows as pixels.
func (m CalendarModel) renderTimedGrid(blocks []layout.TimedBlock, stripHeight float64, gridWidth int) string {
	rph := m.rowsPerHour()
	showTimes := layout.ShowTimeLabels(m.hourHeight)

	type segment struct {
		left, width int
		text        string
		color       string
	}
	totalRows := 24 * rph
	rows := make([][]segment, totalRows)

	for _, blk := range blocks {
		top := int(blk.Top - stripHeight)
		height := int(blk.Height + 0.5)
		if height < 1 {
			height = 1
		}
		left := int(blk.Left)
		width := int(blk.Width)
		if width < 1 {
			width = 1
		}
		color := paletteColor(blk.Occ.Color)

		for r := 0; r < height; r++ {
			row := top + r
			if row < 0 || row >= totalRows {
				continue
			}
			text := strings.Repeat("░", width)
			if r == 0 {
				title := blk.Occ.Title
				if blk.Occ.Completed {
					title = "✓ " + title
				}
				text = pad("▎"+title, width)
			} else if r == 1 && showTimes {
				text = pad(fmt.Sprintf("▎%s-%s", blk.Start.Format("15:04"), blk.End.Format("15:04")), width)
			}
			rows[row] = append(rows[row], segment{left: left, width: width, text: text, color: color})
		}
	}

	gutterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	var b strings.Builder
	for row := 0; row < totalRows; row++ {
		if row%rph == 0 {
			b.WriteString(gutterStyle.Render(fmt.Sprintf("%02d:00 │", row/rph)))
		} else {
			b.WriteString(gutterStyle.Render("      │"))
		}

		sort.Slice(rows[row], func(i, j int) bool { return rows[row][i].left < rows[row][j].left })
		cursor := 0
		for _, seg := range rows[row] {
			if seg.left > cursor {
				b.WriteString(strings.Repeat(" ", seg.left-cursor))
				cursor = seg.left
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(seg.color)).Render(seg.text))
			cursor += seg.width
		}
		if cursor < gridWidth {
			b.WriteString(strings.Repeat(" ", gridWidth-cursor))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
