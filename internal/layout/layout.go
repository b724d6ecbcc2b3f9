// Package layout turns the occurrences visible in a day or week into
// conflict-free geometry: a stacked all-day strip plus greedily
// column-colored timed blocks.
package layout

import (
	"sort"
	"time"

	"github.com/daybook-app/daybook/internal/recurrence"
)

// Zoom bounds for the pinch/key-controlled pixels-per-hour factor.
const (
	MinHourHeight     = 24.0
	MaxHourHeight     = 120.0
	DefaultHourHeight = 48.0

	// AllDayRowHeight is the height of one row in the all-day strip.
	AllDayRowHeight = 22.0

	// Below this zoom, blocks render title-only instead of overflowing.
	timeLabelMinHourHeight = 40.0
)

// ClampHourHeight bounds a zoom factor to the supported range.
func ClampHourHeight(h float64) float64 {
	if h < MinHourHeight {
		return MinHourHeight
	}
	if h > MaxHourHeight {
		return MaxHourHeight
	}
	return h
}

// ShowTimeLabels reports whether blocks have room for a time line at
// the given zoom.
func ShowTimeLabels(hourHeight float64) bool {
	return hourHeight >= timeLabelMinHourHeight
}

// TimedBlock is one timed occurrence placed on the day grid. Column and
// Columns come from greedy coloring of the day's overlap graph; geometry
// is in pixels relative to the day column's top-left.
type TimedBlock struct {
	Occ recurrence.Occurrence

	// Clipped to the rendered day.
	Start, End time.Time

	Column  int
	Columns int

	Top, Height float64
	Left, Width float64
}

// AllDayBlock is one occurrence in the all-day strip. StartCol/EndCol
// are the inclusive weekday columns it fully covers; Row is its stack
// slot from first-fit packing.
type AllDayBlock struct {
	Occ recurrence.Occurrence

	Row      int
	StartCol int
	EndCol   int
}

// DayLayout is the rendered geometry for a single day.
type DayLayout struct {
	AllDay []AllDayBlock
	Timed  []TimedBlock

	// Rows is the all-day strip's height in rows, returned explicitly so
	// callers thread the vertical offset into the timed grid themselves.
	Rows        int
	StripHeight float64
}

// DayColumn is one weekday column of a week layout.
type DayColumn struct {
	Day   time.Time
	Timed []TimedBlock
}

// WeekLayout is the rendered geometry for a week: a shared multi-day
// all-day strip plus the day algorithm applied per weekday column.
type WeekLayout struct {
	WeekStart time.Time
	AllDay    []AllDayBlock
	Columns   [7]DayColumn

	Rows        int
	StripHeight float64
}

// Day lays out the given occurrences for one calendar day. Occurrences
// fully covering the day go to the all-day strip; everything else is
// timed, clipped to the day's bounds. Malformed spans (end before
// start) are not validated and simply produce zero/negative heights.
func Day(occs []recurrence.Occurrence, day time.Time, hourHeight, width float64) DayLayout {
	hourHeight = ClampHourHeight(hourHeight)
	dayStart := recurrence.StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var allDay, timed []recurrence.Occurrence
	for _, o := range occs {
		if !inDay(o, dayStart, dayEnd) {
			continue
		}
		if coversDay(o, dayStart, dayEnd) {
			allDay = append(allDay, o)
		} else {
			timed = append(timed, o)
		}
	}

	blocks := make([]AllDayBlock, len(allDay))
	for i, o := range allDay {
		blocks[i] = AllDayBlock{Occ: o}
	}
	rows := packAllDay(blocks)
	strip := float64(rows) * AllDayRowHeight

	return DayLayout{
		AllDay:      blocks,
		Timed:       layoutTimed(timed, dayStart, dayEnd, hourHeight, width, strip),
		Rows:        rows,
		StripHeight: strip,
	}
}

// Week lays out the seven days starting at weekStart: occurrences covering at least
// one full day land in the shared all-day strip spanning the columns of
// the days they cover; the rest run through the day algorithm per
// column with the strip height threaded into each column's offsets.
func Week(occs []recurrence.Occurrence, weekStart time.Time, hourHeight, colWidth float64) WeekLayout {
	hourHeight = ClampHourHeight(hourHeight)
	weekStart = recurrence.StartOfDay(weekStart)

	var strip []AllDayBlock
	var timed []recurrence.Occurrence
	for _, o := range occs {
		first, last, ok := coveredRange(o, weekStart)
		if ok {
			strip = append(strip, AllDayBlock{Occ: o, StartCol: first, EndCol: last})
		} else {
			timed = append(timed, o)
		}
	}
	rows := packAllDay(strip)
	stripHeight := float64(rows) * AllDayRowHeight

	out := WeekLayout{
		WeekStart:   weekStart,
		AllDay:      strip,
		Rows:        rows,
		StripHeight: stripHeight,
	}
	for col := 0; col < 7; col++ {
		dayStart := weekStart.AddDate(0, 0, col)
		dayEnd := dayStart.AddDate(0, 0, 1)
		var dayOccs []recurrence.Occurrence
		for _, o := range timed {
			if inDay(o, dayStart, dayEnd) {
				dayOccs = append(dayOccs, o)
			}
		}
		out.Columns[col] = DayColumn{
			Day:   dayStart,
			Timed: layoutTimed(dayOccs, dayStart, dayEnd, hourHeight, colWidth, stripHeight),
		}
	}
	return out
}

// inDay reports whether the occurrence occupies any part of the day.
// A zero-length occurrence sitting exactly on the midnight boundary
// belongs to the day it starts, not the day it ends.
func inDay(o recurrence.Occurrence, dayStart, dayEnd time.Time) bool {
	if !o.Start.Before(dayEnd) {
		return false
	}
	if o.End.After(dayStart) {
		return true
	}
	return o.Start.Equal(dayStart) && o.End.Equal(dayStart)
}

func coversDay(o recurrence.Occurrence, dayStart, dayEnd time.Time) bool {
	return !o.Start.After(dayStart) && !o.End.Before(dayEnd)
}

// coveredRange finds the contiguous run of week columns the occurrence
// fully covers; ok is false when it covers none.
func coveredRange(o recurrence.Occurrence, weekStart time.Time) (first, last int, ok bool) {
	first = -1
	for col := 0; col < 7; col++ {
		dayStart := weekStart.AddDate(0, 0, col)
		if coversDay(o, dayStart, dayStart.AddDate(0, 0, 1)) {
			if first == -1 {
				first = col
			}
			last = col
		}
	}
	return first, last, first != -1
}

// packAllDay assigns each strip block the lowest row whose occupied
// column ranges don't overlap it (first-fit interval coloring), and
// returns the number of rows used.
func packAllDay(blocks []AllDayBlock) int {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].StartCol != blocks[j].StartCol {
			return blocks[i].StartCol < blocks[j].StartCol
		}
		return blocks[i].EndCol > blocks[j].EndCol
	})

	type span struct{ start, end int }
	var rows [][]span
	for i := range blocks {
		placed := false
		for r := 0; r < len(rows) && !placed; r++ {
			free := true
			for _, s := range rows[r] {
				if blocks[i].StartCol <= s.end && s.start <= blocks[i].EndCol {
					free = false
					break
				}
			}
			if free {
				blocks[i].Row = r
				rows[r] = append(rows[r], span{blocks[i].StartCol, blocks[i].EndCol})
				placed = true
			}
		}
		if !placed {
			blocks[i].Row = len(rows)
			rows = append(rows, []span{{blocks[i].StartCol, blocks[i].EndCol}})
		}
	}
	return len(rows)
}

// layoutTimed clips occurrences to the day, colors them into columns
// via the overlap graph, and computes pixel geometry.
func layoutTimed(occs []recurrence.Occurrence, dayStart, dayEnd time.Time, hourHeight, width, stripHeight float64) []TimedBlock {
	if len(occs) == 0 {
		return nil
	}

	blocks := make([]TimedBlock, len(occs))
	for i, o := range occs {
		start, end := o.Start, o.End
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		blocks[i] = TimedBlock{Occ: o, Start: start, End: end, Column: -1}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if !blocks[i].Start.Equal(blocks[j].Start) {
			return blocks[i].Start.Before(blocks[j].Start)
		}
		// Longer blocks first so they anchor the leftmost columns.
		return blocks[i].End.After(blocks[j].End)
	})

	// Undirected overlap graph over clipped spans.
	n := len(blocks)
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if blocks[i].Start.Before(blocks[j].End) && blocks[j].Start.Before(blocks[i].End) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	// Greedy coloring in start order: lowest column unused by any
	// already-colored neighbor.
	for i := 0; i < n; i++ {
		used := make(map[int]bool)
		for _, j := range adj[i] {
			if blocks[j].Column >= 0 {
				used[blocks[j].Column] = true
			}
		}
		col := 0
		for used[col] {
			col++
		}
		blocks[i].Column = col
	}

	// Connected clusters share a column count so every member of a busy
	// stretch renders at the same width.
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		cluster := []int{i}
		seen[i] = true
		for qi := 0; qi < len(cluster); qi++ {
			for _, j := range adj[cluster[qi]] {
				if !seen[j] {
					seen[j] = true
					cluster = append(cluster, j)
				}
			}
		}
		maxCols := 0
		for _, j := range cluster {
			if blocks[j].Column+1 > maxCols {
				maxCols = blocks[j].Column + 1
			}
		}
		for _, j := range cluster {
			blocks[j].Columns = maxCols
		}
	}

	for i := range blocks {
		b := &blocks[i]
		b.Top = b.Start.Sub(dayStart).Hours()*hourHeight + stripHeight
		b.Height = b.End.Sub(b.Start).Hours() * hourHeight
		b.Width = width / float64(b.Columns)
		b.Left = float64(b.Column) * b.Width
	}
	return blocks
}
