package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a calendar date at local midnight.
// Supported formats:
// - dd/mm/yyyy (e.g., "15/01/2026")
// - yyyy-mm-dd (e.g., "2026-01-15")
// - "today", "tomorrow"
// - X days / X weeks from today (e.g., "3 days", "2 weeks")
func ParseDate(input string) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}

	input = strings.TrimSpace(strings.ToLower(input))

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch input {
	case "today":
		return &today, nil
	case "tomorrow":
		t := today.AddDate(0, 0, 1)
		return &t, nil
	}

	if d, err := parseSlashDate(input); err == nil {
		return d, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", input, time.Local); err == nil {
		return &t, nil
	}
	if d, err := parseRelativeDate(input, today); err == nil {
		return d, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, X days, or X weeks")
}

// parseSlashDate parses dd/mm/yyyy format
func parseSlashDate(input string) (*time.Time, error) {
	dateRegex := regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	matches := dateRegex.FindStringSubmatch(input)

	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return nil, fmt.Errorf("invalid date")
	}

	return &date, nil
}

// parseRelativeDate parses "X days" / "X weeks" offsets from today.
func parseRelativeDate(input string, today time.Time) (*time.Time, error) {
	relativeRegex := regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks)$`)
	matches := relativeRegex.FindStringSubmatch(input)

	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative date format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount < 1 || amount > 365 {
		return nil, fmt.Errorf("amount must be between 1 and 365")
	}

	switch matches[2] {
	case "day", "days":
		d := today.AddDate(0, 0, amount)
		return &d, nil
	default:
		d := today.AddDate(0, 0, amount*7)
		return &d, nil
	}
}

// ParseClock parses a time-of-day like "9:00" or "14:30".
func ParseClock(input string) (hour, minute int, err error) {
	clockRegex := regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	matches := clockRegex.FindStringSubmatch(strings.TrimSpace(input))
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("invalid time format, use HH:MM")
	}
	hour, _ = strconv.Atoi(matches[1])
	minute, _ = strconv.Atoi(matches[2])
	if hour > 23 {
		return 0, 0, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("minute must be between 0 and 59")
	}
	return hour, minute, nil
}

// FormatDay formats a date for display relative to today.
func FormatDay(t time.Time) string {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	daysDiff := int(day.Sub(today).Hours() / 24)

	dateStr := t.Format("Mon 02/01/2006")

	switch {
	case daysDiff == 0:
		return fmt.Sprintf("Today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("Tomorrow (%s)", dateStr)
	case daysDiff == -1:
		return fmt.Sprintf("Yesterday (%s)", dateStr)
	default:
		return dateStr
	}
}
