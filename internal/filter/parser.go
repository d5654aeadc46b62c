package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
)

// dateLayouts are accepted by ParseDate, most specific first.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a single calendar day such as "2026-03-01" or "3/1/2026".
// The result is midnight UTC.
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q. Use YYYY-MM-DD or M/D/YYYY", input)
}

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15"
//   - "March 1 - April 15"
//   - "March" for the entire month
//
// The year is inferred relative to now: months already past roll into next year, and a
// cross-month range whose end month precedes its start ends in the following year.
// Start is at 00:00:00 and end at 23:59:59 UTC.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	return parseDateRange(input, time.Now())
}

func parseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return nil, nil, err
		}

		year := yearForMonth(month, now)
		return bounded(
			time.Date(year, month, day1, 0, 0, 0, 0, time.UTC),
			time.Date(year, month, day2, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := yearForMonth(month1, now)
		year2 := year1
		if month2 < month1 {
			year2++
		}
		return bounded(
			time.Date(year1, month1, day1, 0, 0, 0, 0, time.UTC),
			time.Date(year2, month2, day2, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month, now)
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// day 0 of the next month is the last day of this one
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', or 'March'")
}

func bounded(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// parseMonth converts a month name to time.Month, or 0 when unknown.
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "sept" {
		return time.September
	}
	if len(name) < 3 {
		return 0
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m
		}
	}
	return 0
}

// yearForMonth returns now's year, or the next one when month has already passed.
func yearForMonth(month time.Month, now time.Time) int {
	if month < now.Month() {
		return now.Year() + 1
	}
	return now.Year()
}
