// Package calendar computes month grids and navigation targets for the
// dashboard. It is pure: every function takes its inputs explicitly,
// including the reference "now", and performs no I/O.
//
// Months are zero-based (0 = January) throughout, matching the month
// query parameter the dashboard accepts.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthNames are the full English month names, indexed by zero-based month.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DayNames are the short weekday names for grid headers, Sunday first.
var DayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Day is one populated slot in a month grid.
type Day struct {
	Day        int       // day of month, 1-based
	Date       time.Time // midnight UTC on that day
	IsToday    bool
	DateString string // canonical YYYY-MM-DD key
}

// Week is a fixed-width row of seven slots. Slots before day 1 or after
// the last day of the month are nil placeholders, never omitted.
type Week [7]*Day

// Grid is the derived calendar structure for a single month.
type Grid struct {
	Year        int
	Month       int // zero-based
	MonthName   string
	Weeks       []Week
	DaysInMonth int
}

// MonthYear is a validated month/year pair.
type MonthYear struct {
	Month int // zero-based
	Year  int
}

// Navigation holds the previous and next month targets for a grid.
type Navigation struct {
	Prev MonthYear
	Next MonthYear
}

// DaysInMonth returns the number of days in the given zero-based month,
// resolving Gregorian leap years via the day-zero-of-next-month trick.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsToday reports whether the given calendar date equals the date of ref.
func IsToday(year, month, day int, ref time.Time) bool {
	return ref.Year() == year && int(ref.Month())-1 == month && ref.Day() == day
}

// FormatDateString renders a zero-padded YYYY-MM-DD key for the given
// date. This key joins grid days against per-date entry counts.
func FormatDateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}

// BuildMonthGrid expands a year/month pair into week rows. Every week has
// exactly seven slots; leading and trailing slots outside the month are
// nil. The today flag is computed against ref so tests can pin the clock.
func BuildMonthGrid(year, month int, ref time.Time) Grid {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	days := DaysInMonth(year, month)
	startWeekday := int(first.Weekday()) // Sunday = 0

	var weeks []Week
	var week Week
	slot := startWeekday

	for day := 1; day <= days; day++ {
		week[slot] = &Day{
			Day:        day,
			Date:       time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC),
			IsToday:    IsToday(year, month, day, ref),
			DateString: FormatDateString(year, month, day),
		}
		slot++
		if slot == 7 {
			weeks = append(weeks, week)
			week = Week{}
			slot = 0
		}
	}
	if slot > 0 {
		weeks = append(weeks, week)
	}

	return Grid{
		Year:        year,
		Month:       month,
		MonthName:   MonthNames[month],
		Weeks:       weeks,
		DaysInMonth: days,
	}
}

// ParseMonthYear validates raw month/year input. Month must be 0..11 and
// year 1900..2100; anything else (including non-integer input) reports
// ok=false and the caller falls back to the current month.
func ParseMonthYear(monthStr, yearStr string) (MonthYear, bool) {
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 0 || month > 11 {
		return MonthYear{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil || year < 1900 || year > 2100 {
		return MonthYear{}, false
	}
	return MonthYear{Month: month, Year: year}, true
}

// NavigationTargets computes the previous and next month for the given
// one, rolling the year over at both boundaries.
func NavigationTargets(year, month int) Navigation {
	prev := MonthYear{Month: month - 1, Year: year}
	if month == 0 {
		prev = MonthYear{Month: 11, Year: year - 1}
	}
	next := MonthYear{Month: month + 1, Year: year}
	if month == 11 {
		next = MonthYear{Month: 0, Year: year + 1}
	}
	return Navigation{Prev: prev, Next: next}
}
