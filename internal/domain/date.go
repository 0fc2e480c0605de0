package domain

import "time"

// Date layouts used across the service.
// NAV providers publish observations keyed day-month-year; the public API
// accepts ISO dates and they are reformatted internally.
const (
	NavDateLayout = "02-01-2006"
	APIDateLayout = "2006-01-02"
)

// ParseNavDate parses a day-month-year date string (e.g. "27-08-2026")
func ParseNavDate(s string) (time.Time, error) {
	return time.Parse(NavDateLayout, s)
}

// FormatNavDate formats a date in the internal day-month-year layout
func FormatNavDate(t time.Time) string {
	return t.Format(NavDateLayout)
}

// ParseAPIDate parses an ISO (YYYY-MM-DD) date string from the public API
func ParseAPIDate(s string) (time.Time, error) {
	return time.Parse(APIDateLayout, s)
}

// DateOnly truncates a timestamp to midnight UTC so dates compare as calendar days
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SipScheduleDate returns the scheduled contribution date monthsAfter calendar
// months past the schedule start, rolling the year across December.
// The anchor day is clamped to the last day of months that are too short:
// a schedule anchored on the 31st contributes on 31 Jan, 28 Feb, 31 Mar.
// Month arithmetic is done on a (year, month) counter rather than AddDate so
// a clamped month never drags later months down to the shorter day.
func SipScheduleDate(start time.Time, monthsAfter, anchorDay int) time.Time {
	if anchorDay <= 0 {
		anchorDay = start.Day()
	}
	year, month, _ := start.Date()
	m := int(month) - 1 + monthsAfter
	y := year + m/12
	mo := time.Month(m%12 + 1)

	day := anchorDay
	if last := daysIn(y, mo); day > last {
		day = last
	}
	return time.Date(y, mo, day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the given month
func daysIn(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
