package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNavDate_RoundTrip(t *testing.T) {
	date, err := ParseNavDate("27-08-2026")

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, "27-08-2026", FormatNavDate(date))
}

func TestParseAPIDate(t *testing.T) {
	date, err := ParseAPIDate("2023-01-05")

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), date)
}

func TestParseAPIDate_RejectsNavLayout(t *testing.T) {
	_, err := ParseAPIDate("05-01-2023")

	assert.Error(t, err)
}

func TestSipScheduleDate_AdvancesOneCalendarMonth(t *testing.T) {
	start := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 0, 10))
	assert.Equal(t, time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 1, 10))
	assert.Equal(t, time.Date(2023, 9, 10, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 6, 10))
}

func TestSipScheduleDate_YearRollover(t *testing.T) {
	start := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)

	// November -> December -> January of the next year
	assert.Equal(t, time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 1, 5))
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 2, 5))
}

func TestSipScheduleDate_ClampsToLastDayOfShortMonths(t *testing.T) {
	start := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	// The anchor day is preserved: 31st clamps to 28 Feb but returns to 31 Mar
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 1, 31))
	assert.Equal(t, time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 2, 31))
	assert.Equal(t, time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 3, 31))
}

func TestSipScheduleDate_LeapFebruary(t *testing.T) {
	start := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 1, 30))
}

func TestSipScheduleDate_DefaultsAnchorToStartDay(t *testing.T) {
	start := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), SipScheduleDate(start, 1, 0))
}
