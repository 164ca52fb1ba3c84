package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateLeaveDays_FullWorkweek(t *testing.T) {
	cal := NewWorkweekCalendar()

	// Monday through Friday
	got := CalculateLeaveDays(cal, date(2024, time.March, 4), date(2024, time.March, 8), false)
	assert.Equal(t, "5", got.String())
}

func TestCalculateLeaveDays_SkipsWeekends(t *testing.T) {
	cal := NewWorkweekCalendar()

	// Friday through Monday: Saturday and Sunday do not count
	got := CalculateLeaveDays(cal, date(2024, time.March, 8), date(2024, time.March, 11), false)
	assert.Equal(t, "2", got.String())

	// Saturday and Sunday only
	got = CalculateLeaveDays(cal, date(2024, time.March, 9), date(2024, time.March, 10), false)
	assert.True(t, got.IsZero())
}

func TestCalculateLeaveDays_SkipsHolidays(t *testing.T) {
	cal := NewWorkweekCalendar(date(2024, time.March, 6))

	got := CalculateLeaveDays(cal, date(2024, time.March, 4), date(2024, time.March, 8), false)
	assert.Equal(t, "4", got.String())
}

func TestCalculateLeaveDays_HalfDay(t *testing.T) {
	cal := NewWorkweekCalendar()

	got := CalculateLeaveDays(cal, date(2024, time.March, 4), date(2024, time.March, 4), true)
	assert.Equal(t, "0.5", got.String())

	// the half-day charge overrides the working-day count for any range
	got = CalculateLeaveDays(cal, date(2024, time.March, 4), date(2024, time.March, 8), true)
	assert.Equal(t, "0.5", got.String())
}

func TestCalculateLeaveDays_InvertedRange(t *testing.T) {
	cal := NewWorkweekCalendar()

	got := CalculateLeaveDays(cal, date(2024, time.March, 8), date(2024, time.March, 4), false)
	assert.True(t, got.IsZero())
}

func TestCalculateLeaveDays_IgnoresTimeOfDay(t *testing.T) {
	cal := NewWorkweekCalendar()

	start := time.Date(2024, time.March, 4, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 8, 1, 15, 0, 0, time.UTC)
	got := CalculateLeaveDays(cal, start, end, false)
	assert.Equal(t, "5", got.String())
}
