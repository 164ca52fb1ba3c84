package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=leave_calendar.go -destination=mock/leave_calendar_mock.go -package=mock

// Calendar decides which dates count against a leave balance.
type Calendar interface {
	IsWorkingDay(date time.Time) bool
}

// WorkweekCalendar counts Monday through Friday as working days, minus an
// explicit holiday set keyed by date.
type WorkweekCalendar struct {
	holidays map[string]struct{}
}

func NewWorkweekCalendar(holidays ...time.Time) *WorkweekCalendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[normalizeDate(h).Format("2006-01-02")] = struct{}{}
	}
	return &WorkweekCalendar{holidays: set}
}

func (c *WorkweekCalendar) IsWorkingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[normalizeDate(date).Format("2006-01-02")]
	return !holiday
}

var half = decimal.NewFromFloat(0.5)

// CalculateLeaveDays walks the inclusive date range and counts working days
// per the calendar. A half-day request always charges 0.5, whatever the
// range spans.
func CalculateLeaveDays(cal Calendar, start, end time.Time, isHalfDay bool) decimal.Decimal {
	start = normalizeDate(start)
	end = normalizeDate(end)
	if end.Before(start) {
		return decimal.Zero
	}
	if isHalfDay {
		return half
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if cal.IsWorkingDay(d) {
			count++
		}
	}

	return decimal.NewFromInt(int64(count))
}
