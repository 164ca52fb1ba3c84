package leave

import (
	"fmt"
	"time"

	"leavedesk/internal/leavetype"

	"github.com/shopspring/decimal"
)

// PolicyInput carries everything the policy checks need, already loaded, so
// validation itself touches no storage and is trivially testable.
type PolicyInput struct {
	LeaveType       *leavetype.LeaveType
	StartDate       time.Time
	EndDate         time.Time
	RequestedDays   decimal.Decimal
	AvailableDays   decimal.Decimal
	HasBalanceRow   bool
	UsedThisYear    decimal.Decimal // approved days already taken for this type this year
	HasOverlap      bool
	Today           time.Time
}

// PolicyReport aggregates every violation rather than stopping at the first,
// so a single round trip tells the requester everything that is wrong.
type PolicyReport struct {
	Errors      []string
	Warnings    []string
	Suggestions []string
}

func (r *PolicyReport) Valid() bool {
	return len(r.Errors) == 0
}

// ValidatePolicy runs the full rule set: type availability, advance notice,
// consecutive-day cap, annual cap, balance sufficiency, overlap. All checks
// run unconditionally; each appends independently to the report.
func ValidatePolicy(in PolicyInput) PolicyReport {
	var report PolicyReport
	lt := in.LeaveType

	if !lt.IsActive {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%s is not currently available", lt.Name))
	}

	daysUntilStart := daysBetween(in.Today, in.StartDate)
	if lt.MinAdvanceNoticeDays > 0 && daysUntilStart < lt.MinAdvanceNoticeDays {
		report.Errors = append(report.Errors,
			fmt.Sprintf("Minimum %d days advance notice required for %s", lt.MinAdvanceNoticeDays, lt.Name))
	}
	if lt.MaxAdvanceNoticeDays > 0 && daysUntilStart > lt.MaxAdvanceNoticeDays {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Leave request is more than %d days in advance", lt.MaxAdvanceNoticeDays))
	}

	// The cap counts charged days, not calendar span: a two-week range that
	// only touches ten working days stays within a cap of ten.
	if lt.MaxConsecutiveDays > 0 &&
		in.RequestedDays.GreaterThan(decimal.NewFromInt(int64(lt.MaxConsecutiveDays))) {
		report.Errors = append(report.Errors,
			fmt.Sprintf("Maximum %d consecutive days allowed for %s", lt.MaxConsecutiveDays, lt.Name))
	}

	if lt.MaxDaysPerYear > 0 {
		projected := in.UsedThisYear.Add(in.RequestedDays)
		if projected.GreaterThan(decimal.NewFromInt(int64(lt.MaxDaysPerYear))) {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Annual limit of %d days exceeded for %s", lt.MaxDaysPerYear, lt.Name))
		}
	}

	if in.HasBalanceRow && in.RequestedDays.GreaterThan(in.AvailableDays) {
		report.Errors = append(report.Errors,
			fmt.Sprintf("Insufficient leave balance. Available: %s days, Requested: %s days",
				in.AvailableDays.String(), in.RequestedDays.String()))
	}

	if in.HasOverlap {
		report.Errors = append(report.Errors, "Overlapping leave request exists")
	}

	// Suggestions accompany any violation, whichever check produced it.
	if len(report.Errors) > 0 {
		report.Suggestions = append(report.Suggestions,
			"Consider adjusting leave dates or duration")
		if in.HasBalanceRow {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("Available balance: %s days", in.AvailableDays.String()))
		}
	}

	return report
}
