package leave

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
	StatusWithdrawn = "WITHDRAWN"
)

const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// LeaveRequest is the lifecycle aggregate. PENDING is the only non-terminal
// state; APPROVED, REJECTED, CANCELLED and WITHDRAWN are terminal and rows
// are kept for audit, never deleted.
//
// HRApprovalRequired is snapshotted from the leave type at creation so later
// policy edits never change the gates of an in-flight request.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID   string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Reason    string          `gorm:"type:text;not null"`
	Priority  string          `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	IsHalfDay bool            `gorm:"not null;default:false"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`

	ManagerID         *uuid.UUID `gorm:"type:uuid"`
	ManagerApprovalAt *time.Time
	ManagerComments   *string `gorm:"type:text"`

	HRApprovalRequired bool       `gorm:"not null;default:false"`
	HRApproverID       *uuid.UUID `gorm:"type:uuid"`
	HRApprovalAt       *time.Time
	HRComments         *string `gorm:"type:text"`

	CancellationReason *string `gorm:"type:text"`

	SubmittedAt time.Time
	ApprovedAt  *time.Time
	RejectedAt  *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

func (l *LeaveRequest) IsApproved() bool {
	return l.Status == StatusApproved
}

// IsManagedBy reports whether the given approver holds the manager gate.
// The gate is pinned to the requester's manager at submission time, so a
// later reporting-line change does not move it.
func (l *LeaveRequest) IsManagedBy(approverID uuid.UUID) bool {
	return l.ManagerID != nil && *l.ManagerID == approverID
}

// IsActive reports whether an approved leave covers today.
func (l *LeaveRequest) IsActive(today time.Time) bool {
	if !l.IsApproved() {
		return false
	}
	day := normalizeDate(today)
	return !day.Before(normalizeDate(l.StartDate)) && !day.After(normalizeDate(l.EndDate))
}

func (l *LeaveRequest) IsFuture(today time.Time) bool {
	return normalizeDate(l.StartDate).After(normalizeDate(today))
}

func (l *LeaveRequest) DaysUntilStart(today time.Time) int {
	days := daysBetween(today, l.StartDate)
	if days < 0 {
		return 0
	}
	return days
}

func (l *LeaveRequest) DurationInDays() int {
	return daysBetween(l.StartDate, l.EndDate) + 1
}

// CanBeCancelled: only pending or approved requests that have not started.
func (l *LeaveRequest) CanBeCancelled(today time.Time) bool {
	if l.Status != StatusPending && l.Status != StatusApproved {
		return false
	}
	return l.IsFuture(today)
}

// CanBeModified: only pending requests that have not started.
func (l *LeaveRequest) CanBeModified(today time.Time) bool {
	if l.Status != StatusPending {
		return false
	}
	return l.IsFuture(today)
}

// ApprovalStatus maps gate timestamps to the user-facing progress label.
// The wording is load-bearing; clients match on these strings.
func (l *LeaveRequest) ApprovalStatus() string {
	switch l.Status {
	case StatusApproved:
		return "Fully Approved"
	case StatusRejected:
		return "Rejected"
	case StatusPending:
		if l.HRApprovalRequired && l.HRApprovalAt == nil {
			if l.ManagerApprovalAt == nil {
				return "Pending Manager & HR Approval"
			}
			return "Pending HR Approval"
		}
		if l.ManagerApprovalAt == nil {
			return "Pending Manager Approval"
		}
		return "Pending Final Approval"
	default:
		return titleCaseStatus(l.Status)
	}
}

func titleCaseStatus(status string) string {
	if status == "" {
		return status
	}
	lower := strings.ToLower(status)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// normalizeDate truncates to midnight UTC so date arithmetic ignores the
// time-of-day component entirely.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(normalizeDate(to).Sub(normalizeDate(from)).Hours() / 24)
}
