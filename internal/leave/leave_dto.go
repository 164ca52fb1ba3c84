package leave

import "time"

type CreateLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" binding:"required,min=3,max=2000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	IsHalfDay   bool   `json:"is_half_day"`
}

// UpdateLeaveRequest patches a pending request. Only the listed fields are
// modifiable; identity, status and gate fields never change through update.
type UpdateLeaveRequest struct {
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Reason    *string `json:"reason" binding:"omitempty,min=3,max=2000"`
	Priority  *string `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	IsHalfDay *bool   `json:"is_half_day"`
}

type ApproveLeaveRequest struct {
	Comments string `json:"comments" binding:"omitempty,max=2000"`
}

type RejectLeaveRequest struct {
	Comments string `json:"comments" binding:"required,min=3,max=2000"`
}

type CancelLeaveRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=2000"`
}

type LeaveResponse struct {
	ID          string `json:"id"`
	RequestID   string `json:"request_id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays string `json:"total_days"`
	Reason    string `json:"reason"`
	Priority  string `json:"priority"`
	IsHalfDay bool   `json:"is_half_day"`

	Status         string `json:"status"`
	ApprovalStatus string `json:"approval_status"`

	ManagerID         *string    `json:"manager_id,omitempty"`
	ManagerApprovalAt *time.Time `json:"manager_approval_at,omitempty"`
	ManagerComments   *string    `json:"manager_comments,omitempty"`

	HRApprovalRequired bool       `json:"hr_approval_required"`
	HRApproverID       *string    `json:"hr_approver_id,omitempty"`
	HRApprovalAt       *time.Time `json:"hr_approval_at,omitempty"`
	HRComments         *string    `json:"hr_comments,omitempty"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`

	IsActive       bool `json:"is_active"`
	IsFuture       bool `json:"is_future"`
	DaysUntilStart int  `json:"days_until_start"`
	CanBeCancelled bool `json:"can_be_cancelled"`
	CanBeModified  bool `json:"can_be_modified"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

func mapToResponse(l *LeaveRequest, today time.Time, warnings []string) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		RequestID:   l.RequestID,
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),

		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: l.TotalDays.String(),
		Reason:    l.Reason,
		Priority:  l.Priority,
		IsHalfDay: l.IsHalfDay,

		Status:         l.Status,
		ApprovalStatus: l.ApprovalStatus(),

		ManagerApprovalAt: l.ManagerApprovalAt,
		ManagerComments:   l.ManagerComments,

		HRApprovalRequired: l.HRApprovalRequired,
		HRApprovalAt:       l.HRApprovalAt,
		HRComments:         l.HRComments,

		CancellationReason: l.CancellationReason,

		IsActive:       l.IsActive(today),
		IsFuture:       l.IsFuture(today),
		DaysUntilStart: l.DaysUntilStart(today),
		CanBeCancelled: l.CanBeCancelled(today),
		CanBeModified:  l.CanBeModified(today),

		SubmittedAt: l.SubmittedAt,
		ApprovedAt:  l.ApprovedAt,
		RejectedAt:  l.RejectedAt,

		Warnings: warnings,
	}

	if l.ManagerID != nil {
		id := l.ManagerID.String()
		resp.ManagerID = &id
	}
	if l.HRApproverID != nil {
		id := l.HRApproverID.String()
		resp.HRApproverID = &id
	}
	return resp
}
