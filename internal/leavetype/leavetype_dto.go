package leavetype

type CreateLeaveTypeRequest struct {
	Code                    string `json:"code" binding:"required,max=10"`
	Name                    string `json:"name" binding:"required,max=50"`
	Description             string `json:"description"`
	MaxDaysPerYear          int    `json:"max_days_per_year" binding:"min=0"`
	MaxConsecutiveDays      int    `json:"max_consecutive_days" binding:"min=0"`
	MinAdvanceNoticeDays    int    `json:"min_advance_notice_days" binding:"min=0"`
	MaxAdvanceNoticeDays    int    `json:"max_advance_notice_days" binding:"min=0"`
	RequiresManagerApproval *bool  `json:"requires_manager_approval"`
	RequiresHRApproval      bool   `json:"requires_hr_approval"`
	IsPaid                  *bool  `json:"is_paid"`
	IsCarryForward          bool   `json:"is_carry_forward"`
	CarryForwardLimit       int    `json:"carry_forward_limit" binding:"min=0"`
	AccrualRate             string `json:"accrual_rate"`
}

type UpdateLeaveTypeRequest struct {
	Name                 *string `json:"name" binding:"omitempty,max=50"`
	Description          *string `json:"description"`
	MaxDaysPerYear       *int    `json:"max_days_per_year" binding:"omitempty,min=0"`
	MaxConsecutiveDays   *int    `json:"max_consecutive_days" binding:"omitempty,min=0"`
	MinAdvanceNoticeDays *int    `json:"min_advance_notice_days" binding:"omitempty,min=0"`
	MaxAdvanceNoticeDays *int    `json:"max_advance_notice_days" binding:"omitempty,min=0"`
	RequiresHRApproval   *bool   `json:"requires_hr_approval"`
	IsPaid               *bool   `json:"is_paid"`
	IsCarryForward       *bool   `json:"is_carry_forward"`
	CarryForwardLimit    *int    `json:"carry_forward_limit" binding:"omitempty,min=0"`
	AccrualRate          *string `json:"accrual_rate"`
}

type LeaveTypeResponse struct {
	ID                      string `json:"id"`
	Code                    string `json:"code"`
	Name                    string `json:"name"`
	Description             string `json:"description,omitempty"`
	MaxDaysPerYear          int    `json:"max_days_per_year"`
	MaxConsecutiveDays      int    `json:"max_consecutive_days"`
	MinAdvanceNoticeDays    int    `json:"min_advance_notice_days"`
	MaxAdvanceNoticeDays    int    `json:"max_advance_notice_days"`
	RequiresManagerApproval bool   `json:"requires_manager_approval"`
	RequiresHRApproval      bool   `json:"requires_hr_approval"`
	IsPaid                  bool   `json:"is_paid"`
	IsCarryForward          bool   `json:"is_carry_forward"`
	CarryForwardLimit       int    `json:"carry_forward_limit"`
	AccrualRate             string `json:"accrual_rate"`
	IsActive                bool   `json:"is_active"`
}

// LeaveTypeOption is the trimmed shape used by pickers.
type LeaveTypeOption struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
