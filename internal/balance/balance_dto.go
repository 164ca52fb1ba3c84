package balance

type ProvisionBalanceRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID      string `json:"leave_type_id" binding:"required,uuid"`
	Year             int    `json:"year" binding:"required"`
	AllocatedDays    string `json:"allocated_days" binding:"required"`
	CarryForwardDays string `json:"carry_forward_days"`
}

type BalanceResponse struct {
	EmployeeID            string `json:"employee_id"`
	LeaveTypeID           string `json:"leave_type_id"`
	Year                  int    `json:"year"`
	AllocatedDays         string `json:"allocated_days"`
	UsedDays              string `json:"used_days"`
	PendingDays           string `json:"pending_days"`
	CarryForwardDays      string `json:"carry_forward_days"`
	AvailableDays         string `json:"available_days"`
	UtilizationPercentage string `json:"utilization_percentage"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:            b.EmployeeID.String(),
		LeaveTypeID:           b.LeaveTypeID.String(),
		Year:                  b.Year,
		AllocatedDays:         b.AllocatedDays.String(),
		UsedDays:              b.UsedDays.String(),
		PendingDays:           b.PendingDays.String(),
		CarryForwardDays:      b.CarryForwardDays.String(),
		AvailableDays:         b.AvailableDays().String(),
		UtilizationPercentage: b.UtilizationPercentage().String(),
	}
}
