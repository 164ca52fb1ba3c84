package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveSubmitted = "leave.submitted"
	LeaveApproved  = "leave.approved"
	LeaveRejected  = "leave.rejected"
	LeaveCancelled = "leave.cancelled"
	LeaveWithdrawn = "leave.withdrawn"
)

// LeaveLifecycleEvent is emitted through the outbox on every state change of
// a leave request. Consumers key on LeaveRequestID for ordering.
type LeaveLifecycleEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequestID      string    `json:"request_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	Status         string    `json:"status"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalDays      string    `json:"total_days"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
