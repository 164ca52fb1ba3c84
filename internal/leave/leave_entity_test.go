package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApprovalStatus_Progression(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		request LeaveRequest
		want    string
	}{
		{
			name:    "approved",
			request: LeaveRequest{Status: StatusApproved},
			want:    "Fully Approved",
		},
		{
			name:    "rejected",
			request: LeaveRequest{Status: StatusRejected},
			want:    "Rejected",
		},
		{
			name:    "pending both gates",
			request: LeaveRequest{Status: StatusPending, HRApprovalRequired: true},
			want:    "Pending Manager & HR Approval",
		},
		{
			name: "manager done, hr outstanding",
			request: LeaveRequest{
				Status:             StatusPending,
				HRApprovalRequired: true,
				ManagerApprovalAt:  &now,
			},
			want: "Pending HR Approval",
		},
		{
			name:    "pending manager only",
			request: LeaveRequest{Status: StatusPending},
			want:    "Pending Manager Approval",
		},
		{
			name: "gates satisfied, decision not finalized",
			request: LeaveRequest{
				Status:            StatusPending,
				ManagerApprovalAt: &now,
			},
			want: "Pending Final Approval",
		},
		{
			name:    "cancelled",
			request: LeaveRequest{Status: StatusCancelled},
			want:    "Cancelled",
		},
		{
			name:    "withdrawn",
			request: LeaveRequest{Status: StatusWithdrawn},
			want:    "Withdrawn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.request.ApprovalStatus())
		})
	}
}

func TestLeaveRequest_CancellationAndModificationWindows(t *testing.T) {
	today := date(2024, time.June, 10)
	future := LeaveRequest{
		Status:    StatusPending,
		StartDate: date(2024, time.June, 17),
		EndDate:   date(2024, time.June, 21),
	}

	assert.True(t, future.CanBeCancelled(today))
	assert.True(t, future.CanBeModified(today))

	started := future
	started.StartDate = date(2024, time.June, 10)
	assert.False(t, started.CanBeCancelled(today))
	assert.False(t, started.CanBeModified(today))

	approved := future
	approved.Status = StatusApproved
	assert.True(t, approved.CanBeCancelled(today))
	assert.False(t, approved.CanBeModified(today))

	rejected := future
	rejected.Status = StatusRejected
	assert.False(t, rejected.CanBeCancelled(today))
	assert.False(t, rejected.CanBeModified(today))
}

func TestLeaveRequest_ActiveWindow(t *testing.T) {
	request := LeaveRequest{
		Status:    StatusApproved,
		StartDate: date(2024, time.June, 10),
		EndDate:   date(2024, time.June, 14),
	}

	assert.False(t, request.IsActive(date(2024, time.June, 9)))
	assert.True(t, request.IsActive(date(2024, time.June, 10)))
	assert.True(t, request.IsActive(date(2024, time.June, 14)))
	assert.False(t, request.IsActive(date(2024, time.June, 15)))

	pending := request
	pending.Status = StatusPending
	assert.False(t, pending.IsActive(date(2024, time.June, 10)))
}

func TestLeaveRequest_DaysUntilStart(t *testing.T) {
	request := LeaveRequest{StartDate: date(2024, time.June, 17)}

	assert.Equal(t, 7, request.DaysUntilStart(date(2024, time.June, 10)))
	assert.Equal(t, 0, request.DaysUntilStart(date(2024, time.June, 17)))
	// already started: clamps to zero instead of going negative
	assert.Equal(t, 0, request.DaysUntilStart(date(2024, time.June, 20)))
}
