package balance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLeaveBalance_AvailableDays(t *testing.T) {
	b := LeaveBalance{
		AllocatedDays:    decimal.NewFromInt(20),
		CarryForwardDays: decimal.NewFromInt(3),
		UsedDays:         decimal.NewFromInt(7),
		PendingDays:      decimal.NewFromFloat(2.5),
	}

	assert.Equal(t, "13.5", b.AvailableDays().String())
}

func TestLeaveBalance_UtilizationPercentage(t *testing.T) {
	b := LeaveBalance{
		AllocatedDays:    decimal.NewFromInt(20),
		CarryForwardDays: decimal.NewFromInt(4),
		UsedDays:         decimal.NewFromInt(6),
	}

	assert.Equal(t, "25", b.UtilizationPercentage().String())

	empty := LeaveBalance{}
	assert.True(t, empty.UtilizationPercentage().IsZero())
}
