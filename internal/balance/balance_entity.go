package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the per (employee, leave type, year) ledger row.
// Invariant after every committed operation:
// allocated + carry_forward - used - pending >= 0.
// Rows are archived at year rollover, never deleted.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_key,unique"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_key,unique"`
	Year        int       `gorm:"type:int;not null;index:idx_leave_balances_key,unique"`

	AllocatedDays    decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	UsedDays         decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	PendingDays      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	CarryForwardDays decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableDays is derived, never stored.
func (b *LeaveBalance) AvailableDays() decimal.Decimal {
	return b.AllocatedDays.
		Add(b.CarryForwardDays).
		Sub(b.UsedDays).
		Sub(b.PendingDays)
}

// UtilizationPercentage is derived, never stored.
func (b *LeaveBalance) UtilizationPercentage() decimal.Decimal {
	totalAllocated := b.AllocatedDays.Add(b.CarryForwardDays)
	if totalAllocated.IsZero() {
		return decimal.Zero
	}
	return b.UsedDays.
		Div(totalAllocated).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
