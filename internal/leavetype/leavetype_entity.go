package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveType is the per-category leave policy. Managed by HR; rows are
// deactivated, never deleted, so historical requests keep a valid reference.
type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_types_company_code"`

	Code        string `gorm:"type:varchar(10);not null;index:idx_leave_types_company_code,unique"`
	Name        string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:text"`

	// Caps; 0 means unlimited.
	MaxDaysPerYear     int `gorm:"type:int;not null;default:0"`
	MaxConsecutiveDays int `gorm:"type:int;not null;default:0"`

	MinAdvanceNoticeDays int `gorm:"type:int;not null;default:0"`
	MaxAdvanceNoticeDays int `gorm:"type:int;not null;default:365"`

	RequiresManagerApproval bool `gorm:"not null;default:true"`
	RequiresHRApproval      bool `gorm:"not null;default:false"`

	IsPaid            bool            `gorm:"not null;default:true"`
	IsCarryForward    bool            `gorm:"not null;default:false"`
	CarryForwardLimit int             `gorm:"type:int;not null;default:0"`
	AccrualRate       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
