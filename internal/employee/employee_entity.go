package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is the identity record supplied by the external auth service.
// The leave engine reads it for manager resolution and role checks only.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID  `gorm:"type:uuid;index"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
	FullName  string
	Email     string `gorm:"uniqueIndex"`
	Role      string `gorm:"type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Employee) IsHR() bool {
	switch strings.ToLower(e.Role) {
	case "hr", "human resources":
		return true
	}
	return false
}

func (e *Employee) IsAdmin() bool {
	switch strings.ToLower(e.Role) {
	case "admin", "administrator":
		return true
	}
	return false
}
