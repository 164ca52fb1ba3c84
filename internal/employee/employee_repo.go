package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Directory interface {
	GetByID(ctx context.Context, companyID, id string) (*Employee, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) GetByID(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := d.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
