package balance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetForUpdate_LocksRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	companyID := uuid.New()
	employeeID := uuid.New()
	leaveTypeID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "company_id", "employee_id", "leave_type_id", "year",
		"allocated_days", "used_days", "pending_days", "carry_forward_days",
		"created_at", "updated_at",
	}).AddRow(
		id.String(), companyID.String(), employeeID.String(), leaveTypeID.String(), 2024,
		"20", "5", "2.5", "3", now, now,
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM leave_balances(.|\n)+FOR UPDATE`).
		WithArgs(companyID.String(), employeeID.String(), leaveTypeID.String(), 2024).
		WillReturnRows(rows)

	repo := NewRepository(db)
	b, err := repo.GetForUpdate(context.Background(), companyID.String(), employeeID.String(), leaveTypeID.String(), 2024)
	require.NoError(t, err)

	assert.Equal(t, id, b.ID)
	assert.Equal(t, "15.5", b.AvailableDays().String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AdjustPending_ClampsAtZero(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()
	delta := decimal.NewFromInt(-5)

	mock.ExpectQuery(`UPDATE leave_balances(.|\n)+GREATEST\(pending_days \+ \$5, 0\)(.|\n)+RETURNING pending_days`).
		WithArgs(companyID, employeeID, leaveTypeID, 2024, delta).
		WillReturnRows(sqlmock.NewRows([]string{"pending_days"}).AddRow("0"))

	repo := NewRepository(db)
	result, err := repo.AdjustPending(context.Background(), companyID, employeeID, leaveTypeID, 2024, delta)
	require.NoError(t, err)

	assert.True(t, result.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AdjustUsed_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE leave_balances(.|\n)+RETURNING used_days`).
		WillReturnError(sql.ErrNoRows)

	repo := NewRepository(db)
	_, err = repo.AdjustUsed(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), 2024, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
