package balance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock

// Repository owns the raw counter rows. It is deliberately built on
// database/sql so ledger writes run on the caller's transaction; gorm is
// reserved for the non-transactional catalog reads elsewhere.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Get(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	GetForUpdate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)
	Provision(ctx context.Context, b *LeaveBalance) error
	AdjustPending(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) (decimal.Decimal, error)
	AdjustUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) (decimal.Decimal, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const balanceColumns = `
	id::text,
	company_id::text,
	employee_id::text,
	leave_type_id::text,
	year,
	allocated_days,
	used_days,
	pending_days,
	carry_forward_days,
	created_at,
	updated_at
`

func (r *repository) Get(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
`
	row := r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year)
	return scanBalance(row)
}

// GetForUpdate locks the ledger row for the rest of the transaction. Every
// lifecycle operation takes this lock before reading or writing counters, so
// concurrent operations on the same row serialize at the database.
func (r *repository) GetForUpdate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
FOR UPDATE
`
	row := r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year)
	return scanBalance(row)
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND year = $3
ORDER BY leave_type_id
`
	rows, err := r.querier().QueryContext(ctx, query, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *b)
	}

	return balances, rows.Err()
}

func (r *repository) Provision(ctx context.Context, b *LeaveBalance) error {
	query := `
INSERT INTO leave_balances (
	id, company_id, employee_id, leave_type_id, year,
	allocated_days, used_days, pending_days, carry_forward_days
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		b.ID, b.CompanyID, b.EmployeeID, b.LeaveTypeID, b.Year,
		b.AllocatedDays, b.UsedDays, b.PendingDays, b.CarryForwardDays,
	)
	return err
}

// AdjustPending applies an atomic delta to pending_days, clamped at zero.
// Returns the resulting value; sql.ErrNoRows when no ledger row exists.
func (r *repository) AdjustPending(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
UPDATE leave_balances
SET pending_days = GREATEST(pending_days + $5, 0), updated_at = NOW()
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
RETURNING pending_days
`
	var result decimal.Decimal
	err := r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year, delta).Scan(&result)
	return result, err
}

// AdjustUsed applies an atomic delta to used_days, clamped at zero.
func (r *repository) AdjustUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
UPDATE leave_balances
SET used_days = GREATEST(used_days + $5, 0), updated_at = NOW()
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
RETURNING used_days
`
	var result decimal.Decimal
	err := r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year, delta).Scan(&result)
	return result, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(row rowScanner) (*LeaveBalance, error) {
	var (
		b                                  LeaveBalance
		id, companyID, employeeID, leaveTypeID string
	)
	if err := row.Scan(
		&id,
		&companyID,
		&employeeID,
		&leaveTypeID,
		&b.Year,
		&b.AllocatedDays,
		&b.UsedDays,
		&b.PendingDays,
		&b.CarryForwardDays,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if b.ID, err = parseUUID(id); err != nil {
		return nil, err
	}
	if b.CompanyID, err = parseUUID(companyID); err != nil {
		return nil, err
	}
	if b.EmployeeID, err = parseUUID(employeeID); err != nil {
		return nil, err
	}
	if b.LeaveTypeID, err = parseUUID(leaveTypeID); err != nil {
		return nil, err
	}
	return &b, nil
}

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) querier() interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
