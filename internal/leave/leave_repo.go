package leave

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock

// Repository persists leave requests on database/sql so lifecycle operations
// can run request and ledger writes inside one transaction.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	GetByID(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	GetByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string, statuses []string, limit, offset int) ([]LeaveRequest, int64, error)
	FindAllByCompany(ctx context.Context, companyID string, statuses []string, limit, offset int) ([]LeaveRequest, int64, error)
	FindOverlapping(ctx context.Context, companyID, employeeID string, start, end string, excludeID string) ([]LeaveRequest, error)
	SumApprovedDays(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (decimal.Decimal, error)
	Update(ctx context.Context, l *LeaveRequest) error
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

const leaveColumns = `
	id::text,
	request_id,
	company_id::text,
	employee_id::text,
	leave_type_id::text,
	start_date,
	end_date,
	total_days,
	reason,
	priority,
	is_half_day,
	status,
	manager_id::text,
	manager_approval_at,
	manager_comments,
	hr_approval_required,
	hr_approver_id::text,
	hr_approval_at,
	hr_comments,
	cancellation_reason,
	submitted_at,
	approved_at,
	rejected_at,
	created_by::text,
	created_at,
	updated_at
`

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
INSERT INTO leave_requests (
	id, request_id, company_id, employee_id, leave_type_id,
	start_date, end_date, total_days, reason, priority, is_half_day,
	status, hr_approval_required, submitted_at, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.RequestID, l.CompanyID, l.EmployeeID, l.LeaveTypeID,
		l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.Priority, l.IsHalfDay,
		l.Status, l.HRApprovalRequired, l.SubmittedAt, l.CreatedBy,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	query := `
SELECT ` + leaveColumns + `
FROM leave_requests
WHERE company_id = $1 AND id = $2
`
	row := r.querier().QueryRowContext(ctx, query, companyID, id)
	return scanLeave(row)
}

// GetByIDForUpdate locks the request row for the rest of the transaction.
// Every lifecycle mutation takes this lock first so concurrent decisions on
// the same request serialize at the database.
func (r *repository) GetByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	query := `
SELECT ` + leaveColumns + `
FROM leave_requests
WHERE company_id = $1 AND id = $2
FOR UPDATE
`
	row := r.querier().QueryRowContext(ctx, query, companyID, id)
	return scanLeave(row)
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string, statuses []string, limit, offset int) ([]LeaveRequest, int64, error) {
	base := `FROM leave_requests WHERE company_id = $1 AND employee_id = $2`
	args := []any{companyID, employeeID}
	if len(statuses) > 0 {
		base += ` AND status = ANY($3)`
		args = append(args, statusArray(statuses))
	}

	var total int64
	if err := r.querier().QueryRowContext(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + leaveColumns + base + ` ORDER BY submitted_at DESC` + limitOffset(len(args))
	args = append(args, limit, offset)

	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests, err := collectLeaves(rows)
	return requests, total, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, statuses []string, limit, offset int) ([]LeaveRequest, int64, error) {
	base := `FROM leave_requests WHERE company_id = $1`
	args := []any{companyID}
	if len(statuses) > 0 {
		base += ` AND status = ANY($2)`
		args = append(args, statusArray(statuses))
	}

	var total int64
	if err := r.querier().QueryRowContext(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + leaveColumns + base + ` ORDER BY submitted_at DESC` + limitOffset(len(args))
	args = append(args, limit, offset)

	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests, err := collectLeaves(rows)
	return requests, total, err
}

// FindOverlapping returns active (pending or approved) requests whose date
// range intersects [start, end]. Two inclusive ranges overlap unless one ends
// before the other starts. excludeID skips the request being updated.
func (r *repository) FindOverlapping(ctx context.Context, companyID, employeeID string, start, end string, excludeID string) ([]LeaveRequest, error) {
	query := `
SELECT ` + leaveColumns + `
FROM leave_requests
WHERE company_id = $1
  AND employee_id = $2
  AND status IN ('` + StatusPending + `', '` + StatusApproved + `')
  AND NOT (end_date < $3 OR start_date > $4)
  AND ($5 = '' OR id::text <> $5)
`
	rows, err := r.querier().QueryContext(ctx, query, companyID, employeeID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeaves(rows)
}

// SumApprovedDays totals approved leave for the annual-cap check. The year
// is attributed by start_date.
func (r *repository) SumApprovedDays(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	query := `
SELECT COALESCE(SUM(total_days), 0)
FROM leave_requests
WHERE company_id = $1
  AND employee_id = $2
  AND leave_type_id = $3
  AND status = '` + StatusApproved + `'
  AND EXTRACT(YEAR FROM start_date) = $4
`
	var total decimal.Decimal
	err := r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year).Scan(&total)
	return total, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET start_date = $3,
	end_date = $4,
	total_days = $5,
	reason = $6,
	priority = $7,
	is_half_day = $8,
	status = $9,
	manager_id = $10,
	manager_approval_at = $11,
	manager_comments = $12,
	hr_approver_id = $13,
	hr_approval_at = $14,
	hr_comments = $15,
	cancellation_reason = $16,
	approved_at = $17,
	rejected_at = $18,
	updated_at = NOW()
WHERE company_id = $1 AND id = $2
`
	result, err := r.execer().ExecContext(
		ctx, query,
		l.CompanyID, l.ID,
		l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.Priority, l.IsHalfDay,
		l.Status,
		l.ManagerID, l.ManagerApprovalAt, l.ManagerComments,
		l.HRApproverID, l.HRApprovalAt, l.HRComments,
		l.CancellationReason, l.ApprovedAt, l.RejectedAt,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func limitOffset(argCount int) string {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
}

// statusArray renders a text[] literal for ANY(); statuses come from the
// fixed constant set, never from raw user input.
func statusArray(statuses []string) string {
	out := "{"
	for i, s := range statuses {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out + "}"
}

func collectLeaves(rows *sql.Rows) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *l)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (*LeaveRequest, error) {
	var (
		l                                      LeaveRequest
		id, companyID, employeeID, leaveTypeID string
		createdBy                              string
		managerID, hrApproverID                sql.NullString
	)
	if err := row.Scan(
		&id,
		&l.RequestID,
		&companyID,
		&employeeID,
		&leaveTypeID,
		&l.StartDate,
		&l.EndDate,
		&l.TotalDays,
		&l.Reason,
		&l.Priority,
		&l.IsHalfDay,
		&l.Status,
		&managerID,
		&l.ManagerApprovalAt,
		&l.ManagerComments,
		&l.HRApprovalRequired,
		&hrApproverID,
		&l.HRApprovalAt,
		&l.HRComments,
		&l.CancellationReason,
		&l.SubmittedAt,
		&l.ApprovedAt,
		&l.RejectedAt,
		&createdBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if l.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if l.CompanyID, err = uuid.Parse(companyID); err != nil {
		return nil, err
	}
	if l.EmployeeID, err = uuid.Parse(employeeID); err != nil {
		return nil, err
	}
	if l.LeaveTypeID, err = uuid.Parse(leaveTypeID); err != nil {
		return nil, err
	}
	if l.CreatedBy, err = uuid.Parse(createdBy); err != nil {
		return nil, err
	}
	if managerID.Valid {
		parsed, err := uuid.Parse(managerID.String)
		if err != nil {
			return nil, err
		}
		l.ManagerID = &parsed
	}
	if hrApproverID.Valid {
		parsed, err := uuid.Parse(hrApproverID.String)
		if err != nil {
			return nil, err
		}
		l.HRApproverID = &parsed
	}
	return &l, nil
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
