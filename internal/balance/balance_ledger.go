package balance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger is the only writer of balance counters. It exposes atomic deltas;
// available_days and utilization are derived reads on the entity.
//
// Counters clamp at zero instead of going negative, but a clamp means an
// upstream double-decrement, so every clamp is logged as a warning.
type Ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) *Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &Ledger{repo: repo, logger: l}
}

// WithTx binds the ledger to the caller's transaction so counter deltas
// commit or roll back together with the request mutation.
func (l *Ledger) WithTx(tx *sql.Tx) *Ledger {
	return &Ledger{repo: l.repo.WithTx(tx), logger: l.logger}
}

// GetForUpdate exposes a locked read of the ledger row so callers can
// validate against and then mutate the same counters in one transaction.
func (l *Ledger) GetForUpdate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	return l.repo.GetForUpdate(ctx, companyID, employeeID, leaveTypeID, year)
}

func (l *Ledger) AdjustPending(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) error {
	return l.adjust(ctx, "pending_days", companyID, employeeID, leaveTypeID, year, delta)
}

func (l *Ledger) AdjustUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) error {
	return l.adjust(ctx, "used_days", companyID, employeeID, leaveTypeID, year, delta)
}

func (l *Ledger) adjust(ctx context.Context, counter, companyID, employeeID, leaveTypeID string, year int, delta decimal.Decimal) error {
	before, err := l.repo.GetForUpdate(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Balances are provisioned externally; a missing row is skipped
			// rather than failing the lifecycle operation.
			l.logger.Warn("ledger row missing, adjustment skipped",
				zap.String("counter", counter),
				zap.String("employee_id", employeeID),
				zap.String("leave_type_id", leaveTypeID),
				zap.Int("year", year),
				zap.String("delta", delta.String()),
			)
			return nil
		}
		return err
	}

	prior := before.PendingDays
	after := decimal.Decimal{}
	switch counter {
	case "pending_days":
		after, err = l.repo.AdjustPending(ctx, companyID, employeeID, leaveTypeID, year, delta)
	case "used_days":
		prior = before.UsedDays
		after, err = l.repo.AdjustUsed(ctx, companyID, employeeID, leaveTypeID, year, delta)
	}
	if err != nil {
		return err
	}

	if expected := prior.Add(delta); !after.Equal(expected) {
		l.logger.Warn("ledger counter clamped at zero",
			zap.String("counter", counter),
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Int("year", year),
			zap.String("delta", delta.String()),
			zap.String("expected", expected.String()),
			zap.String("actual", after.String()),
		)
	}

	return nil
}
