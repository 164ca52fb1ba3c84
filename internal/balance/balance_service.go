package balance

import (
	"context"
	"errors"
	"time"

	balanceerrors "leavedesk/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetForEmployee(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
	Provision(ctx context.Context, companyID string, req ProvisionBalanceRequest) (BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetForEmployee(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, balanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	if year < 2000 || year > 2200 {
		return nil, balanceerrors.ErrInvalidYear
	}

	balances, err := s.repo.ListByEmployee(ctx, companyID, employeeID, year)
	if err != nil {
		s.logger.Error("list balances failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (s *service) Provision(ctx context.Context, companyID string, req ProvisionBalanceRequest) (BalanceResponse, error) {
	s.logger.Debug("provision balance requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveTypeID
	}
	if req.Year < 2000 || req.Year > 2200 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}

	allocated, err := decimal.NewFromString(req.AllocatedDays)
	if err != nil || allocated.IsNegative() {
		return BalanceResponse{}, balanceerrors.ErrInvalidDays
	}
	carryForward := decimal.Zero
	if req.CarryForwardDays != "" {
		carryForward, err = decimal.NewFromString(req.CarryForwardDays)
		if err != nil || carryForward.IsNegative() {
			return BalanceResponse{}, balanceerrors.ErrInvalidDays
		}
	}

	b := &LeaveBalance{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		LeaveTypeID:      leaveTypeUUID,
		Year:             req.Year,
		AllocatedDays:    allocated,
		UsedDays:         decimal.Zero,
		PendingDays:      decimal.Zero,
		CarryForwardDays: carryForward,
	}

	if err := s.repo.Provision(ctx, b); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return BalanceResponse{}, balanceerrors.ErrBalanceExists
		}
		s.logger.Error("provision balance persist failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	s.logger.Info("provision balance success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)
	return mapToResponse(*b), nil
}
