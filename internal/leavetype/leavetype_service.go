package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	leavetypeerrors "leavedesk/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	OptionsKeyPrefix = "leave_types:options:"
	optionsCacheTTL  = 10 * time.Minute

	pgUniqueViolation = "23505"
)

func GetOptionsKey(companyID string) string {
	return OptionsKeyPrefix + companyID
}

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]LeaveTypeOption, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Deactivate(ctx context.Context, companyID, id string) (LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("create leave type requested",
		zap.String("company_id", companyID),
		zap.String("code", req.Code),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}

	accrualRate := decimal.Zero
	if req.AccrualRate != "" {
		accrualRate, err = decimal.NewFromString(req.AccrualRate)
		if err != nil {
			return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidAccrualRate
		}
	}

	lt := &LeaveType{
		ID:                      uuid.New(),
		CompanyID:               companyUUID,
		Code:                    req.Code,
		Name:                    req.Name,
		Description:             req.Description,
		MaxDaysPerYear:          req.MaxDaysPerYear,
		MaxConsecutiveDays:      req.MaxConsecutiveDays,
		MinAdvanceNoticeDays:    req.MinAdvanceNoticeDays,
		MaxAdvanceNoticeDays:    req.MaxAdvanceNoticeDays,
		RequiresManagerApproval: true,
		RequiresHRApproval:      req.RequiresHRApproval,
		IsPaid:                  true,
		IsCarryForward:          req.IsCarryForward,
		CarryForwardLimit:       req.CarryForwardLimit,
		AccrualRate:             accrualRate,
		IsActive:                true,
	}
	if req.RequiresManagerApproval != nil {
		lt.RequiresManagerApproval = *req.RequiresManagerApproval
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if lt.MaxAdvanceNoticeDays == 0 {
		lt.MaxAdvanceNoticeDays = 365
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeCodeExists
		}
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("create leave type success",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("code", lt.Code),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp, nil
}

// GetOptions serves the active-type picker from redis; a cache miss is loaded
// through singleflight so one company triggers at most one DB query at a time.
func (s *service) GetOptions(ctx context.Context, companyID string) ([]LeaveTypeOption, error) {
	key := GetOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var options []LeaveTypeOption
			if err := json.Unmarshal([]byte(cached), &options); err == nil {
				return options, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		types, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		options := make([]LeaveTypeOption, len(types))
		for i, lt := range types {
			options[i] = LeaveTypeOption{
				ID:   lt.ID.String(),
				Code: lt.Code,
				Name: lt.Name,
			}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(options); err == nil {
				if err := s.rdb.Set(ctx, key, payload, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache leave type options failed", zap.Error(err))
				}
			}
		}

		return options, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeOption), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested",
		zap.String("company_id", companyID),
		zap.String("leave_type_id", id),
	)

	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		lt.Name = *req.Name
	}
	if req.Description != nil {
		lt.Description = *req.Description
	}
	if req.MaxDaysPerYear != nil {
		lt.MaxDaysPerYear = *req.MaxDaysPerYear
	}
	if req.MaxConsecutiveDays != nil {
		lt.MaxConsecutiveDays = *req.MaxConsecutiveDays
	}
	if req.MinAdvanceNoticeDays != nil {
		lt.MinAdvanceNoticeDays = *req.MinAdvanceNoticeDays
	}
	if req.MaxAdvanceNoticeDays != nil {
		lt.MaxAdvanceNoticeDays = *req.MaxAdvanceNoticeDays
	}
	if req.RequiresHRApproval != nil {
		lt.RequiresHRApproval = *req.RequiresHRApproval
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if req.IsCarryForward != nil {
		lt.IsCarryForward = *req.IsCarryForward
	}
	if req.CarryForwardLimit != nil {
		lt.CarryForwardLimit = *req.CarryForwardLimit
	}
	if req.AccrualRate != nil {
		rate, err := decimal.NewFromString(*req.AccrualRate)
		if err != nil {
			return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidAccrualRate
		}
		lt.AccrualRate = rate
	}

	if err := s.repo.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type persist failed",
			zap.String("leave_type_id", id),
			zap.Error(err),
		)
		return LeaveTypeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("update leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

// Deactivate retires a leave type. In-flight requests keep their snapshotted
// approval requirements; only new requests are blocked.
func (s *service) Deactivate(ctx context.Context, companyID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if !lt.IsActive {
		return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeInactive
	}

	lt.IsActive = false
	if err := s.repo.Update(ctx, lt); err != nil {
		s.logger.Error("deactivate leave type persist failed",
			zap.String("leave_type_id", id),
			zap.Error(err),
		)
		return LeaveTypeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("deactivate leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, GetOptionsKey(companyID)).Err(); err != nil {
		s.logger.Warn("invalidate leave type options failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                      lt.ID.String(),
		Code:                    lt.Code,
		Name:                    lt.Name,
		Description:             lt.Description,
		MaxDaysPerYear:          lt.MaxDaysPerYear,
		MaxConsecutiveDays:      lt.MaxConsecutiveDays,
		MinAdvanceNoticeDays:    lt.MinAdvanceNoticeDays,
		MaxAdvanceNoticeDays:    lt.MaxAdvanceNoticeDays,
		RequiresManagerApproval: lt.RequiresManagerApproval,
		RequiresHRApproval:      lt.RequiresHRApproval,
		IsPaid:                  lt.IsPaid,
		IsCarryForward:          lt.IsCarryForward,
		CarryForwardLimit:       lt.CarryForwardLimit,
		AccrualRate:             lt.AccrualRate.String(),
		IsActive:                lt.IsActive,
	}
}
