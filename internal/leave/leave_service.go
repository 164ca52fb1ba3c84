package leave

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"leavedesk/internal/balance"
	"leavedesk/internal/employee"
	"leavedesk/internal/events"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	aggregateLeaveRequest = "leave_request"

	dateLayout = "2006-01-02"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, companyID, requestID, actorID string, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, requestID, approverID string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, requestID, approverID string, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, requestID, actorID, actorRole string, req CancelLeaveRequest) (LeaveResponse, error)
	Withdraw(ctx context.Context, companyID, requestID, actorID string) (LeaveResponse, error)
	GetByID(ctx context.Context, companyID, requestID string) (LeaveResponse, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string, statuses []string, limit, offset int) ([]LeaveResponse, int64, error)
	ListByCompany(ctx context.Context, companyID string, statuses []string, limit, offset int) ([]LeaveResponse, int64, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    *balance.Ledger
	types     leavetype.Repository
	directory employee.Directory
	outbox    kafka.OutboxRepository
	calendar  Calendar
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*service)

// WithClock overrides the time source; used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) { s.logger = logger.Named("leave.service") }
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger *balance.Ledger,
	types leavetype.Repository,
	directory employee.Directory,
	outbox kafka.OutboxRepository,
	calendar Calendar,
	opts ...Option,
) Service {
	s := &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		types:     types,
		directory: directory,
		outbox:    outbox,
		calendar:  calendar,
		now:       time.Now,
		logger:    zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateRequestID builds the human-facing reference: LR + submission date +
// six random uppercase hex characters, e.g. LR20260301A4F2C9.
func generateRequestID(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "LR" + now.Format("20060102") + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *service) Create(ctx context.Context, companyID, employeeID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	today := normalizeDate(s.now())
	if start.Before(today) {
		return LeaveResponse{}, leaveerrors.ErrStartDateInPast
	}

	requester, err := s.directory.GetByID(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	lt, err := s.types.FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	totalDays := CalculateLeaveDays(s.calendar, start, end, req.IsHalfDay)
	if totalDays.IsZero() {
		return LeaveResponse{}, leaveerrors.ErrZeroWorkingDays
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	requestID, err := generateRequestID(s.now())
	if err != nil {
		return LeaveResponse{}, err
	}

	request := &LeaveRequest{
		ID:                 uuid.New(),
		RequestID:          requestID,
		CompanyID:          companyUUID,
		EmployeeID:         employeeUUID,
		LeaveTypeID:        leaveTypeUUID,
		StartDate:          start,
		EndDate:            end,
		TotalDays:          totalDays,
		Reason:             req.Reason,
		Priority:           priority,
		IsHalfDay:          req.IsHalfDay,
		Status:             StatusPending,
		ManagerID:          requester.ManagerID,
		HRApprovalRequired: lt.RequiresHRApproval,
		SubmittedAt:        s.now().UTC(),
		CreatedBy:          employeeUUID,
	}

	var warnings []string
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		report, err := s.runPolicyChecks(ctx, tx, lt, request, "")
		if err != nil {
			return err
		}
		if !report.Valid() {
			return leaveerrors.ErrPolicyViolation.WithDetails(policyDetails(report))
		}
		warnings = report.Warnings

		if err := txRepo.Create(ctx, request); err != nil {
			return err
		}
		if err := txLedger.AdjustPending(ctx, companyID, employeeID, req.LeaveTypeID, start.Year(), totalDays); err != nil {
			return err
		}
		return s.enqueueEvent(ctx, tx, request, events.LeaveSubmitted, employeeID)
	})
	if err != nil {
		return LeaveResponse{}, s.mapTxError(err, "create leave request failed", request.RequestID)
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", request.RequestID),
		zap.String("employee_id", employeeID),
		zap.String("total_days", totalDays.String()),
	)
	return mapToResponse(request, today, warnings), nil
}

func (s *service) Update(ctx context.Context, companyID, requestID, actorID string, req UpdateLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	today := normalizeDate(s.now())

	var (
		updated  *LeaveRequest
		warnings []string
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, companyID, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}
		if request.EmployeeID.String() != actorID {
			return leaveerrors.ErrNotRequestOwner
		}
		if !request.CanBeModified(today) {
			return leaveerrors.ErrNotModifiable
		}

		oldDays := request.TotalDays
		oldYear := request.StartDate.Year()

		if req.StartDate != nil || req.EndDate != nil {
			startStr := request.StartDate.Format(dateLayout)
			endStr := request.EndDate.Format(dateLayout)
			if req.StartDate != nil {
				startStr = *req.StartDate
			}
			if req.EndDate != nil {
				endStr = *req.EndDate
			}
			start, end, err := parseDateRange(startStr, endStr)
			if err != nil {
				return err
			}
			if start.Before(today) {
				return leaveerrors.ErrStartDateInPast
			}
			request.StartDate = start
			request.EndDate = end
		}
		if req.Reason != nil {
			request.Reason = *req.Reason
		}
		if req.Priority != nil {
			request.Priority = *req.Priority
		}
		if req.IsHalfDay != nil {
			request.IsHalfDay = *req.IsHalfDay
		}

		request.TotalDays = CalculateLeaveDays(s.calendar, request.StartDate, request.EndDate, request.IsHalfDay)
		if request.TotalDays.IsZero() {
			return leaveerrors.ErrZeroWorkingDays
		}

		lt, err := s.types.FindByIDAndCompany(ctx, companyID, request.LeaveTypeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveTypeNotFound
			}
			return err
		}

		report, err := s.runPolicyChecks(ctx, tx, lt, request, request.ID.String())
		if err != nil {
			return err
		}
		if !report.Valid() {
			return leaveerrors.ErrPolicyViolation.WithDetails(policyDetails(report))
		}
		warnings = report.Warnings

		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}

		// Move the pending hold. When the edit crosses a year boundary the
		// release and the new hold land on different ledger rows.
		employeeID := request.EmployeeID.String()
		leaveTypeID := request.LeaveTypeID.String()
		newYear := request.StartDate.Year()
		if oldYear == newYear {
			delta := request.TotalDays.Sub(oldDays)
			if !delta.IsZero() {
				if err := txLedger.AdjustPending(ctx, companyID, employeeID, leaveTypeID, oldYear, delta); err != nil {
					return err
				}
			}
		} else {
			if err := txLedger.AdjustPending(ctx, companyID, employeeID, leaveTypeID, oldYear, oldDays.Neg()); err != nil {
				return err
			}
			if err := txLedger.AdjustPending(ctx, companyID, employeeID, leaveTypeID, newYear, request.TotalDays); err != nil {
				return err
			}
		}

		updated = request
		return nil
	})
	if err != nil {
		return LeaveResponse{}, s.mapTxError(err, "update leave request failed", requestID)
	}

	s.logger.Info("leave request updated", zap.String("request_id", updated.RequestID))
	return mapToResponse(updated, today, warnings), nil
}

func (s *service) Approve(ctx context.Context, companyID, requestID, approverID string, req ApproveLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	today := normalizeDate(s.now())

	approver, err := s.directory.GetByID(ctx, companyID, approverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	var decided *LeaveRequest
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, companyID, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}
		if !request.IsPending() {
			return leaveerrors.ErrNotPending
		}

		if err := s.applyApprovalGates(request, approver, req.Comments); err != nil {
			return err
		}

		fullyApproved := request.ManagerApprovalAt != nil &&
			(!request.HRApprovalRequired || request.HRApprovalAt != nil)

		if fullyApproved {
			request.Status = StatusApproved
			now := s.now().UTC()
			request.ApprovedAt = &now
		}

		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}

		if fullyApproved {
			employeeID := request.EmployeeID.String()
			leaveTypeID := request.LeaveTypeID.String()
			year := request.StartDate.Year()
			if err := txLedger.AdjustPending(ctx, companyID, employeeID, leaveTypeID, year, request.TotalDays.Neg()); err != nil {
				return err
			}
			if err := txLedger.AdjustUsed(ctx, companyID, employeeID, leaveTypeID, year, request.TotalDays); err != nil {
				return err
			}
			if err := s.enqueueEvent(ctx, tx, request, events.LeaveApproved, approverID); err != nil {
				return err
			}
		}

		decided = request
		return nil
	})
	if err != nil {
		return LeaveResponse{}, s.mapTxError(err, "approve leave request failed", requestID)
	}

	s.logger.Info("leave approval recorded",
		zap.String("request_id", decided.RequestID),
		zap.String("approver_id", approverID),
		zap.String("status", decided.Status),
		zap.String("approval_status", decided.ApprovalStatus()),
	)
	return mapToResponse(decided, today, nil), nil
}

// applyApprovalGates records the approver's decision on the gate(s) they
// hold. An admin satisfies every gate still open in one call.
func (s *service) applyApprovalGates(request *LeaveRequest, approver *employee.Employee, comments string) error {
	now := s.now().UTC()
	applied := false

	if approver.IsAdmin() {
		adminComments := comments
		if adminComments == "" {
			adminComments = "Approved by admin"
		}
		if request.ManagerApprovalAt == nil {
			request.ManagerID = &approver.ID
			request.ManagerApprovalAt = &now
			request.ManagerComments = &adminComments
			applied = true
		}
		if request.HRApprovalRequired && request.HRApprovalAt == nil {
			request.HRApproverID = &approver.ID
			request.HRApprovalAt = &now
			request.HRComments = &adminComments
			applied = true
		}
		if !applied {
			return leaveerrors.ErrGateAlreadyDecided
		}
		return nil
	}

	if request.IsManagedBy(approver.ID) {
		if request.ManagerApprovalAt != nil {
			return leaveerrors.ErrGateAlreadyDecided
		}
		request.ManagerApprovalAt = &now
		if comments != "" {
			request.ManagerComments = &comments
		}
		return nil
	}

	if approver.IsHR() && request.HRApprovalRequired {
		if request.HRApprovalAt != nil {
			return leaveerrors.ErrGateAlreadyDecided
		}
		request.HRApproverID = &approver.ID
		request.HRApprovalAt = &now
		if comments != "" {
			request.HRComments = &comments
		}
		return nil
	}

	return leaveerrors.ErrNotAuthorizedGate
}

func (s *service) Reject(ctx context.Context, companyID, requestID, approverID string, req RejectLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	today := normalizeDate(s.now())

	approver, err := s.directory.GetByID(ctx, companyID, approverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	var decided *LeaveRequest
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, companyID, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}
		if !request.IsPending() {
			return leaveerrors.ErrNotPending
		}

		isManager := request.IsManagedBy(approver.ID)
		holdsGate := approver.IsAdmin() || isManager ||
			(approver.IsHR() && request.HRApprovalRequired)
		if !holdsGate {
			return leaveerrors.ErrNotAuthorizedGate
		}

		now := s.now().UTC()
		request.Status = StatusRejected
		request.RejectedAt = &now
		if isManager || (approver.IsAdmin() && !request.HRApprovalRequired) {
			request.ManagerID = &approver.ID
			request.ManagerComments = &req.Comments
		} else {
			request.HRApproverID = &approver.ID
			request.HRComments = &req.Comments
		}

		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}
		if err := txLedger.AdjustPending(
			ctx, companyID, request.EmployeeID.String(), request.LeaveTypeID.String(),
			request.StartDate.Year(), request.TotalDays.Neg(),
		); err != nil {
			return err
		}
		if err := s.enqueueEvent(ctx, tx, request, events.LeaveRejected, approverID); err != nil {
			return err
		}

		decided = request
		return nil
	})
	if err != nil {
		return LeaveResponse{}, s.mapTxError(err, "reject leave request failed", requestID)
	}

	s.logger.Info("leave request rejected",
		zap.String("request_id", decided.RequestID),
		zap.String("approver_id", approverID),
	)
	return mapToResponse(decided, today, nil), nil
}

func (s *service) Cancel(ctx context.Context, companyID, requestID, actorID, actorRole string, req CancelLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	today := normalizeDate(s.now())
	privileged := isPrivilegedRole(actorRole)

	var cancelled *LeaveRequest
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, companyID, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}
		if !privileged && request.EmployeeID.String() != actorID {
			return leaveerrors.ErrNotRequestOwner
		}
		if !request.CanBeCancelled(today) {
			return leaveerrors.ErrNotCancellable
		}

		wasApproved := request.IsApproved()
		request.Status = StatusCancelled
		request.CancellationReason = &req.Reason

		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}

		// Release the counter the request was holding: pending when still in
		// flight, used when it had already been approved.
		employeeID := request.EmployeeID.String()
		leaveTypeID := request.LeaveTypeID.String()
		year := request.StartDate.Year()
		if wasApproved {
			err = txLedger.AdjustUsed(ctx, companyID, employeeID, leaveTypeID, year, request.TotalDays.Neg())
		} else {
			err = txLedger.AdjustPending(ctx, companyID, employeeID, leaveTypeID, year, request.TotalDays.Neg())
		}
		if err != nil {
			return err
		}
		if err := s.enqueueEvent(ctx, tx, request, events.LeaveCancelled, actorID); err != nil {
			return err
		}

		cancelled = request
		return nil
	})
	if err != nil {
		return LeaveResponse{}, s.mapTxError(err, "cancel leave request failed", requestID)
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_id", cancelled.RequestID),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(cancelled, today, nil), nil
}

func (s *service) Withdraw(ctx context.Context, companyID, requestID, actorID string) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	today := normalizeDate(s.now())

	var withdrawn *LeaveRequest
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		request, err := txRepo.GetByIDForUpdate(ctx, companyID, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}
		if request.EmployeeID.String() != actorID {
			return leaveerrors.ErrNotRequestOwner
		}
		if !request.IsPending() {
			return leaveerrors.ErrNotWithdrawable
		}

		request.Status = StatusWithdrawn
		if err := txRepo.Update(ctx, request); err != nil {
			return err
		}
		if err := txLedger.AdjustPending(
			ctx, companyID, request.EmployeeID.String(), request.LeaveTypeID.String(),
			request.StartDate.Year(), request.TotalDays.Neg(),
		); err != nil {
			return err
		}
		if err := s.enqueueEvent(ctx, tx, request, events.LeaveWithdrawn, actorID); err != nil {
			return err
		}

		withdrawn = request
		return nil
	})
	if err != nil {
		return LeaveResponse{}, s.mapTxError(err, "withdraw leave request failed", requestID)
	}

	s.logger.Info("leave request withdrawn", zap.String("request_id", withdrawn.RequestID))
	return mapToResponse(withdrawn, today, nil), nil
}

func (s *service) GetByID(ctx context.Context, companyID, requestID string) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	request, err := s.repo.GetByID(ctx, companyID, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(request, normalizeDate(s.now()), nil), nil
}

func (s *service) ListByEmployee(ctx context.Context, companyID, employeeID string, statuses []string, limit, offset int) ([]LeaveResponse, int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, 0, leaveerrors.ErrInvalidEmployeeID
	}
	requests, total, err := s.repo.FindByEmployee(ctx, companyID, employeeID, statuses, normalizeLimit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	return s.mapList(requests), total, nil
}

func (s *service) ListByCompany(ctx context.Context, companyID string, statuses []string, limit, offset int) ([]LeaveResponse, int64, error) {
	requests, total, err := s.repo.FindAllByCompany(ctx, companyID, statuses, normalizeLimit(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	return s.mapList(requests), total, nil
}

func (s *service) mapList(requests []LeaveRequest) []LeaveResponse {
	today := normalizeDate(s.now())
	resp := make([]LeaveResponse, len(requests))
	for i := range requests {
		resp[i] = mapToResponse(&requests[i], today, nil)
	}
	return resp
}

// runPolicyChecks gathers the policy inputs on the caller's transaction and
// runs the rule set. The balance row is locked here so the sufficiency check
// and the later counter write see the same values.
func (s *service) runPolicyChecks(ctx context.Context, tx *sql.Tx, lt *leavetype.LeaveType, request *LeaveRequest, excludeID string) (PolicyReport, error) {
	companyID := request.CompanyID.String()
	employeeID := request.EmployeeID.String()
	leaveTypeID := request.LeaveTypeID.String()
	year := request.StartDate.Year()

	txRepo := s.repo.WithTx(tx)

	input := PolicyInput{
		LeaveType:     lt,
		StartDate:     request.StartDate,
		EndDate:       request.EndDate,
		RequestedDays: request.TotalDays,
		Today:         normalizeDate(s.now()),
	}

	row, err := s.ledger.WithTx(tx).GetForUpdate(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return PolicyReport{}, err
		}
	} else {
		input.HasBalanceRow = true
		input.AvailableDays = row.AvailableDays()
	}

	input.UsedThisYear, err = txRepo.SumApprovedDays(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		return PolicyReport{}, err
	}

	overlapping, err := txRepo.FindOverlapping(
		ctx, companyID, employeeID,
		request.StartDate.Format(dateLayout), request.EndDate.Format(dateLayout),
		excludeID,
	)
	if err != nil {
		return PolicyReport{}, err
	}
	input.HasOverlap = len(overlapping) > 0

	return ValidatePolicy(input), nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, request *LeaveRequest, eventType, actorID string) error {
	payload, err := json.Marshal(events.LeaveLifecycleEvent{
		EventType:      eventType,
		LeaveRequestID: request.ID.String(),
		RequestID:      request.RequestID,
		CompanyID:      request.CompanyID.String(),
		EmployeeID:     request.EmployeeID.String(),
		LeaveTypeID:    request.LeaveTypeID.String(),
		Status:         request.Status,
		StartDate:      request.StartDate.Format(dateLayout),
		EndDate:        request.EndDate.Format(dateLayout),
		TotalDays:      request.TotalDays.String(),
		ActorID:        actorID,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     request.RequestID,
		AggregateType: aggregateLeaveRequest,
		AggregateID:   request.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// mapTxError translates serialization failures into a retryable conflict and
// logs infrastructure errors; domain sentinels pass through untouched.
func (s *service) mapTxError(err error, msg, requestID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			s.logger.Warn("lifecycle operation hit concurrent update",
				zap.String("request_id", requestID),
				zap.String("pg_code", pgErr.Code),
			)
			return leaveerrors.ErrConcurrentUpdate
		}
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		s.logger.Error(msg, zap.String("request_id", requestID), zap.Error(err))
	}
	return err
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return normalizeDate(start), normalizeDate(end), nil
}

func policyDetails(report PolicyReport) map[string]any {
	details := map[string]any{"errors": report.Errors}
	if len(report.Warnings) > 0 {
		details["warnings"] = report.Warnings
	}
	if len(report.Suggestions) > 0 {
		details["suggestions"] = report.Suggestions
	}
	return details
}

func isPrivilegedRole(role string) bool {
	switch strings.ToLower(role) {
	case "hr", "human resources", "admin", "administrator":
		return true
	}
	return false
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
