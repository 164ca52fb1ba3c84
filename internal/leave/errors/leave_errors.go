package leaveerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrZeroWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested range contains no working days",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)

	// ErrPolicyViolation is returned with a details payload listing every
	// failed rule plus any suggestions; see service.Create.
	ErrPolicyViolation = apperror.New(
		apperror.CodePolicyViolation,
		"leave request violates one or more policies",
		http.StatusUnprocessableEntity,
	)

	ErrNotPending = apperror.New(
		apperror.CodeConflict,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrNotCancellable = apperror.New(
		apperror.CodeConflict,
		"leave request can no longer be cancelled",
		http.StatusConflict,
	)
	ErrNotModifiable = apperror.New(
		apperror.CodeConflict,
		"leave request can no longer be modified",
		http.StatusConflict,
	)
	ErrNotWithdrawable = apperror.New(
		apperror.CodeConflict,
		"only pending leave requests can be withdrawn",
		http.StatusConflict,
	)
	ErrNotAuthorizedGate = apperror.New(
		apperror.CodeForbidden,
		"approver does not hold a required approval gate for this request",
		http.StatusForbidden,
	)
	ErrGateAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"this approval gate has already been decided",
		http.StatusConflict,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee may perform this action",
		http.StatusForbidden,
	)

	// ErrConcurrentUpdate surfaces serialization failures; the caller should
	// retry the whole operation.
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"leave request was modified concurrently, please retry",
		http.StatusConflict,
	)
)
