package leavetypeerrors

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
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidAccrualRate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid accrual_rate, expected a decimal number",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeCodeExists = apperror.New(
		apperror.CodeConflict,
		"leave type code already exists for this company",
		http.StatusConflict,
	)
	ErrLeaveTypeInactive = apperror.New(
		apperror.CodeInvalidState,
		"leave type is already deactivated",
		http.StatusBadRequest,
	)
)
