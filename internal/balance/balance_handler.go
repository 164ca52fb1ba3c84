package balance

import (
	"net/http"
	"strconv"

	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetMine returns the caller's own ledger rows for a year.
func (h *Handler) GetMine(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	resp, err := h.service.GetForEmployee(c.Request.Context(), companyID, employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetForEmployee lets HR inspect any employee's ledger.
func (h *Handler) GetForEmployee(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Param("employeeId")
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	resp, err := h.service.GetForEmployee(c.Request.Context(), companyID, employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Provision(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req ProvisionBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http provision balance validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Provision(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}
