package leave

import (
	"net/http"
	"strconv"
	"strings"

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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.logger.Warn("leave request validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return false
	}
	return true
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	var req CreateLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")
	requestID := c.Param("id")

	var req UpdateLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), companyID, requestID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	approverID := c.GetString("employee_id")
	requestID := c.Param("id")

	var req ApproveLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), companyID, requestID, approverID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	companyID := c.GetString("company_id")
	approverID := c.GetString("employee_id")
	requestID := c.Param("id")

	var req RejectLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), companyID, requestID, approverID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")
	actorRole := c.GetString("role")
	requestID := c.Param("id")

	var req CancelLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), companyID, requestID, actorID, actorRole, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Withdraw(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")
	requestID := c.Param("id")

	resp, err := h.service.Withdraw(c.Request.Context(), companyID, requestID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	requestID := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, requestID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")
	statuses, page, limit := listParams(c)

	resp, total, err := h.service.ListByEmployee(c.Request.Context(), companyID, employeeID, statuses, limit, (page-1)*limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) ListAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	statuses, page, limit := listParams(c)

	resp, total, err := h.service.ListByCompany(c.Request.Context(), companyID, statuses, limit, (page-1)*limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

var knownStatuses = map[string]bool{
	StatusPending:   true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusWithdrawn: true,
}

func listParams(c *gin.Context) (statuses []string, page, limit int) {
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if knownStatuses[s] {
				statuses = append(statuses, s)
			}
		}
	}
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return statuses, page, limit
}
