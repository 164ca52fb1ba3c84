package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leavedesk/internal/leave"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn   func(ctx context.Context, companyID, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	updateFn   func(ctx context.Context, companyID, requestID, actorID string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	approveFn  func(ctx context.Context, companyID, requestID, approverID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	rejectFn   func(ctx context.Context, companyID, requestID, approverID string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	cancelFn   func(ctx context.Context, companyID, requestID, actorID, actorRole string, req leave.CancelLeaveRequest) (leave.LeaveResponse, error)
	withdrawFn func(ctx context.Context, companyID, requestID, actorID string) (leave.LeaveResponse, error)
	getByIDFn  func(ctx context.Context, companyID, requestID string) (leave.LeaveResponse, error)
	listEmpFn  func(ctx context.Context, companyID, employeeID string, statuses []string, limit, offset int) ([]leave.LeaveResponse, int64, error)
	listAllFn  func(ctx context.Context, companyID string, statuses []string, limit, offset int) ([]leave.LeaveResponse, int64, error)
}

func (f *fakeService) Create(ctx context.Context, companyID, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, companyID, employeeID, req)
}
func (f *fakeService) Update(ctx context.Context, companyID, requestID, actorID string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, companyID, requestID, actorID, req)
}
func (f *fakeService) Approve(ctx context.Context, companyID, requestID, approverID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, companyID, requestID, approverID, req)
}
func (f *fakeService) Reject(ctx context.Context, companyID, requestID, approverID string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, companyID, requestID, approverID, req)
}
func (f *fakeService) Cancel(ctx context.Context, companyID, requestID, actorID, actorRole string, req leave.CancelLeaveRequest) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, companyID, requestID, actorID, actorRole, req)
}
func (f *fakeService) Withdraw(ctx context.Context, companyID, requestID, actorID string) (leave.LeaveResponse, error) {
	return f.withdrawFn(ctx, companyID, requestID, actorID)
}
func (f *fakeService) GetByID(ctx context.Context, companyID, requestID string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, companyID, requestID)
}
func (f *fakeService) ListByEmployee(ctx context.Context, companyID, employeeID string, statuses []string, limit, offset int) ([]leave.LeaveResponse, int64, error) {
	return f.listEmpFn(ctx, companyID, employeeID, statuses, limit, offset)
}
func (f *fakeService) ListByCompany(ctx context.Context, companyID string, statuses []string, limit, offset int) ([]leave.LeaveResponse, int64, error) {
	return f.listAllFn(ctx, companyID, statuses, limit, offset)
}

func testContext(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestHandler_Create(t *testing.T) {
	apperror.Init()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakeService{
		createFn: func(ctx context.Context, cid, eid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, "2024-06-10", req.StartDate)
			return leave.LeaveResponse{
				ID:             uuid.NewString(),
				RequestID:      "LR20240601A4F2C9",
				Status:         leave.StatusPending,
				ApprovalStatus: "Pending Manager Approval",
			}, nil
		},
	}
	h := leave.NewHandler(svc)

	body := `{"leave_type_id":"` + uuid.NewString() + `","start_date":"2024-06-10","end_date":"2024-06-14","reason":"family holiday"}`
	w, c := testContext(t, http.MethodPost, "/leave-requests", body)
	c.Set("company_id", companyID)
	c.Set("employee_id", employeeID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.Contains(t, w.Body.String(), "Pending Manager Approval")
}

func TestHandler_Create_ValidationError(t *testing.T) {
	apperror.Init()
	h := leave.NewHandler(&fakeService{})

	// missing required fields never reaches the service
	w, c := testContext(t, http.MethodPost, "/leave-requests", `{"reason":"x"}`)
	c.Set("company_id", uuid.NewString())
	c.Set("employee_id", uuid.NewString())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestHandler_Approve_ForbiddenGate(t *testing.T) {
	apperror.Init()
	svc := &fakeService{
		approveFn: func(ctx context.Context, cid, rid, aid string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrNotAuthorizedGate
		},
	}
	h := leave.NewHandler(svc)

	w, c := testContext(t, http.MethodPost, "/leave-requests/x/approve", `{}`)
	c.Set("company_id", uuid.NewString())
	c.Set("employee_id", uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.Approve(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestHandler_Create_PolicyViolationDetails(t *testing.T) {
	apperror.Init()
	svc := &fakeService{
		createFn: func(ctx context.Context, cid, eid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrPolicyViolation.WithDetails(map[string]any{
				"errors":      []string{"Overlapping leave request exists"},
				"suggestions": []string{"Consider adjusting leave dates or duration"},
			})
		},
	}
	h := leave.NewHandler(svc)

	body := `{"leave_type_id":"` + uuid.NewString() + `","start_date":"2024-06-10","end_date":"2024-06-14","reason":"family holiday"}`
	w, c := testContext(t, http.MethodPost, "/leave-requests", body)
	c.Set("company_id", uuid.NewString())
	c.Set("employee_id", uuid.NewString())

	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "POLICY_VIOLATION")
	assert.Contains(t, w.Body.String(), "Overlapping leave request exists")
	assert.Contains(t, w.Body.String(), "Consider adjusting leave dates or duration")
}

func TestHandler_ListMine_Pagination(t *testing.T) {
	apperror.Init()
	svc := &fakeService{
		listEmpFn: func(ctx context.Context, cid, eid string, statuses []string, limit, offset int) ([]leave.LeaveResponse, int64, error) {
			assert.Equal(t, []string{leave.StatusPending, leave.StatusApproved}, statuses)
			assert.Equal(t, 10, limit)
			assert.Equal(t, 10, offset)
			return []leave.LeaveResponse{{ID: uuid.NewString()}}, 21, nil
		},
	}
	h := leave.NewHandler(svc)

	w, c := testContext(t, http.MethodGet, "/leave-requests/me?status=pending,approved&page=2&limit=10", "")
	c.Set("company_id", uuid.NewString())
	c.Set("employee_id", uuid.NewString())

	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"meta"`)
	assert.Contains(t, w.Body.String(), `"totalPages":3`)
}
