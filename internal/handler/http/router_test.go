package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/authz"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	approvalsvc "github.com/cmlabs-hris/hris-workflow-go/internal/service/approval"
	attendancesvc "github.com/cmlabs-hris/hris-workflow-go/internal/service/attendance"
	authsvc "github.com/cmlabs-hris/hris-workflow-go/internal/service/auth"
	leavesvc "github.com/cmlabs-hris/hris-workflow-go/internal/service/leave"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoPassword = "password123"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.SeedDemo(demoPassword))

	jwtService, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	enforcer, err := authz.NewEnforcer(user.RolePermissions)
	require.NoError(t, err)

	gate := approvalsvc.NewGate(store.Users())
	handlers := Handlers{
		Auth: NewAuthHandler(authsvc.NewAuthService(store.Users(), jwtService)),
		Leave: NewLeaveHandler(
			leavesvc.NewLeaveService(store, gate, store.Leaves(), store.LeaveTypes(), store.Employees()),
			enforcer,
		),
		AttendanceRequest: NewAttendanceRequestHandler(
			attendancesvc.NewAttendanceRequestService(store, gate, store.AttendanceRequests(), store.RequestTypes(), store.Leaves(), store.Employees()),
			enforcer,
		),
		Attendance: NewAttendanceHandler(
			attendancesvc.NewAttendanceService(store, store.Attendance(), store.Employees()),
			enforcer,
		),
	}

	return NewRouter(RouterOptions{
		Env:            "test",
		Version:        "test",
		LogLevel:       slog.LevelError,
		AllowedOrigins: []string{"http://localhost:3000"},
		LoginLimiter:   middleware.NewIPRateLimiter(100, 100),
	}, jwtService, enforcer, handlers)
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec.Code, env
}

func login(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	status, env := call(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": demoPassword,
	})
	require.Equal(t, http.StatusOK, status, env.Error)

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	return tok.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type leaveBody struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	TotalDays  int    `json:"total_days"`
}

func TestAuthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	status, env := call(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "employee", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid username or password", env.Error)

	status, env = call(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Details, "username")

	token := login(t, h, "manager")
	status, env = call(t, h, http.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[struct {
		Username     string  `json:"username"`
		EmployeeName *string `json:"employee_name"`
	}](t, env.Data)
	assert.Equal(t, "manager", profile.Username)
	require.NotNil(t, profile.EmployeeName)
	assert.Equal(t, "Mona Manager", *profile.EmployeeName)

	status, _ = call(t, h, http.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLeaveWorkflow(t *testing.T) {
	h := newTestRouter(t)
	employeeToken := login(t, h, "employee")
	managerToken := login(t, h, "manager")
	auditorToken := login(t, h, "auditor")

	// employee_id in the body is ignored for self-service callers
	status, env := call(t, h, http.MethodPost, "/api/v1/leaves", employeeToken, map[string]string{
		"employee_id":   "0190a000-0000-7000-8000-000000000999",
		"leave_type_id": memory.LeaveTypeAnnualID,
		"start_date":    "2024-01-10",
		"end_date":      "2024-01-15",
		"reason":        "holiday",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, "Leave request submitted successfully", env.Message)
	first := decode[leaveBody](t, env.Data)
	assert.Equal(t, 6, first.TotalDays)
	assert.Equal(t, "Pending", first.Status)
	assert.NotEqual(t, "0190a000-0000-7000-8000-000000000999", first.EmployeeID)

	status, env = call(t, h, http.MethodPost, "/api/v1/leaves", employeeToken, map[string]string{
		"leave_type_id": memory.LeaveTypeAnnualID,
		"start_date":    "2024-01-14",
		"end_date":      "2024-01-20",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	second := decode[leaveBody](t, env.Data)

	// employees cannot approve
	status, _ = call(t, h, http.MethodPost, "/api/v1/leaves/approve", employeeToken, map[string]string{"id": first.ID, "status": "Approved"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, h, http.MethodPost, "/api/v1/leaves/approve", managerToken, map[string]string{"id": first.ID, "status": "Approved"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "Leave request approved successfully", env.Message)

	status, env = call(t, h, http.MethodPost, "/api/v1/leaves/approve", managerToken, map[string]string{"id": second.ID, "status": "Approved"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "overlapping leave request exists", env.Error)

	status, env = call(t, h, http.MethodPost, "/api/v1/leaves/approve", managerToken, map[string]string{"id": second.ID, "status": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "status must be either Approved or Rejected", env.Error)

	// approved leave cannot be edited or cancelled by its owner
	status, _ = call(t, h, http.MethodPut, "/api/v1/leaves/"+first.ID, employeeToken, map[string]string{
		"leave_type_id": memory.LeaveTypeAnnualID, "start_date": "2024-01-10", "end_date": "2024-01-11",
	})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = call(t, h, http.MethodDelete, "/api/v1/leaves/"+first.ID, employeeToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// manager is not the owner and leave cancel_any is admin-only
	status, _ = call(t, h, http.MethodDelete, "/api/v1/leaves/"+second.ID, managerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	adminToken := login(t, h, "admin")
	status, env = call(t, h, http.MethodDelete, "/api/v1/leaves/"+first.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "Leave request cancelled successfully", env.Message)

	status, _ = call(t, h, http.MethodGet, "/api/v1/leaves/"+first.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, h, http.MethodGet, "/api/v1/leaves/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// unlinked accounts cannot act as an employee
	status, _ = call(t, h, http.MethodGet, "/api/v1/leaves", auditorToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestLeaveListScoping(t *testing.T) {
	h := newTestRouter(t)
	employeeToken := login(t, h, "employee")
	managerToken := login(t, h, "manager")

	for _, token := range []string{employeeToken, managerToken} {
		status, env := call(t, h, http.MethodPost, "/api/v1/leaves", token, map[string]string{
			"leave_type_id": memory.LeaveTypeSickID, "start_date": "2024-02-01", "end_date": "2024-02-02",
		})
		require.Equal(t, http.StatusCreated, status, env.Error)
	}

	type list struct {
		TotalCount int64       `json:"total_count"`
		Leaves     []leaveBody `json:"leaves"`
	}

	status, env := call(t, h, http.MethodGet, "/api/v1/leaves", employeeToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[list](t, env.Data).TotalCount)

	status, env = call(t, h, http.MethodGet, "/api/v1/leaves?limit=1", managerToken, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[list](t, env.Data)
	assert.Equal(t, int64(2), got.TotalCount)
	assert.Len(t, got.Leaves, 1)

	status, env = call(t, h, http.MethodGet, "/api/v1/leaves?limit=500", managerToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Details, "limit")
}

func TestAttendanceRequestWorkflow(t *testing.T) {
	h := newTestRouter(t)
	employeeToken := login(t, h, "employee")
	managerToken := login(t, h, "manager")

	status, env := call(t, h, http.MethodPost, "/api/v1/attendance-requests", employeeToken, map[string]string{
		"request_type_id": memory.RequestTypeWFHID, "request_date": "2024-03-04", "start_time": "09:00", "end_time": "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "end time must be after start time")

	status, env = call(t, h, http.MethodPost, "/api/v1/attendance-requests", employeeToken, map[string]string{
		"request_type_id": memory.RequestTypeWFHID, "request_date": "2024-03-04", "start_time": "09:00", "end_time": "12:30",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	created := decode[struct {
		ID         string `json:"id"`
		TotalHours string `json:"total_hours"`
	}](t, env.Data)
	assert.Equal(t, "3.50", created.TotalHours)

	status, _ = call(t, h, http.MethodPost, "/api/v1/attendance-requests", employeeToken, map[string]string{
		"request_type_id": memory.RequestTypeLateArrivalID, "request_date": "2024-03-04",
	})
	assert.Equal(t, http.StatusConflict, status)

	// managers hold attendance_request.cancel_any
	status, env = call(t, h, http.MethodDelete, "/api/v1/attendance-requests/"+created.ID, managerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "Attendance request cancelled successfully", env.Message)

	status, env = call(t, h, http.MethodGet, "/api/v1/attendance-requests/types", employeeToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]json.RawMessage](t, env.Data), 3)
}

func TestAttendanceCheckInOut(t *testing.T) {
	h := newTestRouter(t)
	employeeToken := login(t, h, "employee")

	status, env := call(t, h, http.MethodPost, "/api/v1/attendance/check-in", employeeToken, nil)
	require.Equal(t, http.StatusCreated, status, env.Error)
	record := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	status, _ = call(t, h, http.MethodPost, "/api/v1/attendance/check-in", employeeToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env = call(t, h, http.MethodPost, "/api/v1/attendance/check-out", employeeToken, map[string]string{"attendance_id": record.ID})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "Checked out successfully", env.Message)

	status, _ = call(t, h, http.MethodPost, "/api/v1/attendance/check-out", employeeToken, map[string]string{"attendance_id": record.ID})
	assert.Equal(t, http.StatusConflict, status)
}

func TestAttendanceCheckInOnBehalf(t *testing.T) {
	h := newTestRouter(t)
	employeeToken := login(t, h, "employee")
	managerToken := login(t, h, "manager")
	adminToken := login(t, h, "admin")

	employeeIDOf := func(token string) string {
		status, env := call(t, h, http.MethodPost, "/api/v1/leaves", token, map[string]string{
			"leave_type_id": memory.LeaveTypeSickID, "start_date": "2024-05-06", "end_date": "2024-05-06",
		})
		require.Equal(t, http.StatusCreated, status, env.Error)
		return decode[leaveBody](t, env.Data).EmployeeID
	}
	employeeID := employeeIDOf(employeeToken)
	managerID := employeeIDOf(managerToken)
	adminID := employeeIDOf(adminToken)

	type record struct {
		EmployeeID string `json:"employee_id"`
	}

	// Without attendance.manage the body is ignored.
	status, env := call(t, h, http.MethodPost, "/api/v1/attendance/check-in", employeeToken, map[string]string{"employee_id": managerID})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, employeeID, decode[record](t, env.Data).EmployeeID)

	status, env = call(t, h, http.MethodPost, "/api/v1/attendance/check-in", managerToken, map[string]string{"employee_id": adminID})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, adminID, decode[record](t, env.Data).EmployeeID)

	status, _ = call(t, h, http.MethodPost, "/api/v1/attendance/check-in", adminToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}

// The error envelope keeps a plain string in "error".
func TestErrorEnvelopeShape(t *testing.T) {
	rec := httptest.NewRecorder()
	response.NotFound(rec, "Leave not found")

	var raw map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, "Leave not found", raw["error"])
	assert.Equal(t, false, raw["success"])
}
