package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	authz        middleware.Authorizer
}

func NewLeaveHandler(leaveService leave.LeaveService, authz middleware.Authorizer) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService, authz: authz}
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := l.leaveService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

// List implements LeaveHandler. Callers without leave.view_all only see their own leaves.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveFilter{
		EmployeeID:  queryString(r, "employee_id"),
		LeaveTypeID: queryString(r, "leave_type_id"),
		Status:      queryString(r, "status"),
		StartDate:   queryString(r, "start_date"),
		EndDate:     queryString(r, "end_date"),
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
	}

	if !l.authz.Allowed(principal.Role, user.PermissionLeaveViewAll) {
		employeeID, ok := ownEmployee(w, principal)
		if !ok {
			return
		}
		filter.EmployeeID = &employeeID
	}

	resp, err := l.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Get implements LeaveHandler.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	resp, err := l.leaveService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if resp.EmployeeID != principal.EmployeeID && !l.authz.Allowed(principal.Role, user.PermissionLeaveViewAll) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	response.Success(w, resp)
}

// Submit implements LeaveHandler. Only leave.submit_any may file for another employee.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	if !decodeJSON(w, r, "SubmitLeave", &req) {
		return
	}

	if req.EmployeeID == "" || !l.authz.Allowed(principal.Role, user.PermissionLeaveSubmitAny) {
		employeeID, ok := ownEmployee(w, principal)
		if !ok {
			return
		}
		req.EmployeeID = employeeID
	}

	resp, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("SubmitLeave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", resp)
}

// Update implements LeaveHandler.
func (l *LeaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req leave.UpdateLeaveRequest
	if !decodeJSON(w, r, "UpdateLeave", &req) {
		return
	}
	req.ID = id
	req.ActingEmployeeID = principal.EmployeeID

	resp, err := l.leaveService.Update(r.Context(), req)
	if err != nil {
		slog.Error("UpdateLeave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", resp)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := l.leaveService.Cancel(r.Context(), leave.CancelLeaveRequest{
		ID:               id,
		ActingEmployeeID: principal.EmployeeID,
		Privileged:       l.authz.Allowed(principal.Role, user.PermissionLeaveCancelAny),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", nil)
}

// Approve implements LeaveHandler.
func (l *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req approval.DecisionRequest
	if !decodeJSON(w, r, "ApproveLeave", &req) {
		return
	}
	req.ApproverUserID = principal.UserID

	resp, err := l.leaveService.Approve(r.Context(), req)
	if err != nil {
		slog.Error("ApproveLeave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+decisionVerb(resp.Status)+" successfully", resp)
}

func decisionVerb(status string) string {
	if status == string(approval.StatusRejected) {
		return "rejected"
	}
	return "approved"
}
