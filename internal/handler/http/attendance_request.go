package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

type AttendanceRequestHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type AttendanceRequestHandlerImpl struct {
	requestService attendance.AttendanceRequestService
	authz          middleware.Authorizer
}

func NewAttendanceRequestHandler(requestService attendance.AttendanceRequestService, authz middleware.Authorizer) AttendanceRequestHandler {
	return &AttendanceRequestHandlerImpl{requestService: requestService, authz: authz}
}

func (h *AttendanceRequestHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.requestService.ListRequestTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

func (h *AttendanceRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	filter := attendance.AttendanceRequestFilter{
		EmployeeID:    queryString(r, "employee_id"),
		RequestTypeID: queryString(r, "request_type_id"),
		Status:        queryString(r, "status"),
		StartDate:     queryString(r, "start_date"),
		EndDate:       queryString(r, "end_date"),
		Page:          queryInt(r, "page"),
		Limit:         queryInt(r, "limit"),
	}

	if !h.authz.Allowed(principal.Role, user.PermissionAttendanceRequestViewAll) {
		employeeID, ok := ownEmployee(w, principal)
		if !ok {
			return
		}
		filter.EmployeeID = &employeeID
	}

	resp, err := h.requestService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *AttendanceRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	resp, err := h.requestService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if resp.EmployeeID != principal.EmployeeID && !h.authz.Allowed(principal.Role, user.PermissionAttendanceRequestViewAll) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	response.Success(w, resp)
}

func (h *AttendanceRequestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req attendance.SubmitAttendanceRequest
	if !decodeJSON(w, r, "SubmitAttendanceRequest", &req) {
		return
	}

	if req.EmployeeID == "" || !h.authz.Allowed(principal.Role, user.PermissionAttendanceRequestSubmitAny) {
		employeeID, ok := ownEmployee(w, principal)
		if !ok {
			return
		}
		req.EmployeeID = employeeID
	}

	resp, err := h.requestService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("SubmitAttendanceRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance request submitted successfully", resp)
}

func (h *AttendanceRequestHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, "UpdateAttendanceRequest", &req) {
		return
	}
	req.ID = id
	req.ActingEmployeeID = principal.EmployeeID

	resp, err := h.requestService.Update(r.Context(), req)
	if err != nil {
		slog.Error("UpdateAttendanceRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance request updated successfully", resp)
}

func (h *AttendanceRequestHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.requestService.Cancel(r.Context(), attendance.CancelAttendanceRequest{
		ID:               id,
		ActingEmployeeID: principal.EmployeeID,
		Privileged:       h.authz.Allowed(principal.Role, user.PermissionAttendanceRequestCancelAny),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance request cancelled successfully", nil)
}

func (h *AttendanceRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req approval.DecisionRequest
	if !decodeJSON(w, r, "ApproveAttendanceRequest", &req) {
		return
	}
	req.ApproverUserID = principal.UserID

	resp, err := h.requestService.Approve(r.Context(), req)
	if err != nil {
		slog.Error("ApproveAttendanceRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance request "+decisionVerb(resp.Status)+" successfully", resp)
}
