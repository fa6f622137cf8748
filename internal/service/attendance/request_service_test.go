package attendance

import (
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	approvalsvc "github.com/cmlabs-hris/hris-workflow-go/internal/service/approval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestFixture struct {
	store        *memory.Store
	service      attendance.AttendanceRequestService
	employeeID   string
	otherID      string
	approverUser string
	orphanUser   string
}

func setupRequests(t *testing.T) requestFixture {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.SeedReferenceData())

	emp, err := store.AddEmployee(employee.Employee{FirstName: "Eko", LastName: "Prasetyo"})
	require.NoError(t, err)
	other, err := store.AddEmployee(employee.Employee{FirstName: "Oki", LastName: "Wijaya"})
	require.NoError(t, err)
	mgr, err := store.AddEmployee(employee.Employee{FirstName: "Mia", LastName: "Manager"})
	require.NoError(t, err)
	approver, err := store.AddUser(user.User{Username: "mia", Role: user.RoleManager, EmployeeID: &mgr.ID})
	require.NoError(t, err)
	orphan, err := store.AddUser(user.User{Username: "ops", Role: user.RoleAdmin})
	require.NoError(t, err)

	svc := NewAttendanceRequestService(store, approvalsvc.NewGate(store.Users()),
		store.AttendanceRequests(), store.RequestTypes(), store.Leaves(), store.Employees())

	return requestFixture{
		store:        store,
		service:      svc,
		employeeID:   emp.ID,
		otherID:      other.ID,
		approverUser: approver.ID,
		orphanUser:   orphan.ID,
	}
}

func (f requestFixture) submit(t *testing.T, date, start, end string) attendance.AttendanceRequestResponse {
	t.Helper()
	resp, err := f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{
		EmployeeID:    f.employeeID,
		RequestTypeID: memory.RequestTypeWFHID,
		RequestDate:   date,
		StartTime:     start,
		EndTime:       end,
		Reason:        "plumber visit",
	})
	require.NoError(t, err)
	return resp
}

func TestRequestSubmit(t *testing.T) {
	f := setupRequests(t)

	resp := f.submit(t, "2024-03-04", "09:00", "10:30")
	assert.Equal(t, string(approval.StatusPending), resp.Status)
	assert.Equal(t, "2024-03-04", resp.RequestDate)
	require.NotNil(t, resp.TotalHours)
	assert.Equal(t, "1.50", *resp.TotalHours)
	assert.Equal(t, "Work From Home", resp.RequestTypeName)

	// no time window
	resp = f.submit(t, "2024-03-05", "", "")
	assert.Nil(t, resp.StartTime)
	assert.Nil(t, resp.TotalHours)
}

func TestRequestSubmit_Failures(t *testing.T) {
	f := setupRequests(t)

	base := attendance.SubmitAttendanceRequest{
		EmployeeID:    f.employeeID,
		RequestTypeID: memory.RequestTypeWFHID,
		RequestDate:   "2024-03-04",
	}

	tests := []struct {
		name    string
		modify  func(r *attendance.SubmitAttendanceRequest)
		wantErr error
	}{
		{"equal times", func(r *attendance.SubmitAttendanceRequest) { r.StartTime, r.EndTime = "09:00", "09:00" }, validator.ErrInvalidRange},
		{"end before start", func(r *attendance.SubmitAttendanceRequest) { r.StartTime, r.EndTime = "17:00", "09:00" }, validator.ErrInvalidRange},
		{"only start", func(r *attendance.SubmitAttendanceRequest) { r.StartTime = "09:00" }, validator.ErrInvalidTime},
		{"malformed time", func(r *attendance.SubmitAttendanceRequest) { r.StartTime, r.EndTime = "9am", "17:00" }, validator.ErrInvalidTime},
		{"bad date", func(r *attendance.SubmitAttendanceRequest) { r.RequestDate = "04/03/2024x" }, validator.ErrInvalidDate},
		{"over the cap", func(r *attendance.SubmitAttendanceRequest) { r.StartTime, r.EndTime = "08:00", "17:00" }, attendance.ErrHoursExceeded},
		{"unknown type", func(r *attendance.SubmitAttendanceRequest) { r.RequestTypeID = "0190a000-0000-7000-8000-000000000999" }, attendance.ErrUnknownRequestType},
		{"unknown employee", func(r *attendance.SubmitAttendanceRequest) { r.EmployeeID = "0190a000-0000-7000-8000-000000000999" }, employee.ErrUnknownEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.modify(&req)
			_, err := f.service.Submit(t.Context(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("exactly at the cap", func(t *testing.T) {
		req := base
		req.StartTime, req.EndTime = "09:00", "17:00"
		_, err := f.service.Submit(t.Context(), req)
		assert.NoError(t, err)
	})
}

func TestRequestSubmit_DuplicatePending(t *testing.T) {
	f := setupRequests(t)

	first := f.submit(t, "2024-03-06", "", "")

	_, err := f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{
		EmployeeID: f.employeeID, RequestTypeID: memory.RequestTypeLateArrivalID, RequestDate: "2024-03-06",
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicatePendingRequest)

	// Once the first is resolved the day is free again.
	_, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: first.ID, Status: "Rejected", ApproverUserID: f.approverUser})
	require.NoError(t, err)

	_, err = f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{
		EmployeeID: f.employeeID, RequestTypeID: memory.RequestTypeLateArrivalID, RequestDate: "2024-03-06",
	})
	assert.NoError(t, err)
}

func TestRequestSubmit_ConcurrentSameDay(t *testing.T) {
	f := setupRequests(t)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{
				EmployeeID:    f.employeeID,
				RequestTypeID: memory.RequestTypeWFHID,
				RequestDate:   "2024-03-11",
				StartTime:     "09:00",
				EndTime:       "12:00",
			})
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrDuplicatePendingRequest)
	}
	assert.Equal(t, 1, ok)

	got, err := f.service.List(t.Context(), attendance.AttendanceRequestFilter{EmployeeID: &f.employeeID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalCount)
}

func TestRequestSubmit_ApprovedLeaveConflict(t *testing.T) {
	f := setupRequests(t)

	_, err := f.store.Leaves().Create(t.Context(), leave.Leave{
		EmployeeID:  f.employeeID,
		LeaveTypeID: memory.LeaveTypeAnnualID,
		StartDate:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		Status:      approval.StatusApproved,
	})
	require.NoError(t, err)

	_, err = f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{
		EmployeeID: f.employeeID, RequestTypeID: memory.RequestTypeWFHID, RequestDate: "2024-03-13",
	})
	assert.ErrorIs(t, err, attendance.ErrConflictsWithApprovedLeave)

	_, err = f.service.Submit(t.Context(), attendance.SubmitAttendanceRequest{
		EmployeeID: f.employeeID, RequestTypeID: memory.RequestTypeWFHID, RequestDate: "2024-03-14",
	})
	assert.NoError(t, err)
}

func TestRequestApprove(t *testing.T) {
	f := setupRequests(t)
	ar := f.submit(t, "2024-03-07", "", "")

	_, err := f.service.Approve(t.Context(), approval.DecisionRequest{ID: ar.ID, Status: "Maybe", ApproverUserID: f.approverUser})
	assert.ErrorIs(t, err, approval.ErrInvalidDecision)

	_, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: ar.ID, Status: "Approved", ApproverUserID: f.orphanUser})
	assert.ErrorIs(t, err, approval.ErrUnknownApprover)

	got, err := f.service.Get(t.Context(), ar.ID)
	require.NoError(t, err)
	assert.Equal(t, string(approval.StatusPending), got.Status)

	got, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: ar.ID, Status: "Approved", ApproverUserID: f.approverUser})
	require.NoError(t, err)
	assert.Equal(t, string(approval.StatusApproved), got.Status)
	require.NotNil(t, got.ApproverName)
	assert.Equal(t, "Mia Manager", *got.ApproverName)

	_, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: ar.ID, Status: "Rejected", ApproverUserID: f.approverUser})
	assert.ErrorIs(t, err, approval.ErrInvalidOrNotPending)

	_, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: "0190a000-0000-7000-8000-000000000999", Status: "Approved", ApproverUserID: f.approverUser})
	assert.ErrorIs(t, err, approval.ErrInvalidOrNotPending)
}

func TestRequestUpdate(t *testing.T) {
	f := setupRequests(t)
	ar := f.submit(t, "2024-03-08", "09:00", "10:00")

	update := attendance.UpdateAttendanceRequest{
		ID:               ar.ID,
		ActingEmployeeID: f.employeeID,
		RequestTypeID:    memory.RequestTypeLateArrivalID,
		RequestDate:      "2024-03-08",
		StartTime:        "08:00",
		EndTime:          "10:00",
		Reason:           "train delay",
	}

	req := update
	req.ActingEmployeeID = f.otherID
	_, err := f.service.Update(t.Context(), req)
	assert.ErrorIs(t, err, approval.ErrForbidden)

	// Same date as itself does not count as a duplicate.
	got, err := f.service.Update(t.Context(), update)
	require.NoError(t, err)
	assert.Equal(t, "Late Arrival", got.RequestTypeName)
	require.NotNil(t, got.TotalHours)
	assert.Equal(t, "2.00", *got.TotalHours)

	// Clearing the window clears the hours.
	req = update
	req.StartTime, req.EndTime = "", ""
	got, err = f.service.Update(t.Context(), req)
	require.NoError(t, err)
	assert.Nil(t, got.TotalHours)

	_, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: ar.ID, Status: "Approved", ApproverUserID: f.approverUser})
	require.NoError(t, err)
	_, err = f.service.Update(t.Context(), update)
	assert.ErrorIs(t, err, approval.ErrNotEditable)
}

func TestRequestCancel(t *testing.T) {
	f := setupRequests(t)

	ar := f.submit(t, "2024-03-09", "", "")
	err := f.service.Cancel(t.Context(), attendance.CancelAttendanceRequest{ID: ar.ID, ActingEmployeeID: f.otherID})
	assert.ErrorIs(t, err, approval.ErrForbidden)

	_, err = f.service.Approve(t.Context(), approval.DecisionRequest{ID: ar.ID, Status: "Approved", ApproverUserID: f.approverUser})
	require.NoError(t, err)

	err = f.service.Cancel(t.Context(), attendance.CancelAttendanceRequest{ID: ar.ID, ActingEmployeeID: f.employeeID})
	assert.ErrorIs(t, err, approval.ErrNotCancelable)

	require.NoError(t, f.service.Cancel(t.Context(), attendance.CancelAttendanceRequest{ID: ar.ID, Privileged: true}))
	_, err = f.service.Get(t.Context(), ar.ID)
	assert.ErrorIs(t, err, attendance.ErrRequestNotFound)
}

func TestRequestListAndTypes(t *testing.T) {
	f := setupRequests(t)
	f.submit(t, "2024-03-11", "", "")
	f.submit(t, "2024-03-12", "", "")

	list, err := f.service.List(t.Context(), attendance.AttendanceRequestFilter{EmployeeID: &f.employeeID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Equal(t, 1, list.TotalPages)
	require.Len(t, list.Requests, 2)
	assert.Equal(t, "2024-03-12", list.Requests[0].RequestDate)

	types, err := f.service.ListRequestTypes(t.Context())
	require.NoError(t, err)
	assert.Len(t, types, 3)
}
