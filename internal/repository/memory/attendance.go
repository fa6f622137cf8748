package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
)

// AddRequestType stores t, assigning an id when missing.
func (s *Store) AddRequestType(t attendance.AttendanceRequestType) (attendance.AttendanceRequestType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.AttendanceRequestType{}, err
		}
		t.ID = id
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.requestTypes[t.ID] = t
	return t, nil
}

type requestTypeRepository struct {
	*Store
}

func (s *Store) RequestTypes() attendance.AttendanceRequestTypeRepository {
	return &requestTypeRepository{Store: s}
}

func (r *requestTypeRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRequestType, error) {
	defer r.lock(ctx)()

	t, ok := r.requestTypes[id]
	if !ok {
		return attendance.AttendanceRequestType{}, attendance.ErrRequestTypeNotFound
	}
	return t, nil
}

func (r *requestTypeRepository) ListActive(ctx context.Context) ([]attendance.AttendanceRequestType, error) {
	defer r.lock(ctx)()

	types := []attendance.AttendanceRequestType{}
	for _, t := range r.requestTypes {
		if t.IsActive {
			types = append(types, t)
		}
	}
	sortByName(types, func(t attendance.AttendanceRequestType) string { return t.Name })
	return types, nil
}

type attendanceRequestRepository struct {
	*Store
}

func (s *Store) AttendanceRequests() attendance.AttendanceRequestRepository {
	return &attendanceRequestRepository{Store: s}
}

func (r *attendanceRequestRepository) withJoins(ar attendance.AttendanceRequest) attendance.AttendanceRequest {
	ar.EmployeeName = r.employeeName(ar.EmployeeID)
	if t, ok := r.requestTypes[ar.RequestTypeID]; ok {
		ar.RequestTypeName = t.Name
	}
	ar.ApproverName = r.approverName(ar.ApprovedBy)
	return ar
}

func (r *attendanceRequestRepository) pendingOn(employeeID string, date time.Time, excludeID string) bool {
	for _, ar := range r.requests {
		if ar.EmployeeID == employeeID && ar.IsPending() && ar.RequestDate.Equal(date) && ar.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *attendanceRequestRepository) Create(ctx context.Context, ar attendance.AttendanceRequest) (attendance.AttendanceRequest, error) {
	defer r.lock(ctx)()

	// Mirrors the partial unique index of the relational schema.
	if ar.IsPending() && r.pendingOn(ar.EmployeeID, ar.RequestDate, "") {
		return attendance.AttendanceRequest{}, attendance.ErrDuplicatePendingRequest
	}

	id, err := newID()
	if err != nil {
		return attendance.AttendanceRequest{}, err
	}
	now := time.Now().UTC()
	ar.ID = id
	ar.CreatedAt = now
	ar.UpdatedAt = now
	r.requests[id] = ar
	return r.withJoins(ar), nil
}

func (r *attendanceRequestRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRequest, error) {
	defer r.lock(ctx)()

	ar, ok := r.requests[id]
	if !ok {
		return attendance.AttendanceRequest{}, attendance.ErrRequestNotFound
	}
	return r.withJoins(ar), nil
}

func (r *attendanceRequestRepository) filtered(filter attendance.AttendanceRequestFilter) []attendance.AttendanceRequest {
	out := []attendance.AttendanceRequest{}
	for _, ar := range r.requests {
		if !matches(filter.EmployeeID, ar.EmployeeID) ||
			!matches(filter.RequestTypeID, ar.RequestTypeID) ||
			!matches(filter.Status, string(ar.Status)) ||
			!onOrAfter(filter.StartDate, ar.RequestDate) ||
			!onOrBefore(filter.EndDate, ar.RequestDate) {
			continue
		}
		out = append(out, r.withJoins(ar))
	}
	return out
}

func (r *attendanceRequestRepository) List(ctx context.Context, filter attendance.AttendanceRequestFilter) ([]attendance.AttendanceRequest, error) {
	defer r.lock(ctx)()

	requests := r.filtered(filter)
	newestFirst(requests,
		func(ar attendance.AttendanceRequest) time.Time { return ar.CreatedAt },
		func(ar attendance.AttendanceRequest) string { return ar.ID },
	)
	return paginate(requests, filter.Page, filter.Limit), nil
}

func (r *attendanceRequestRepository) Count(ctx context.Context, filter attendance.AttendanceRequestFilter) (int64, error) {
	defer r.lock(ctx)()

	return int64(len(r.filtered(filter))), nil
}

func (r *attendanceRequestRepository) Update(ctx context.Context, ar attendance.AttendanceRequest) error {
	defer r.lock(ctx)()

	existing, ok := r.requests[ar.ID]
	if !ok {
		return attendance.ErrRequestNotFound
	}
	if existing.IsPending() && r.pendingOn(existing.EmployeeID, ar.RequestDate, ar.ID) {
		return attendance.ErrDuplicatePendingRequest
	}
	existing.RequestTypeID = ar.RequestTypeID
	existing.RequestDate = ar.RequestDate
	existing.StartTime = ar.StartTime
	existing.EndTime = ar.EndTime
	existing.TotalHours = ar.TotalHours
	existing.Reason = ar.Reason
	existing.UpdatedAt = time.Now().UTC()
	r.requests[ar.ID] = existing
	return nil
}

func (r *attendanceRequestRepository) UpdateStatus(ctx context.Context, id string, status approval.Status, approvedBy string) error {
	defer r.lock(ctx)()

	ar, ok := r.requests[id]
	if !ok || !ar.IsPending() {
		return approval.ErrInvalidOrNotPending
	}
	ar.Status = status
	ar.ApprovedBy = &approvedBy
	ar.UpdatedAt = time.Now().UTC()
	r.requests[id] = ar
	return nil
}

func (r *attendanceRequestRepository) Delete(ctx context.Context, id string) error {
	defer r.lock(ctx)()

	if _, ok := r.requests[id]; !ok {
		return attendance.ErrRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *attendanceRequestRepository) HasPendingOnDate(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error) {
	defer r.lock(ctx)()

	return r.pendingOn(employeeID, date, excludeID), nil
}

type attendanceRepository struct {
	*Store
}

func (s *Store) Attendance() attendance.AttendanceRepository {
	return &attendanceRepository{Store: s}
}

func (r *attendanceRepository) withJoins(a attendance.Attendance) attendance.Attendance {
	a.EmployeeName = r.employeeName(a.EmployeeID)
	return a
}

func (r *attendanceRepository) existsFor(employeeID string, date time.Time) bool {
	for _, a := range r.attendance {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return true
		}
	}
	return false
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	defer r.lock(ctx)()

	if r.existsFor(a.EmployeeID, a.Date) {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	id, err := newID()
	if err != nil {
		return attendance.Attendance{}, err
	}
	now := time.Now().UTC()
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	r.attendance[id] = a
	return r.withJoins(a), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	defer r.lock(ctx)()

	a, ok := r.attendance[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withJoins(a), nil
}

func (r *attendanceRepository) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	defer r.lock(ctx)()

	return r.existsFor(employeeID, date), nil
}

func (r *attendanceRepository) filtered(filter attendance.AttendanceFilter) []attendance.Attendance {
	out := []attendance.Attendance{}
	for _, a := range r.attendance {
		if !matches(filter.EmployeeID, a.EmployeeID) ||
			!onOrAfter(filter.StartDate, a.Date) ||
			!onOrBefore(filter.EndDate, a.Date) {
			continue
		}
		out = append(out, r.withJoins(a))
	}
	return out
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	defer r.lock(ctx)()

	records := r.filtered(filter)
	newestFirst(records,
		func(a attendance.Attendance) time.Time { return a.CheckIn },
		func(a attendance.Attendance) string { return a.ID },
	)
	return paginate(records, filter.Page, filter.Limit), nil
}

func (r *attendanceRepository) Count(ctx context.Context, filter attendance.AttendanceFilter) (int64, error) {
	defer r.lock(ctx)()

	return int64(len(r.filtered(filter))), nil
}

func (r *attendanceRepository) CheckOut(ctx context.Context, id string, at time.Time, workMinutes int) error {
	defer r.lock(ctx)()

	a, ok := r.attendance[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if a.IsCheckedOut() {
		return attendance.ErrAlreadyCheckedOut
	}
	a.CheckOut = &at
	a.WorkMinutes = &workMinutes
	a.UpdatedAt = time.Now().UTC()
	r.attendance[id] = a
	return nil
}
