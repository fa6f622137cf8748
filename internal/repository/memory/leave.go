package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

// AddLeaveType stores t, assigning an id when missing.
func (s *Store) AddLeaveType(t leave.LeaveType) (leave.LeaveType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.LeaveType{}, err
		}
		t.ID = id
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.leaveTypes[t.ID] = t
	return t, nil
}

type leaveTypeRepository struct {
	*Store
}

func (s *Store) LeaveTypes() leave.LeaveTypeRepository {
	return &leaveTypeRepository{Store: s}
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	defer r.lock(ctx)()

	t, ok := r.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r *leaveTypeRepository) List(ctx context.Context) ([]leave.LeaveType, error) {
	defer r.lock(ctx)()

	types := make([]leave.LeaveType, 0, len(r.leaveTypes))
	for _, t := range r.leaveTypes {
		types = append(types, t)
	}
	sortByName(types, func(t leave.LeaveType) string { return t.Name })
	return types, nil
}

type leaveRepository struct {
	*Store
}

func (s *Store) Leaves() leave.LeaveRepository {
	return &leaveRepository{Store: s}
}

func (r *leaveRepository) withJoins(l leave.Leave) leave.Leave {
	l.EmployeeName = r.employeeName(l.EmployeeID)
	if t, ok := r.leaveTypes[l.LeaveTypeID]; ok {
		l.LeaveTypeName = t.Name
	}
	l.ApproverName = r.approverName(l.ApprovedBy)
	return l
}

func (r *leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	defer r.lock(ctx)()

	id, err := newID()
	if err != nil {
		return leave.Leave{}, err
	}
	now := time.Now().UTC()
	l.ID = id
	l.CreatedAt = now
	l.UpdatedAt = now
	r.leaves[id] = l
	return r.withJoins(l), nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	defer r.lock(ctx)()

	l, ok := r.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return r.withJoins(l), nil
}

func (r *leaveRepository) filtered(filter leave.LeaveFilter) []leave.Leave {
	out := []leave.Leave{}
	for _, l := range r.leaves {
		if !matches(filter.EmployeeID, l.EmployeeID) ||
			!matches(filter.LeaveTypeID, l.LeaveTypeID) ||
			!matches(filter.Status, string(l.Status)) ||
			!onOrAfter(filter.StartDate, l.StartDate) ||
			!onOrBefore(filter.EndDate, l.EndDate) {
			continue
		}
		out = append(out, r.withJoins(l))
	}
	return out
}

func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error) {
	defer r.lock(ctx)()

	leaves := r.filtered(filter)
	newestFirst(leaves,
		func(l leave.Leave) time.Time { return l.CreatedAt },
		func(l leave.Leave) string { return l.ID },
	)
	return paginate(leaves, filter.Page, filter.Limit), nil
}

func (r *leaveRepository) Count(ctx context.Context, filter leave.LeaveFilter) (int64, error) {
	defer r.lock(ctx)()

	return int64(len(r.filtered(filter))), nil
}

func (r *leaveRepository) Update(ctx context.Context, l leave.Leave) error {
	defer r.lock(ctx)()

	existing, ok := r.leaves[l.ID]
	if !ok {
		return leave.ErrLeaveNotFound
	}
	existing.LeaveTypeID = l.LeaveTypeID
	existing.StartDate = l.StartDate
	existing.EndDate = l.EndDate
	existing.Reason = l.Reason
	existing.UpdatedAt = time.Now().UTC()
	r.leaves[l.ID] = existing
	return nil
}

func (r *leaveRepository) UpdateStatus(ctx context.Context, id string, status approval.Status, approvedBy string) error {
	defer r.lock(ctx)()

	l, ok := r.leaves[id]
	if !ok || !l.IsPending() {
		return approval.ErrInvalidOrNotPending
	}
	// Mirrors the exclusion constraint of the relational schema.
	if status == approval.StatusApproved && r.approvedOverlap(l.EmployeeID, l.StartDate, l.EndDate, l.ID) {
		return leave.ErrOverlappingLeave
	}
	l.Status = status
	l.ApprovedBy = &approvedBy
	l.UpdatedAt = time.Now().UTC()
	r.leaves[id] = l
	return nil
}

func (r *leaveRepository) Delete(ctx context.Context, id string) error {
	defer r.lock(ctx)()

	if _, ok := r.leaves[id]; !ok {
		return leave.ErrLeaveNotFound
	}
	delete(r.leaves, id)
	return nil
}

func (r *leaveRepository) approvedOverlap(employeeID string, start, end time.Time, excludeID string) bool {
	for _, l := range r.leaves {
		if l.EmployeeID != employeeID || l.Status != approval.StatusApproved || (excludeID != "" && l.ID == excludeID) {
			continue
		}
		if validator.RangesOverlap(l.StartDate, l.EndDate, start, end) {
			return true
		}
	}
	return false
}

func (r *leaveRepository) HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	defer r.lock(ctx)()

	return r.approvedOverlap(employeeID, start, end, excludeID), nil
}

func (r *leaveRepository) HasApprovedCovering(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	defer r.lock(ctx)()

	return r.approvedOverlap(employeeID, date, date, ""), nil
}
