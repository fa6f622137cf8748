package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type LeaveServiceImpl struct {
	tx         database.Transactor
	gate       approval.Gate
	leaves     leave.LeaveRepository
	leaveTypes leave.LeaveTypeRepository
	employees  employee.EmployeeRepository
}

func NewLeaveService(
	tx database.Transactor,
	gate approval.Gate,
	leaves leave.LeaveRepository,
	leaveTypes leave.LeaveTypeRepository,
	employees employee.EmployeeRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:         tx,
		gate:       gate,
		leaves:     leaves,
		leaveTypes: leaveTypes,
		employees:  employees,
	}
}

func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := s.leaveTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		if !t.IsActive {
			continue
		}
		resp = append(resp, leave.LeaveTypeResponse{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			MaxDaysPerYear: t.DayLimit(),
			IsActive:       t.IsActive,
		})
	}
	return resp, nil
}

// Submit creates a Pending leave. Checks run in order: required fields, dates,
// employee, leave type, day limit, overlap with Approved leaves.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	var created leave.Leave
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockEmployee(ctx, req.EmployeeID); err != nil {
			return err
		}

		if err := s.checkLeave(ctx, req.EmployeeID, req.LeaveTypeID, start, end, ""); err != nil {
			return err
		}

		created, err = s.leaves.Create(ctx, leave.Leave{
			EmployeeID:  req.EmployeeID,
			LeaveTypeID: req.LeaveTypeID,
			StartDate:   start,
			EndDate:     end,
			Reason:      req.Reason,
			Status:      approval.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return s.Get(ctx, created.ID)
}

// Update lets the owner rewrite a Pending leave. The day limit and overlap
// checks ignore the leave being edited.
func (s *LeaveServiceImpl) Update(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.leaves.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := s.lockEmployee(ctx, existing.EmployeeID); err != nil {
			return err
		}
		// re-read under the employee lock
		existing, err = s.leaves.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if existing.EmployeeID != req.ActingEmployeeID {
			return approval.ErrForbidden
		}
		if !existing.IsPending() {
			return approval.ErrNotEditable
		}

		start, end, err := parseRange(req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		if err := s.checkLeave(ctx, existing.EmployeeID, req.LeaveTypeID, start, end, existing.ID); err != nil {
			return err
		}

		existing.LeaveTypeID = req.LeaveTypeID
		existing.StartDate = start
		existing.EndDate = end
		existing.Reason = req.Reason
		if err := s.leaves.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update leave: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

// Approve records the decision of the approver linked to req.ApproverUserID.
// Approving re-checks overlap so two Pending leaves sharing a day cannot both be approved.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req approval.DecisionRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	decision, err := approval.ParseDecision(req.Status)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	approverID, err := s.gate.ResolveApprover(ctx, req.ApproverUserID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.leaves.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveNotFound) {
				return approval.ErrInvalidOrNotPending
			}
			return err
		}
		if !l.IsPending() {
			return approval.ErrInvalidOrNotPending
		}

		if _, err := s.employees.LockByID(ctx, l.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		if decision == approval.StatusApproved {
			overlap, err := s.leaves.HasApprovedOverlap(ctx, l.EmployeeID, l.StartDate, l.EndDate, l.ID)
			if err != nil {
				return fmt.Errorf("failed to check overlapping leaves: %w", err)
			}
			if overlap {
				return leave.ErrOverlappingLeave
			}
		}

		return s.leaves.UpdateStatus(ctx, l.ID, decision, approverID)
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

// Cancel deletes a leave. Owners may only cancel their own Pending leaves;
// privileged callers bypass both checks.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, req leave.CancelLeaveRequest) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.leaves.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if !req.Privileged {
			if l.EmployeeID != req.ActingEmployeeID {
				return approval.ErrForbidden
			}
			if !l.IsPending() {
				return approval.ErrNotCancelable
			}
		}

		if err := s.leaves.Delete(ctx, l.ID); err != nil {
			return fmt.Errorf("failed to delete leave: %w", err)
		}
		return nil
	})
}

func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	l, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return toLeaveResponse(l), nil
}

func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	var (
		leaves []leave.Leave
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leaves, err = s.leaves.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.leaves.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leaves: %w", err)
	}

	resp := leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: validator.TotalPages(total, filter.Limit),
		Leaves:     make([]leave.LeaveResponse, 0, len(leaves)),
	}
	for _, l := range leaves {
		resp.Leaves = append(resp.Leaves, toLeaveResponse(l))
	}
	return resp, nil
}

func (s *LeaveServiceImpl) lockEmployee(ctx context.Context, id string) error {
	if _, err := s.employees.LockByID(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrUnknownEmployee
		}
		return fmt.Errorf("failed to lock employee: %w", err)
	}
	return nil
}

// checkLeave validates the leave type, the day limit and Approved overlaps.
func (s *LeaveServiceImpl) checkLeave(ctx context.Context, employeeID, leaveTypeID string, start, end time.Time, excludeID string) error {
	lt, err := s.leaveTypes.GetByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.ErrUnknownLeaveType
		}
		return fmt.Errorf("failed to get leave type: %w", err)
	}
	if !lt.IsActive {
		return leave.ErrUnknownLeaveType
	}

	if days := validator.DaysInclusive(start, end); days > lt.DayLimit() {
		return fmt.Errorf("%w: requested %d days exceeds maximum %d days", leave.ErrQuotaExceeded, days, lt.DayLimit())
	}

	overlap, err := s.leaves.HasApprovedOverlap(ctx, employeeID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	if overlap {
		return leave.ErrOverlappingLeave
	}
	return nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := validator.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := validator.ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must not be before start_date", validator.ErrInvalidRange)
	}
	return start, end, nil
}

func toLeaveResponse(l leave.Leave) leave.LeaveResponse {
	return leave.LeaveResponse{
		ID:            l.ID,
		EmployeeID:    l.EmployeeID,
		EmployeeName:  l.EmployeeName,
		LeaveTypeID:   l.LeaveTypeID,
		LeaveTypeName: l.LeaveTypeName,
		StartDate:     l.StartDate.Format(validator.DateLayout),
		EndDate:       l.EndDate.Format(validator.DateLayout),
		TotalDays:     l.Days(),
		Reason:        l.Reason,
		Status:        string(l.Status),
		ApprovedBy:    l.ApprovedBy,
		ApproverName:  l.ApproverName,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339),
	}
}
