package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AttendanceRequestServiceImpl struct {
	tx           database.Transactor
	gate         approval.Gate
	requests     attendance.AttendanceRequestRepository
	requestTypes attendance.AttendanceRequestTypeRepository
	leaves       leave.LeaveRepository
	employees    employee.EmployeeRepository
}

func NewAttendanceRequestService(
	tx database.Transactor,
	gate approval.Gate,
	requests attendance.AttendanceRequestRepository,
	requestTypes attendance.AttendanceRequestTypeRepository,
	leaves leave.LeaveRepository,
	employees employee.EmployeeRepository,
) attendance.AttendanceRequestService {
	return &AttendanceRequestServiceImpl{
		tx:           tx,
		gate:         gate,
		requests:     requests,
		requestTypes: requestTypes,
		leaves:       leaves,
		employees:    employees,
	}
}

func (s *AttendanceRequestServiceImpl) ListRequestTypes(ctx context.Context) ([]attendance.AttendanceRequestTypeResponse, error) {
	types, err := s.requestTypes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance request types: %w", err)
	}

	resp := make([]attendance.AttendanceRequestTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, attendance.AttendanceRequestTypeResponse{
			ID:                 t.ID,
			Name:               t.Name,
			Description:        t.Description,
			MaxHoursPerRequest: decimalPtrToString(t.MaxHoursPerRequest),
			RequiresApproval:   t.RequiresApproval,
		})
	}
	return resp, nil
}

// draft is a request whose date, type and time window passed validation.
type draft struct {
	date      time.Time
	typeID    string
	timeRange *validator.TimeRange
}

// prepare runs the checks that need no employee state: date, request type, time window, hour cap.
func (s *AttendanceRequestServiceImpl) prepare(ctx context.Context, requestTypeID, requestDate, startTime, endTime string) (draft, error) {
	date, err := validator.ParseDate(requestDate)
	if err != nil {
		return draft{}, fmt.Errorf("request_date: %w", err)
	}

	rt, err := s.requestTypes.GetByID(ctx, requestTypeID)
	if err != nil {
		if errors.Is(err, attendance.ErrRequestTypeNotFound) {
			return draft{}, attendance.ErrUnknownRequestType
		}
		return draft{}, fmt.Errorf("failed to get attendance request type: %w", err)
	}
	if !rt.IsActive {
		return draft{}, attendance.ErrUnknownRequestType
	}

	tr, err := validator.NormalizeTimeRange(startTime, endTime)
	if err != nil {
		return draft{}, err
	}
	if tr != nil && rt.ExceedsHourCap(tr.Hours) {
		return draft{}, fmt.Errorf("%w: requested %s hours exceeds maximum %s hours",
			attendance.ErrHoursExceeded, tr.Hours.String(), rt.MaxHoursPerRequest.String())
	}

	return draft{date: date, typeID: rt.ID, timeRange: tr}, nil
}

// checkDay rejects a second Pending request on the same day and days covered by Approved leave.
func (s *AttendanceRequestServiceImpl) checkDay(ctx context.Context, employeeID string, date time.Time, excludeID string) error {
	pending, err := s.requests.HasPendingOnDate(ctx, employeeID, date, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return attendance.ErrDuplicatePendingRequest
	}

	onLeave, err := s.leaves.HasApprovedCovering(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to check approved leaves: %w", err)
	}
	if onLeave {
		return attendance.ErrConflictsWithApprovedLeave
	}
	return nil
}

func (d draft) apply(ar *attendance.AttendanceRequest) {
	ar.RequestTypeID = d.typeID
	ar.RequestDate = d.date
	ar.StartTime, ar.EndTime, ar.TotalHours = nil, nil, nil
	if d.timeRange != nil {
		start, end, hours := d.timeRange.Start, d.timeRange.End, d.timeRange.Hours
		ar.StartTime, ar.EndTime, ar.TotalHours = &start, &end, &hours
	}
}

func (s *AttendanceRequestServiceImpl) Submit(ctx context.Context, req attendance.SubmitAttendanceRequest) (attendance.AttendanceRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	var created attendance.AttendanceRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.prepare(ctx, req.RequestTypeID, req.RequestDate, req.StartTime, req.EndTime)
		if err != nil {
			return err
		}

		if _, err := s.employees.LockByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.ErrUnknownEmployee
			}
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		if err := s.checkDay(ctx, req.EmployeeID, d.date, ""); err != nil {
			return err
		}

		ar := attendance.AttendanceRequest{
			EmployeeID: req.EmployeeID,
			Reason:     req.Reason,
			Status:     approval.StatusPending,
		}
		d.apply(&ar)

		created, err = s.requests.Create(ctx, ar)
		if err != nil {
			return fmt.Errorf("failed to create attendance request: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	return s.Get(ctx, created.ID)
}

func (s *AttendanceRequestServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.requests.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if _, err := s.employees.LockByID(ctx, existing.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}
		existing, err = s.requests.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if existing.EmployeeID != req.ActingEmployeeID {
			return approval.ErrForbidden
		}
		if !existing.IsPending() {
			return approval.ErrNotEditable
		}

		d, err := s.prepare(ctx, req.RequestTypeID, req.RequestDate, req.StartTime, req.EndTime)
		if err != nil {
			return err
		}
		if err := s.checkDay(ctx, existing.EmployeeID, d.date, existing.ID); err != nil {
			return err
		}

		d.apply(&existing)
		existing.Reason = req.Reason
		if err := s.requests.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update attendance request: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

func (s *AttendanceRequestServiceImpl) Approve(ctx context.Context, req approval.DecisionRequest) (attendance.AttendanceRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	decision, err := approval.ParseDecision(req.Status)
	if err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	approverID, err := s.gate.ResolveApprover(ctx, req.ApproverUserID)
	if err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	// UpdateStatus only matches Pending rows, so a missing or resolved request fails there.
	if err := s.requests.UpdateStatus(ctx, req.ID, decision, approverID); err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

func (s *AttendanceRequestServiceImpl) Cancel(ctx context.Context, req attendance.CancelAttendanceRequest) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ar, err := s.requests.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if !req.Privileged {
			if ar.EmployeeID != req.ActingEmployeeID {
				return approval.ErrForbidden
			}
			if !ar.IsPending() {
				return approval.ErrNotCancelable
			}
		}

		if err := s.requests.Delete(ctx, ar.ID); err != nil {
			return fmt.Errorf("failed to delete attendance request: %w", err)
		}
		return nil
	})
}

func (s *AttendanceRequestServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceRequestResponse, error) {
	ar, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceRequestResponse{}, err
	}
	return toRequestResponse(ar), nil
}

func (s *AttendanceRequestServiceImpl) List(ctx context.Context, filter attendance.AttendanceRequestFilter) (attendance.ListAttendanceRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceRequestResponse{}, err
	}

	var (
		requests []attendance.AttendanceRequest
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requests, err = s.requests.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.requests.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.ListAttendanceRequestResponse{}, fmt.Errorf("failed to list attendance requests: %w", err)
	}

	resp := attendance.ListAttendanceRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: validator.TotalPages(total, filter.Limit),
		Requests:   make([]attendance.AttendanceRequestResponse, 0, len(requests)),
	}
	for _, ar := range requests {
		resp.Requests = append(resp.Requests, toRequestResponse(ar))
	}
	return resp, nil
}

func decimalPtrToString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func toRequestResponse(ar attendance.AttendanceRequest) attendance.AttendanceRequestResponse {
	return attendance.AttendanceRequestResponse{
		ID:              ar.ID,
		EmployeeID:      ar.EmployeeID,
		EmployeeName:    ar.EmployeeName,
		RequestTypeID:   ar.RequestTypeID,
		RequestTypeName: ar.RequestTypeName,
		RequestDate:     ar.RequestDate.Format(validator.DateLayout),
		StartTime:       ar.StartTime,
		EndTime:         ar.EndTime,
		TotalHours:      decimalPtrToString(ar.TotalHours),
		Reason:          ar.Reason,
		Status:          string(ar.Status),
		ApprovedBy:      ar.ApprovedBy,
		ApproverName:    ar.ApproverName,
		CreatedAt:       ar.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       ar.UpdatedAt.Format(time.RFC3339),
	}
}
