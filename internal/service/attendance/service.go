package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	tx         database.Transactor
	attendance attendance.AttendanceRepository
	employees  employee.EmployeeRepository
	now        func() time.Time
}

func NewAttendanceService(tx database.Transactor, attendanceRepository attendance.AttendanceRepository, employees employee.EmployeeRepository) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:         tx,
		attendance: attendanceRepository,
		employees:  employees,
		now:        time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

// CheckIn opens today's record for the employee. One record per employee per UTC day.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := s.now().UTC()
	today := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)

	var created attendance.Attendance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.employees.LockByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.ErrUnknownEmployee
			}
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		exists, err := s.attendance.ExistsForDate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to check today's attendance: %w", err)
		}
		if exists {
			return attendance.ErrAlreadyCheckedIn
		}

		created, err = s.attendance.Create(ctx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       today,
			CheckIn:    nowUTC,
			Status:     attendance.AttendanceStatusPresent,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.Get(ctx, created.ID)
}

// CheckOut closes an open record and stores the whole minutes worked.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := s.now().UTC()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendance.GetByID(ctx, req.AttendanceID)
		if err != nil {
			return err
		}
		if !req.Privileged && record.EmployeeID != req.ActingEmployeeID {
			return attendance.ErrNotOwner
		}
		if record.IsCheckedOut() {
			return attendance.ErrAlreadyCheckedOut
		}

		workMinutes := int(nowUTC.Sub(record.CheckIn).Minutes())
		if workMinutes < 0 {
			workMinutes = 0
		}
		return s.attendance.CheckOut(ctx, record.ID, nowUTC, workMinutes)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.Get(ctx, req.AttendanceID)
}

func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toAttendanceResponse(record), nil
}

func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	var (
		records []attendance.Attendance
		total   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendance.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.attendance.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  validator.TotalPages(total, filter.Limit),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, a := range records {
		resp.Attendances = append(resp.Attendances, toAttendanceResponse(a))
	}
	return resp, nil
}

func toAttendanceResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Date:         a.Date.Format(validator.DateLayout),
		CheckIn:      a.CheckIn.UTC().Format(time.RFC3339),
		CheckOut:     timePtrToString(a.CheckOut),
		WorkMinutes:  a.WorkMinutes,
		Status:       string(a.Status),
	}
}
