package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type AttendanceRequestTypeRepository interface {
	GetByID(ctx context.Context, id string) (AttendanceRequestType, error)
	ListActive(ctx context.Context) ([]AttendanceRequestType, error)
}

type AttendanceRequestRepository interface {
	Create(ctx context.Context, req AttendanceRequest) (AttendanceRequest, error)
	GetByID(ctx context.Context, id string) (AttendanceRequest, error)
	List(ctx context.Context, filter AttendanceRequestFilter) ([]AttendanceRequest, error)
	Count(ctx context.Context, filter AttendanceRequestFilter) (int64, error)
	// Update overwrites type, date, time window, hours and reason.
	Update(ctx context.Context, req AttendanceRequest) error
	// UpdateStatus writes a decision only while the request is Pending and returns
	// approval.ErrInvalidOrNotPending when no Pending row matched.
	UpdateStatus(ctx context.Context, id string, status approval.Status, approvedBy string) error
	Delete(ctx context.Context, id string) error
	// HasPendingOnDate ignores excludeID when empty.
	HasPendingOnDate(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	Count(ctx context.Context, filter AttendanceFilter) (int64, error)
	// CheckOut closes an open record and returns ErrAlreadyCheckedOut when it was already closed.
	CheckOut(ctx context.Context, id string, at time.Time, workMinutes int) error
}
