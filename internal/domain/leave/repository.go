package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

// LeaveRepository - interface for leaves table
type LeaveRepository interface {
	Create(ctx context.Context, leave Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, error)
	Count(ctx context.Context, filter LeaveFilter) (int64, error)
	// Update overwrites type, dates and reason only.
	Update(ctx context.Context, leave Leave) error
	// UpdateStatus writes a decision only while the leave is Pending and returns
	// approval.ErrInvalidOrNotPending when no Pending row matched.
	UpdateStatus(ctx context.Context, id string, status approval.Status, approvedBy string) error
	Delete(ctx context.Context, id string) error
	// HasApprovedOverlap reports an Approved leave of the employee sharing at least
	// one day with [start, end]. excludeID is ignored when empty.
	HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)
	HasApprovedCovering(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
