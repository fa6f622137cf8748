package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

// DefaultMaxDaysPerYear applies to leave types without an explicit cap.
const DefaultMaxDaysPerYear = 30

// LeaveType entity
type LeaveType struct {
	ID             string
	Name           string
	Description    *string
	MaxDaysPerYear *int
	IsActive       bool
	CreatedAt      time.Time
}

// DayLimit is the maximum number of days a single request of this type may span.
func (t LeaveType) DayLimit() int {
	if t.MaxDaysPerYear == nil || *t.MaxDaysPerYear <= 0 {
		return DefaultMaxDaysPerYear
	}
	return *t.MaxDaysPerYear
}

// Leave entity. StartDate and EndDate are inclusive calendar days at UTC midnight.
type Leave struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
	Status      approval.Status
	ApprovedBy  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	EmployeeName  string
	LeaveTypeName string
	ApproverName  *string
}

func (l Leave) Days() int {
	return validator.DaysInclusive(l.StartDate, l.EndDate)
}

func (l Leave) IsPending() bool {
	return l.Status == approval.StatusPending
}
