package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// AttendanceRequestType is reference data: Work From Home, Late Arrival, Early Departure...
type AttendanceRequestType struct {
	ID                 string
	Name               string
	Description        *string
	MaxHoursPerRequest *decimal.Decimal
	RequiresApproval   bool
	IsActive           bool
	CreatedAt          time.Time
}

// ExceedsHourCap reports whether hours is above the type's cap. Types without a cap accept any value.
func (t AttendanceRequestType) ExceedsHourCap(hours decimal.Decimal) bool {
	if t.MaxHoursPerRequest == nil || t.MaxHoursPerRequest.IsZero() {
		return false
	}
	return hours.GreaterThan(*t.MaxHoursPerRequest)
}

// AttendanceRequest is a single-day request with an optional HH:MM time window.
type AttendanceRequest struct {
	ID            string
	EmployeeID    string
	RequestTypeID string
	RequestDate   time.Time
	StartTime     *string
	EndTime       *string
	TotalHours    *decimal.Decimal
	Reason        string
	Status        approval.Status
	ApprovedBy    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	EmployeeName    string
	RequestTypeName string
	ApproverName    *string
}

func (r AttendanceRequest) IsPending() bool {
	return r.Status == approval.StatusPending
}

type AttendanceStatus string

const AttendanceStatusPresent AttendanceStatus = "Present"

// Attendance is one check-in/check-out record per employee per day.
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	CheckIn     time.Time
	CheckOut    *time.Time
	WorkMinutes *int
	Status      AttendanceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	EmployeeName string
}

func (a Attendance) IsCheckedOut() bool {
	return a.CheckOut != nil
}
