package leave

import (
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("employee_id", r.EmployeeID)
	errs.Required("leave_type_id", r.LeaveTypeID)
	errs.Required("start_date", r.StartDate)
	errs.Required("end_date", r.EndDate)
	return errs.Err()
}

// UpdateLeaveRequest overwrites type, dates and reason of a Pending leave.
// ActingEmployeeID is taken from the principal.
type UpdateLeaveRequest struct {
	ID               string `json:"-"`
	ActingEmployeeID string `json:"-"`
	LeaveTypeID      string `json:"leave_type_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Reason           string `json:"reason"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("id", r.ID)
	errs.Required("leave_type_id", r.LeaveTypeID)
	errs.Required("start_date", r.StartDate)
	errs.Required("end_date", r.EndDate)
	return errs.Err()
}

type CancelLeaveRequest struct {
	ID               string
	ActingEmployeeID string
	// Privileged callers may cancel any leave in any status.
	Privileged bool
}

type LeaveFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	LeaveTypeID *string `json:"leave_type_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	errs.Pagination(&f.Page, &f.Limit)

	if f.Status != nil && *f.Status != "" && !approval.Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: Pending, Approved, Rejected",
		})
	}

	errs.OptionalDate("start_date", f.StartDate)
	errs.OptionalDate("end_date", f.EndDate)

	return errs.Err()
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     int     `json:"total_days"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
	ApproverName  *string `json:"approver_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Leaves     []LeaveResponse `json:"leaves"`
}

type LeaveTypeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	MaxDaysPerYear int     `json:"max_days_per_year"`
	IsActive       bool    `json:"is_active"`
}
