package attendance

import (
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type SubmitAttendanceRequest struct {
	EmployeeID    string `json:"employee_id"`
	RequestTypeID string `json:"request_type_id"`
	RequestDate   string `json:"request_date"`
	StartTime     string `json:"start_time,omitempty"` // HH:MM
	EndTime       string `json:"end_time,omitempty"`   // HH:MM
	Reason        string `json:"reason"`
}

func (r *SubmitAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("employee_id", r.EmployeeID)
	errs.Required("request_type_id", r.RequestTypeID)
	errs.Required("request_date", r.RequestDate)
	return errs.Err()
}

type UpdateAttendanceRequest struct {
	ID               string `json:"-"`
	ActingEmployeeID string `json:"-"`
	RequestTypeID    string `json:"request_type_id"`
	RequestDate      string `json:"request_date"`
	StartTime        string `json:"start_time,omitempty"`
	EndTime          string `json:"end_time,omitempty"`
	Reason           string `json:"reason"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("id", r.ID)
	errs.Required("request_type_id", r.RequestTypeID)
	errs.Required("request_date", r.RequestDate)
	return errs.Err()
}

type CancelAttendanceRequest struct {
	ID               string
	ActingEmployeeID string
	// Privileged callers may cancel any request in any status.
	Privileged bool
}

type AttendanceRequestFilter struct {
	EmployeeID    *string `json:"employee_id,omitempty"`
	RequestTypeID *string `json:"request_type_id,omitempty"`
	Status        *string `json:"status,omitempty"`
	StartDate     *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceRequestFilter) Validate() error {
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

type AttendanceRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	RequestTypeID   string  `json:"request_type_id"`
	RequestTypeName string  `json:"request_type_name"`
	RequestDate     string  `json:"request_date"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	TotalHours      *string `json:"total_hours,omitempty"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApproverName    *string `json:"approver_name,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ListAttendanceRequestResponse struct {
	TotalCount int64                       `json:"total_count"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
	TotalPages int                         `json:"total_pages"`
	Requests   []AttendanceRequestResponse `json:"requests"`
}

type AttendanceRequestTypeResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	MaxHoursPerRequest *string `json:"max_hours_per_request,omitempty"`
	RequiresApproval   bool    `json:"requires_approval"`
}

// Check-in / check-out

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("employee_id", r.EmployeeID)
	return errs.Err()
}

type CheckOutRequest struct {
	AttendanceID     string `json:"attendance_id"`
	ActingEmployeeID string `json:"-"`
	// Privileged callers may close any record.
	Privileged bool `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("attendance_id", r.AttendanceID)
	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	errs.Pagination(&f.Page, &f.Limit)
	errs.OptionalDate("start_date", f.StartDate)
	errs.OptionalDate("end_date", f.EndDate)
	return errs.Err()
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"check_in"`
	CheckOut     *string `json:"check_out,omitempty"`
	WorkMinutes  *int    `json:"work_minutes,omitempty"`
	Status       string  `json:"status"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
