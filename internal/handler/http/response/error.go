package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth / identity
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, user.ErrPrincipalMissing):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTooManyRequests):
		TooManyRequests(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions), errors.Is(err, user.ErrNoLinkedEmployee):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Malformed input
	case errors.Is(err, validator.ErrInvalidDate),
		errors.Is(err, validator.ErrInvalidTime),
		errors.Is(err, validator.ErrInvalidRange),
		errors.Is(err, approval.ErrInvalidDecision),
		errors.Is(err, approval.ErrUnknownApprover),
		errors.Is(err, employee.ErrUnknownEmployee),
		errors.Is(err, leave.ErrUnknownLeaveType),
		errors.Is(err, leave.ErrQuotaExceeded),
		errors.Is(err, attendance.ErrUnknownRequestType),
		errors.Is(err, attendance.ErrHoursExceeded):
		BadRequest(w, err.Error(), nil)

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, attendance.ErrRequestNotFound):
		NotFound(w, "Attendance request not found")
	case errors.Is(err, attendance.ErrRequestTypeNotFound):
		NotFound(w, "Attendance request type not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Ownership
	case errors.Is(err, approval.ErrForbidden), errors.Is(err, attendance.ErrNotOwner):
		Forbidden(w, err.Error())

	// State conflicts
	case errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, attendance.ErrDuplicatePendingRequest),
		errors.Is(err, attendance.ErrConflictsWithApprovedLeave),
		errors.Is(err, approval.ErrInvalidOrNotPending),
		errors.Is(err, approval.ErrNotEditable),
		errors.Is(err, approval.ErrNotCancelable),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
