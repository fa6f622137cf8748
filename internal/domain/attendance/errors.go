package attendance

import "errors"

var (
	// Requests
	ErrRequestNotFound            = errors.New("attendance request not found")
	ErrRequestTypeNotFound        = errors.New("attendance request type not found")
	ErrUnknownRequestType         = errors.New("invalid request type")
	ErrHoursExceeded              = errors.New("requested hours exceed the maximum for this request type")
	ErrDuplicatePendingRequest    = errors.New("you already have a pending request for this date")
	ErrConflictsWithApprovedLeave = errors.New("you have approved leave on this date")

	// Check-in / check-out
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("employee already checked in today")
	ErrAlreadyCheckedOut  = errors.New("attendance already checked out")
	ErrNotOwner           = errors.New("you can only check out your own attendance")
)
