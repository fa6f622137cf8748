package leave

import "errors"

var (
	ErrLeaveNotFound     = errors.New("leave not found")
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrUnknownLeaveType  = errors.New("invalid leave type")
	ErrQuotaExceeded     = errors.New("requested days exceed the maximum for this leave type")
	ErrOverlappingLeave  = errors.New("overlapping leave request exists")
)
