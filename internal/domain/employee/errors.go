package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrUnknownEmployee is returned when a request body references a missing employee.
	ErrUnknownEmployee = errors.New("invalid employee")
)
