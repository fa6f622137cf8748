package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// LockByID loads the employee and, inside a transaction, holds a row lock on it
	// until commit. Concurrent writers for the same employee queue behind it.
	LockByID(ctx context.Context, id string) (Employee, error)
}
