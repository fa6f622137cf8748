package user

import (
	"context"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// GetLinkedEmployeeID follows the user to employee relation. Returns
	// ErrUserNotFound when the user does not exist or has no linked employee.
	GetLinkedEmployeeID(ctx context.Context, userID string) (string, error)
}
