package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

// Gate maps the authenticated approver account to the employee recorded on decisions.
type Gate struct {
	users user.UserRepository
}

func NewGate(users user.UserRepository) *Gate {
	return &Gate{users: users}
}

func (g *Gate) ResolveApprover(ctx context.Context, userID string) (string, error) {
	if validator.IsEmpty(userID) {
		return "", approval.ErrUnknownApprover
	}

	employeeID, err := g.users.GetLinkedEmployeeID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", approval.ErrUnknownApprover
		}
		return "", fmt.Errorf("resolve approver: %w", err)
	}
	return employeeID, nil
}
