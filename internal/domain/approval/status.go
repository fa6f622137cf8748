package approval

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

// Status is the lifecycle state shared by leaves and attendance requests.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseDecision accepts only the terminal states an approver may choose.
func ParseDecision(s string) (Status, error) {
	switch d := Status(strings.TrimSpace(s)); d {
	case StatusApproved, StatusRejected:
		return d, nil
	}
	return "", ErrInvalidDecision
}

// DecisionRequest moves a Pending request to Approved or Rejected.
// ApproverUserID is filled from the authenticated principal, never from the body.
type DecisionRequest struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	ApproverUserID string `json:"-"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("id", r.ID)
	errs.Required("status", r.Status)
	errs.Required("approved_by", r.ApproverUserID)
	return errs.Err()
}

// Gate resolves the acting principal to the employee recorded as approver.
type Gate interface {
	ResolveApprover(ctx context.Context, userID string) (string, error)
}
