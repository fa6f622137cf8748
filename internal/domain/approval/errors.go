package approval

import "errors"

var (
	ErrInvalidDecision     = errors.New("status must be either Approved or Rejected")
	ErrUnknownApprover     = errors.New("approver is not linked to an employee")
	ErrInvalidOrNotPending = errors.New("request not found or not in Pending status")
	ErrForbidden           = errors.New("you can only modify your own requests")
	ErrNotEditable         = errors.New("only Pending requests can be updated")
	ErrNotCancelable       = errors.New("only Pending requests can be cancelled")
)
