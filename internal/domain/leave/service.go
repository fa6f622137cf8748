package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type LeaveService interface {
	// Type
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	// Request
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, req approval.DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, req CancelLeaveRequest) error
	Get(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
}
