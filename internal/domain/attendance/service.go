package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type AttendanceRequestService interface {
	ListRequestTypes(ctx context.Context) ([]AttendanceRequestTypeResponse, error)
	Submit(ctx context.Context, req SubmitAttendanceRequest) (AttendanceRequestResponse, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceRequestResponse, error)
	Approve(ctx context.Context, req approval.DecisionRequest) (AttendanceRequestResponse, error)
	Cancel(ctx context.Context, req CancelAttendanceRequest) error
	Get(ctx context.Context, id string) (AttendanceRequestResponse, error)
	List(ctx context.Context, filter AttendanceRequestFilter) (ListAttendanceRequestResponse, error)
}

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
	Get(ctx context.Context, id string) (AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
