package user

type Permission string

const (
	// Leave
	PermissionLeaveView      Permission = "leave.view"
	PermissionLeaveViewAll   Permission = "leave.view_all"
	PermissionLeaveSubmit    Permission = "leave.submit"
	PermissionLeaveSubmitAny Permission = "leave.submit_any"
	PermissionLeaveUpdate    Permission = "leave.update"
	PermissionLeaveCancel    Permission = "leave.cancel"
	PermissionLeaveCancelAny Permission = "leave.cancel_any"
	PermissionLeaveApprove   Permission = "leave.approve"
	PermissionLeaveTypeView  Permission = "leave_type.view"

	// Attendance requests
	PermissionAttendanceRequestView      Permission = "attendance_request.view"
	PermissionAttendanceRequestViewAll   Permission = "attendance_request.view_all"
	PermissionAttendanceRequestSubmit    Permission = "attendance_request.submit"
	PermissionAttendanceRequestSubmitAny Permission = "attendance_request.submit_any"
	PermissionAttendanceRequestUpdate    Permission = "attendance_request.update"
	PermissionAttendanceRequestCancel    Permission = "attendance_request.cancel"
	PermissionAttendanceRequestCancelAny Permission = "attendance_request.cancel_any"
	PermissionAttendanceRequestApprove   Permission = "attendance_request.approve"

	// Attendance
	PermissionAttendanceView     Permission = "attendance.view"
	PermissionAttendanceViewAll  Permission = "attendance.view_all"
	PermissionAttendanceCheckIn  Permission = "attendance.check_in"
	PermissionAttendanceCheckOut Permission = "attendance.check_out"
	PermissionAttendanceManage   Permission = "attendance.manage"
)

// selfService is granted to every role.
var selfService = []Permission{
	PermissionLeaveView,
	PermissionLeaveSubmit,
	PermissionLeaveUpdate,
	PermissionLeaveCancel,
	PermissionLeaveTypeView,
	PermissionAttendanceRequestView,
	PermissionAttendanceRequestSubmit,
	PermissionAttendanceRequestUpdate,
	PermissionAttendanceRequestCancel,
	PermissionAttendanceView,
	PermissionAttendanceCheckIn,
	PermissionAttendanceCheckOut,
}

var approver = []Permission{
	PermissionLeaveViewAll,
	PermissionLeaveSubmitAny,
	PermissionLeaveApprove,
	PermissionAttendanceRequestViewAll,
	PermissionAttendanceRequestSubmitAny,
	PermissionAttendanceRequestCancelAny,
	PermissionAttendanceRequestApprove,
	PermissionAttendanceViewAll,
	PermissionAttendanceManage,
}

// RolePermissions maps roles to their permissions. Leave cancel_any stays
// admin-only while attendance_request.cancel_any extends to managers.
var RolePermissions = map[Role][]Permission{
	RoleAdmin:    concat(selfService, approver, []Permission{PermissionLeaveCancelAny}),
	RoleManager:  concat(selfService, approver),
	RoleEmployee: selfService,
	RoleUser:     selfService,
}

// HasPermission checks if role has specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

func concat(groups ...[]Permission) []Permission {
	var out []Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
