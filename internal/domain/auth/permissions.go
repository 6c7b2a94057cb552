package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
)

const (
	PermDirectoryRead    = "directory.read"
	PermDirectoryWrite   = "directory.write"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermAttendanceRead   = "attendance.read"
	PermAttendanceWrite  = "attendance.write"
	PermFeedbackRead     = "feedback.read"
	PermFeedbackWrite    = "feedback.write"
	PermFeedbackAdmin    = "feedback.admin"
	PermNotificationRead = "notifications.read"
	PermReportsRead      = "reports.read"
)

var DefaultPermissions = []string{
	PermDirectoryRead,
	PermDirectoryWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermFeedbackRead,
	PermFeedbackWrite,
	PermFeedbackAdmin,
	PermNotificationRead,
	PermReportsRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermDirectoryRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermNotificationRead,
	},
	RoleManager: {
		PermDirectoryRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermNotificationRead,
		PermReportsRead,
	},
	RoleHR: {
		PermDirectoryRead,
		PermDirectoryWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermFeedbackRead,
		PermFeedbackWrite,
		PermFeedbackAdmin,
		PermNotificationRead,
		PermReportsRead,
	},
}
