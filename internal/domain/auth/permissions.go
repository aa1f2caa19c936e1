package auth

import (
	"context"
	"slices"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermAttendanceSelf   = "attendance.self"
	PermAttendanceManage = "attendance.manage"
	PermLeaveSelf        = "leave.self"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermSalarySelf       = "salary.self"
	PermSalaryManage     = "salary.manage"
	PermContractRead     = "contract.read"
	PermContractWrite    = "contract.write"
	PermReportsRead      = "reports.read"
	PermAuditRead        = "audit.read"
	PermJobsRun          = "jobs.run"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermAttendanceSelf,
		PermLeaveSelf,
		PermSalarySelf,
	},
	RoleManager: {
		PermAttendanceSelf,
		PermLeaveSelf,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermSalarySelf,
		PermContractRead,
		PermReportsRead,
	},
	RoleAdmin: {
		PermAttendanceSelf,
		PermAttendanceManage,
		PermLeaveSelf,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermSalarySelf,
		PermSalaryManage,
		PermContractRead,
		PermContractWrite,
		PermReportsRead,
		PermAuditRead,
		PermJobsRun,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return slices.Contains(RolePermissions[role], permission), nil
}
