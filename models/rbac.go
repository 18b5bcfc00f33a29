package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	RequestsModule      Module = "REQUESTS"
	CollaboratorsModule Module = "COLLABORATORS"
	SlaModule           Module = "SLA"
	SettlementModule    Module = "SETTLEMENT"
	AuditModule         Module = "AUDIT"
	ProfileModule       Module = "PROFILE"
)

type Permission string

const (
	ViewPermission   Permission = "VIEW"
	EditPermission   Permission = "EDIT"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	HrFlowPermission Permission = "HR_FLOW"
	FilesPermission  Permission = "FILES"
	ChatPermission   Permission = "CHAT"
)
