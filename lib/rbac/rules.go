package rbac

import (
	"convenios-backend/models"
)

var (
	AdminRoleSet         = []models.UserRole{models.AdminRole}
	AdminReviewerRoleSet = []models.UserRole{models.AdminRole, models.ReviewerRole}
	HrApproverRoleSet    = []models.UserRole{models.HrApproverRole}
	StaffRoleSet         = []models.UserRole{models.AdminRole, models.ReviewerRole, models.HrApproverRole}
	AllRoles             = []models.UserRole{models.AdminRole, models.ReviewerRole, models.HrApproverRole, models.ViewerRole}
)

// defaultCategoryMatrix HR согласующий работает только с категориями, требующими согласования HR
func defaultCategoryMatrix() map[models.UserRole][]models.RequestCategory {
	hrCategories := []models.RequestCategory{}
	for _, category := range models.AllCategories() {
		if category.RequiresHrApproval() {
			hrCategories = append(hrCategories, category)
		}
	}
	return map[models.UserRole][]models.RequestCategory{
		models.AdminRole:      models.AllCategories(),
		models.ReviewerRole:   models.AllCategories(),
		models.ViewerRole:     models.AllCategories(),
		models.HrApproverRole: hrCategories,
	}
}

func (i *impl) initRules() {
	i.addRequestsRbac()
	i.addCollaboratorsRbac()
	i.addSlaRbac()
	i.addSettlementRbac()
	i.addAuditRbac()
	i.addProfileRbac()
}

func (i *impl) addRequestsRbac() {
	// VIEW
	i.mustRegister(models.RequestsModule, models.ViewPermission, AllRoles, "/api/v1/requests/list [post]")
	i.mustRegister(models.RequestsModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id} [get]")
	i.mustRegister(models.RequestsModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/messages [get]")
	// EDIT
	i.mustRegister(models.RequestsModule, models.EditPermission, AdminReviewerRoleSet, "/api/v1/requests [post]")
	// FLOW
	i.mustRegister(models.RequestsModule, models.FlowPermission, AdminReviewerRoleSet, "/api/v1/requests/{id}/review [put]")
	i.mustRegister(models.RequestsModule, models.FlowPermission, AdminReviewerRoleSet, "/api/v1/requests/{id}/approve [put]")
	i.mustRegister(models.RequestsModule, models.FlowPermission, AdminReviewerRoleSet, "/api/v1/requests/{id}/reject [put]")
	// HR_FLOW
	i.mustRegister(models.RequestsModule, models.HrFlowPermission, HrApproverRoleSet, "/api/v1/requests/{id}/hr_decision [put]")
	// CHAT
	i.mustRegister(models.RequestsModule, models.ChatPermission, StaffRoleSet, "/api/v1/requests/{id}/messages [post]")
	// FILES
	i.mustRegister(models.RequestsModule, models.FilesPermission, AdminReviewerRoleSet, "/api/v1/requests/{id}/attachment [post]")
}

func (i *impl) addCollaboratorsRbac() {
	// VIEW
	i.mustRegister(models.CollaboratorsModule, models.ViewPermission, StaffRoleSet, "/api/v1/collaborators/list [post]")
	i.mustRegister(models.CollaboratorsModule, models.ViewPermission, StaffRoleSet, "/api/v1/collaborators/{id} [get]")
	// EDIT
	i.mustRegister(models.CollaboratorsModule, models.EditPermission, AdminRoleSet, "/api/v1/collaborators/{id} [put]")
	// MANAGE
	i.mustRegister(models.CollaboratorsModule, models.ManagePermission, AdminRoleSet, "/api/v1/collaborators/{id} [delete]")
	i.mustRegister(models.CollaboratorsModule, models.ManagePermission, AdminRoleSet, "/api/v1/collaborators/import [post]")
}

func (i *impl) addSlaRbac() {
	// VIEW
	i.mustRegister(models.SlaModule, models.ViewPermission, AllRoles, "/api/v1/sla/config [get]")
	i.mustRegister(models.SlaModule, models.ViewPermission, AllRoles, "/api/v1/sla/holidays [get]")
	// EDIT
	i.mustRegister(models.SlaModule, models.EditPermission, AdminRoleSet, "/api/v1/sla/config [put]")
	i.mustRegister(models.SlaModule, models.EditPermission, AdminRoleSet, "/api/v1/sla/config/{category} [delete]")
	i.mustRegister(models.SlaModule, models.EditPermission, AdminRoleSet, "/api/v1/sla/holidays [post]")
	i.mustRegister(models.SlaModule, models.EditPermission, AdminRoleSet, "/api/v1/sla/holidays/{id} [delete]")
}

func (i *impl) addSettlementRbac() {
	// VIEW
	i.mustRegister(models.SettlementModule, models.ViewPermission, AdminRoleSet, "/api/v1/settlement/runs [get]")
	i.mustRegister(models.SettlementModule, models.ViewPermission, AdminRoleSet, "/api/v1/settlement/runs/{id} [get]")
	i.mustRegister(models.SettlementModule, models.ViewPermission, AdminRoleSet, "/api/v1/settlement/runs/{id}/xlsx [get]")
	// MANAGE
	i.mustRegister(models.SettlementModule, models.ManagePermission, AdminRoleSet, "/api/v1/settlement/run [post]")
}

func (i *impl) addAuditRbac() {
	// VIEW
	i.mustRegister(models.AuditModule, models.ViewPermission, AdminRoleSet, "/api/v1/audit/list [post]")
}

func (i *impl) addProfileRbac() {
	// VIEW
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/profile/permissions [get]")
}
