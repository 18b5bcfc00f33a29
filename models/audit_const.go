package models

type AuditAction string

const (
	AuditRequestApproved       AuditAction = "request_approved"
	AuditRequestRejected       AuditAction = "request_rejected"
	AuditHrDecision            AuditAction = "hr_decision"
	AuditCreditLimitChanged    AuditAction = "credit_limit_changed"
	AuditCollaboratorDeleted   AuditAction = "collaborator_deleted"
	AuditCollaboratorsImported AuditAction = "collaborators_imported"
	AuditInstallmentsProcessed AuditAction = "installments_processed"
	AuditSlaConfigChanged      AuditAction = "sla_config_changed"
)

type AuditEntity string

const (
	AuditEntityRequest      AuditEntity = "benefit_request"
	AuditEntityCollaborator AuditEntity = "collaborator"
	AuditEntitySettlement   AuditEntity = "settlement"
	AuditEntitySlaConfig    AuditEntity = "sla_config"
)
