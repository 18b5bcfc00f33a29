package auditapimodels

import (
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	dbmodels "convenios-backend/models/db"
	"time"
)

type Filter struct {
	apimodels.Pagination
	Action     *models.AuditAction `json:"action"`
	EntityType *models.AuditEntity `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
}

type View struct {
	ID         string                `json:"id"`
	Action     models.AuditAction    `json:"action"`
	EntityType models.AuditEntity    `json:"entity_type"`
	EntityID   string                `json:"entity_id"`
	ActorID    string                `json:"actor_id"`
	Details    dbmodels.AuditDetails `json:"details"`
	CreatedAt  time.Time             `json:"created_at"`
}

func Convert(rec dbmodels.AuditLog) View {
	return View{
		ID:         rec.ID,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		ActorID:    rec.ActorID,
		Details:    rec.Details,
		CreatedAt:  rec.CreatedAt,
	}
}
