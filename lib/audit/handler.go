package audithandler

import (
	"convenios-backend/db"
	auditstore "convenios-backend/lib/audit/store"
	"convenios-backend/models"
	auditapimodels "convenios-backend/models/api/audit"
	dbmodels "convenios-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Log запись в журнал, ошибка только логируется
	Log(action models.AuditAction, entityType models.AuditEntity, entityID, actorID string, details dbmodels.AuditDetails)
	// Write запись в журнал с возвратом ошибки
	Write(action models.AuditAction, entityType models.AuditEntity, entityID, actorID string, details dbmodels.AuditDetails) error
	List(filter auditapimodels.Filter) (list []auditapimodels.View, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(auditstore.NewInstance(db.DB))
}

func NewInstance(store auditstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store auditstore.Provider
}

func (i impl) Log(action models.AuditAction, entityType models.AuditEntity, entityID, actorID string, details dbmodels.AuditDetails) {
	err := i.Write(action, entityType, entityID, actorID, details)
	if err != nil {
		log.
			WithError(err).
			WithField("action", action).
			WithField("entity_type", entityType).
			WithField("entity_id", entityID).
			Error("ошибка добавления записи в журнал аудита")
	}
}

func (i impl) Write(action models.AuditAction, entityType models.AuditEntity, entityID, actorID string, details dbmodels.AuditDetails) error {
	if actorID == "" {
		actorID = models.SystemUser
	}
	_, err := i.store.Create(dbmodels.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
	})
	return err
}

func (i impl) List(filter auditapimodels.Filter) (list []auditapimodels.View, rowCount int64, err error) {
	recList, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]auditapimodels.View, 0, len(recList))
	for _, rec := range recList {
		list = append(list, auditapimodels.Convert(rec))
	}
	return list, rowCount, nil
}
