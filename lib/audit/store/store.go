package auditstore

import (
	auditapimodels "convenios-backend/models/api/audit"
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.AuditLog) (id string, err error)
	List(filter auditapimodels.Filter) (list []dbmodels.AuditLog, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AuditLog) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка записи в журнал аудита")
	}
	return rec.ID, nil
}

func (i impl) List(filter auditapimodels.Filter) (list []dbmodels.AuditLog, rowCount int64, err error) {
	list = []dbmodels.AuditLog{}
	tx := i.db.Model(dbmodels.AuditLog{})
	if filter.Action != nil {
		tx.Where("action = ?", *filter.Action)
	}
	if filter.EntityType != nil {
		tx.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != "" {
		tx.Where("entity_id = ?", filter.EntityID)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка подсчета записей журнала аудита")
	}
	offset, limit := filter.GetOffset()
	err = tx.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения журнала аудита")
	}
	return list, rowCount, nil
}
