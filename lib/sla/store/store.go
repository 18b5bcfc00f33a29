package slastore

import (
	"convenios-backend/models"
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Upsert(rec dbmodels.SlaConfig) (id string, err error)
	GetByCategory(category models.RequestCategory) (*dbmodels.SlaConfig, error)
	Delete(category models.RequestCategory) error
	List() ([]dbmodels.SlaConfig, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Upsert(rec dbmodels.SlaConfig) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"green_hours", "yellow_hours", "unit", "updated_at"}),
		}).
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения настройки SLA")
	}
	return rec.ID, nil
}

func (i impl) GetByCategory(category models.RequestCategory) (*dbmodels.SlaConfig, error) {
	rec := dbmodels.SlaConfig{}
	err := i.db.
		Where("category = ?", category).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Delete(category models.RequestCategory) error {
	return i.db.
		Where("category = ?", category).
		Delete(&dbmodels.SlaConfig{}).
		Error
}

func (i impl) List() ([]dbmodels.SlaConfig, error) {
	list := []dbmodels.SlaConfig{}
	err := i.db.
		Order("category").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения настроек SLA")
	}
	return list, nil
}
