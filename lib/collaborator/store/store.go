package collaboratorstore

import (
	collaboratorapimodels "convenios-backend/models/api/collaborator"
	dbmodels "convenios-backend/models/db"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.CollaboratorProfile) (id string, err error)
	GetByID(id string) (*dbmodels.CollaboratorProfile, error)
	GetByTaxID(taxID string) (*dbmodels.CollaboratorProfile, error)
	List(filter collaboratorapimodels.Filter) (list []dbmodels.CollaboratorProfile, rowCount int64, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	// UpdateCreditLimit изменение лимита с проверкой версии, false - запись изменена конкурентно
	UpdateCreditLimit(id string, expectedVersion int64, newLimit decimal.Decimal) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.CollaboratorProfile) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка добавления сотрудника")
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.CollaboratorProfile, error) {
	rec := dbmodels.CollaboratorProfile{}
	err := i.db.
		Model(dbmodels.CollaboratorProfile{}).
		Preload("Unit").
		Where("id = ?", id).
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

func (i impl) GetByTaxID(taxID string) (*dbmodels.CollaboratorProfile, error) {
	rec := dbmodels.CollaboratorProfile{}
	err := i.db.
		Model(dbmodels.CollaboratorProfile{}).
		Where("tax_id = ?", taxID).
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

func (i impl) List(filter collaboratorapimodels.Filter) (list []dbmodels.CollaboratorProfile, rowCount int64, err error) {
	list = []dbmodels.CollaboratorProfile{}
	tx := i.db.Model(dbmodels.CollaboratorProfile{})
	if filter.Search != "" {
		search := fmt.Sprintf("%%%v%%", filter.Search)
		tx.Where("name ILIKE ? OR tax_id ILIKE ? OR phone ILIKE ?", search, search, search)
	}
	if filter.UnitID != nil {
		tx.Where("unit_id = ?", *filter.UnitID)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка подсчета сотрудников")
	}
	offset, limit := filter.GetOffset()
	err = tx.
		Preload("Unit").
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка сотрудников")
	}
	return list, rowCount, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	rec := dbmodels.CollaboratorProfile{BaseModel: dbmodels.BaseModel{ID: id}}
	tx := i.db.
		Model(&rec).
		Updates(updMap)
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "ошибка обновления сотрудника")
	}
	if tx.RowsAffected == 0 {
		return errors.New("сотрудник не найден")
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.CollaboratorProfile{BaseModel: dbmodels.BaseModel{ID: id}}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return errors.Wrap(err, "ошибка удаления сотрудника")
	}
	return nil
}

func (i impl) UpdateCreditLimit(id string, expectedVersion int64, newLimit decimal.Decimal) (bool, error) {
	tx := i.db.
		Model(dbmodels.CollaboratorProfile{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"credit_limit": newLimit,
			"version":      gorm.Expr("version + 1"),
		})
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "ошибка обновления лимита")
	}
	return tx.RowsAffected == 1, nil
}
