package holidaystore

import (
	dbmodels "convenios-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Holiday) (id string, err error)
	Delete(id string) error
	List(from, to *time.Time) ([]dbmodels.Holiday, error)
	Exist(date time.Time) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Holiday) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	exist, err := i.Exist(rec.Date)
	if err != nil {
		return "", err
	}
	if exist {
		return "", errors.Errorf("праздник на дату %v уже существует", rec.Date.Format(time.DateOnly))
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Holiday{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(from, to *time.Time) ([]dbmodels.Holiday, error) {
	list := []dbmodels.Holiday{}
	tx := i.db.Model(dbmodels.Holiday{})
	if from != nil {
		tx.Where("date >= ?", from.Format(time.DateOnly))
	}
	if to != nil {
		tx.Where("date <= ?", to.Format(time.DateOnly))
	}
	err := tx.Order("date").Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка праздников")
	}
	return list, nil
}

func (i impl) Exist(date time.Time) (bool, error) {
	var rowCount int64
	err := i.db.
		Model(dbmodels.Holiday{}).
		Where("date = ?", date.Format(time.DateOnly)).
		Count(&rowCount).
		Error
	if err != nil {
		return false, errors.Wrap(err, "ошибка проверки уникальности праздника")
	}
	return rowCount != 0, nil
}
