package unitstore

import (
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetOrCreate(name string) (id string, err error)
	List() ([]dbmodels.Unit, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetOrCreate(name string) (id string, err error) {
	rec := dbmodels.Unit{Name: name}
	err = i.db.
		Where("name = ?", name).
		FirstOrCreate(&rec).
		Error
	if err != nil {
		return "", errors.Wrapf(err, "ошибка получения подразделения %v", name)
	}
	return rec.ID, nil
}

func (i impl) List() ([]dbmodels.Unit, error) {
	list := []dbmodels.Unit{}
	err := i.db.
		Order("name").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка подразделений")
	}
	return list, nil
}
