package settlementstore

import (
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.SettlementRun) (id string, err error)
	GetByID(id string) (*dbmodels.SettlementRun, error)
	List(limit, offset int) (list []dbmodels.SettlementRun, rowCount int64, err error)
	ExistByCycle(cycle string) (bool, error)
	// LatestCycle последний период, за который было списание, пустая строка если списаний не было
	LatestCycle() (string, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.SettlementRun) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения результата списания")
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.SettlementRun, error) {
	rec := dbmodels.SettlementRun{}
	err := i.db.
		Model(dbmodels.SettlementRun{}).
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

func (i impl) List(limit, offset int) (list []dbmodels.SettlementRun, rowCount int64, err error) {
	list = []dbmodels.SettlementRun{}
	tx := i.db.Model(dbmodels.SettlementRun{})
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	err = tx.
		Omit("items").
		Order("started_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения истории списаний")
	}
	return list, rowCount, nil
}

func (i impl) ExistByCycle(cycle string) (bool, error) {
	var rowCount int64
	err := i.db.
		Model(dbmodels.SettlementRun{}).
		Where("cycle = ?", cycle).
		Count(&rowCount).
		Error
	if err != nil {
		return false, errors.Wrap(err, "ошибка проверки списания за период")
	}
	return rowCount != 0, nil
}

func (i impl) LatestCycle() (string, error) {
	var cycle string
	err := i.db.
		Model(dbmodels.SettlementRun{}).
		Select("COALESCE(MAX(cycle), '')").
		Scan(&cycle).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения последнего периода списания")
	}
	return cycle, nil
}
