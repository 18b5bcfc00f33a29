package messagestore

import (
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.RequestMessage) (id string, err error)
	List(requestID string) ([]dbmodels.RequestMessage, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.RequestMessage) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка добавления сообщения")
	}
	return rec.ID, nil
}

func (i impl) List(requestID string) ([]dbmodels.RequestMessage, error) {
	list := []dbmodels.RequestMessage{}
	err := i.db.
		Model(dbmodels.RequestMessage{}).
		Where("request_id = ?", requestID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сообщений заявки")
	}
	return list, nil
}
