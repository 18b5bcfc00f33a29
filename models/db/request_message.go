package dbmodels

import "github.com/pkg/errors"

type RequestMessage struct {
	BaseModel
	RequestID  string `gorm:"type:varchar(36);index"`
	AuthorID   string `gorm:"type:varchar(36)"`
	AuthorName string
	Text       string
}

func (r RequestMessage) Validate() error {
	if r.RequestID == "" {
		return errors.New("не указана заявка")
	}
	if r.Text == "" {
		return errors.New("пустое сообщение")
	}
	return nil
}
