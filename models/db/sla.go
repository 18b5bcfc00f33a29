package dbmodels

import (
	"convenios-backend/models"
	"time"

	"github.com/pkg/errors"
)

type SlaConfig struct {
	BaseModel
	Category    models.RequestCategory `gorm:"type:varchar(50);uniqueIndex"`
	GreenHours  float64
	YellowHours float64
	Unit        models.ThresholdUnit `gorm:"type:varchar(10);default:hours"`
}

func (r SlaConfig) Validate() error {
	if !r.Category.IsValid() {
		return errors.Errorf("неизвестная категория: %v", r.Category)
	}
	if !r.Unit.IsValid() {
		return errors.Errorf("неизвестная единица измерения: %v", r.Unit)
	}
	if r.GreenHours <= 0 {
		return errors.New("порог \"в срок\" должен быть больше нуля")
	}
	if r.YellowHours < r.GreenHours {
		return errors.New("порог \"внимание\" не может быть меньше порога \"в срок\"")
	}
	return nil
}

type Holiday struct {
	BaseModel
	Date time.Time `gorm:"type:date;uniqueIndex"`
	Name string
}

func (r Holiday) Validate() error {
	if r.Date.IsZero() {
		return errors.New("не указана дата")
	}
	return nil
}
