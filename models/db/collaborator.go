package dbmodels

import (
	"convenios-backend/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Unit struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex"`
}

type CollaboratorProfile struct {
	BaseModel
	Name   string `gorm:"type:varchar(255)"`
	TaxID  string `gorm:"type:varchar(14);uniqueIndex"`
	Phone  string `gorm:"type:varchar(20)"`
	UnitID *string
	Unit   *Unit                     `gorm:"foreignKey:UnitID"`
	Status models.CollaboratorStatus `gorm:"type:varchar(20)"`
	// текущий доступный лимит, уменьшается при одобрении и восстанавливается при оплате платежей
	CreditLimit decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Version     int64           `gorm:"not null;default:1"`
}

func (r CollaboratorProfile) Validate() error {
	if r.Name == "" {
		return errors.New("не указано имя сотрудника")
	}
	if r.TaxID == "" {
		return errors.New("не указан ИНН/CPF сотрудника")
	}
	if r.CreditLimit.IsNegative() {
		return errors.New("лимит не может быть отрицательным")
	}
	return nil
}

func (r CollaboratorProfile) GetUnitName() string {
	if r.Unit == nil {
		return ""
	}
	return r.Unit.Name
}

func (r CollaboratorProfile) IsActive() bool {
	return r.Status == "" || r.Status == models.CollaboratorActive
}
