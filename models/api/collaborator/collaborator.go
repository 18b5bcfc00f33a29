package collaboratorapimodels

import (
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type EditData struct {
	Name        string                    `json:"name" validate:"required"`
	Phone       string                    `json:"phone"`
	UnitID      *string                   `json:"unit_id"`
	Status      models.CollaboratorStatus `json:"status"`
	CreditLimit *decimal.Decimal          `json:"credit_limit"` // новый лимит, nil - без изменений
	Version     int64                     `json:"version"`      // версия записи, полученная при чтении
}

func (v EditData) Validate() error {
	if err := apimodels.ValidateStruct(v); err != nil {
		return err
	}
	if v.CreditLimit != nil && v.CreditLimit.IsNegative() {
		return errors.New("лимит не может быть отрицательным")
	}
	return nil
}

type Filter struct {
	apimodels.Pagination
	Search string  `json:"search"`
	UnitID *string `json:"unit_id"`
}

type View struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	TaxID       string                    `json:"tax_id"`
	Phone       string                    `json:"phone"`
	UnitID      *string                   `json:"unit_id"`
	UnitName    string                    `json:"unit_name"`
	Status      models.CollaboratorStatus `json:"status"`
	StatusName  string                    `json:"status_name"`
	CreditLimit decimal.Decimal           `json:"credit_limit"`
	Version     int64                     `json:"version"`
}

func Convert(rec dbmodels.CollaboratorProfile) View {
	return View{
		ID:          rec.ID,
		Name:        rec.Name,
		TaxID:       rec.TaxID,
		Phone:       rec.Phone,
		UnitID:      rec.UnitID,
		UnitName:    rec.GetUnitName(),
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		CreditLimit: rec.CreditLimit,
		Version:     rec.Version,
	}
}

type ImportResult struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  []ImportError `json:"errors"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
