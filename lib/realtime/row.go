package realtime

import (
	"convenios-backend/models"
	dbmodels "convenios-backend/models/db"
	"time"

	"github.com/shopspring/decimal"
)

// RequestRow строка дашборда; имя сотрудника и подразделение заполняются отдельно
type RequestRow struct {
	ID                string                 `json:"id"`
	Protocol          string                 `json:"protocol"`
	Category          models.RequestCategory `json:"category"`
	Status            models.RequestStatus   `json:"status"`
	HrStatus          models.HrStatus        `json:"hr_status"`
	CollaboratorID    string                 `json:"collaborator_id"`
	CollaboratorName  string                 `json:"collaborator_name,omitempty"`
	UnitName          string                 `json:"unit_name,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	ClosedAt          *time.Time             `json:"closed_at"`
	ApprovedValue     *decimal.Decimal       `json:"approved_value"`
	TotalInstallments int                    `json:"total_installments"`
	PaidInstallments  int                    `json:"paid_installments"`
	Highlight         bool                   `json:"highlight,omitempty"`
}

func RowFromDb(rec dbmodels.BenefitRequest) RequestRow {
	row := RequestRow{
		ID:                rec.ID,
		Protocol:          rec.Protocol,
		Category:          rec.Category,
		Status:            rec.Status,
		HrStatus:          rec.GetHrStatus(),
		CollaboratorID:    rec.CollaboratorID,
		CreatedAt:         rec.CreatedAt,
		ClosedAt:          rec.ClosedAt,
		TotalInstallments: rec.GetTotalInstallments(),
		PaidInstallments:  rec.PaidInstallments,
	}
	if rec.ApprovedValue.Valid {
		value := rec.ApprovedValue.Decimal
		row.ApprovedValue = &value
	}
	if rec.Collaborator != nil {
		row.CollaboratorName = rec.Collaborator.Name
		row.UnitName = rec.Collaborator.GetUnitName()
	}
	return row
}

// merge поля из события изменения, денормализованные поля сохраняются
func (r RequestRow) merge(changed RequestRow) RequestRow {
	changed.CollaboratorName = r.CollaboratorName
	changed.UnitName = r.UnitName
	return changed
}
