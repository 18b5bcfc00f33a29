package dbmodels

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SettlementRun struct {
	BaseModel
	Cycle      string `gorm:"type:varchar(7);index"`
	ActorID    string `gorm:"type:varchar(36)"`
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    datatypes.JSONType[SettlementSummary]
	Items      datatypes.JSONType[[]SettlementItem]
}

type SettlementOutcome string

const (
	SettlementSuccess   SettlementOutcome = "success"
	SettlementCompleted SettlementOutcome = "completed"
	SettlementError     SettlementOutcome = "error"
)

type SettlementSummary struct {
	Processed     int             `json:"processed"`
	Successful    int             `json:"successful"`
	Completed     int             `json:"completed"`
	Errors        int             `json:"errors"`
	RestoredTotal decimal.Decimal `json:"restored_total"` // возвращено в лимит по последним платежам
	RotatedTotal  decimal.Decimal `json:"rotated_total"`  // перезарезервировано по промежуточным платежам
}

type SettlementItem struct {
	RequestID         string            `json:"request_id"`
	Protocol          string            `json:"protocol"`
	CollaboratorID    string            `json:"collaborator_id"`
	Outcome           SettlementOutcome `json:"outcome"`
	InstallmentValue  decimal.Decimal   `json:"installment_value"`
	PaidInstallments  int               `json:"paid_installments"`
	TotalInstallments int               `json:"total_installments"`
	PreviousLimit     decimal.Decimal   `json:"previous_limit"`
	NewLimit          decimal.Decimal   `json:"new_limit"`
	Reason            string            `json:"reason,omitempty"`
}

// Add учитывает результат по заявке в сводке
func (s *SettlementSummary) Add(item SettlementItem) {
	s.Processed++
	switch item.Outcome {
	case SettlementSuccess:
		s.Successful++
		s.RotatedTotal = s.RotatedTotal.Add(item.InstallmentValue)
	case SettlementCompleted:
		s.Completed++
		s.RestoredTotal = s.RestoredTotal.Add(item.InstallmentValue)
	default:
		s.Errors++
	}
}
