package dbmodels

import (
	"convenios-backend/models"
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type AuditLog struct {
	BaseModel
	Action     models.AuditAction `gorm:"type:varchar(50);index"`
	EntityType models.AuditEntity `gorm:"type:varchar(50);index:idx_audit_entity"`
	EntityID   string             `gorm:"type:varchar(64);index:idx_audit_entity"`
	ActorID    string             `gorm:"type:varchar(36)"`
	Details    AuditDetails       `gorm:"type:jsonb"`
}

func (r AuditLog) Validate() error {
	if r.Action == "" {
		return errors.New("не указано действие")
	}
	if r.EntityType == "" {
		return errors.New("не указан тип сущности")
	}
	return nil
}

type AuditDetailsKind string

const (
	DetailsDecision     AuditDetailsKind = "decision"
	DetailsCreditChange AuditDetailsKind = "credit_change"
	DetailsDeletion     AuditDetailsKind = "deletion"
	DetailsSettlement   AuditDetailsKind = "settlement"
	DetailsImport       AuditDetailsKind = "import"
	DetailsChanges      AuditDetailsKind = "changes"
	DetailsOpaque       AuditDetailsKind = "opaque"
)

// AuditDetails детали записи журнала, заполнено ровно одно поле, соответствующее Kind
type AuditDetails struct {
	Kind         AuditDetailsKind     `json:"kind"`
	Decision     *DecisionDetails     `json:"decision,omitempty"`
	CreditChange *CreditChangeDetails `json:"credit_change,omitempty"`
	Deletion     *DeletionDetails     `json:"deletion,omitempty"`
	Settlement   *SettlementDetails   `json:"settlement,omitempty"`
	Import       *ImportDetails       `json:"import,omitempty"`
	Changes      *EntityChanges       `json:"changes,omitempty"`
	Raw          json.RawMessage      `json:"raw,omitempty"`
}

type DecisionDetails struct {
	Protocol          string               `json:"protocol"`
	Status            models.RequestStatus `json:"status"`
	HrStatus          models.HrStatus      `json:"hr_status,omitempty"`
	ApprovedValue     *decimal.Decimal     `json:"approved_value,omitempty"`
	TotalInstallments int                  `json:"total_installments,omitempty"`
	Reason            string               `json:"reason,omitempty"`
}

type CreditChangeDetails struct {
	CollaboratorID string          `json:"collaborator_id"`
	OldLimit       decimal.Decimal `json:"old_limit"`
	NewLimit       decimal.Decimal `json:"new_limit"`
	Reason         string          `json:"reason,omitempty"`
}

type DeletionDetails struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id,omitempty"`
}

type SettlementDetails struct {
	Cycle   string            `json:"cycle"`
	Summary SettlementSummary `json:"summary"`
	Items   []SettlementItem  `json:"items"`
}

type ImportDetails struct {
	FileName string   `json:"file_name"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors,omitempty"`
}

type EntityChanges struct {
	Description string         `json:"description"` // Комментарий
	Data        []FieldChanges `json:"data"`        // Список изменений
}

type FieldChanges struct {
	Field    string `json:"field"`     // Измененное поле
	OldValue any    `json:"old_value"` // Старое значение
	NewValue any    `json:"new_value"` // Новое значение
}

func NewDecisionDetails(d DecisionDetails) AuditDetails {
	return AuditDetails{Kind: DetailsDecision, Decision: &d}
}

func NewCreditChangeDetails(d CreditChangeDetails) AuditDetails {
	return AuditDetails{Kind: DetailsCreditChange, CreditChange: &d}
}

func NewDeletionDetails(d DeletionDetails) AuditDetails {
	return AuditDetails{Kind: DetailsDeletion, Deletion: &d}
}

func NewSettlementDetails(d SettlementDetails) AuditDetails {
	return AuditDetails{Kind: DetailsSettlement, Settlement: &d}
}

func NewImportDetails(d ImportDetails) AuditDetails {
	return AuditDetails{Kind: DetailsImport, Import: &d}
}

func NewChangesDetails(d EntityChanges) AuditDetails {
	return AuditDetails{Kind: DetailsChanges, Changes: &d}
}

// NewOpaqueDetails произвольные данные без схемы
func NewOpaqueDetails(data any) (AuditDetails, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return AuditDetails{}, errors.Wrap(err, "ошибка сериализации деталей")
	}
	return AuditDetails{Kind: DetailsOpaque, Raw: raw}, nil
}

func (j AuditDetails) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *AuditDetails) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*j = AuditDetails{}
		return nil
	default:
		return errors.Errorf("неподдерживаемый тип деталей журнала: %T", value)
	}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	if j.Kind == "" {
		// записи без схемы сохраняем как есть
		j.Kind = DetailsOpaque
		j.Raw = append(json.RawMessage(nil), data...)
	}
	return nil
}
