package requestapimodels

import (
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	dbmodels "convenios-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type CreateData struct {
	CollaboratorID string                 `json:"collaborator_id" validate:"required"` // ид сотрудника
	Category       models.RequestCategory `json:"category" validate:"required"`        // категория
	Details        string                 `json:"details"`                             // описание
}

func (v CreateData) Validate() error {
	if err := apimodels.ValidateStruct(v); err != nil {
		return err
	}
	if !v.Category.IsValid() {
		return errors.Errorf("неизвестная категория: %v", v.Category)
	}
	return nil
}

type ApproveData struct {
	ApprovedValue     decimal.Decimal `json:"approved_value"`                              // одобренная сумма
	TotalInstallments int             `json:"total_installments" validate:"gte=1,lte=48"` // количество платежей
	ClosingMessage    string          `json:"closing_message"`                            // сообщение сотруднику
}

func (v ApproveData) Validate() error {
	if err := apimodels.ValidateStruct(v); err != nil {
		return err
	}
	if !v.ApprovedValue.IsPositive() {
		return errors.New("одобренная сумма должна быть больше нуля")
	}
	return nil
}

type RejectData struct {
	Reason string `json:"reason" validate:"required"` // причина отказа
}

func (v RejectData) Validate() error {
	return apimodels.ValidateStruct(v)
}

type HrDecisionData struct {
	Approve bool   `json:"approve"` // true - согласовать, false - отклонить
	Reason  string `json:"reason"`  // причина отказа
}

func (v HrDecisionData) Validate() error {
	if !v.Approve && v.Reason == "" {
		return errors.New("не указана причина отказа")
	}
	return nil
}

type AttachmentView struct {
	URL string `json:"url"`
}

type MessageData struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (v MessageData) Validate() error {
	return apimodels.ValidateStruct(v)
}

type Filter struct {
	apimodels.Pagination
	Categories []models.RequestCategory `json:"categories"` // фильтр по категориям (пересекается с доступными)
	Statuses   []models.RequestStatus   `json:"statuses"`   // фильтр по статусам
	Search     string                   `json:"search"`     // поиск по протоколу/имени
	OnlyOpen   bool                     `json:"only_open"`  // только незакрытые
}

type SlaBadge struct {
	Tier    models.SlaTier `json:"tier"`
	Elapsed string         `json:"elapsed,omitempty"`
	Hours   float64        `json:"hours"`
}

type View struct {
	ID                string                 `json:"id"`
	Protocol          string                 `json:"protocol"`
	Category          models.RequestCategory `json:"category"`
	CategoryName      string                 `json:"category_name"`
	Status            models.RequestStatus   `json:"status"`
	StatusName        string                 `json:"status_name"`
	HrStatus          models.HrStatus        `json:"hr_status,omitempty"`
	Details           string                 `json:"details"`
	CollaboratorID    string                 `json:"collaborator_id"`
	CollaboratorName  string                 `json:"collaborator_name"`
	UnitName          string                 `json:"unit_name"`
	CreatedAt         time.Time              `json:"created_at"`
	ClosedAt          *time.Time             `json:"closed_at,omitempty"`
	ApprovedValue     *decimal.Decimal       `json:"approved_value,omitempty"`
	TotalInstallments int                    `json:"total_installments"`
	PaidInstallments  int                    `json:"paid_installments"`
	RejectionReason   string                 `json:"rejection_reason,omitempty"`
	ClosingMessage    string                 `json:"closing_message,omitempty"`
	AttachmentURL     string                 `json:"attachment_url,omitempty"`
	Sla               SlaBadge               `json:"sla"`
}

func Convert(rec dbmodels.BenefitRequest) View {
	result := View{
		ID:                rec.ID,
		Protocol:          rec.Protocol,
		Category:          rec.Category,
		CategoryName:      rec.Category.ToHuman(),
		Status:            rec.Status,
		StatusName:        rec.Status.ToHuman(),
		HrStatus:          rec.GetHrStatus(),
		Details:           rec.Details,
		CollaboratorID:    rec.CollaboratorID,
		CreatedAt:         rec.CreatedAt,
		ClosedAt:          rec.ClosedAt,
		TotalInstallments: rec.GetTotalInstallments(),
		PaidInstallments:  rec.PaidInstallments,
		RejectionReason:   rec.RejectionReason,
		ClosingMessage:    rec.ClosingMessage,
		AttachmentURL:     rec.AttachmentURL,
	}
	if rec.ApprovedValue.Valid {
		value := rec.ApprovedValue.Decimal
		result.ApprovedValue = &value
	}
	if rec.Collaborator != nil {
		result.CollaboratorName = rec.Collaborator.Name
		result.UnitName = rec.Collaborator.GetUnitName()
	}
	return result
}

type MessageView struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func MessageConvert(rec dbmodels.RequestMessage) MessageView {
	return MessageView{
		ID:         rec.ID,
		AuthorID:   rec.AuthorID,
		AuthorName: rec.AuthorName,
		Text:       rec.Text,
		CreatedAt:  rec.CreatedAt,
	}
}

// Viewer пользователь, запрашивающий список, и доступные ему категории
type Viewer struct {
	UserID     string
	UserName   string
	Role       models.UserRole
	Categories []models.RequestCategory
}

// AllowCategory доступна ли категория пользователю
func (v Viewer) AllowCategory(category models.RequestCategory) bool {
	for _, item := range v.Categories {
		if item == category {
			return true
		}
	}
	return false
}

// FilterCategories пересечение запрошенных категорий с доступными
func (v Viewer) FilterCategories(requested []models.RequestCategory) []models.RequestCategory {
	if len(requested) == 0 {
		return v.Categories
	}
	result := make([]models.RequestCategory, 0, len(requested))
	for _, category := range requested {
		if v.AllowCategory(category) {
			result = append(result, category)
		}
	}
	return result
}
