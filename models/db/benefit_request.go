package dbmodels

import (
	"convenios-backend/models"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BenefitRequest struct {
	BaseModel
	Protocol          string                 `gorm:"type:varchar(32);uniqueIndex"`
	Category          models.RequestCategory `gorm:"type:varchar(50);index"`
	Status            models.RequestStatus   `gorm:"type:varchar(20);index"`
	Details           string
	CollaboratorID    string               `gorm:"type:varchar(36);index"`
	Collaborator      *CollaboratorProfile `gorm:"foreignKey:CollaboratorID"`
	ClosedAt          *time.Time
	ApprovedValue     decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	TotalInstallments int                 `gorm:"not null;default:1"`
	PaidInstallments  int                 `gorm:"not null;default:0"`
	RejectionReason   string
	ClosingMessage    string
	ReviewerID        string `gorm:"type:varchar(36)"`
	ReviewedAt        *time.Time
	HrStatus          *models.HrStatus `gorm:"type:varchar(20)"`
	HrReviewerID      string           `gorm:"type:varchar(36)"`
	HrReviewedAt      *time.Time
	AttachmentURL     string
	LastSettledCycle  string `gorm:"type:varchar(7);index"` // YYYY-MM последнего списания рассрочки
}

func (r BenefitRequest) Validate() error {
	if r.Protocol == "" {
		return errors.New("не указан протокол")
	}
	if !r.Category.IsValid() {
		return errors.Errorf("неизвестная категория: %v", r.Category)
	}
	if r.CollaboratorID == "" {
		return errors.New("не указан сотрудник")
	}
	if r.GetTotalInstallments() < 1 {
		return errors.New("количество платежей должно быть не меньше 1")
	}
	if r.PaidInstallments < 0 || r.PaidInstallments > r.GetTotalInstallments() {
		return errors.New("количество оплаченных платежей вне допустимого диапазона")
	}
	return nil
}

// GetTotalInstallments пустое значение трактуется как один платеж
func (r BenefitRequest) GetTotalInstallments() int {
	if r.TotalInstallments <= 0 {
		return 1
	}
	return r.TotalInstallments
}

func (r BenefitRequest) GetHrStatus() models.HrStatus {
	if r.HrStatus == nil {
		return ""
	}
	return *r.HrStatus
}
