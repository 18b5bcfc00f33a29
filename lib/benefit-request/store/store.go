package requeststore

import (
	"convenios-backend/models"
	requestapimodels "convenios-backend/models/api/request"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.BenefitRequest) (id string, err error)
	GetByID(id string) (*dbmodels.BenefitRequest, error)
	ProtocolExist(protocol string) (bool, error)
	CountByCollaborator(collaboratorID string) (int64, error)
	List(categories []models.RequestCategory, primaryReviewer bool, filter requestapimodels.Filter) (list []dbmodels.BenefitRequest, rowCount int64, err error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateOnStatus обновление только если заявка в одном из статусов, false - статус уже изменен
	UpdateOnStatus(id string, statuses []models.RequestStatus, updMap map[string]interface{}) (bool, error)
	// ListSettlementPage страница одобренных заявок с неоплаченными платежами, не списанных в периоде cycle или позже
	ListSettlementPage(cycle string, afterCreatedAt time.Time, afterID string, limit int) ([]dbmodels.BenefitRequest, error)
	// MarkInstallmentPaid фиксирует оплату платежа, false - заявка изменена конкурентно или уже списана в периоде cycle или позже
	MarkInstallmentPaid(id string, oldPaid, newPaid int, cycle string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.BenefitRequest) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания заявки")
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.BenefitRequest, error) {
	rec := dbmodels.BenefitRequest{}
	err := i.db.
		Model(dbmodels.BenefitRequest{}).
		Preload("Collaborator").
		Preload("Collaborator.Unit").
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ProtocolExist(protocol string) (bool, error) {
	var rowCount int64
	err := i.db.
		Model(dbmodels.BenefitRequest{}).
		Where("protocol = ?", protocol).
		Count(&rowCount).
		Error
	if err != nil {
		return false, err
	}
	return rowCount != 0, nil
}

func (i impl) CountByCollaborator(collaboratorID string) (int64, error) {
	var rowCount int64
	err := i.db.
		Model(dbmodels.BenefitRequest{}).
		Where("collaborator_id = ?", collaboratorID).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка подсчета заявок сотрудника")
	}
	return rowCount, nil
}

func (i impl) List(categories []models.RequestCategory, primaryReviewer bool, filter requestapimodels.Filter) (list []dbmodels.BenefitRequest, rowCount int64, err error) {
	list = []dbmodels.BenefitRequest{}
	if len(categories) == 0 {
		return list, 0, nil
	}
	tx := i.db.Model(dbmodels.BenefitRequest{})
	tx.Where("category IN ?", categories)
	if primaryReviewer {
		tx.Scopes(visibleToPrimaryReviewer(categories))
	}
	if len(filter.Statuses) != 0 {
		tx.Where("status IN ?", filter.Statuses)
	}
	if filter.OnlyOpen {
		tx.Where("status NOT IN ?", models.ClosedStatuses())
	}
	if filter.Search != "" {
		search := fmt.Sprintf("%%%v%%", filter.Search)
		tx.Where("(protocol ILIKE ? OR collaborator_id IN (SELECT id FROM collaborator_profiles WHERE name ILIKE ? OR tax_id ILIKE ?))", search, search, search)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка подсчета заявок")
	}
	offset, limit := filter.GetOffset()
	err = tx.
		Preload("Collaborator").
		Preload("Collaborator.Unit").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка заявок")
	}
	return list, rowCount, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	rec := dbmodels.BenefitRequest{BaseModel: dbmodels.BaseModel{ID: id}}
	tx := i.db.
		Model(&rec).
		Updates(updMap)
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "ошибка обновления заявки")
	}
	if tx.RowsAffected == 0 {
		return errors.New("заявка не найдена")
	}
	return nil
}

func (i impl) UpdateOnStatus(id string, statuses []models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(dbmodels.BenefitRequest{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updMap)
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "ошибка обновления статуса заявки")
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) ListSettlementPage(cycle string, afterCreatedAt time.Time, afterID string, limit int) ([]dbmodels.BenefitRequest, error) {
	list := []dbmodels.BenefitRequest{}
	tx := i.db.
		Model(dbmodels.BenefitRequest{}).
		Where("status = ?", models.RequestStatusApproved).
		Where("approved_value IS NOT NULL").
		Where("paid_installments < GREATEST(total_installments, 1)").
		Scopes(notSettledSince(cycle))
	if afterID != "" {
		tx.Where("(created_at, id) > (?, ?)", afterCreatedAt, afterID)
	}
	err := tx.
		Order("created_at, id").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения заявок для списания")
	}
	return list, nil
}

func (i impl) MarkInstallmentPaid(id string, oldPaid, newPaid int, cycle string) (bool, error) {
	tx := i.db.
		Model(dbmodels.BenefitRequest{}).
		Where("id = ? AND paid_installments = ?", id, oldPaid).
		Scopes(notSettledSince(cycle)).
		Updates(map[string]interface{}{
			"paid_installments":  newPaid,
			"last_settled_cycle": cycle,
		})
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "ошибка фиксации оплаты платежа")
	}
	return tx.RowsAffected == 1, nil
}

// visibleToPrimaryReviewer заявки категорий с согласованием HR скрыты до согласования или закрытия
func visibleToPrimaryReviewer(categories []models.RequestCategory) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		gated := hrGatedCategories(categories)
		if len(gated) == 0 {
			return tx
		}
		return tx.Where("(category NOT IN ? OR status IN ? OR hr_status = ?)", gated, models.ClosedStatuses(), models.HrStatusApproved)
	}
}

// notSettledSince заявка не списывалась в периоде cycle и позже, YYYY-MM сравнивается как строка
func notSettledSince(cycle string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("COALESCE(last_settled_cycle, '') < ?", cycle)
	}
}

func hrGatedCategories(categories []models.RequestCategory) []models.RequestCategory {
	result := []models.RequestCategory{}
	for _, category := range categories {
		if category.RequiresHrApproval() {
			result = append(result, category)
		}
	}
	return result
}
