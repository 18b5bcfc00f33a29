package collaboratorhandler

import (
	"context"
	"convenios-backend/db"
	audithandler "convenios-backend/lib/audit"
	requeststore "convenios-backend/lib/benefit-request/store"
	collaboratorstore "convenios-backend/lib/collaborator/store"
	unitstore "convenios-backend/lib/collaborator/unit-store"
	"convenios-backend/lib/utils/lock"
	"convenios-backend/models"
	collaboratorapimodels "convenios-backend/models/api/collaborator"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const creditLockWait = 10 * time.Second

type Provider interface {
	List(filter collaboratorapimodels.Filter) (list []collaboratorapimodels.View, rowCount int64, err error)
	Get(id string) (*collaboratorapimodels.View, error)
	Update(ctx context.Context, userID, id string, data collaboratorapimodels.EditData) (hMsg string, err error)
	Delete(userID, id string) (hMsg string, err error)
	Import(ctx context.Context, userID, fileName string, data []byte) (result collaboratorapimodels.ImportResult, hMsg string, err error)
}

// RequestCounter заявки сотрудника, удаление запрещено при их наличии
type RequestCounter interface {
	CountByCollaborator(collaboratorID string) (int64, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     collaboratorstore.NewInstance(db.DB),
		unitStore: unitstore.NewInstance(db.DB),
		requests:  requeststore.NewInstance(db.DB),
		audit:     audithandler.Instance,
	}
}

type impl struct {
	store     collaboratorstore.Provider
	unitStore unitstore.Provider
	requests  RequestCounter
	audit     audithandler.Provider
}

func (i impl) getLogger(id string) *log.Entry {
	return log.WithField("collaborator_id", id)
}

func (i impl) List(filter collaboratorapimodels.Filter) (list []collaboratorapimodels.View, rowCount int64, err error) {
	recList, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]collaboratorapimodels.View, 0, len(recList))
	for _, rec := range recList {
		list = append(list, collaboratorapimodels.Convert(rec))
	}
	return list, rowCount, nil
}

func (i impl) Get(id string) (*collaboratorapimodels.View, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	view := collaboratorapimodels.Convert(*rec)
	return &view, nil
}

func (i impl) Update(ctx context.Context, userID, id string, data collaboratorapimodels.EditData) (hMsg string, err error) {
	if err = data.Validate(); err != nil {
		return err.Error(), nil
	}
	logger := i.getLogger(id)
	locked, err := lock.WithDelay(ctx, lock.CreditLockKey(id), creditLockWait, func() error {
		rec, err := i.store.GetByID(id)
		if err != nil {
			return err
		}
		if rec == nil {
			hMsg = "сотрудник не найден"
			return nil
		}
		if data.CreditLimit != nil && !data.CreditLimit.Equal(rec.CreditLimit) {
			hMsg, err = i.changeCreditLimit(userID, *rec, data.Version, *data.CreditLimit, "изменение вручную")
			if err != nil || hMsg != "" {
				return err
			}
		}
		updMap := map[string]interface{}{
			"name":    data.Name,
			"phone":   data.Phone,
			"unit_id": data.UnitID,
		}
		if data.Status != "" {
			updMap["status"] = data.Status
		}
		return i.store.Update(id, updMap)
	})
	if err != nil {
		return "", err
	}
	if !locked {
		return "лимит сотрудника изменяется другой операцией, повторите позже", nil
	}
	if hMsg == "" {
		logger.Info("данные сотрудника обновлены")
	}
	return hMsg, nil
}

// changeCreditLimit вызывается под блокировкой лимита сотрудника
func (i impl) changeCreditLimit(userID string, rec dbmodels.CollaboratorProfile, expectedVersion int64, newLimit decimal.Decimal, reason string) (hMsg string, err error) {
	updated, err := i.store.UpdateCreditLimit(rec.ID, expectedVersion, newLimit)
	if err != nil {
		return "", err
	}
	if !updated {
		return "данные сотрудника изменены другим пользователем, обновите страницу", nil
	}
	i.audit.Log(models.AuditCreditLimitChanged, models.AuditEntityCollaborator, rec.ID, userID,
		dbmodels.NewCreditChangeDetails(dbmodels.CreditChangeDetails{
			CollaboratorID: rec.ID,
			OldLimit:       rec.CreditLimit,
			NewLimit:       newLimit,
			Reason:         reason,
		}))
	return "", nil
}

func (i impl) Delete(userID, id string) (hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "сотрудник не найден", nil
	}
	count, err := i.requests.CountByCollaborator(id)
	if err != nil {
		return "", err
	}
	if count != 0 {
		return fmt.Sprintf("у сотрудника есть заявки (%v), удаление невозможно", count), nil
	}
	err = i.store.Delete(id)
	if err != nil {
		return "", err
	}
	i.audit.Log(models.AuditCollaboratorDeleted, models.AuditEntityCollaborator, id, userID,
		dbmodels.NewDeletionDetails(dbmodels.DeletionDetails{
			Name:  rec.Name,
			TaxID: rec.TaxID,
		}))
	i.getLogger(id).Info("сотрудник удален")
	return "", nil
}

func (i impl) Import(ctx context.Context, userID, fileName string, data []byte) (result collaboratorapimodels.ImportResult, hMsg string, err error) {
	logger := log.WithField("file_name", fileName)
	rows, readErrors, err := readImportFile(fileName, data)
	if err != nil {
		return result, err.Error(), nil
	}
	items, rowErrors, err := parseImportRows(rows)
	if err != nil {
		return result, err.Error(), nil
	}
	result.Errors = append(rowErrors, readErrors...)
	unitIDs := map[string]string{}
	for _, item := range items {
		created, rowErr := i.importRow(ctx, userID, item, unitIDs)
		if rowErr != nil {
			logger.
				WithError(rowErr).
				WithField("row", item.Row).
				Warn("ошибка импорта строки")
			result.Errors = append(result.Errors, collaboratorapimodels.ImportError{Row: item.Row, Message: rowErr.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	sort.SliceStable(result.Errors, func(a, b int) bool {
		return result.Errors[a].Row < result.Errors[b].Row
	})
	errMessages := make([]string, 0, len(result.Errors))
	for _, rowErr := range result.Errors {
		errMessages = append(errMessages, fmt.Sprintf("строка %v: %v", rowErr.Row, rowErr.Message))
	}
	i.audit.Log(models.AuditCollaboratorsImported, models.AuditEntityCollaborator, "", userID,
		dbmodels.NewImportDetails(dbmodels.ImportDetails{
			FileName: fileName,
			Created:  result.Created,
			Updated:  result.Updated,
			Errors:   errMessages,
		}))
	logger.
		WithField("created", result.Created).
		WithField("updated", result.Updated).
		WithField("errors", len(result.Errors)).
		Info("импорт сотрудников завершен")
	return result, "", nil
}

func (i impl) importRow(ctx context.Context, userID string, item importRow, unitIDs map[string]string) (created bool, err error) {
	var unitID *string
	if item.Unit != "" {
		id, ok := unitIDs[item.Unit]
		if !ok {
			id, err = i.unitStore.GetOrCreate(item.Unit)
			if err != nil {
				return false, err
			}
			unitIDs[item.Unit] = id
		}
		unitID = &id
	}
	existing, err := i.store.GetByTaxID(item.TaxID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		rec := dbmodels.CollaboratorProfile{
			Name:   item.Name,
			TaxID:  item.TaxID,
			Phone:  item.Phone,
			UnitID: unitID,
			Status: models.CollaboratorActive,
		}
		if item.CreditLimit != nil {
			rec.CreditLimit = *item.CreditLimit
		}
		_, err = i.store.Create(rec)
		return err == nil, err
	}
	updMap := map[string]interface{}{
		"name": item.Name,
	}
	if item.Phone != "" {
		updMap["phone"] = item.Phone
	}
	if unitID != nil {
		updMap["unit_id"] = *unitID
	}
	if item.CreditLimit == nil || item.CreditLimit.Equal(existing.CreditLimit) {
		return false, i.store.Update(existing.ID, updMap)
	}
	// лимит меняется первым, при отказе строка не применяется
	var hMsg string
	locked, err := lock.WithDelay(ctx, lock.CreditLockKey(existing.ID), creditLockWait, func() error {
		fresh, err := i.store.GetByID(existing.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return errors.New("сотрудник удален во время импорта")
		}
		hMsg, err = i.changeCreditLimit(userID, *fresh, fresh.Version, *item.CreditLimit, "импорт "+item.TaxID)
		if err != nil || hMsg != "" {
			return err
		}
		return i.store.Update(existing.ID, updMap)
	})
	if err != nil {
		return false, err
	}
	if !locked {
		return false, errors.New("лимит сотрудника изменяется другой операцией")
	}
	if hMsg != "" {
		return false, errors.New(hMsg)
	}
	return false, nil
}
