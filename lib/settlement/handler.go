package settlement

import (
	"bytes"
	"context"
	"convenios-backend/config"
	"convenios-backend/db"
	audithandler "convenios-backend/lib/audit"
	requeststore "convenios-backend/lib/benefit-request/store"
	collaboratorstore "convenios-backend/lib/collaborator/store"
	xlsexport "convenios-backend/lib/export/xls"
	settlementstore "convenios-backend/lib/settlement/store"
	"convenios-backend/lib/smtp"
	"convenios-backend/lib/utils/helpers"
	"convenios-backend/lib/utils/lock"
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	settlementapimodels "convenios-backend/models/api/settlement"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	creditLockWait    = 10 * time.Second
	maxCreditAttempts = 3
	defaultPageSize   = 100
)

// RequestSource заявки с открытым планом рассрочки
type RequestSource interface {
	ListSettlementPage(cycle string, afterCreatedAt time.Time, afterID string, limit int) ([]dbmodels.BenefitRequest, error)
	MarkInstallmentPaid(id string, oldPaid, newPaid int, cycle string) (bool, error)
}

// CreditLedger лимиты сотрудников с версионным обновлением
type CreditLedger interface {
	GetByID(id string) (*dbmodels.CollaboratorProfile, error)
	UpdateCreditLimit(id string, expectedVersion int64, newLimit decimal.Decimal) (bool, error)
}

// ErrStaleCycle период раньше последнего выполненного списания
var ErrStaleCycle = errors.New("период раньше последнего выполненного списания")

type Provider interface {
	// Run списание платежей за период cycle (YYYY-MM), пустой cycle - текущий период
	Run(ctx context.Context, cycle, actorID string) (settlementapimodels.RunResult, error)
	ListRuns(pagination apimodels.Pagination) (list []settlementapimodels.RunView, rowCount int64, err error)
	GetRun(id string) (*settlementapimodels.RunResult, error)
	ExportRun(id string) (*bytes.Buffer, error)
	// CycleDone было ли уже списание за период
	CycleDone(cycle string) (bool, error)
	CurrentCycle() string
}

var Instance Provider

func NewHandler(loc *time.Location) {
	Instance = impl{
		requests: requeststore.NewInstance(db.DB),
		ledger:   collaboratorstore.NewInstance(db.DB),
		runStore: settlementstore.NewInstance(db.DB),
		audit:    audithandler.Instance,
		loc:      loc,
		pageSize: config.Conf.Settlement.PageSize,
		reportTo: config.Conf.Settlement.ReportTo,
		now:      time.Now,
	}
}

type impl struct {
	requests RequestSource
	ledger   CreditLedger
	runStore settlementstore.Provider
	audit    audithandler.Provider
	loc      *time.Location
	pageSize int
	reportTo string
	now      func() time.Time
}

func (i impl) CurrentCycle() string {
	return CycleKey(i.now(), i.loc)
}

func (i impl) Run(ctx context.Context, cycle, actorID string) (result settlementapimodels.RunResult, err error) {
	if cycle == "" {
		cycle = i.CurrentCycle()
	}
	if !IsValidCycle(cycle) {
		return result, errors.Errorf("некорректный период списания: %v", cycle)
	}
	latest, err := i.runStore.LatestCycle()
	if err != nil {
		return result, err
	}
	if latest != "" && cycle < latest {
		return result, errors.Wrapf(ErrStaleCycle, "%v, последнее списание за %v", cycle, latest)
	}
	if actorID == "" {
		actorID = models.SystemUser
	}
	logger := log.
		WithField("cycle", cycle).
		WithField("actor_id", actorID)
	logger.Info("запуск списания платежей рассрочки")

	startedAt := i.now()
	result = settlementapimodels.RunResult{
		Cycle: cycle,
		Items: []dbmodels.SettlementItem{},
	}
	pageSize := i.pageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	var afterCreatedAt time.Time
	afterID := ""
	for {
		if helpers.IsContextDone(ctx) {
			result.Warnings = append(result.Warnings, "списание прервано, обработаны не все заявки")
			break
		}
		page, err := i.requests.ListSettlementPage(cycle, afterCreatedAt, afterID, pageSize)
		if err != nil {
			if len(result.Items) == 0 {
				return result, err
			}
			logger.WithError(err).Error("ошибка получения очередной страницы заявок для списания")
			result.Warnings = append(result.Warnings, "обработаны не все заявки: "+err.Error())
			break
		}
		for _, rec := range page {
			item := i.processRequest(ctx, cycle, rec)
			result.Items = append(result.Items, item)
			result.Summary.Add(item)
		}
		if len(page) < pageSize {
			break
		}
		last := page[len(page)-1]
		afterCreatedAt, afterID = last.CreatedAt, last.ID
	}

	run := dbmodels.SettlementRun{
		Cycle:      cycle,
		ActorID:    actorID,
		StartedAt:  startedAt,
		FinishedAt: i.now(),
		Summary:    datatypes.NewJSONType(result.Summary),
		Items:      datatypes.NewJSONType(result.Items),
	}
	result.RunID, err = i.runStore.Create(run)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения результата списания")
		result.Warnings = append(result.Warnings, "результат списания не сохранен: "+err.Error())
	}
	entityID := result.RunID
	if entityID == "" {
		entityID = cycle
	}
	details := dbmodels.NewSettlementDetails(dbmodels.SettlementDetails{
		Cycle:   cycle,
		Summary: result.Summary,
		Items:   result.Items,
	})
	err = i.audit.Write(models.AuditInstallmentsProcessed, models.AuditEntitySettlement, entityID, actorID, details)
	if err != nil {
		logger.WithError(err).Error("ошибка записи результата списания в журнал аудита")
		result.Warnings = append(result.Warnings, "запись в журнал аудита не выполнена: "+err.Error())
	}
	i.sendReport(result, logger)

	logger.
		WithField("processed", result.Summary.Processed).
		WithField("errors", result.Summary.Errors).
		Info("списание платежей рассрочки завершено")
	return result, nil
}

func (i impl) processRequest(ctx context.Context, cycle string, rec dbmodels.BenefitRequest) dbmodels.SettlementItem {
	item := dbmodels.SettlementItem{
		RequestID:         rec.ID,
		Protocol:          rec.Protocol,
		CollaboratorID:    rec.CollaboratorID,
		Outcome:           dbmodels.SettlementError,
		PaidInstallments:  rec.PaidInstallments,
		TotalInstallments: rec.GetTotalInstallments(),
	}
	logger := log.
		WithField("cycle", cycle).
		WithField("request_id", rec.ID).
		WithField("collaborator_id", rec.CollaboratorID)
	if !rec.ApprovedValue.Valid {
		item.Reason = "не указана одобренная сумма"
		return item
	}
	locked, err := lock.WithDelay(ctx, lock.CreditLockKey(rec.CollaboratorID), creditLockWait, func() error {
		return i.applyStep(cycle, rec, &item, logger)
	})
	if err != nil {
		item.Outcome = dbmodels.SettlementError
		item.Reason = err.Error()
		logger.WithError(err).Warn("ошибка списания платежа")
		return item
	}
	if !locked {
		item.Reason = "лимит сотрудника заблокирован другой операцией"
		logger.Warn(item.Reason)
	}
	return item
}

func (i impl) applyStep(cycle string, rec dbmodels.BenefitRequest, item *dbmodels.SettlementItem, logger *log.Entry) error {
	for attempt := 0; attempt < maxCreditAttempts; attempt++ {
		profile, err := i.ledger.GetByID(rec.CollaboratorID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения сотрудника")
		}
		if profile == nil {
			return errors.New("сотрудник не найден")
		}
		step := ComputeStep(rec.ApprovedValue.Decimal, rec.GetTotalInstallments(), rec.PaidInstallments, profile.CreditLimit)
		updated, err := i.ledger.UpdateCreditLimit(profile.ID, profile.Version, step.NewLimit)
		if err != nil {
			return err
		}
		if !updated {
			continue
		}
		item.InstallmentValue = step.Installment
		item.PreviousLimit = profile.CreditLimit
		item.NewLimit = step.NewLimit

		marked, err := i.requests.MarkInstallmentPaid(rec.ID, rec.PaidInstallments, step.NewPaid, cycle)
		if err == nil && !marked {
			err = errors.New("заявка изменена во время списания")
		}
		if err != nil {
			item.NewLimit = profile.CreditLimit
			restored, compErr := i.ledger.UpdateCreditLimit(profile.ID, profile.Version+1, profile.CreditLimit)
			if compErr == nil && !restored {
				compErr = errors.New("лимит изменен конкурентно")
			}
			if compErr != nil {
				logger.
					WithError(compErr).
					WithField("expected_limit", profile.CreditLimit.String()).
					Error("лимит сотрудника не восстановлен после ошибки списания")
				return errors.Errorf("%v; лимит не восстановлен: %v", err, compErr)
			}
			return err
		}
		item.PaidInstallments = step.NewPaid
		if step.IsFinal {
			item.Outcome = dbmodels.SettlementCompleted
		} else {
			item.Outcome = dbmodels.SettlementSuccess
		}
		return nil
	}
	return errors.New("лимит сотрудника изменяется конкурентно, повторите позже")
}

func (i impl) sendReport(result settlementapimodels.RunResult, logger *log.Entry) {
	if i.reportTo == "" || smtp.Instance == nil {
		return
	}
	summary := result.Summary
	message := fmt.Sprintf("Период: %v\r\nОбработано: %v\r\nУспешно: %v\r\nЗавершено: %v\r\nОшибки: %v\r\nВозвращено в лимит: %v\r\nПерезарезервировано: %v\r\n",
		result.Cycle, summary.Processed, summary.Successful, summary.Completed, summary.Errors,
		summary.RestoredTotal.StringFixed(2), summary.RotatedTotal.StringFixed(2))
	err := smtp.Instance.SendEMail(models.SystemUser, i.reportTo, message, "Списание платежей "+result.Cycle)
	if err != nil {
		logger.WithError(err).Warn("отчет о списании не отправлен")
	}
}

func (i impl) ListRuns(pagination apimodels.Pagination) (list []settlementapimodels.RunView, rowCount int64, err error) {
	offset, limit := pagination.GetOffset()
	recList, rowCount, err := i.runStore.List(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list = make([]settlementapimodels.RunView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, settlementapimodels.RunConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) GetRun(id string) (*settlementapimodels.RunResult, error) {
	rec, err := i.runStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	result := settlementapimodels.RunResultConvert(*rec)
	return &result, nil
}

func (i impl) ExportRun(id string) (*bytes.Buffer, error) {
	run, err := i.GetRun(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, errors.New("запуск списания не найден")
	}
	return xlsexport.Instance.ExportSettlementRun(*run)
}

func (i impl) CycleDone(cycle string) (bool, error) {
	return i.runStore.ExistByCycle(cycle)
}
