package requesthandler

import (
	"bytes"
	"context"
	"convenios-backend/db"
	audithandler "convenios-backend/lib/audit"
	messagestore "convenios-backend/lib/benefit-request/message-store"
	requeststore "convenios-backend/lib/benefit-request/store"
	businesshours "convenios-backend/lib/business-hours"
	collaboratorstore "convenios-backend/lib/collaborator/store"
	pdfexport "convenios-backend/lib/export/pdf"
	filestorage "convenios-backend/lib/file-storage"
	"convenios-backend/lib/notify"
	"convenios-backend/lib/realtime"
	"convenios-backend/lib/settlement"
	"convenios-backend/lib/sla"
	"convenios-backend/lib/utils/lock"
	"convenios-backend/models"
	requestapimodels "convenios-backend/models/api/request"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	creditLockWait   = 10 * time.Second
	protocolAttempts = 5
)

var ErrForbidden = errors.New("операция недоступна")

type Provider interface {
	Create(data requestapimodels.CreateData) (id, hMsg string, err error)
	List(viewer requestapimodels.Viewer, filter requestapimodels.Filter) (list []requestapimodels.View, rowCount int64, err error)
	Get(viewer requestapimodels.Viewer, id string) (*requestapimodels.View, error)
	StartReview(viewer requestapimodels.Viewer, id string) (hMsg string, err error)
	Approve(ctx context.Context, viewer requestapimodels.Viewer, id string, data requestapimodels.ApproveData) (hMsg string, err error)
	Reject(viewer requestapimodels.Viewer, id string, data requestapimodels.RejectData) (hMsg string, err error)
	HrDecision(viewer requestapimodels.Viewer, id string, data requestapimodels.HrDecisionData) (hMsg string, err error)
	AddMessage(viewer requestapimodels.Viewer, id string, data requestapimodels.MessageData) (msgID, hMsg string, err error)
	ListMessages(viewer requestapimodels.Viewer, id string) ([]requestapimodels.MessageView, error)
	UploadAttachment(ctx context.Context, viewer requestapimodels.Viewer, id string, data []byte) (url, hMsg string, err error)
}

// CreditLedger лимиты сотрудников
type CreditLedger interface {
	GetByID(id string) (*dbmodels.CollaboratorProfile, error)
	UpdateCreditLimit(id string, expectedVersion int64, newLimit decimal.Decimal) (bool, error)
}

// SlaSource настройки SLA и праздники для бейджа в списке
type SlaSource interface {
	Table() (sla.ConfigTable, error)
	Holidays() (businesshours.HolidaySet, error)
}

var Instance Provider

func NewHandler(loc *time.Location) {
	Instance = impl{
		requests: requeststore.NewInstance(db.DB),
		messages: messagestore.NewInstance(db.DB),
		ledger:   collaboratorstore.NewInstance(db.DB),
		audit:    audithandler.Instance,
		sla:      sla.Instance,
		notify:   notify.Instance,
		files:    filestorage.Instance,
		loc:      loc,
		now:      time.Now,
	}
}

type impl struct {
	requests requeststore.Provider
	messages messagestore.Provider
	ledger   CreditLedger
	audit    audithandler.Provider
	sla      SlaSource
	notify   notify.Provider
	files    filestorage.Provider
	loc      *time.Location
	now      func() time.Time
}

func (i impl) getLogger(id string) *log.Entry {
	return log.WithField("request_id", id)
}

func (i impl) Create(data requestapimodels.CreateData) (id, hMsg string, err error) {
	if err = data.Validate(); err != nil {
		return "", err.Error(), nil
	}
	profile, err := i.ledger.GetByID(data.CollaboratorID)
	if err != nil {
		return "", "", err
	}
	if profile == nil {
		return "", "сотрудник не найден", nil
	}
	if !profile.IsActive() {
		return "", "сотрудник неактивен", nil
	}
	protocol, err := i.newProtocol()
	if err != nil {
		return "", "", err
	}
	rec := dbmodels.BenefitRequest{
		Protocol:          protocol,
		Category:          data.Category,
		Status:            models.RequestStatusOpen,
		Details:           data.Details,
		CollaboratorID:    data.CollaboratorID,
		TotalInstallments: 1,
	}
	if data.Category.RequiresHrApproval() {
		pending := models.HrStatusPending
		rec.HrStatus = &pending
	}
	id, err = i.requests.Create(rec)
	if err != nil {
		return "", "", err
	}
	i.getLogger(id).
		WithField("protocol", protocol).
		Info("заявка создана")
	return id, "", nil
}

// newProtocol YYYYMMDD-XXXXXX
func (i impl) newProtocol() (string, error) {
	date := i.now().In(i.loc).Format("20060102")
	for attempt := 0; attempt < protocolAttempts; attempt++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
		protocol := date + "-" + suffix
		exist, err := i.requests.ProtocolExist(protocol)
		if err != nil {
			return "", err
		}
		if !exist {
			return protocol, nil
		}
	}
	return "", errors.New("не удалось сгенерировать уникальный протокол")
}

func (i impl) List(viewer requestapimodels.Viewer, filter requestapimodels.Filter) (list []requestapimodels.View, rowCount int64, err error) {
	categories := viewer.FilterCategories(filter.Categories)
	if len(categories) == 0 {
		return []requestapimodels.View{}, 0, nil
	}
	recList, rowCount, err := i.requests.List(categories, viewer.Role.IsPrimaryReviewer(), filter)
	if err != nil {
		return nil, 0, err
	}
	table, holidays := i.slaData()
	now := i.now()
	list = make([]requestapimodels.View, 0, len(recList))
	for _, rec := range recList {
		list = append(list, i.convert(rec, table, holidays, now))
	}
	return list, rowCount, nil
}

func (i impl) Get(viewer requestapimodels.Viewer, id string) (*requestapimodels.View, error) {
	rec, err := i.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if err = checkAccess(viewer, *rec); err != nil {
		return nil, err
	}
	table, holidays := i.slaData()
	view := i.convert(*rec, table, holidays, i.now())
	return &view, nil
}

func (i impl) slaData() (sla.ConfigTable, businesshours.HolidaySet) {
	table, err := i.sla.Table()
	if err != nil {
		log.WithError(err).Error("ошибка получения настроек SLA")
		table = sla.ConfigTable{}
	}
	holidays, err := i.sla.Holidays()
	if err != nil {
		log.WithError(err).Error("ошибка получения праздников")
		holidays = businesshours.HolidaySet{}
	}
	return table, holidays
}

func (i impl) convert(rec dbmodels.BenefitRequest, table sla.ConfigTable, holidays businesshours.HolidaySet, now time.Time) requestapimodels.View {
	view := requestapimodels.Convert(rec)
	result := sla.Classify(sla.RequestClock{
		Category:  rec.Category,
		CreatedAt: rec.CreatedAt.In(i.loc),
		Status:    rec.Status,
	}, table, holidays, now.In(i.loc))
	view.Sla = requestapimodels.SlaBadge{
		Tier:    result.Tier,
		Elapsed: result.Elapsed,
		Hours:   result.Hours,
	}
	return view
}

// checkAccess категория доступна роли и заявка не скрыта до согласования HR
func checkAccess(viewer requestapimodels.Viewer, rec dbmodels.BenefitRequest) error {
	filter := realtime.NewFilterContext(viewer.Role, viewer.Categories)
	if !realtime.IsVisible(filter, rec.Category, rec.Status, rec.GetHrStatus()) {
		return ErrForbidden
	}
	return nil
}

// load заявка с проверкой доступа, hMsg если не найдена
func (i impl) load(viewer requestapimodels.Viewer, id string) (rec *dbmodels.BenefitRequest, hMsg string, err error) {
	rec, err = i.requests.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if rec == nil {
		return nil, "заявка не найдена", nil
	}
	if err = checkAccess(viewer, *rec); err != nil {
		return nil, "", err
	}
	return rec, "", nil
}

func (i impl) StartReview(viewer requestapimodels.Viewer, id string) (hMsg string, err error) {
	if !viewer.Role.CanDecide() {
		return "", ErrForbidden
	}
	_, hMsg, err = i.load(viewer, id)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	now := i.now()
	updated, err := i.requests.UpdateOnStatus(id, []models.RequestStatus{models.RequestStatusOpen}, map[string]interface{}{
		"status":      models.RequestStatusInReview,
		"reviewer_id": viewer.UserID,
		"reviewed_at": now,
	})
	if err != nil {
		return "", err
	}
	if !updated {
		return "заявка уже взята в работу или закрыта", nil
	}
	return "", nil
}

func (i impl) Approve(ctx context.Context, viewer requestapimodels.Viewer, id string, data requestapimodels.ApproveData) (hMsg string, err error) {
	if !viewer.Role.CanDecide() {
		return "", ErrForbidden
	}
	if err = data.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, hMsg, err := i.load(viewer, id)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	if rec.Status.IsClosed() {
		return "заявка уже закрыта", nil
	}
	if rec.Category.RequiresHrApproval() && rec.GetHrStatus() != models.HrStatusApproved {
		return "заявка ожидает согласования HR", nil
	}
	logger := i.getLogger(id).WithField("collaborator_id", rec.CollaboratorID)
	installment := settlement.ComputeStep(data.ApprovedValue, data.TotalInstallments, 0, decimal.Zero).Installment
	approvedAt := i.now()
	var profile *dbmodels.CollaboratorProfile
	var newLimit decimal.Decimal
	locked, err := lock.WithDelay(ctx, lock.CreditLockKey(rec.CollaboratorID), creditLockWait, func() error {
		profile, err = i.ledger.GetByID(rec.CollaboratorID)
		if err != nil {
			return err
		}
		if profile == nil {
			hMsg = "сотрудник не найден"
			return nil
		}
		if installment.GreaterThan(profile.CreditLimit) {
			hMsg = fmt.Sprintf("сумма платежа %v превышает доступный лимит сотрудника %v", installment.StringFixed(2), profile.CreditLimit.StringFixed(2))
			return nil
		}
		newLimit = profile.CreditLimit.Sub(installment)
		updated, err := i.ledger.UpdateCreditLimit(profile.ID, profile.Version, newLimit)
		if err != nil {
			return err
		}
		if !updated {
			hMsg = "лимит сотрудника изменен другой операцией, повторите"
			return nil
		}
		closed, err := i.requests.UpdateOnStatus(id, []models.RequestStatus{models.RequestStatusOpen, models.RequestStatusInReview}, map[string]interface{}{
			"status":             models.RequestStatusApproved,
			"approved_value":     data.ApprovedValue,
			"total_installments": data.TotalInstallments,
			"paid_installments":  0,
			"closing_message":    data.ClosingMessage,
			"closed_at":          approvedAt,
			"reviewer_id":        viewer.UserID,
			"reviewed_at":        approvedAt,
		})
		if err == nil && closed {
			return nil
		}
		_, compErr := i.ledger.UpdateCreditLimit(profile.ID, profile.Version+1, profile.CreditLimit)
		if compErr != nil {
			logger.WithError(compErr).Error("не удалось вернуть лимит сотрудника после ошибки одобрения")
		}
		if err != nil {
			return err
		}
		hMsg = "заявка уже закрыта"
		return nil
	})
	if err != nil {
		return "", err
	}
	if !locked {
		return "лимит сотрудника изменяется другой операцией, повторите позже", nil
	}
	if hMsg != "" {
		return hMsg, nil
	}

	approved := data.ApprovedValue
	i.audit.Log(models.AuditRequestApproved, models.AuditEntityRequest, id, viewer.UserID,
		dbmodels.NewDecisionDetails(dbmodels.DecisionDetails{
			Protocol:          rec.Protocol,
			Status:            models.RequestStatusApproved,
			HrStatus:          rec.GetHrStatus(),
			ApprovedValue:     &approved,
			TotalInstallments: data.TotalInstallments,
		}))
	i.audit.Log(models.AuditCreditLimitChanged, models.AuditEntityCollaborator, profile.ID, viewer.UserID,
		dbmodels.NewCreditChangeDetails(dbmodels.CreditChangeDetails{
			CollaboratorID: profile.ID,
			OldLimit:       profile.CreditLimit,
			NewLimit:       newLimit,
			Reason:         "одобрение заявки " + rec.Protocol,
		}))
	logger.
		WithField("installment", installment.String()).
		Info("заявка одобрена")

	i.notify.SendAsync(notify.Message{
		Protocol: rec.Protocol,
		Status:   models.RequestStatusApproved,
		Phone:    profile.Phone,
		Message:  data.ClosingMessage,
	})
	i.attachApprovalTerm(ctx, *rec, *profile, data, installment, approvedAt)
	return "", nil
}

// attachApprovalTerm ошибки только логируются, заявка уже одобрена
func (i impl) attachApprovalTerm(ctx context.Context, rec dbmodels.BenefitRequest, profile dbmodels.CollaboratorProfile, data requestapimodels.ApproveData, installment decimal.Decimal, approvedAt time.Time) {
	if i.files == nil {
		return
	}
	logger := i.getLogger(rec.ID)
	pdf, err := pdfexport.GenerateApprovalTerm(pdfexport.ApprovalTerm{
		Protocol:          rec.Protocol,
		CollaboratorName:  profile.Name,
		TaxID:             profile.TaxID,
		UnitName:          profile.GetUnitName(),
		Category:          rec.Category.ToHuman(),
		ApprovedValue:     data.ApprovedValue,
		TotalInstallments: data.TotalInstallments,
		InstallmentValue:  installment,
		ClosingMessage:    data.ClosingMessage,
		ApprovedAt:        approvedAt.In(i.loc),
	})
	if err != nil {
		logger.WithError(err).Error("ошибка формирования документа об одобрении")
		return
	}
	url, err := i.files.Upload(ctx, filestorage.RequestDocKey(rec.ID), pdf, filestorage.ContentTypePdf)
	if err != nil {
		logger.WithError(err).Error("ошибка загрузки документа об одобрении")
		return
	}
	err = i.requests.Update(rec.ID, map[string]interface{}{"attachment_url": url})
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения ссылки на документ об одобрении")
	}
}

func (i impl) Reject(viewer requestapimodels.Viewer, id string, data requestapimodels.RejectData) (hMsg string, err error) {
	if !viewer.Role.CanDecide() {
		return "", ErrForbidden
	}
	if err = data.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, hMsg, err := i.load(viewer, id)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	if rec.Status.IsClosed() {
		return "заявка уже закрыта", nil
	}
	now := i.now()
	updated, err := i.requests.UpdateOnStatus(id, []models.RequestStatus{models.RequestStatusOpen, models.RequestStatusInReview}, map[string]interface{}{
		"status":           models.RequestStatusRejected,
		"rejection_reason": data.Reason,
		"closed_at":        now,
		"reviewer_id":      viewer.UserID,
		"reviewed_at":      now,
	})
	if err != nil {
		return "", err
	}
	if !updated {
		return "заявка уже закрыта", nil
	}
	i.audit.Log(models.AuditRequestRejected, models.AuditEntityRequest, id, viewer.UserID,
		dbmodels.NewDecisionDetails(dbmodels.DecisionDetails{
			Protocol: rec.Protocol,
			Status:   models.RequestStatusRejected,
			HrStatus: rec.GetHrStatus(),
			Reason:   data.Reason,
		}))
	i.getLogger(id).Info("заявка отклонена")
	i.notifyRejected(*rec, data.Reason)
	return "", nil
}

func (i impl) notifyRejected(rec dbmodels.BenefitRequest, reason string) {
	phone := ""
	if rec.Collaborator != nil {
		phone = rec.Collaborator.Phone
	}
	i.notify.SendAsync(notify.Message{
		Protocol: rec.Protocol,
		Status:   models.RequestStatusRejected,
		Phone:    phone,
		Reason:   reason,
	})
}

func (i impl) HrDecision(viewer requestapimodels.Viewer, id string, data requestapimodels.HrDecisionData) (hMsg string, err error) {
	if viewer.Role != models.HrApproverRole {
		return "", ErrForbidden
	}
	if err = data.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, hMsg, err := i.load(viewer, id)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	if !rec.Category.RequiresHrApproval() {
		return "категория заявки не требует согласования HR", nil
	}
	if rec.Status.IsClosed() {
		return "заявка уже закрыта", nil
	}
	if rec.GetHrStatus() != models.HrStatusPending && rec.GetHrStatus() != "" {
		return "решение HR по заявке уже принято", nil
	}
	now := i.now()
	updMap := map[string]interface{}{
		"hr_status":      models.HrStatusApproved,
		"hr_reviewer_id": viewer.UserID,
		"hr_reviewed_at": now,
	}
	status := rec.Status
	if !data.Approve {
		status = models.RequestStatusRejected
		updMap["hr_status"] = models.HrStatusRejected
		updMap["status"] = models.RequestStatusRejected
		updMap["rejection_reason"] = data.Reason
		updMap["closed_at"] = now
	}
	updated, err := i.requests.UpdateOnStatus(id, []models.RequestStatus{models.RequestStatusOpen, models.RequestStatusInReview}, updMap)
	if err != nil {
		return "", err
	}
	if !updated {
		return "заявка уже закрыта", nil
	}
	i.audit.Log(models.AuditHrDecision, models.AuditEntityRequest, id, viewer.UserID,
		dbmodels.NewDecisionDetails(dbmodels.DecisionDetails{
			Protocol: rec.Protocol,
			Status:   status,
			HrStatus: updMap["hr_status"].(models.HrStatus),
			Reason:   data.Reason,
		}))
	i.getLogger(id).
		WithField("approve", data.Approve).
		Info("решение HR по заявке")
	if !data.Approve {
		i.notifyRejected(*rec, data.Reason)
	}
	return "", nil
}

func (i impl) AddMessage(viewer requestapimodels.Viewer, id string, data requestapimodels.MessageData) (msgID, hMsg string, err error) {
	if err = data.Validate(); err != nil {
		return "", err.Error(), nil
	}
	_, hMsg, err = i.load(viewer, id)
	if err != nil || hMsg != "" {
		return "", hMsg, err
	}
	msgID, err = i.messages.Create(dbmodels.RequestMessage{
		RequestID:  id,
		AuthorID:   viewer.UserID,
		AuthorName: viewer.UserName,
		Text:       data.Text,
	})
	if err != nil {
		return "", "", err
	}
	return msgID, "", nil
}

func (i impl) ListMessages(viewer requestapimodels.Viewer, id string) ([]requestapimodels.MessageView, error) {
	rec, _, err := i.load(viewer, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	recList, err := i.messages.List(id)
	if err != nil {
		return nil, err
	}
	result := make([]requestapimodels.MessageView, 0, len(recList))
	for _, msg := range recList {
		result = append(result, requestapimodels.MessageConvert(msg))
	}
	return result, nil
}

func (i impl) UploadAttachment(ctx context.Context, viewer requestapimodels.Viewer, id string, data []byte) (url, hMsg string, err error) {
	if !viewer.Role.CanDecide() {
		return "", "", ErrForbidden
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", "допускаются только файлы PDF", nil
	}
	_, hMsg, err = i.load(viewer, id)
	if err != nil || hMsg != "" {
		return "", hMsg, err
	}
	if i.files == nil {
		return "", "", errors.New("хранилище файлов не настроено")
	}
	url, err = i.files.Upload(ctx, filestorage.RequestDocKey(id), data, filestorage.ContentTypePdf)
	if err != nil {
		return "", "", err
	}
	err = i.requests.Update(id, map[string]interface{}{"attachment_url": url})
	if err != nil {
		return "", "", err
	}
	i.getLogger(id).Info("документ заявки загружен")
	return url, "", nil
}
