package requesthandler

import (
	"context"
	businesshours "convenios-backend/lib/business-hours"
	"convenios-backend/lib/notify"
	"convenios-backend/lib/sla"
	"convenios-backend/models"
	auditapimodels "convenios-backend/models/api/audit"
	requestapimodels "convenios-backend/models/api/request"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRequests struct {
	items         map[string]*dbmodels.BenefitRequest
	seq           int
	listCalls     int
	staleStatuses bool
}

func (f *fakeRequests) Create(rec dbmodels.BenefitRequest) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	f.seq++
	rec.ID = fmt.Sprintf("req-%v", f.seq)
	f.items[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeRequests) GetByID(id string) (*dbmodels.BenefitRequest, error) {
	rec, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeRequests) ProtocolExist(protocol string) (bool, error) {
	for _, rec := range f.items {
		if rec.Protocol == protocol {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequests) CountByCollaborator(collaboratorID string) (int64, error) {
	return 0, nil
}

func (f *fakeRequests) List(categories []models.RequestCategory, primaryReviewer bool, filter requestapimodels.Filter) ([]dbmodels.BenefitRequest, int64, error) {
	f.listCalls++
	list := []dbmodels.BenefitRequest{}
	for _, rec := range f.items {
		for _, category := range categories {
			if rec.Category == category {
				list = append(list, *rec)
			}
		}
	}
	return list, int64(len(list)), nil
}

func (f *fakeRequests) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	apply(rec, updMap)
	return nil
}

func (f *fakeRequests) UpdateOnStatus(id string, statuses []models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.items[id]
	if !ok || f.staleStatuses {
		return false, nil
	}
	for _, status := range statuses {
		if rec.Status == status {
			apply(rec, updMap)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequests) ListSettlementPage(cycle string, afterCreatedAt time.Time, afterID string, limit int) ([]dbmodels.BenefitRequest, error) {
	return nil, nil
}

func (f *fakeRequests) MarkInstallmentPaid(id string, oldPaid, newPaid int, cycle string) (bool, error) {
	return false, nil
}

func apply(rec *dbmodels.BenefitRequest, updMap map[string]interface{}) {
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.RequestStatus)
		case "hr_status":
			hrStatus := value.(models.HrStatus)
			rec.HrStatus = &hrStatus
		case "approved_value":
			rec.ApprovedValue = decimal.NewNullDecimal(value.(decimal.Decimal))
		case "total_installments":
			rec.TotalInstallments = value.(int)
		case "paid_installments":
			rec.PaidInstallments = value.(int)
		case "rejection_reason":
			rec.RejectionReason = value.(string)
		case "closing_message":
			rec.ClosingMessage = value.(string)
		case "attachment_url":
			rec.AttachmentURL = value.(string)
		case "closed_at":
			closedAt := value.(time.Time)
			rec.ClosedAt = &closedAt
		}
	}
}

type fakeMessages struct {
	items []dbmodels.RequestMessage
}

func (f *fakeMessages) Create(rec dbmodels.RequestMessage) (string, error) {
	rec.ID = fmt.Sprintf("msg-%v", len(f.items)+1)
	f.items = append(f.items, rec)
	return rec.ID, nil
}

func (f *fakeMessages) List(requestID string) ([]dbmodels.RequestMessage, error) {
	result := []dbmodels.RequestMessage{}
	for _, rec := range f.items {
		if rec.RequestID == requestID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type fakeLedger struct {
	profiles  map[string]*dbmodels.CollaboratorProfile
	conflicts int
}

func (f *fakeLedger) GetByID(id string) (*dbmodels.CollaboratorProfile, error) {
	rec, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeLedger) UpdateCreditLimit(id string, expectedVersion int64, newLimit decimal.Decimal) (bool, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return false, nil
	}
	rec, ok := f.profiles[id]
	if !ok || rec.Version != expectedVersion {
		return false, nil
	}
	rec.CreditLimit = newLimit
	rec.Version++
	return true, nil
}

type fakeAudit struct {
	entries []dbmodels.AuditLog
}

func (f *fakeAudit) Log(action models.AuditAction, entityType models.AuditEntity, entityID, actorID string, details dbmodels.AuditDetails) {
	_ = f.Write(action, entityType, entityID, actorID, details)
}

func (f *fakeAudit) Write(action models.AuditAction, entityType models.AuditEntity, entityID, actorID string, details dbmodels.AuditDetails) error {
	f.entries = append(f.entries, dbmodels.AuditLog{Action: action, EntityType: entityType, EntityID: entityID, ActorID: actorID, Details: details})
	return nil
}

func (f *fakeAudit) List(filter auditapimodels.Filter) ([]auditapimodels.View, int64, error) {
	return nil, 0, nil
}

type fakeSla struct {
	table sla.ConfigTable
}

func (f fakeSla) Table() (sla.ConfigTable, error) {
	return f.table, nil
}

func (f fakeSla) Holidays() (businesshours.HolidaySet, error) {
	return businesshours.HolidaySet{}, nil
}

type fakeNotify struct {
	sent []notify.Message
}

func (f *fakeNotify) Send(ctx context.Context, msg notify.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeNotify) SendAsync(msg notify.Message) {
	f.sent = append(f.sent, msg)
}

type fakeFiles struct {
	uploaded map[string][]byte
}

func (f *fakeFiles) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	f.uploaded[objectKey] = data
	return "http://files.local/" + objectKey, nil
}

type testEnv struct {
	requests *fakeRequests
	messages *fakeMessages
	ledger   *fakeLedger
	audit    *fakeAudit
	notify   *fakeNotify
	files    *fakeFiles
	handler  impl
}

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	env := &testEnv{
		requests: &fakeRequests{items: map[string]*dbmodels.BenefitRequest{}},
		messages: &fakeMessages{},
		ledger: &fakeLedger{profiles: map[string]*dbmodels.CollaboratorProfile{
			"c1": {BaseModel: dbmodels.BaseModel{ID: "c1"}, Name: "Maria Silva", TaxID: "12345678901", Phone: "5511999990000", CreditLimit: decimal.NewFromInt(1000), Version: 1, Status: models.CollaboratorActive},
			"c2": {BaseModel: dbmodels.BaseModel{ID: "c2"}, Name: "João Souza", TaxID: "10987654321", CreditLimit: decimal.NewFromInt(500), Version: 1, Status: models.CollaboratorDismissed},
		}},
		audit:  &fakeAudit{},
		notify: &fakeNotify{},
		files:  &fakeFiles{uploaded: map[string][]byte{}},
	}
	env.handler = impl{
		requests: env.requests,
		messages: env.messages,
		ledger:   env.ledger,
		audit:    env.audit,
		sla:      fakeSla{table: sla.ConfigTable{}},
		notify:   env.notify,
		files:    env.files,
		loc:      time.UTC,
		now:      func() time.Time { return baseTime },
	}
	return env
}

func (e *testEnv) addRequest(id string, category models.RequestCategory, status models.RequestStatus) *dbmodels.BenefitRequest {
	rec := &dbmodels.BenefitRequest{
		BaseModel:         dbmodels.BaseModel{ID: id, CreatedAt: baseTime.Add(-time.Hour)},
		Protocol:          "20250310-" + id,
		Category:          category,
		Status:            status,
		CollaboratorID:    "c1",
		Collaborator:      e.ledger.profiles["c1"],
		TotalInstallments: 1,
	}
	if category.RequiresHrApproval() {
		pending := models.HrStatusPending
		rec.HrStatus = &pending
	}
	e.requests.items[id] = rec
	return rec
}

func viewer(role models.UserRole) requestapimodels.Viewer {
	categories := models.AllCategories()
	if role == models.HrApproverRole {
		categories = []models.RequestCategory{models.CategorySalaryAdvance}
	}
	return requestapimodels.Viewer{UserID: "user-" + string(role), UserName: "Test " + string(role), Role: role, Categories: categories}
}

func TestCreate(t *testing.T) {
	t.Run(`new request check`, func(t *testing.T) {
		env := newTestEnv()
		id, hMsg, err := env.handler.Create(requestapimodels.CreateData{CollaboratorID: "c1", Category: models.CategoryDental, Details: "limpeza"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		rec := env.requests.items[id]
		require.Regexp(t, regexp.MustCompile(`^20250310-[0-9A-F]{6}$`), rec.Protocol)
		require.Equal(t, models.RequestStatusOpen, rec.Status)
		require.Nil(t, rec.HrStatus)
	})
	t.Run(`hr gated category check`, func(t *testing.T) {
		env := newTestEnv()
		id, hMsg, err := env.handler.Create(requestapimodels.CreateData{CollaboratorID: "c1", Category: models.CategorySalaryAdvance})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.HrStatusPending, env.requests.items[id].GetHrStatus())
	})
	t.Run(`collaborator missing or inactive check`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Create(requestapimodels.CreateData{CollaboratorID: "missing", Category: models.CategoryDental})
		require.NoError(t, err)
		require.Equal(t, "сотрудник не найден", hMsg)
		_, hMsg, err = env.handler.Create(requestapimodels.CreateData{CollaboratorID: "c2", Category: models.CategoryDental})
		require.NoError(t, err)
		require.Equal(t, "сотрудник неактивен", hMsg)
	})
	t.Run(`unknown category check`, func(t *testing.T) {
		env := newTestEnv()
		_, hMsg, err := env.handler.Create(requestapimodels.CreateData{CollaboratorID: "c1", Category: "casino"})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Empty(t, env.requests.items)
	})
}

func TestListAndGet(t *testing.T) {
	t.Run(`categories limited by role check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		env.addRequest("r2", models.CategorySalaryAdvance, models.RequestStatusOpen)

		list, rowCount, err := env.handler.List(viewer(models.HrApproverRole), requestapimodels.Filter{})
		require.NoError(t, err)
		require.EqualValues(t, 1, rowCount)
		require.Equal(t, "r2", list[0].ID)
		require.Equal(t, "Maria Silva", list[0].CollaboratorName)
		require.Equal(t, models.SlaNoConfig, list[0].Sla.Tier)

		list, _, err = env.handler.List(viewer(models.HrApproverRole), requestapimodels.Filter{Categories: []models.RequestCategory{models.CategoryDental}})
		require.NoError(t, err)
		require.Empty(t, list)
		require.Equal(t, 1, env.requests.listCalls)
	})
	t.Run(`sla badge check`, func(t *testing.T) {
		env := newTestEnv()
		env.handler.sla = fakeSla{table: sla.ConfigTable{
			models.CategoryDental: {Category: models.CategoryDental, GreenHours: 4, YellowHours: 8, Unit: models.ThresholdHours},
		}}
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		closed := env.addRequest("r2", models.CategoryDental, models.RequestStatusRejected)
		closed.ClosedAt = &baseTime

		view, err := env.handler.Get(viewer(models.ReviewerRole), "r1")
		require.NoError(t, err)
		require.Equal(t, models.SlaOnTime, view.Sla.Tier)

		view, err = env.handler.Get(viewer(models.ReviewerRole), "r2")
		require.NoError(t, err)
		require.Equal(t, models.SlaNotApplicable, view.Sla.Tier)
	})
	t.Run(`sla hours use business time zone check`, func(t *testing.T) {
		env := newTestEnv()
		loc, err := time.LoadLocation("America/Sao_Paulo")
		require.NoError(t, err)
		env.handler.loc = loc
		env.handler.sla = fakeSla{table: sla.ConfigTable{
			models.CategoryDental: {Category: models.CategoryDental, GreenHours: 4, YellowHours: 8, Unit: models.ThresholdHours},
		}}
		// суббота 09:00 и 11:00 по Сан-Паулу, из базы время приходит в UTC
		now := time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)
		env.handler.now = func() time.Time { return now }
		rec := env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		rec.CreatedAt = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

		view, err := env.handler.Get(viewer(models.ReviewerRole), "r1")
		require.NoError(t, err)
		require.Equal(t, 2.0, view.Sla.Hours)
		require.Equal(t, models.SlaOnTime, view.Sla.Tier)

		list, _, err := env.handler.List(viewer(models.ReviewerRole), requestapimodels.Filter{})
		require.NoError(t, err)
		require.Equal(t, 2.0, list[0].Sla.Hours)
	})

	t.Run(`pending hr request hidden from reviewer check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategorySalaryAdvance, models.RequestStatusOpen)
		_, err := env.handler.Get(viewer(models.ReviewerRole), "r1")
		require.ErrorIs(t, err, ErrForbidden)

		view, err := env.handler.Get(viewer(models.HrApproverRole), "r1")
		require.NoError(t, err)
		require.Equal(t, "r1", view.ID)

		view, err = env.handler.Get(viewer(models.HrApproverRole), "missing")
		require.NoError(t, err)
		require.Nil(t, view)
	})
}

func TestStartReview(t *testing.T) {
	env := newTestEnv()
	env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
	hMsg, err := env.handler.StartReview(viewer(models.ReviewerRole), "r1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.RequestStatusInReview, env.requests.items["r1"].Status)

	hMsg, err = env.handler.StartReview(viewer(models.ReviewerRole), "r1")
	require.NoError(t, err)
	require.NotEmpty(t, hMsg)

	_, err = env.handler.StartReview(viewer(models.ViewerRole), "r1")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestApprove(t *testing.T) {
	approveData := requestapimodels.ApproveData{
		ApprovedValue:     decimal.NewFromInt(1200),
		TotalInstallments: 3,
		ClosingMessage:    "Aprovado",
	}
	t.Run(`approval reserves first installment check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategoryDental, models.RequestStatusInReview)
		hMsg, err := env.handler.Approve(context.Background(), viewer(models.ReviewerRole), "r1", approveData)
		require.NoError(t, err)
		require.Empty(t, hMsg)

		rec := env.requests.items["r1"]
		require.Equal(t, models.RequestStatusApproved, rec.Status)
		require.True(t, rec.ApprovedValue.Decimal.Equal(decimal.NewFromInt(1200)))
		require.Equal(t, 3, rec.TotalInstallments)
		require.Equal(t, 0, rec.PaidInstallments)
		require.NotNil(t, rec.ClosedAt)

		profile := env.ledger.profiles["c1"]
		require.True(t, profile.CreditLimit.Equal(decimal.NewFromInt(600)), profile.CreditLimit.String())
		require.EqualValues(t, 2, profile.Version)

		require.Len(t, env.audit.entries, 2)
		require.Equal(t, models.AuditRequestApproved, env.audit.entries[0].Action)
		require.Equal(t, models.AuditCreditLimitChanged, env.audit.entries[1].Action)

		require.Len(t, env.notify.sent, 1)
		require.Equal(t, "5511999990000", env.notify.sent[0].Phone)
		require.Equal(t, models.RequestStatusApproved, env.notify.sent[0].Status)

		require.Len(t, env.files.uploaded, 1)
		require.Contains(t, rec.AttachmentURL, "http://files.local/requests/r1/")
	})
	t.Run(`installment above limit check`, func(t *testing.T) {
		env := newTestEnv()
		env.ledger.profiles["c1"].CreditLimit = decimal.NewFromInt(300)
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		hMsg, err := env.handler.Approve(context.Background(), viewer(models.ReviewerRole), "r1", approveData)
		require.NoError(t, err)
		require.Contains(t, hMsg, "превышает")
		require.Equal(t, models.RequestStatusOpen, env.requests.items["r1"].Status)
		require.True(t, env.ledger.profiles["c1"].CreditLimit.Equal(decimal.NewFromInt(300)))
		require.Empty(t, env.audit.entries)
		require.Empty(t, env.notify.sent)
	})
	t.Run(`limit changed concurrently check`, func(t *testing.T) {
		env := newTestEnv()
		env.ledger.conflicts = 1
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		hMsg, err := env.handler.Approve(context.Background(), viewer(models.ReviewerRole), "r1", approveData)
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Equal(t, models.RequestStatusOpen, env.requests.items["r1"].Status)
		require.True(t, env.ledger.profiles["c1"].CreditLimit.Equal(decimal.NewFromInt(1000)))
	})
	t.Run(`request closed concurrently limit restored check`, func(t *testing.T) {
		env := newTestEnv()
		env.requests.staleStatuses = true
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		hMsg, err := env.handler.Approve(context.Background(), viewer(models.ReviewerRole), "r1", approveData)
		require.NoError(t, err)
		require.Equal(t, "заявка уже закрыта", hMsg)
		profile := env.ledger.profiles["c1"]
		require.True(t, profile.CreditLimit.Equal(decimal.NewFromInt(1000)), profile.CreditLimit.String())
		require.EqualValues(t, 3, profile.Version)
		require.Empty(t, env.audit.entries)
	})
	t.Run(`closed request check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategoryDental, models.RequestStatusRejected)
		hMsg, err := env.handler.Approve(context.Background(), viewer(models.ReviewerRole), "r1", approveData)
		require.NoError(t, err)
		require.Equal(t, "заявка уже закрыта", hMsg)
	})
	t.Run(`invalid data check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		hMsg, err := env.handler.Approve(context.Background(), viewer(models.ReviewerRole), "r1", requestapimodels.ApproveData{ApprovedValue: decimal.Zero, TotalInstallments: 1})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run(`hr approver cannot approve check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategorySalaryAdvance, models.RequestStatusOpen)
		_, err := env.handler.Approve(context.Background(), viewer(models.HrApproverRole), "r1", approveData)
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestReject(t *testing.T) {
	t.Run(`missing reason check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		hMsg, err := env.handler.Reject(viewer(models.ReviewerRole), "r1", requestapimodels.RejectData{})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Equal(t, models.RequestStatusOpen, env.requests.items["r1"].Status)
	})
	t.Run(`rejection check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
		hMsg, err := env.handler.Reject(viewer(models.ReviewerRole), "r1", requestapimodels.RejectData{Reason: "sem saldo"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		rec := env.requests.items["r1"]
		require.Equal(t, models.RequestStatusRejected, rec.Status)
		require.Equal(t, "sem saldo", rec.RejectionReason)
		require.Len(t, env.audit.entries, 1)
		require.Equal(t, models.AuditRequestRejected, env.audit.entries[0].Action)
		require.Len(t, env.notify.sent, 1)
		require.Equal(t, "sem saldo", env.notify.sent[0].Reason)
	})
}

func TestHrDecision(t *testing.T) {
	t.Run(`hr approver only check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategorySalaryAdvance, models.RequestStatusOpen)
		_, err := env.handler.HrDecision(viewer(models.ReviewerRole), "r1", requestapimodels.HrDecisionData{Approve: true})
		require.ErrorIs(t, err, ErrForbidden)
		require.Equal(t, models.HrStatusPending, env.requests.items["r1"].GetHrStatus())
	})
	t.Run(`hr approval opens request to reviewers check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategorySalaryAdvance, models.RequestStatusOpen)
		hMsg, err := env.handler.HrDecision(viewer(models.HrApproverRole), "r1", requestapimodels.HrDecisionData{Approve: true})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.HrStatusApproved, env.requests.items["r1"].GetHrStatus())
		require.Equal(t, models.RequestStatusOpen, env.requests.items["r1"].Status)

		view, err := env.handler.Get(viewer(models.ReviewerRole), "r1")
		require.NoError(t, err)
		require.Equal(t, "r1", view.ID)

		hMsg, err = env.handler.HrDecision(viewer(models.HrApproverRole), "r1", requestapimodels.HrDecisionData{Approve: true})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run(`hr rejection closes request check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategorySalaryAdvance, models.RequestStatusOpen)
		hMsg, err := env.handler.HrDecision(viewer(models.HrApproverRole), "r1", requestapimodels.HrDecisionData{Reason: "fora da política"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		rec := env.requests.items["r1"]
		require.Equal(t, models.HrStatusRejected, rec.GetHrStatus())
		require.Equal(t, models.RequestStatusRejected, rec.Status)
		require.Equal(t, "fora da política", rec.RejectionReason)
		require.Len(t, env.notify.sent, 1)
		require.Equal(t, models.AuditHrDecision, env.audit.entries[0].Action)
	})
	t.Run(`rejection without reason check`, func(t *testing.T) {
		env := newTestEnv()
		env.addRequest("r1", models.CategorySalaryAdvance, models.RequestStatusOpen)
		hMsg, err := env.handler.HrDecision(viewer(models.HrApproverRole), "r1", requestapimodels.HrDecisionData{})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestMessages(t *testing.T) {
	env := newTestEnv()
	env.addRequest("r1", models.CategoryDental, models.RequestStatusRejected)
	msgID, hMsg, err := env.handler.AddMessage(viewer(models.ReviewerRole), "r1", requestapimodels.MessageData{Text: "Olá"})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.NotEmpty(t, msgID)

	list, err := env.handler.ListMessages(viewer(models.ReviewerRole), "r1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Test REVIEWER", list[0].AuthorName)

	_, hMsg, err = env.handler.AddMessage(viewer(models.ReviewerRole), "missing", requestapimodels.MessageData{Text: "Olá"})
	require.NoError(t, err)
	require.Equal(t, "заявка не найдена", hMsg)
}

func TestUploadAttachment(t *testing.T) {
	env := newTestEnv()
	env.addRequest("r1", models.CategoryDental, models.RequestStatusOpen)
	_, hMsg, err := env.handler.UploadAttachment(context.Background(), viewer(models.ReviewerRole), "r1", []byte("not a pdf"))
	require.NoError(t, err)
	require.NotEmpty(t, hMsg)

	url, hMsg, err := env.handler.UploadAttachment(context.Background(), viewer(models.ReviewerRole), "r1", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Regexp(t, regexp.MustCompile(`^http://files\.local/requests/r1/[0-9a-f-]+\.pdf$`), url)
	require.Equal(t, url, env.requests.items["r1"].AttachmentURL)
}
