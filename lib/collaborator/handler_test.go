package collaboratorhandler

import (
	"context"
	"convenios-backend/models"
	auditapimodels "convenios-backend/models/api/audit"
	collaboratorapimodels "convenios-backend/models/api/collaborator"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	profiles     map[string]*dbmodels.CollaboratorProfile
	seq          int
	rejectCredit bool
}

func (f *fakeStore) Create(rec dbmodels.CollaboratorProfile) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	f.seq++
	rec.ID = fmt.Sprintf("new-%v", f.seq)
	rec.Version = 1
	f.profiles[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.CollaboratorProfile, error) {
	rec, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeStore) GetByTaxID(taxID string) (*dbmodels.CollaboratorProfile, error) {
	for _, rec := range f.profiles {
		if rec.TaxID == taxID {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(filter collaboratorapimodels.Filter) ([]dbmodels.CollaboratorProfile, int64, error) {
	list := []dbmodels.CollaboratorProfile{}
	for _, rec := range f.profiles {
		list = append(list, *rec)
	}
	return list, int64(len(list)), nil
}

func (f *fakeStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	if name, ok := updMap["name"].(string); ok {
		rec.Name = name
	}
	if phone, ok := updMap["phone"].(string); ok {
		rec.Phone = phone
	}
	if unitID, ok := updMap["unit_id"].(string); ok {
		rec.UnitID = &unitID
	}
	return nil
}

func (f *fakeStore) Delete(id string) error {
	delete(f.profiles, id)
	return nil
}

func (f *fakeStore) UpdateCreditLimit(id string, expectedVersion int64, newLimit decimal.Decimal) (bool, error) {
	rec, ok := f.profiles[id]
	if !ok || rec.Version != expectedVersion || f.rejectCredit {
		return false, nil
	}
	rec.CreditLimit = newLimit
	rec.Version++
	return true, nil
}

type fakeUnits struct {
	units map[string]string
}

func (f *fakeUnits) GetOrCreate(name string) (string, error) {
	if id, ok := f.units[name]; ok {
		return id, nil
	}
	id := "unit-" + name
	f.units[name] = id
	return id, nil
}

func (f *fakeUnits) List() ([]dbmodels.Unit, error) {
	return nil, nil
}

type fakeCounter map[string]int64

func (f fakeCounter) CountByCollaborator(collaboratorID string) (int64, error) {
	return f[collaboratorID], nil
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

func newTestHandler() (impl, *fakeStore, *fakeAudit, fakeCounter) {
	store := &fakeStore{profiles: map[string]*dbmodels.CollaboratorProfile{
		"c1": {
			BaseModel:   dbmodels.BaseModel{ID: "c1"},
			Name:        "Ana",
			TaxID:       "12345678900",
			CreditLimit: decimal.NewFromInt(500),
			Version:     3,
		},
	}}
	audit := &fakeAudit{}
	counter := fakeCounter{}
	return impl{
		store:     store,
		unitStore: &fakeUnits{units: map[string]string{}},
		requests:  counter,
		audit:     audit,
	}, store, audit, counter
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	limit := decimal.NewFromInt(800)

	t.Run(`limit change with current version check`, func(t *testing.T) {
		h, store, audit, _ := newTestHandler()
		hMsg, err := h.Update(ctx, "admin", "c1", collaboratorapimodels.EditData{Name: "Ana Maria", CreditLimit: &limit, Version: 3})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.True(t, limit.Equal(store.profiles["c1"].CreditLimit))
		require.Equal(t, int64(4), store.profiles["c1"].Version)
		require.Equal(t, "Ana Maria", store.profiles["c1"].Name)
		require.Len(t, audit.entries, 1)
		require.Equal(t, models.AuditCreditLimitChanged, audit.entries[0].Action)
		require.True(t, decimal.NewFromInt(500).Equal(audit.entries[0].Details.CreditChange.OldLimit))
	})
	t.Run(`stale version check`, func(t *testing.T) {
		h, store, audit, _ := newTestHandler()
		hMsg, err := h.Update(ctx, "admin", "c1", collaboratorapimodels.EditData{Name: "Ana Maria", CreditLimit: &limit, Version: 2})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.True(t, decimal.NewFromInt(500).Equal(store.profiles["c1"].CreditLimit))
		require.Equal(t, "Ana", store.profiles["c1"].Name)
		require.Empty(t, audit.entries)
	})
	t.Run(`version ignored without limit change check`, func(t *testing.T) {
		h, store, audit, _ := newTestHandler()
		hMsg, err := h.Update(ctx, "admin", "c1", collaboratorapimodels.EditData{Name: "Ana Maria", Phone: "123"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "123", store.profiles["c1"].Phone)
		require.Empty(t, audit.entries)
	})
	t.Run(`negative limit check`, func(t *testing.T) {
		h, _, _, _ := newTestHandler()
		negative := decimal.NewFromInt(-1)
		hMsg, err := h.Update(ctx, "admin", "c1", collaboratorapimodels.EditData{Name: "Ana", CreditLimit: &negative, Version: 3})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
	t.Run(`collaborator not found check`, func(t *testing.T) {
		h, _, _, _ := newTestHandler()
		hMsg, err := h.Update(ctx, "admin", "unknown", collaboratorapimodels.EditData{Name: "Ana"})
		require.NoError(t, err)
		require.Equal(t, "сотрудник не найден", hMsg)
	})
}

func TestDelete(t *testing.T) {
	t.Run(`delete with audit check`, func(t *testing.T) {
		h, store, audit, _ := newTestHandler()
		hMsg, err := h.Delete("admin", "c1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.NotContains(t, store.profiles, "c1")
		require.Len(t, audit.entries, 1)
		require.Equal(t, "Ana", audit.entries[0].Details.Deletion.Name)
	})
	t.Run(`has requests check`, func(t *testing.T) {
		h, store, audit, counter := newTestHandler()
		counter["c1"] = 2
		hMsg, err := h.Delete("admin", "c1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
		require.Contains(t, store.profiles, "c1")
		require.Empty(t, audit.entries)
	})
}

func TestImport(t *testing.T) {
	h, store, audit, _ := newTestHandler()
	data := []byte("name;tax_id;unit;credit_limit\n" +
		"Ana Maria;123.456.789-00;Loja 1;900\n" +
		"Bruno;98765432100;Loja 1;100,50\n" +
		"Sem CPF;;;\n")
	result, hMsg, err := h.Import(context.Background(), "admin", "list.csv", data)
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, 1, result.Created)
	require.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 4, result.Errors[0].Row)

	updated := store.profiles["c1"]
	require.Equal(t, "Ana Maria", updated.Name)
	require.True(t, decimal.NewFromInt(900).Equal(updated.CreditLimit))
	require.Equal(t, "unit-Loja 1", *updated.UnitID)

	created, err := store.GetByTaxID("98765432100")
	require.NoError(t, err)
	require.NotNil(t, created)
	require.True(t, decimal.RequireFromString("100.50").Equal(created.CreditLimit))

	actions := []models.AuditAction{}
	for _, entry := range audit.entries {
		actions = append(actions, entry.Action)
	}
	require.Equal(t, []models.AuditAction{models.AuditCreditLimitChanged, models.AuditCollaboratorsImported}, actions)
	require.Equal(t, 1, audit.entries[1].Details.Import.Created)
}

func TestImportRowIsolation(t *testing.T) {
	t.Run(`malformed csv row between good rows check`, func(t *testing.T) {
		h, store, _, _ := newTestHandler()
		data := []byte("name;tax_id;credit_limit\n" +
			"Bruno;98765432100;100\n" +
			"Bad \"quote;22222222222;100\n" +
			"Carla;11122233344;200\n")
		result, hMsg, err := h.Import(context.Background(), "admin", "list.csv", data)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, 2, result.Created)
		require.Len(t, result.Errors, 1)
		require.Equal(t, 3, result.Errors[0].Row)
		created, err := store.GetByTaxID("11122233344")
		require.NoError(t, err)
		require.NotNil(t, created)
	})
	t.Run(`rejected credit change leaves profile untouched check`, func(t *testing.T) {
		h, store, audit, _ := newTestHandler()
		store.rejectCredit = true
		data := []byte("name;tax_id;unit;credit_limit\n" +
			"Ana Maria;123.456.789-00;Loja 1;900\n")
		result, hMsg, err := h.Import(context.Background(), "admin", "list.csv", data)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, 0, result.Updated)
		require.Len(t, result.Errors, 1)
		require.Equal(t, 2, result.Errors[0].Row)

		rec := store.profiles["c1"]
		require.Equal(t, "Ana", rec.Name)
		require.Nil(t, rec.UnitID)
		require.True(t, decimal.NewFromInt(500).Equal(rec.CreditLimit))
		require.Len(t, audit.entries, 1)
		require.Equal(t, models.AuditCollaboratorsImported, audit.entries[0].Action)
	})
}
