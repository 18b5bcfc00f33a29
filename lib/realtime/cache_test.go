package realtime

import (
	"context"
	"convenios-backend/models"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeEnricher struct {
	names map[string]string
	calls int
}

func (f *fakeEnricher) Enrich(ctx context.Context, row RequestRow) (RequestRow, error) {
	f.calls++
	name, ok := f.names[row.CollaboratorID]
	if !ok {
		return row, errors.New("not found")
	}
	row.CollaboratorName = name
	row.UnitName = "Loja " + name
	return row, nil
}

func newRow(id string, category models.RequestCategory, status models.RequestStatus) RequestRow {
	return RequestRow{
		ID:             id,
		Protocol:       "P-" + id,
		Category:       category,
		Status:         status,
		CollaboratorID: "c-" + id,
		CreatedAt:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestFilterContext(t *testing.T) {
	t.Run(`key ignores order and duplicates check`, func(t *testing.T) {
		a := NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryOptical, models.CategoryPharmacy, models.CategoryOptical})
		b := NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryPharmacy, models.CategoryOptical})
		require.Equal(t, a.Key(), b.Key())
		require.Len(t, a.Categories, 2)
	})
	t.Run(`role is part of key check`, func(t *testing.T) {
		a := NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategorySalaryAdvance})
		b := NewFilterContext(models.HrApproverRole, []models.RequestCategory{models.CategorySalaryAdvance})
		require.NotEqual(t, a.Key(), b.Key())
	})
	t.Run(`ref reads latest filter check`, func(t *testing.T) {
		ref := NewFilterRef(NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryPharmacy}))
		require.True(t, ref.Load().Allows(models.CategoryPharmacy))
		ref.Store(NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryFuel}))
		require.False(t, ref.Load().Allows(models.CategoryPharmacy))
		require.True(t, ref.Load().Allows(models.CategoryFuel))
	})
}

func TestIsVisible(t *testing.T) {
	all := models.AllCategories()
	reviewer := NewFilterContext(models.ReviewerRole, all)
	hr := NewFilterContext(models.HrApproverRole, all)
	tests := []struct {
		name     string
		filter   FilterContext
		category models.RequestCategory
		status   models.RequestStatus
		hrStatus models.HrStatus
		visible  bool
	}{
		{"regular category check", reviewer, models.CategoryPharmacy, models.RequestStatusOpen, "", true},
		{"hr category before hr decision check", reviewer, models.CategorySalaryAdvance, models.RequestStatusOpen, models.HrStatusPending, false},
		{"hr category after approval check", reviewer, models.CategorySalaryAdvance, models.RequestStatusOpen, models.HrStatusApproved, true},
		{"hr category closed check", reviewer, models.CategorySalaryAdvance, models.RequestStatusRejected, models.HrStatusRejected, true},
		{"hr approver sees immediately check", hr, models.CategorySalaryAdvance, models.RequestStatusOpen, models.HrStatusPending, true},
		{"category outside filter check", NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryFuel}), models.CategoryPharmacy, models.RequestStatusOpen, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.visible, IsVisible(tt.filter, tt.category, tt.status, tt.hrStatus))
		})
	}
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	filter := NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryPharmacy, models.CategorySalaryAdvance})

	t.Run(`insert at head with collaborator and highlight check`, func(t *testing.T) {
		enricher := &fakeEnricher{names: map[string]string{"c-r2": "Bruno"}}
		cache := NewCache(enricher, time.Minute)
		cache.Set(filter, []RequestRow{newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen)})

		row, ok := cache.Insert(ctx, filter, newRow("r2", models.CategoryPharmacy, models.RequestStatusOpen))
		require.True(t, ok)
		require.True(t, row.Highlight)
		require.Equal(t, "Bruno", row.CollaboratorName)

		rows := cache.Rows(filter)
		require.Len(t, rows, 2)
		require.Equal(t, "r2", rows[0].ID)
		require.True(t, rows[0].Highlight)
		require.False(t, rows[1].Highlight)
	})
	t.Run(`repeated insert does not duplicate check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, time.Minute)
		_, ok := cache.Insert(ctx, filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen))
		require.True(t, ok)
		_, ok = cache.Insert(ctx, filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen))
		require.False(t, ok)
		require.Len(t, cache.Rows(filter), 1)
	})
	t.Run(`insert outside filter and hidden hr category skipped check`, func(t *testing.T) {
		enricher := &fakeEnricher{}
		cache := NewCache(enricher, time.Minute)
		_, ok := cache.Insert(ctx, filter, newRow("r1", models.CategoryFuel, models.RequestStatusOpen))
		require.False(t, ok)
		hidden := newRow("r2", models.CategorySalaryAdvance, models.RequestStatusOpen)
		hidden.HrStatus = models.HrStatusPending
		_, ok = cache.Insert(ctx, filter, hidden)
		require.False(t, ok)
		require.Empty(t, cache.Rows(filter))
		require.Zero(t, enricher.calls)
	})
	t.Run(`collaborator lookup error does not block insert check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, time.Minute)
		row, ok := cache.Insert(ctx, filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen))
		require.True(t, ok)
		require.Empty(t, row.CollaboratorName)
	})
	t.Run(`update keeps collaborator check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, time.Minute)
		existing := newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen)
		existing.CollaboratorName = "Ana"
		existing.UnitName = "Loja 1"
		cache.Set(filter, []RequestRow{existing})

		row, ok := cache.Update(filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusApproved))
		require.True(t, ok)
		require.Equal(t, models.RequestStatusApproved, row.Status)
		require.Equal(t, "Ana", row.CollaboratorName)
		require.Equal(t, "Loja 1", cache.Rows(filter)[0].UnitName)
	})
	t.Run(`update of missing request is noop check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, time.Minute)
		_, ok := cache.Update(filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusApproved))
		require.False(t, ok)
		require.Empty(t, cache.Rows(filter))
	})
	t.Run(`delete check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, time.Minute)
		cache.Set(filter, []RequestRow{
			newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen),
			newRow("r2", models.CategoryPharmacy, models.RequestStatusOpen),
			newRow("r3", models.CategoryPharmacy, models.RequestStatusOpen),
		})
		require.True(t, cache.Delete(filter, "r2"))
		require.False(t, cache.Delete(filter, "r2"))
		rows := cache.Rows(filter)
		require.Len(t, rows, 2)
		require.Equal(t, "r1", rows[0].ID)
		require.Equal(t, "r3", rows[1].ID)
	})
	t.Run(`lists of different filters are independent check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, time.Minute)
		other := NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryPharmacy})
		_, ok := cache.Insert(ctx, filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen))
		require.True(t, ok)
		require.Empty(t, cache.Rows(other))
	})
	t.Run(`highlight expires check`, func(t *testing.T) {
		cache := NewCache(&fakeEnricher{}, 20*time.Millisecond)
		_, ok := cache.Insert(ctx, filter, newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen))
		require.True(t, ok)
		require.True(t, cache.IsHighlighted("r1"))
		time.Sleep(50 * time.Millisecond)
		require.False(t, cache.IsHighlighted("r1"))
		require.Len(t, cache.Rows(filter), 1)
	})
}

func TestDecodeEvent(t *testing.T) {
	t.Run(`trigger event check`, func(t *testing.T) {
		payload := `{"op":"UPDATE","row":{"id":"r1","protocol":"20250310-AB12CD","category":"pharmacy","status":"approved","hr_status":null,"collaborator_id":"c1","created_at":"2025-03-10T09:00:00.123456-03:00","closed_at":"2025-03-10T10:00:00-03:00","approved_value":1200.50,"total_installments":3,"paid_installments":0}}`
		event, err := DecodeEvent(payload)
		require.NoError(t, err)
		require.Equal(t, OpUpdate, event.Op)
		require.Equal(t, models.RequestStatusApproved, event.Row.Status)
		require.Equal(t, "1200.5", event.Row.ApprovedValue.String())
		require.NotNil(t, event.Row.ClosedAt)
		require.Equal(t, 3, event.Row.TotalInstallments)
	})
	t.Run(`malformed events check`, func(t *testing.T) {
		_, err := DecodeEvent(`not json`)
		require.Error(t, err)
		_, err = DecodeEvent(`{"op":"TRUNCATE","row":{"id":"r1"}}`)
		require.Error(t, err)
		_, err = DecodeEvent(`{"op":"DELETE","row":{}}`)
		require.Error(t, err)
	})
	t.Run(`apply to cache check`, func(t *testing.T) {
		filter := NewFilterContext(models.ReviewerRole, []models.RequestCategory{models.CategoryPharmacy})
		cache := NewCache(&fakeEnricher{}, time.Minute)
		_, ok := cache.Apply(context.Background(), filter, ChangeEvent{Op: OpInsert, Row: newRow("r1", models.CategoryPharmacy, models.RequestStatusOpen)})
		require.True(t, ok)
		_, ok = cache.Apply(context.Background(), filter, ChangeEvent{Op: OpDelete, Row: RequestRow{ID: "r1"}})
		require.True(t, ok)
		require.Empty(t, cache.Rows(filter))
	})
}
