package sla

import (
	businesshours "convenios-backend/lib/business-hours"
	"convenios-backend/models"
	dbmodels "convenios-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	// среда, чтобы весь интервал приходился на рабочее время
	created := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	configs := NewConfigTable([]dbmodels.SlaConfig{
		{Category: models.CategoryPharmacy, GreenHours: 4, YellowHours: 8, Unit: models.ThresholdHours},
		{Category: models.CategoryDental, GreenHours: 1, YellowHours: 2, Unit: models.ThresholdDays},
	})
	req := RequestClock{Category: models.CategoryPharmacy, CreatedAt: created, Status: models.RequestStatusOpen}

	t.Run(`elapsed equal to green is on time check`, func(t *testing.T) {
		res := Classify(req, configs, nil, created.Add(4*time.Hour))
		require.Equal(t, models.SlaOnTime, res.Tier)
		require.Equal(t, 4.0, res.Hours)
		require.Equal(t, "4ч", res.Elapsed)
	})

	t.Run(`just over green is warning check`, func(t *testing.T) {
		res := Classify(req, configs, nil, created.Add(4*time.Hour+36*time.Second)) // +0.01ч
		require.Equal(t, models.SlaWarning, res.Tier)
	})

	t.Run(`elapsed equal to yellow is still warning check`, func(t *testing.T) {
		res := Classify(req, configs, nil, created.Add(8*time.Hour))
		require.Equal(t, models.SlaWarning, res.Tier)
	})

	t.Run(`just over yellow is late check`, func(t *testing.T) {
		res := Classify(req, configs, nil, created.Add(8*time.Hour+36*time.Second))
		require.Equal(t, models.SlaLate, res.Tier)
	})

	t.Run(`closed statuses are not applicable check`, func(t *testing.T) {
		for _, status := range models.ClosedStatuses() {
			closed := req
			closed.Status = status
			res := Classify(closed, configs, nil, created.Add(1000*time.Hour))
			require.Equal(t, models.SlaNotApplicable, res.Tier, status)
		}
	})

	t.Run(`category without config check`, func(t *testing.T) {
		other := req
		other.Category = models.CategoryFuel
		require.Equal(t, models.SlaNoConfig, Classify(other, configs, nil, created.Add(time.Hour)).Tier)
	})

	t.Run(`thresholds in days are converted to hours check`, func(t *testing.T) {
		dental := req
		dental.Category = models.CategoryDental
		res := Classify(dental, configs, nil, created.Add(30*time.Hour))
		require.Equal(t, models.SlaWarning, res.Tier)
		require.Equal(t, "1д 6ч", res.Elapsed)
		res = Classify(dental, configs, nil, created.Add(20*time.Hour))
		require.Equal(t, models.SlaOnTime, res.Tier)
	})

	t.Run(`holidays do not count check`, func(t *testing.T) {
		holidays := businesshours.NewHolidaySet(created)
		res := Classify(req, configs, holidays, created.Add(10*time.Hour))
		require.Equal(t, models.SlaOnTime, res.Tier)
		require.Equal(t, 0.0, res.Hours)
	})
}

func TestFormatDuration(t *testing.T) {
	t.Run(`hour unit check`, func(t *testing.T) {
		require.Equal(t, "0ч", FormatDuration(0.7, models.ThresholdHours))
		require.Equal(t, "49ч", FormatDuration(49.2, models.ThresholdHours))
	})
	t.Run(`day unit check`, func(t *testing.T) {
		require.Equal(t, "5ч", FormatDuration(5, models.ThresholdDays))
		require.Equal(t, "2д", FormatDuration(48, models.ThresholdDays))
		require.Equal(t, "2д 1ч", FormatDuration(49.9, models.ThresholdDays))
	})
}
