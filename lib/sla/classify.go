package sla

import (
	businesshours "convenios-backend/lib/business-hours"
	"convenios-backend/models"
	dbmodels "convenios-backend/models/db"
	"fmt"
	"math"
	"time"
)

// RequestClock поля заявки, нужные для расчета SLA
type RequestClock struct {
	Category  models.RequestCategory
	CreatedAt time.Time
	Status    models.RequestStatus
}

type ConfigTable map[models.RequestCategory]dbmodels.SlaConfig

func NewConfigTable(list []dbmodels.SlaConfig) ConfigTable {
	table := make(ConfigTable, len(list))
	for _, rec := range list {
		table[rec.Category] = rec
	}
	return table
}

type Result struct {
	Tier    models.SlaTier
	Hours   float64 // прошедшие рабочие часы
	Elapsed string  // для отображения в единицах настройки
}

// Classify уровень SLA заявки на момент now
func Classify(req RequestClock, configs ConfigTable, holidays businesshours.HolidaySet, now time.Time) Result {
	if req.Status.IsClosed() {
		return Result{Tier: models.SlaNotApplicable}
	}
	cfg, ok := configs[req.Category]
	if !ok {
		return Result{Tier: models.SlaNoConfig}
	}
	elapsed := businesshours.ElapsedHours(req.CreatedAt, now, holidays)
	return Result{
		Tier:    TierFor(elapsed, cfg),
		Hours:   elapsed,
		Elapsed: FormatDuration(elapsed, cfg.Unit),
	}
}

// TierFor сравнение с порогами, пороги в днях переводятся в часы
func TierFor(elapsed float64, cfg dbmodels.SlaConfig) models.SlaTier {
	green := cfg.Unit.ToHours(cfg.GreenHours)
	yellow := cfg.Unit.ToHours(cfg.YellowHours)
	switch {
	case elapsed <= green:
		return models.SlaOnTime
	case elapsed <= yellow:
		return models.SlaWarning
	default:
		return models.SlaLate
	}
}

// FormatDuration "5ч" для часов, "2д 3ч" для настроек в днях
func FormatDuration(hours float64, unit models.ThresholdUnit) string {
	total := int(math.Floor(hours))
	if unit != models.ThresholdDays {
		return fmt.Sprintf("%dч", total)
	}
	days := total / 24
	rest := total % 24
	if days == 0 {
		return fmt.Sprintf("%dч", rest)
	}
	if rest == 0 {
		return fmt.Sprintf("%dд", days)
	}
	return fmt.Sprintf("%dд %dч", days, rest)
}
