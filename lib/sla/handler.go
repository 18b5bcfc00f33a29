package sla

import (
	"convenios-backend/db"
	audithandler "convenios-backend/lib/audit"
	businesshours "convenios-backend/lib/business-hours"
	holidaystore "convenios-backend/lib/sla/holiday-store"
	slastore "convenios-backend/lib/sla/store"
	"convenios-backend/models"
	slaapimodels "convenios-backend/models/api/sla"
	dbmodels "convenios-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	SaveConfig(userID string, data slaapimodels.ConfigData) (id string, err error)
	DeleteConfig(userID string, category models.RequestCategory) error
	ListConfigs() ([]slaapimodels.ConfigView, error)
	AddHoliday(data slaapimodels.HolidayData) (id string, err error)
	DeleteHoliday(id string) error
	ListHolidays(year int) ([]slaapimodels.HolidayView, error)
	// Table настройки SLA по категориям
	Table() (ConfigTable, error)
	// Holidays набор праздников для расчета рабочих часов
	Holidays() (businesshours.HolidaySet, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		configStore:  slastore.NewInstance(db.DB),
		holidayStore: holidaystore.NewInstance(db.DB),
		audit:        audithandler.Instance,
	}
}

type impl struct {
	configStore  slastore.Provider
	holidayStore holidaystore.Provider
	audit        audithandler.Provider
}

func (i impl) getLogger(category models.RequestCategory) *log.Entry {
	return log.WithField("category", category)
}

func (i impl) SaveConfig(userID string, data slaapimodels.ConfigData) (id string, err error) {
	logger := i.getLogger(data.Category)
	rec := data.ToDb()
	if err = rec.Validate(); err != nil {
		return "", err
	}
	oldRec, err := i.configStore.GetByCategory(data.Category)
	if err != nil {
		return "", err
	}
	id, err = i.configStore.Upsert(rec)
	if err != nil {
		return "", err
	}
	changes := dbmodels.EntityChanges{
		Description: "изменение настройки SLA",
		Data: []dbmodels.FieldChanges{
			{Field: "green_hours", NewValue: rec.GreenHours},
			{Field: "yellow_hours", NewValue: rec.YellowHours},
			{Field: "unit", NewValue: rec.Unit},
		},
	}
	if oldRec != nil {
		changes.Data[0].OldValue = oldRec.GreenHours
		changes.Data[1].OldValue = oldRec.YellowHours
		changes.Data[2].OldValue = oldRec.Unit
	}
	i.audit.Log(models.AuditSlaConfigChanged, models.AuditEntitySlaConfig, string(data.Category), userID, dbmodels.NewChangesDetails(changes))
	logger.Info("настройка SLA сохранена")
	return id, nil
}

func (i impl) DeleteConfig(userID string, category models.RequestCategory) error {
	oldRec, err := i.configStore.GetByCategory(category)
	if err != nil {
		return err
	}
	if oldRec == nil {
		return errors.New("настройка SLA для категории не найдена")
	}
	err = i.configStore.Delete(category)
	if err != nil {
		return err
	}
	changes := dbmodels.EntityChanges{
		Description: "удаление настройки SLA",
		Data: []dbmodels.FieldChanges{
			{Field: "green_hours", OldValue: oldRec.GreenHours},
			{Field: "yellow_hours", OldValue: oldRec.YellowHours},
			{Field: "unit", OldValue: oldRec.Unit},
		},
	}
	i.audit.Log(models.AuditSlaConfigChanged, models.AuditEntitySlaConfig, string(category), userID, dbmodels.NewChangesDetails(changes))
	return nil
}

func (i impl) ListConfigs() ([]slaapimodels.ConfigView, error) {
	list, err := i.configStore.List()
	if err != nil {
		return nil, err
	}
	result := make([]slaapimodels.ConfigView, 0, len(list))
	for _, rec := range list {
		result = append(result, slaapimodels.ConfigConvert(rec))
	}
	return result, nil
}

func (i impl) AddHoliday(data slaapimodels.HolidayData) (id string, err error) {
	date, err := data.GetDate()
	if err != nil {
		return "", err
	}
	return i.holidayStore.Create(dbmodels.Holiday{
		Date: date,
		Name: data.Name,
	})
}

func (i impl) DeleteHoliday(id string) error {
	return i.holidayStore.Delete(id)
}

func (i impl) ListHolidays(year int) ([]slaapimodels.HolidayView, error) {
	var from, to *time.Time
	if year > 0 {
		yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		from, to = &yearStart, &yearEnd
	}
	list, err := i.holidayStore.List(from, to)
	if err != nil {
		return nil, err
	}
	result := make([]slaapimodels.HolidayView, 0, len(list))
	for _, rec := range list {
		result = append(result, slaapimodels.HolidayConvert(rec))
	}
	return result, nil
}

func (i impl) Table() (ConfigTable, error) {
	list, err := i.configStore.List()
	if err != nil {
		return nil, err
	}
	return NewConfigTable(list), nil
}

func (i impl) Holidays() (businesshours.HolidaySet, error) {
	list, err := i.holidayStore.List(nil, nil)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(list))
	for _, rec := range list {
		dates = append(dates, rec.Date)
	}
	return businesshours.NewHolidaySet(dates...), nil
}
