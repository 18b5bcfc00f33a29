package db

import (
	holidaystore "convenios-backend/lib/sla/holiday-store"
	slastore "convenios-backend/lib/sla/store"
	"convenios-backend/models"
	dbmodels "convenios-backend/models/db"
	"encoding/csv"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const holidaysFile = "./static_preload/holidays.csv"

func InitPreload() {
	fillSlaConfigs()
	fillHolidays()
}

// пороги по умолчанию, далее настраиваются администратором
func defaultSlaConfigs() []dbmodels.SlaConfig {
	return []dbmodels.SlaConfig{
		{Category: models.CategoryPharmacy, GreenHours: 4, YellowHours: 8, Unit: models.ThresholdHours},
		{Category: models.CategoryOptical, GreenHours: 24, YellowHours: 48, Unit: models.ThresholdHours},
		{Category: models.CategoryDental, GreenHours: 24, YellowHours: 48, Unit: models.ThresholdHours},
		{Category: models.CategoryGroceries, GreenHours: 8, YellowHours: 16, Unit: models.ThresholdHours},
		{Category: models.CategoryFuel, GreenHours: 8, YellowHours: 16, Unit: models.ThresholdHours},
		{Category: models.CategoryEducation, GreenHours: 2, YellowHours: 5, Unit: models.ThresholdDays},
		{Category: models.CategorySalaryAdvance, GreenHours: 1, YellowHours: 2, Unit: models.ThresholdDays},
		{Category: models.CategoryDocuments, GreenHours: 3, YellowHours: 5, Unit: models.ThresholdDays},
	}
}

func fillSlaConfigs() {
	store := slastore.NewInstance(DB)
	list, err := store.List()
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения настроек SLA")
		return
	}
	if len(list) > 0 {
		return
	}
	for _, rec := range defaultSlaConfigs() {
		_, err = store.Upsert(rec)
		if err != nil {
			log.WithError(err).WithField("category", rec.Category).Error("ошибка добавления настройки SLA")
			return
		}
	}
	log.Info("настройки SLA добавлены")
}

func fillHolidays() {
	lines, err := readCsvFile(holidaysFile, ';')
	if err != nil {
		log.WithError(err).Warn("праздники не загружены")
		return
	}
	store := holidaystore.NewInstance(DB)
	added := 0
	for k, line := range lines {
		if len(line) < 2 {
			log.Errorf("ошибка загрузки файла с праздниками, строка %v", k)
			continue
		}
		date, err := time.Parse("2006-01-02", line[0])
		if err != nil {
			log.WithError(err).Errorf("ошибка загрузки файла с праздниками, строка %v", k)
			continue
		}
		exist, err := store.Exist(date)
		if err != nil {
			log.WithError(err).Error("ошибка предзаполнения праздников")
			return
		}
		if exist {
			continue
		}
		_, err = store.Create(dbmodels.Holiday{Date: date, Name: line[1]})
		if err != nil {
			log.WithError(err).WithField("date", line[0]).Error("ошибка добавления праздника")
			return
		}
		added++
	}
	if added > 0 {
		log.Infof("добавлено праздников: %v", added)
	}
}

func readCsvFile(filePath string, comma rune) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка открытия файла")
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.Comma = comma
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обработки файла")
	}

	return records, nil
}
