package slaapimodels

import (
	"convenios-backend/models"
	dbmodels "convenios-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type ConfigData struct {
	Category    models.RequestCategory `json:"category"`     // категория заявки
	GreenHours  float64                `json:"green_hours"`  // порог "в срок"
	YellowHours float64                `json:"yellow_hours"` // порог "внимание"
	Unit        models.ThresholdUnit   `json:"unit"`         // hours/days
}

func (v ConfigData) Validate() error {
	return v.ToDb().Validate()
}

func (v ConfigData) ToDb() dbmodels.SlaConfig {
	unit := v.Unit
	if unit == "" {
		unit = models.ThresholdHours
	}
	return dbmodels.SlaConfig{
		Category:    v.Category,
		GreenHours:  v.GreenHours,
		YellowHours: v.YellowHours,
		Unit:        unit,
	}
}

type ConfigView struct {
	ConfigData
	ID           string `json:"id"`
	CategoryName string `json:"category_name"`
}

func ConfigConvert(rec dbmodels.SlaConfig) ConfigView {
	return ConfigView{
		ConfigData: ConfigData{
			Category:    rec.Category,
			GreenHours:  rec.GreenHours,
			YellowHours: rec.YellowHours,
			Unit:        rec.Unit,
		},
		ID:           rec.ID,
		CategoryName: rec.Category.ToHuman(),
	}
}

type HolidayData struct {
	Date string `json:"date"` // 2006-01-02
	Name string `json:"name"`
}

func (v HolidayData) Validate() error {
	if _, err := v.GetDate(); err != nil {
		return err
	}
	return nil
}

func (v HolidayData) GetDate() (time.Time, error) {
	date, err := time.Parse(time.DateOnly, v.Date)
	if err != nil {
		return time.Time{}, errors.New("дата должна быть в формате ГГГГ-ММ-ДД")
	}
	return date, nil
}

type HolidayView struct {
	HolidayData
	ID string `json:"id"`
}

func HolidayConvert(rec dbmodels.Holiday) HolidayView {
	return HolidayView{
		HolidayData: HolidayData{
			Date: rec.Date.Format(time.DateOnly),
			Name: rec.Name,
		},
		ID: rec.ID,
	}
}
