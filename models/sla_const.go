package models

type SlaTier string

const (
	SlaOnTime        SlaTier = "on_time"
	SlaWarning       SlaTier = "warning"
	SlaLate          SlaTier = "late"
	SlaNotApplicable SlaTier = "not_applicable"
	SlaNoConfig      SlaTier = "no_config"
)

var slaTierHumanName = map[SlaTier]string{
	SlaOnTime:        "В срок",
	SlaWarning:       "Внимание",
	SlaLate:          "Просрочена",
	SlaNotApplicable: "Не применимо",
	SlaNoConfig:      "SLA не настроен",
}

func (t SlaTier) ToHuman() string {
	if human, exist := slaTierHumanName[t]; exist {
		return human
	}
	return string(t)
}

type ThresholdUnit string

const (
	ThresholdHours ThresholdUnit = "hours"
	ThresholdDays  ThresholdUnit = "days"
)

func (u ThresholdUnit) IsValid() bool {
	return u == ThresholdHours || u == ThresholdDays
}

// ToHours перевод порога в часы
func (u ThresholdUnit) ToHours(value float64) float64 {
	if u == ThresholdDays {
		return value * 24
	}
	return value
}
