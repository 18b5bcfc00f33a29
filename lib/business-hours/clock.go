package businesshours

import (
	"time"
)

// Date календарная дата без времени
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}

// HolidaySet множество праздничных дат, исключаемых из расчета целиком
type HolidaySet map[Date]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[DateOf(d)] = struct{}{}
	}
	return set
}

func (s HolidaySet) Contains(d Date) bool {
	if s == nil {
		return false
	}
	_, ok := s[d]
	return ok
}

const saturdayEndHour = 12

// dayWindow рабочее окно календарного дня относительно его начала
func dayWindow(dayStart time.Time, holidays HolidaySet) (from, to time.Time, ok bool) {
	if holidays.Contains(DateOf(dayStart)) {
		return time.Time{}, time.Time{}, false
	}
	nextDay := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day()+1, 0, 0, 0, 0, dayStart.Location())
	switch dayStart.Weekday() {
	case time.Sunday:
		return time.Time{}, time.Time{}, false
	case time.Saturday:
		return dayStart, time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), saturdayEndHour, 0, 0, 0, dayStart.Location()), true
	default:
		return dayStart, nextDay, true
	}
}

// ElapsedHours количество рабочих часов в интервале [start, end].
// Пн-Пт считаются целиком, суббота до 12:00, воскресенье и праздники не считаются.
// Дни определяются в часовом поясе start.
func ElapsedHours(start, end time.Time, holidays HolidaySet) float64 {
	if !end.After(start) {
		return 0
	}
	loc := start.Location()
	end = end.In(loc)

	var total time.Duration
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	for dayStart.Before(end) {
		from, to, ok := dayWindow(dayStart, holidays)
		if ok {
			if from.Before(start) {
				from = start
			}
			if to.After(end) {
				to = end
			}
			if to.After(from) {
				total += to.Sub(from)
			}
		}
		dayStart = time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day()+1, 0, 0, 0, 0, loc)
	}
	return total.Hours()
}
