package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

const cycleLayout = "2006-01"

// Step результат списания одного платежа рассрочки
type Step struct {
	Installment decimal.Decimal
	NewLimit    decimal.Decimal
	NewPaid     int
	IsFinal     bool
}

// ComputeStep расчет очередного платежа.
// Платеж возвращается в лимит; если платеж не последний, он же резервируется снова под следующий.
func ComputeStep(approved decimal.Decimal, total, paid int, currentLimit decimal.Decimal) Step {
	if total <= 0 {
		total = 1
	}
	installment := approved.DivRound(decimal.NewFromInt(int64(total)), 2)
	restored := currentLimit.Add(installment)
	step := Step{
		Installment: installment,
		NewPaid:     paid + 1,
		IsFinal:     paid+1 >= total,
	}
	if step.IsFinal {
		step.NewLimit = restored
	} else {
		step.NewLimit = restored.Sub(installment)
	}
	return step
}

// CycleKey расчетный период YYYY-MM в заданном часовом поясе
func CycleKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(cycleLayout)
}

// IsValidCycle проверка ключа периода, переданного вручную
func IsValidCycle(cycle string) bool {
	_, err := time.Parse(cycleLayout, cycle)
	return err == nil
}
