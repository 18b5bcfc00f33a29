package settlementworker

import (
	"context"
	"convenios-backend/config"
	"convenios-backend/lib/settlement"
	baseworker "convenios-backend/lib/utils/base-worker"
	"convenios-backend/models"
	"time"
)

func StartWorker(ctx context.Context, loc *time.Location) {
	i := &impl{
		BaseImpl:   *baseworker.NewInstance("SettlementWorker", 30*time.Second, 60*time.Minute),
		dayOfMonth: config.Conf.Settlement.DayOfMonth,
		loc:        loc,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	dayOfMonth int
	loc        *time.Location
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	if !isDue(time.Now(), i.loc, i.dayOfMonth) {
		return
	}
	cycle := settlement.Instance.CurrentCycle()
	done, err := settlement.Instance.CycleDone(cycle)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки списания за период")
		return
	}
	if done {
		return
	}
	result, err := settlement.Instance.Run(ctx, cycle, models.SystemUser)
	if err != nil {
		logger.
			WithError(err).
			WithField("cycle", cycle).
			Error("ошибка автоматического списания платежей")
		return
	}
	for _, warning := range result.Warnings {
		logger.
			WithField("cycle", cycle).
			Warn(warning)
	}
}

// isDue наступил ли день списания в текущем месяце
func isDue(now time.Time, loc *time.Location, dayOfMonth int) bool {
	if loc != nil {
		now = now.In(loc)
	}
	if dayOfMonth <= 0 {
		dayOfMonth = 1
	}
	return now.Day() >= dayOfMonth
}
