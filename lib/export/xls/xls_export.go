package xlsexport

import (
	"bytes"
	settlementapimodels "convenios-backend/models/api/settlement"
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportSettlementRun(run settlementapimodels.RunResult) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var settlementHeaders = []string{"Протокол", "Сотрудник", "Результат", "Платеж", "Оплачено", "Всего платежей", "Лимит до", "Лимит после", "Причина"}

var summaryHeaders = []string{"Период", "Обработано", "Успешно", "Завершено", "Ошибки", "Возвращено в лимит", "Перезарезервировано"}

var outcomeHumanName = map[dbmodels.SettlementOutcome]string{
	dbmodels.SettlementSuccess:   "Платеж списан",
	dbmodels.SettlementCompleted: "Рассрочка погашена",
	dbmodels.SettlementError:     "Ошибка",
}

func (i impl) ExportSettlementRun(run settlementapimodels.RunResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, settlementHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(run.Items) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(settlementHeaders), row+len(run.Items)); err != nil {
			return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
		}
		for _, item := range run.Items {
			row++
			values := []interface{}{
				item.Protocol,
				item.CollaboratorID,
				outcomeHumanName[item.Outcome],
				item.InstallmentValue.StringFixed(2),
				item.PaidInstallments,
				item.TotalInstallments,
				item.PreviousLimit.StringFixed(2),
				item.NewLimit.StringFixed(2),
				item.Reason,
			}
			if err = writeRow(f, sheet, row, values); err != nil {
				return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
			}
		}
	}
	f.SetSheetName(sheet, "Платежи")

	summarySheet := "Итоги"
	if _, err = f.NewSheet(summarySheet); err != nil {
		return nil, errors.Wrap(err, "ошибка создания листа итогов в xlsx")
	}
	summaryRow, err := writeHeader(f, summarySheet, 0, summaryHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка итогов в xlsx")
	}
	summary := run.Summary
	err = writeRow(f, summarySheet, summaryRow+1, []interface{}{
		run.Cycle,
		summary.Processed,
		summary.Successful,
		summary.Completed,
		summary.Errors,
		summary.RestoredTotal.StringFixed(2),
		summary.RotatedTotal.StringFixed(2),
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования итогов в xlsx")
	}
	return f.WriteToBuffer()
}
