package pdfexport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ApprovalTerm данные документа об одобрении для сотрудника
type ApprovalTerm struct {
	Protocol          string
	CollaboratorName  string
	TaxID             string
	UnitName          string
	Category          string
	ApprovedValue     decimal.Decimal
	TotalInstallments int
	InstallmentValue  decimal.Decimal
	ClosingMessage    string
	ApprovedAt        time.Time
}

func GenerateApprovalTerm(term ApprovalTerm) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalTerm panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Termo de aprovação "+term.Protocol), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr("Termo de aprovação de convênio"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	lines := [][2]string{
		{"Protocolo", term.Protocol},
		{"Colaborador", term.CollaboratorName},
		{"CPF", term.TaxID},
		{"Unidade", term.UnitName},
		{"Categoria", term.Category},
		{"Valor aprovado", formatMoney(term.ApprovedValue)},
		{"Parcelas", fmt.Sprintf("%d x %s", term.TotalInstallments, formatMoney(term.InstallmentValue))},
		{"Data", term.ApprovedAt.Format("02/01/2006 15:04")},
	}
	for _, line := range lines {
		if line[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 8, tr(line[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, tr(line[1]), "", 1, "L", false, 0, "")
	}
	if term.ClosingMessage != "" {
		pdf.Ln(6)
		pdf.MultiCell(0, 7, tr(term.ClosingMessage), "", "L", false)
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr("As parcelas serão descontadas mensalmente e o valor retorna ao limite de crédito conforme o pagamento."), "", "L", false)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования pdf")
	}
	return buf.Bytes(), nil
}

func formatMoney(value decimal.Decimal) string {
	return "R$ " + value.StringFixed(2)
}
