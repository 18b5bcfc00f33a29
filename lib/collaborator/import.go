package collaboratorhandler

import (
	"bytes"
	collaboratorapimodels "convenios-backend/models/api/collaborator"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type importRow struct {
	Row         int
	Name        string
	TaxID       string
	Phone       string
	Unit        string
	CreditLimit *decimal.Decimal
}

var importColumns = map[string]string{
	"name":         "name",
	"nome":         "name",
	"фио":          "name",
	"tax_id":       "tax_id",
	"cpf":          "tax_id",
	"phone":        "phone",
	"telefone":     "phone",
	"телефон":      "phone",
	"unit":         "unit",
	"unidade":      "unit",
	"подразделение": "unit",
	"credit_limit": "credit_limit",
	"limite":       "credit_limit",
	"лимит":        "credit_limit",
}

var nonDigits = regexp.MustCompile(`\D`)

// readImportFile строки файла импорта, формат определяется по расширению.
// Нечитаемые строки csv возвращаются ошибками строк, на их месте пустая строка.
func readImportFile(fileName string, data []byte) ([][]string, []collaboratorapimodels.ImportError, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, nil, errors.Wrap(err, "ошибка чтения xlsx")
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, errors.New("в файле нет листов")
		}
		rows, err := f.GetRows(sheets[0])
		return rows, nil, err
	case ".csv":
		return readCsvRows(data)
	default:
		return nil, nil, errors.New("поддерживаются только файлы csv и xlsx")
	}
}

func readCsvRows(data []byte) ([][]string, []collaboratorapimodels.ImportError, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectComma(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows := [][]string{}
	rowErrors := []collaboratorapimodels.ImportError{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, errors.Wrap(err, "ошибка чтения csv")
			}
			rowErrors = append(rowErrors, collaboratorapimodels.ImportError{
				Row:     len(rows) + 1,
				Message: fmt.Sprintf("строка не разобрана: %v", parseErr.Err),
			})
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, record)
	}
	return rows, rowErrors, nil
}

func detectComma(data []byte) rune {
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}

// parseImportRows разбор строк с заголовком, ошибки строк не прерывают разбор
func parseImportRows(rows [][]string) ([]importRow, []collaboratorapimodels.ImportError, error) {
	if len(rows) == 0 {
		return nil, nil, errors.New("файл пустой")
	}
	colIdx := map[string]int{}
	for idx, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
		if column, ok := importColumns[key]; ok {
			colIdx[column] = idx
		}
	}
	for _, required := range []string{"name", "tax_id"} {
		if _, ok := colIdx[required]; !ok {
			return nil, nil, errors.Errorf("в файле нет обязательной колонки %v", required)
		}
	}
	cell := func(row []string, column string) string {
		idx, ok := colIdx[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	result := []importRow{}
	importErrors := []collaboratorapimodels.ImportError{}
	for idx, row := range rows[1:] {
		rowNum := idx + 2
		if isEmptyRow(row) {
			continue
		}
		item := importRow{
			Row:   rowNum,
			Name:  cell(row, "name"),
			TaxID: nonDigits.ReplaceAllString(cell(row, "tax_id"), ""),
			Phone: cell(row, "phone"),
			Unit:  cell(row, "unit"),
		}
		if item.Name == "" {
			importErrors = append(importErrors, collaboratorapimodels.ImportError{Row: rowNum, Message: "не указано имя"})
			continue
		}
		if item.TaxID == "" {
			importErrors = append(importErrors, collaboratorapimodels.ImportError{Row: rowNum, Message: "не указан CPF"})
			continue
		}
		if limitStr := cell(row, "credit_limit"); limitStr != "" {
			limit, err := parseMoney(limitStr)
			if err != nil {
				importErrors = append(importErrors, collaboratorapimodels.ImportError{Row: rowNum, Message: err.Error()})
				continue
			}
			item.CreditLimit = &limit
		}
		result = append(result, item)
	}
	return result, importErrors, nil
}

// parseMoney поддерживает запятую как десятичный разделитель
func parseMoney(value string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(value, " ", "")
	if strings.Contains(normalized, ",") {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}
	limit, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, errors.Errorf("некорректный лимит: %v", value)
	}
	if limit.IsNegative() {
		return decimal.Decimal{}, errors.Errorf("лимит не может быть отрицательным: %v", value)
	}
	return limit.Round(2), nil
}

func isEmptyRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
