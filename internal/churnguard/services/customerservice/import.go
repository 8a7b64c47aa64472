package customerservice

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/xuri/excelize/v2"
)

const spreadsheetExt = ".xlsx"

// decimal matches the raw form excelize gives numeric cells. Text such as
// "007" or "0x1p4" does not match and stays a string.
var decimal = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var (
	ErrNoFile        = fmt.Errorf("%w: no selected file", models.ErrValidation)
	ErrInvalidFormat = fmt.Errorf("%w: invalid file format, only .xlsx files are allowed", models.ErrValidation)
)

// Import inserts every row of the first sheet of an .xlsx workbook verbatim.
// Rows are not validated or deduplicated.
func (cs *CustomerService) Import(ctx context.Context, filename string, r io.Reader) (int, error) {
	if filename == "" {
		return 0, ErrNoFile
	}

	if !strings.EqualFold(filepath.Ext(filename), spreadsheetExt) {
		return 0, ErrInvalidFormat
	}

	records, err := ReadSpreadsheet(r)
	if err != nil {
		return 0, err
	}

	n, err := cs.repo.InsertMany(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("insert records error: %w", err)
	}

	cs.lg.Infof("imported %d customer records from %s", n, filename)

	return n, nil
}

// ReadSpreadsheet turns the first sheet into records keyed by the header row.
func ReadSpreadsheet(r io.Reader) ([]models.Fields, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", models.ErrValidation, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", models.ErrValidation)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true}) //nolint:exhaustruct
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %w", models.ErrValidation, err)
	}

	if len(rows) == 0 {
		return []models.Fields{}, nil
	}

	header := rows[0]
	records := make([]models.Fields, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		rec := make(models.Fields, len(header))

		for i, col := range header {
			if col == "" {
				continue
			}

			var cell string
			if i < len(row) {
				cell = row[i]
			}

			rec[col] = parseCell(cell)
		}

		records = append(records, rec)
	}

	return records, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

func parseCell(s string) models.Value {
	s = strings.TrimSpace(s)

	switch strings.ToUpper(s) {
	case "":
		return models.Null()
	case "TRUE":
		return models.Bool(true)
	case "FALSE":
		return models.Bool(false)
	}

	if !decimal.MatchString(s) {
		return models.String(s)
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return models.Number(n)
	}

	return models.String(s)
}
