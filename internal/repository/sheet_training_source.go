package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"SalesCast/internal/domain/models"
	domrepo "SalesCast/internal/domain/repository"

	"github.com/xuri/excelize/v2"
)

// CSVTrainingSource reads historical rows from a CSV file with a header line.
type CSVTrainingSource struct {
	path string
}

func NewCSVTrainingSource(path string) *CSVTrainingSource { return &CSVTrainingSource{path: path} }

func (s *CSVTrainingSource) Records(_ context.Context) ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToRecords(rows)
}

// XLSXTrainingSource reads historical rows from one sheet of a workbook.
type XLSXTrainingSource struct {
	path  string
	sheet string
}

// NewXLSXTrainingSource reads sheet, or the first sheet when sheet is empty.
func NewXLSXTrainingSource(path, sheet string) *XLSXTrainingSource {
	return &XLSXTrainingSource{path: path, sheet: sheet}
}

func (s *XLSXTrainingSource) Records(_ context.Context) ([]models.Record, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx %s has no sheets", s.path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rowsToRecords(rows)
}

// rowsToRecords maps a header row plus data rows onto records; short rows leave fields absent.
func rowsToRecords(rows [][]string) ([]models.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	out := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := make(models.Record, len(header))
		for i, v := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = strings.TrimSpace(v)
		}
		out = append(out, rec)
	}
	return out, nil
}

var (
	_ domrepo.TrainingSource = (*CSVTrainingSource)(nil)
	_ domrepo.TrainingSource = (*XLSXTrainingSource)(nil)
)
