package output

import (
	"bytes"
	"fmt"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Tip Distribution Summary"
	breakdownSheet = "Daily Breakdown"
)

// WriteWorkbook exports the allocation to an Excel workbook at path: a
// summary sheet with per-employee grand totals, and a breakdown sheet with
// per-date shares.
func WriteWorkbook(result model.AllocationResult, path string) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WorkbookBytes exports the allocation as in-memory xlsx bytes, for HTTP
// downloads.
func WorkbookBytes(result model.AllocationResult) ([]byte, error) {
	f, err := buildWorkbook(result)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildWorkbook(result model.AllocationResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	if err := setRow(f, summarySheet, 1, []any{"Employee Name", "Total Tip Share"}); err != nil {
		return nil, err
	}
	for i, t := range result.Totals {
		amount, _ := t.Amount.Float64()
		if err := setRow(f, summarySheet, i+2, []any{t.Employee, amount}); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return nil, err
	}
	if err := setRow(f, breakdownSheet, 1, []any{"Shift Date", "Employee Name", "Hours Worked", "Tip Share"}); err != nil {
		return nil, err
	}
	for i, s := range result.Shares {
		hours, _ := s.Hours.Float64()
		amount, _ := s.Amount.Float64()
		row := []any{s.Date.Format("2006-01-02"), s.Employee, hours, amount}
		if err := setRow(f, breakdownSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
	}
	return f.SetSheetRow(sheet, cell, &values)
}
