package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/xuri/excelize/v2"
)

// ReadFile loads one spreadsheet into a Table, dispatching on extension.
// The first row is the header row; remaining rows become raw cell maps.
func ReadFile(path string) (model.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	case ".csv":
		return readCSV(path)
	default:
		return model.Table{}, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// ReadReader loads a spreadsheet from an open stream, dispatching on the
// extension of name. Used for uploads that never touch disk.
func ReadReader(name string, r io.Reader) (model.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return model.Table{}, fmt.Errorf("open workbook %s: %w", name, err)
		}
		defer f.Close()
		return workbookTable(name, f)
	case ".csv":
		return csvTable(name, r)
	default:
		return model.Table{}, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(name))
	}
}

// ReadGrid loads a spreadsheet as a raw cell grid with no header mapping.
// Shapers for irregular layouts, like pivoted sales reports whose date
// columns carry no header, start from this instead of ReadFile.
func ReadGrid(path string) (string, [][]string, error) {
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return name, nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return name, nil, fmt.Errorf("%s: workbook has no sheets", name)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return name, nil, fmt.Errorf("%s: read sheet %s: %w", name, sheets[0], err)
		}
		return name, rows, nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return name, nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		cr := csv.NewReader(f)
		cr.FieldsPerRecord = -1
		rows, err := cr.ReadAll()
		if err != nil {
			return name, nil, fmt.Errorf("read %s: %w", path, err)
		}
		return name, rows, nil
	default:
		return name, nil, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// readWorkbook reads the first sheet of an Excel workbook on disk.
func readWorkbook(path string) (model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return workbookTable(filepath.Base(path), f)
}

// workbookTable extracts the first sheet of an opened workbook.
func workbookTable(name string, f *excelize.File) (model.Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Table{}, fmt.Errorf("%s: workbook has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return model.Table{}, fmt.Errorf("%s: read sheet %s: %w", name, sheets[0], err)
	}

	return fromRows(name, rows), nil
}

// readCSV reads a comma-separated file on disk.
func readCSV(path string) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return csvTable(filepath.Base(path), f)
}

// csvTable reads comma-separated rows, tolerating ragged records.
func csvTable(name string, r io.Reader) (model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("read %s: %w", name, err)
	}

	return fromRows(name, rows), nil
}

// fromRows builds a Table from a header row plus data rows. Columns with a
// blank header carry no addressable data and are skipped; cells missing
// from short rows are simply absent from the row map.
func fromRows(name string, rows [][]string) model.Table {
	t := model.Table{Name: name}
	if len(rows) == 0 {
		return t
	}

	for _, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		t.Headers = append(t.Headers, h)
	}

	for _, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		row := make(model.Row, len(t.Headers))
		col := 0
		for i, h := range rows[0] {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if i < len(raw) {
				row[t.Headers[col]] = raw[i]
			}
			col++
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// blankRow reports whether every cell in the row is empty.
func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
