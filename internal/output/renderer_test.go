package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/darkron008/tipsplit/internal/pipeline"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func sampleRun() pipeline.RunResult {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return pipeline.RunResult{
		ID:        "run-1",
		Timestamp: day,
		Result: model.AllocationResult{
			Shares: []model.Share{
				{Date: day, Employee: "Alice", Hours: decimal.NewFromInt(30), Amount: decimal.RequireFromString("75.00")},
				{Date: day, Employee: "Bob", Hours: decimal.NewFromInt(10), Amount: decimal.RequireFromString("25.00")},
			},
			Totals: []model.EmployeeTotal{
				{Employee: "Alice", Amount: decimal.RequireFromString("75.00")},
				{Employee: "Bob", Amount: decimal.RequireFromString("25.00")},
			},
		},
		Errors: []string{"bad.csv: could not resolve columns"},
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := &TextRenderer{w: &buf}

	if err := renderer.Render(sampleRun()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Alice", "Bob", "75.00", "25.00", "2026-03-14", "Grand totals", "bad.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\noutput: %s", want, out)
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	renderer := &JSONRenderer{enc: enc}

	if err := renderer.Render(sampleRun()); err != nil {
		t.Fatal(err)
	}

	var got pipeline.RunResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}
	if got.ID != "run-1" {
		t.Errorf("expected run ID run-1, got %s", got.ID)
	}
	if len(got.Result.Shares) != 2 {
		t.Errorf("expected 2 shares, got %d", len(got.Result.Shares))
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	if err := WriteWorkbook(sampleRun().Result, path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 total rows, got %d", len(rows))
	}
	if rows[1][0] != "Alice" {
		t.Errorf("expected Alice first in totals, got %q", rows[1][0])
	}

	breakdown, err := f.GetRows(breakdownSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(breakdown) != 3 {
		t.Fatalf("expected header plus 2 share rows, got %d", len(breakdown))
	}
	if breakdown[1][0] != "2026-03-14" {
		t.Errorf("expected date in first breakdown row, got %q", breakdown[1][0])
	}
}

func TestWorkbookBytes(t *testing.T) {
	raw, err := WorkbookBytes(sampleRun().Result)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Fatal("expected non-empty workbook bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("expected readable workbook: %v", err)
	}
	f.Close()
}
