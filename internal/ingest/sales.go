package ingest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/darkron008/tipsplit/internal/normalize"
	"github.com/shopspring/decimal"
)

// SalesOptions describes where a pivoted sales report keeps its tips. These
// reports run sideways: one label column identifies each row, dates spread
// across the remaining columns, and the Tips row holds the day's pool under
// each date.
type SalesOptions struct {
	// TipsRowLabel is the value in the label column that marks the tips row.
	TipsRowLabel string

	// LabelCol is the header of the column holding row labels.
	LabelCol string

	// DataStartCol is the zero-based grid column where dates begin.
	DataStartCol int
}

// DefaultSalesOptions matches the layout POS systems commonly export.
func DefaultSalesOptions() SalesOptions {
	return SalesOptions{TipsRowLabel: "Tips", LabelCol: "Sales", DataStartCol: 2}
}

// DailyTip is one calendar date's tip pool pulled from a sales report.
// Accounting-style parenthesized amounts come through negative.
type DailyTip struct {
	Date   time.Time
	Amount decimal.Decimal
}

// ShapeSales extracts per-date tip amounts from a raw sales-report grid.
// Dates come from the first data row, amounts from the row whose label
// column equals TipsRowLabel. Columns with a blank date or a non-numeric
// amount are dropped; dates that won't parse are reported as warnings.
// The result is sorted by date.
func ShapeSales(name string, rows [][]string, opts SalesOptions) ([]DailyTip, []string, error) {
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%s: sales report needs a header row and at least one data row", name)
	}

	labelIdx := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == opts.LabelCol {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return nil, nil, fmt.Errorf("%s: column %q not found (headers: %v)", name, opts.LabelCol, rows[0])
	}

	var tipsRow []string
	for _, r := range rows[1:] {
		if labelIdx < len(r) && strings.TrimSpace(r[labelIdx]) == opts.TipsRowLabel {
			tipsRow = r
			break
		}
	}
	if tipsRow == nil {
		return nil, nil, fmt.Errorf("%s: no row with %q == %q", name, opts.LabelCol, opts.TipsRowLabel)
	}

	dateRow := rows[1]
	var (
		tips     []DailyTip
		warnings []string
	)
	for col := opts.DataStartCol; col < len(dateRow); col++ {
		raw := strings.TrimSpace(dateRow[col])
		if raw == "" {
			continue
		}
		if col >= len(tipsRow) {
			break
		}

		amount, err := normalize.ParseNumber(tipsRow[col])
		if err != nil {
			continue
		}

		date, err := normalize.ParseDate(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		tips = append(tips, DailyTip{Date: date, Amount: amount.Round(2)})
	}

	sort.Slice(tips, func(i, j int) bool { return tips[i].Date.Before(tips[j].Date) })
	return tips, warnings, nil
}
