package pipeline

import (
	"fmt"
	"time"

	"github.com/darkron008/tipsplit/internal/engine"
	"github.com/darkron008/tipsplit/internal/ingest"
	"github.com/darkron008/tipsplit/internal/model"
	"github.com/google/uuid"
)

// TimesheetOptions configures a run that joins a punch-clock export with a
// pivoted sales report instead of reading combined shift spreadsheets.
type TimesheetOptions struct {
	Clock ingest.ClockOptions
	Sales ingest.SalesOptions
}

// DefaultTimesheetOptions covers the column names and layout common POS and
// punch-clock exports use.
func DefaultTimesheetOptions() TimesheetOptions {
	return TimesheetOptions{
		Clock: ingest.DefaultClockOptions(),
		Sales: ingest.DefaultSalesOptions(),
	}
}

// RunTimesheet distributes tips when hours and pools arrive separately: the
// timesheet supplies per-employee daily hours, the sales report supplies
// each date's pool, and the join on date feeds the usual allocation. Dates
// present on one side only are reported and skipped; negative pools are
// rejected the same way combined inputs reject them.
func RunTimesheet(clockPath, salesPath string, opts TimesheetOptions) RunResult {
	res := RunResult{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}

	clockTable, err := ingest.ReadFile(clockPath)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	salesName, salesRows, err := ingest.ReadGrid(salesPath)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	clockReport := TableReport{Table: clockTable.Name, Rows: len(clockTable.Rows)}
	hours, rowErrs, err := ingest.ShapeClock(clockTable, opts.Clock)
	if err != nil {
		clockReport.Failed = true
		res.Errors = append(res.Errors, err.Error())
		res.Tables = append(res.Tables, clockReport)
		return res
	}
	for _, re := range rowErrs {
		res.Errors = append(res.Errors, re.Error())
	}

	salesReport := TableReport{Table: salesName, Rows: len(salesRows)}
	tips, warnings, err := ingest.ShapeSales(salesName, salesRows, opts.Sales)
	if err != nil {
		salesReport.Failed = true
		res.Errors = append(res.Errors, err.Error())
		res.Tables = append(res.Tables, clockReport, salesReport)
		return res
	}
	res.Errors = append(res.Errors, warnings...)

	records, joinErrs := joinTimesheet(hours, tips)
	res.Errors = append(res.Errors, joinErrs...)

	clockReport.Records = len(records)
	res.Tables = append(res.Tables, clockReport, salesReport)

	result, groupErrs := engine.Allocate(records)
	res.Result = result
	for _, ge := range groupErrs {
		res.Errors = append(res.Errors, ge.Error())
	}
	return res
}

// joinTimesheet matches daily hours to daily pools by date. The first pool
// seen for a date wins; a later conflicting amount for the same date is an
// error, mirroring how combined inputs treat inconsistent pools.
func joinTimesheet(hours []ingest.DailyHours, tips []ingest.DailyTip) ([]model.ShiftRecord, []string) {
	var errs []string

	pools := make(map[string]ingest.DailyTip, len(tips))
	for _, dt := range tips {
		key := dt.Date.Format("2006-01-02")
		if prev, ok := pools[key]; ok {
			if !prev.Amount.Equal(dt.Amount) {
				errs = append(errs, fmt.Sprintf("%s: conflicting tip amounts %s and %s", key, prev.Amount, dt.Amount))
			}
			continue
		}
		if dt.Amount.IsNegative() {
			errs = append(errs, fmt.Sprintf("%s: negative tip pool %s", key, dt.Amount))
			continue
		}
		pools[key] = dt
	}

	var records []model.ShiftRecord
	unmatched := make(map[string]bool)
	matched := make(map[string]bool)
	for _, dh := range hours {
		key := dh.Date.Format("2006-01-02")
		pool, ok := pools[key]
		if !ok {
			if !unmatched[key] {
				unmatched[key] = true
				errs = append(errs, fmt.Sprintf("%s: no tip amount for this date", key))
			}
			continue
		}
		matched[key] = true
		records = append(records, model.ShiftRecord{
			Date:          dh.Date,
			Employee:      dh.Employee,
			Hours:         dh.Hours,
			DailyTipTotal: pool.Amount,
		})
	}

	for _, dt := range tips {
		key := dt.Date.Format("2006-01-02")
		if _, ok := pools[key]; ok && !matched[key] {
			errs = append(errs, fmt.Sprintf("%s: tips recorded but no hours worked", key))
			delete(pools, key)
		}
	}

	return records, errs
}
