package ingest

import (
	"fmt"
	"sort"
	"time"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/darkron008/tipsplit/internal/normalize"
	"github.com/shopspring/decimal"
)

// ClockOptions names the columns of a punch-clock export. Exports list one
// row per punch, so an employee usually appears several times per day.
type ClockOptions struct {
	EmployeeCol string
	DateCol     string
	HoursCol    string
}

// DefaultClockOptions matches the column names common punch-clock systems
// put on their CSV exports.
func DefaultClockOptions() ClockOptions {
	return ClockOptions{
		EmployeeCol: "Employee Name",
		DateCol:     "Clock In Date",
		HoursCol:    "Elapsed Hours",
	}
}

// DailyHours is one employee's summed hours for one calendar date.
type DailyHours struct {
	Date     time.Time
	Employee string
	Hours    decimal.Decimal
}

// ShapeClock aggregates a punch-clock table into per-employee daily hours.
// Rows with a blank name, an unparsable date, or non-numeric or negative
// hours are reported and skipped; the rest still aggregate. A required
// column missing from the table entirely is a table-level error.
func ShapeClock(t model.Table, opts ClockOptions) ([]DailyHours, []*model.RowError, error) {
	var missing []string
	for _, col := range []string{opts.EmployeeCol, opts.DateCol, opts.HoursCol} {
		if !headerPresent(t.Headers, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%s: missing required columns %v (found %v)", t.Name, missing, t.Headers)
	}

	type bucket struct {
		date     time.Time
		employee string
		hours    decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var rowErrs []*model.RowError

	for i, row := range t.Rows {
		fail := func(f model.Field, reason string) {
			rowErrs = append(rowErrs, &model.RowError{Table: t.Name, Row: i, Field: f, Reason: reason})
		}

		name := normalize.CleanName(row[opts.EmployeeCol])
		if name == "" {
			fail(model.FieldEmployeeName, "empty employee name")
			continue
		}

		date, err := normalize.ParseDate(row[opts.DateCol])
		if err != nil {
			fail(model.FieldShiftDate, err.Error())
			continue
		}

		hours, err := normalize.ParseNumber(row[opts.HoursCol])
		if err != nil {
			fail(model.FieldHoursWorked, err.Error())
			continue
		}
		if hours.IsNegative() {
			fail(model.FieldHoursWorked, fmt.Sprintf("negative value %s", hours))
			continue
		}

		key := model.FoldName(name) + "\x00" + date.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{date: date, employee: name}
			buckets[key] = b
		}
		b.hours = b.hours.Add(hours)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	daily := make([]DailyHours, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		daily = append(daily, DailyHours{Date: b.date, Employee: b.employee, Hours: b.hours.Round(2)})
	}
	return daily, rowErrs, nil
}

func headerPresent(headers []string, h string) bool {
	for _, cand := range headers {
		if cand == h {
			return true
		}
	}
	return false
}
