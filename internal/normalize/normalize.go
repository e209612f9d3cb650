package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when a date cell arrives as a string.
// Covers ISO dates, US slash dates, and day-month-abbrev timesheet exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"2-Jan-06",
	"02-Jan-06",
	"2-Jan-2006",
	"02-Jan-2006",
}

// Normalize converts a table's rows into ShiftRecords using the resolved
// mapping.
//
// An unresolved required field is a table-level error and nothing is
// produced. Individual bad rows (unparsable dates, negative or non-numeric
// hours/tips, blank names) are collected as RowErrors and skipped; the
// remaining rows still normalize.
func Normalize(table model.Table, mapping model.FieldMapping) ([]model.ShiftRecord, []*model.RowError, error) {
	if missing := mapping.Unresolved(); len(missing) > 0 {
		return nil, nil, &model.ResolutionError{Table: table.Name, Missing: missing}
	}

	var (
		records []model.ShiftRecord
		rowErrs []*model.RowError
	)

	for i, row := range table.Rows {
		fail := func(f model.Field, reason string) {
			rowErrs = append(rowErrs, &model.RowError{Table: table.Name, Row: i, Field: f, Reason: reason})
		}

		date, err := ParseDate(row[mapping[model.FieldShiftDate]])
		if err != nil {
			fail(model.FieldShiftDate, err.Error())
			continue
		}

		hours, err := parseAmount(row[mapping[model.FieldHoursWorked]])
		if err != nil {
			fail(model.FieldHoursWorked, err.Error())
			continue
		}

		tips, err := parseAmount(row[mapping[model.FieldDailyTipTotal]])
		if err != nil {
			fail(model.FieldDailyTipTotal, err.Error())
			continue
		}

		name := CleanName(row[mapping[model.FieldEmployeeName]])
		if name == "" {
			fail(model.FieldEmployeeName, "empty employee name")
			continue
		}

		records = append(records, model.ShiftRecord{
			Date:          date,
			Employee:      name,
			Hours:         hours.Round(2),
			DailyTipTotal: tips.Round(2),
		})
	}

	return records, rowErrs, nil
}

// ParseDate accepts time.Time cells directly and tries the known layouts
// for strings. The time component is always discarded.
func ParseDate(cell any) (time.Time, error) {
	switch v := cell.(type) {
	case time.Time:
		return midnight(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty date")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return midnight(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q", s)
	case nil:
		return time.Time{}, fmt.Errorf("empty date")
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v", v)
	}
}

// ParseNumber parses a decimal from a numeric or string cell. Currency
// symbols, thousands separators, and accounting-style parentheses for
// negatives are tolerated in strings.
func ParseNumber(cell any) (decimal.Decimal, error) {
	switch v := cell.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		s := strings.ReplaceAll(v, "$", "")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.Replace(s, "(", "-", 1)
		s = strings.Replace(s, ")", "", 1)
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero, fmt.Errorf("empty value")
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("non-numeric value %q", v)
		}
		return parsed, nil
	case nil:
		return decimal.Zero, fmt.Errorf("empty value")
	default:
		return decimal.Zero, fmt.Errorf("unsupported value %v", v)
	}
}

// parseAmount is ParseNumber restricted to non-negative values, which is
// what hours and daily tip pools require.
func parseAmount(cell any) (decimal.Decimal, error) {
	d, err := ParseNumber(cell)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative value %s", d)
	}
	return d, nil
}

// CleanName trims and collapses internal whitespace, preserving casing.
func CleanName(cell any) string {
	s, ok := cell.(string)
	if !ok {
		if cell == nil {
			return ""
		}
		s = fmt.Sprintf("%v", cell)
	}
	return strings.Join(strings.Fields(s), " ")
}

// midnight strips the time component, keeping the calendar date in UTC.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
