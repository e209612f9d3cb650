package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies one of the four semantic columns the engine needs.
type Field string

const (
	FieldShiftDate     Field = "shift_date"
	FieldDailyTipTotal Field = "daily_tip_total"
	FieldHoursWorked   Field = "hours_worked"
	FieldEmployeeName  Field = "employee_name"
)

// Fields returns all semantic fields in their canonical resolution order.
func Fields() []Field {
	return []Field{FieldShiftDate, FieldDailyTipTotal, FieldHoursWorked, FieldEmployeeName}
}

// Label returns a human-readable name for the field, used in error messages
// and as the canonical label for fuzzy header matching.
func (f Field) Label() string {
	switch f {
	case FieldShiftDate:
		return "Shift Date"
	case FieldDailyTipTotal:
		return "Daily Tip Total"
	case FieldHoursWorked:
		return "Hours Worked"
	case FieldEmployeeName:
		return "Employee Name"
	default:
		return string(f)
	}
}

// Row maps a header string to the raw cell value under it.
// Values are whatever the ingestion layer decoded: string, float64, int,
// or time.Time.
type Row map[string]any

// Table is one uploaded spreadsheet reduced to ordered headers and raw rows.
// The engine never mutates it.
type Table struct {
	Name    string   `json:"name"` // source file name, for error attribution
	Headers []string `json:"headers"`
	Rows    []Row    `json:"-"`
}

// FieldMapping records which header each semantic field resolved to.
// A field absent from the map is unresolved.
type FieldMapping map[Field]string

// Resolved reports whether the field was mapped to a header.
func (m FieldMapping) Resolved(f Field) bool {
	_, ok := m[f]
	return ok
}

// Unresolved returns the fields with no mapped header, in canonical order.
func (m FieldMapping) Unresolved() []Field {
	var missing []Field
	for _, f := range Fields() {
		if !m.Resolved(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// ShiftRecord is the normalized unit consumed by the allocation engine:
// one employee's hours on one date, plus that date's pooled tip total.
type ShiftRecord struct {
	Date          time.Time       `json:"date"`
	Employee      string          `json:"employee"` // original casing, for display
	Hours         decimal.Decimal `json:"hours"`
	DailyTipTotal decimal.Decimal `json:"daily_tip_total"`
}

// EmployeeKey returns the case-folded identity key for the employee.
// Display casing is preserved in Employee.
func (r ShiftRecord) EmployeeKey() string {
	return FoldName(r.Employee)
}

// DateKey returns the calendar-date grouping key, e.g. "2026-03-14".
func (r ShiftRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// FoldName normalizes an employee name for equality: trimmed, internal
// whitespace collapsed, lower-cased.
func FoldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Share is one employee's computed cut of one date's pool.
type Share struct {
	Date     time.Time       `json:"date"`
	Employee string          `json:"employee"`
	Hours    decimal.Decimal `json:"hours"`
	Amount   decimal.Decimal `json:"amount"`
}

// EmployeeTotal is an employee's grand total across all allocated dates.
type EmployeeTotal struct {
	Employee string          `json:"employee"`
	Amount   decimal.Decimal `json:"amount"`
}

// AllocationResult is the terminal output of a run: per-date per-employee
// shares (sorted by date, then employee) plus per-employee grand totals
// (sorted by employee).
type AllocationResult struct {
	Shares []Share         `json:"shares"`
	Totals []EmployeeTotal `json:"totals"`
}
