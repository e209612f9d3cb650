package model

import (
	"fmt"
	"time"
)

// ResolutionError reports that one or more required fields could not be
// mapped to a header. It blocks normalization of the affected table only.
type ResolutionError struct {
	Table   string  `json:"table"`
	Missing []Field `json:"missing"`
}

func (e *ResolutionError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		labels[i] = f.Label()
	}
	return fmt.Sprintf("%s: could not resolve columns: %v", e.Table, labels)
}

// DuplicateHeaderError reports two identical header strings in one table.
// Duplicate headers are a configuration error, never silently resolved.
type DuplicateHeaderError struct {
	Table  string `json:"table"`
	Header string `json:"header"`
}

func (e *DuplicateHeaderError) Error() string {
	return fmt.Sprintf("%s: duplicate header %q", e.Table, e.Header)
}

// UnknownHeaderError reports a manual override naming a header the table
// does not have.
type UnknownHeaderError struct {
	Table  string `json:"table"`
	Field  Field  `json:"field"`
	Header string `json:"header"`
}

func (e *UnknownHeaderError) Error() string {
	return fmt.Sprintf("%s: override for %s names unknown header %q", e.Table, e.Field.Label(), e.Header)
}

// OverrideCollisionError reports two overrides pinning different fields to
// the same header.
type OverrideCollisionError struct {
	Table  string `json:"table"`
	Field  Field  `json:"field"`
	Header string `json:"header"`
}

func (e *OverrideCollisionError) Error() string {
	return fmt.Sprintf("%s: override for %s: header %q already assigned", e.Table, e.Field.Label(), e.Header)
}

// RowError reports an unparsable or invalid value in a single row. The row
// is excluded; processing of remaining rows continues.
type RowError struct {
	Table  string `json:"table"`
	Row    int    `json:"row"` // zero-based data row index
	Field  Field  `json:"field"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %s: %s", e.Table, e.Row, e.Field.Label(), e.Reason)
}

// GroupReason classifies why a date group could not be allocated.
type GroupReason string

const (
	// ReasonInconsistentPool marks a date whose records disagree on the
	// daily tip total.
	ReasonInconsistentPool GroupReason = "inconsistent_pool"
	// ReasonUnallocatablePool marks a date with a nonzero pool but zero
	// total hours.
	ReasonUnallocatablePool GroupReason = "unallocatable_pool"
)

// GroupError reports a date excluded from allocation. Other dates still
// allocate.
type GroupError struct {
	Date   time.Time   `json:"date"`
	Reason GroupReason `json:"reason"`
	Detail string      `json:"detail"`
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Date.Format("2006-01-02"), e.Reason, e.Detail)
}
