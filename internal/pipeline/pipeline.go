package pipeline

import (
	"errors"
	"time"

	"github.com/darkron008/tipsplit/internal/engine"
	"github.com/darkron008/tipsplit/internal/ingest"
	"github.com/darkron008/tipsplit/internal/model"
	"github.com/darkron008/tipsplit/internal/normalize"
	"github.com/darkron008/tipsplit/internal/resolver"
	"github.com/google/uuid"
)

// Options control one run of the pipeline.
type Options struct {
	// Overrides pin semantic fields to specific headers, applied to every
	// table in the run.
	Overrides model.FieldMapping

	// AutoDetect enables the heuristic column matcher. When false, only
	// the overrides map columns; a field no override covers stays
	// unresolved and fails that table.
	AutoDetect bool

	// Resolver is the matching vocabulary and fuzzy threshold.
	Resolver resolver.Config
}

// DefaultOptions returns auto-detection with the stock vocabulary.
func DefaultOptions() Options {
	return Options{AutoDetect: true, Resolver: resolver.DefaultConfig()}
}

// TableReport records what happened to one input table.
type TableReport struct {
	Table   string             `json:"table"`
	Mapping model.FieldMapping `json:"mapping,omitempty"`
	Rows    int                `json:"rows"`
	Records int                `json:"records"`
	Failed  bool               `json:"failed"` // table-scoped error, contributed nothing
}

// RunResult is everything one run produced: per-table resolution reports,
// the allocation, and every collected error, for the caller to render.
type RunResult struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Tables    []TableReport          `json:"tables"`
	Result    model.AllocationResult `json:"result"`
	Errors    []string               `json:"errors,omitempty"`
}

// Run reads the given spreadsheet files and distributes their tips.
// A file that cannot be read or resolved drops only its own contribution;
// everything else still merges and allocates.
func Run(paths []string, opts Options) RunResult {
	tables := make([]model.Table, 0, len(paths))
	var readErrs []string
	for _, p := range paths {
		t, err := ingest.ReadFile(p)
		if err != nil {
			readErrs = append(readErrs, err.Error())
			continue
		}
		tables = append(tables, t)
	}

	res := RunTables(tables, opts)
	res.Errors = append(readErrs, res.Errors...)
	return res
}

// RunTables resolves, normalizes, and allocates already-loaded tables.
func RunTables(tables []model.Table, opts Options) RunResult {
	res := RunResult{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}

	cfg := opts.Resolver
	if !opts.AutoDetect {
		// No vocabulary and an unreachable threshold: only overrides
		// can claim headers.
		cfg = resolver.Config{Threshold: 1.01}
	}

	var records []model.ShiftRecord
	for _, t := range tables {
		report := TableReport{Table: t.Name, Rows: len(t.Rows)}

		mapping, err := resolver.Resolve(t.Headers, opts.Overrides, cfg)
		if err != nil {
			attribute(err, t.Name)
			report.Failed = true
			res.Errors = append(res.Errors, err.Error())
			res.Tables = append(res.Tables, report)
			continue
		}
		report.Mapping = mapping

		recs, rowErrs, err := normalize.Normalize(t, mapping)
		if err != nil {
			report.Failed = true
			res.Errors = append(res.Errors, err.Error())
			res.Tables = append(res.Tables, report)
			continue
		}
		for _, re := range rowErrs {
			res.Errors = append(res.Errors, re.Error())
		}

		report.Records = len(recs)
		records = append(records, recs...)
		res.Tables = append(res.Tables, report)
	}

	result, groupErrs := engine.Allocate(records)
	res.Result = result
	for _, ge := range groupErrs {
		res.Errors = append(res.Errors, ge.Error())
	}

	return res
}

// attribute stamps the table name onto resolver errors, which are produced
// from headers alone and don't know their table.
func attribute(err error, table string) {
	var dup *model.DuplicateHeaderError
	if errors.As(err, &dup) {
		dup.Table = table
		return
	}
	var unk *model.UnknownHeaderError
	if errors.As(err, &unk) {
		unk.Table = table
		return
	}
	var col *model.OverrideCollisionError
	if errors.As(err, &col) {
		col.Table = table
	}
}
