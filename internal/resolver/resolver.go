package resolver

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/darkron008/tipsplit/internal/model"
)

// Config holds the matching vocabulary and the fuzzy-match threshold.
// Callers pass it explicitly so tests can substitute alternate vocabularies
// without touching shared state.
type Config struct {
	// Keywords maps each semantic field to the tokens that identify it.
	// A header matches a field when, after normalization, it equals or
	// contains one of the tokens as a whole word.
	Keywords map[model.Field][]string

	// Threshold is the minimum normalized similarity (0–1) a header must
	// score against a field's canonical label for the fuzzy fallback to
	// claim it.
	Threshold float64
}

// DefaultConfig returns the stock vocabulary and a 0.6 fuzzy threshold.
func DefaultConfig() Config {
	return Config{
		Keywords: map[model.Field][]string{
			model.FieldShiftDate:     {"date", "shift date", "day"},
			model.FieldDailyTipTotal: {"tip", "tips", "daily tip total", "pool"},
			model.FieldHoursWorked:   {"hours", "hrs", "worked"},
			model.FieldEmployeeName:  {"name", "employee", "server", "staff"},
		},
		Threshold: 0.6,
	}
}

// Resolve maps the table's headers onto the four semantic fields.
//
// Overrides pin fields to specific headers and bypass the heuristics for
// those fields only. For every other field, headers are tried by exact
// whole-word keyword match first, then by fuzzy similarity against the
// field's canonical label. Ties break to the left-most column. A header
// claimed by one field is removed from the candidate pool for the rest,
// so no header is double-assigned.
//
// Fields that nothing claims are simply absent from the returned mapping;
// it is the caller's job to treat that as an error before normalization.
// Duplicate headers and overrides naming unknown headers are errors.
func Resolve(headers []string, overrides model.FieldMapping, cfg Config) (model.FieldMapping, error) {
	if dup, ok := firstDuplicate(headers); ok {
		return nil, &model.DuplicateHeaderError{Header: dup}
	}

	mapping := make(model.FieldMapping, len(model.Fields()))
	claimed := make(map[string]bool, len(headers))

	// Overrides claim their headers before any heuristic runs.
	for _, f := range model.Fields() {
		h, ok := overrides[f]
		if !ok {
			continue
		}
		if !contains(headers, h) {
			return nil, &model.UnknownHeaderError{Field: f, Header: h}
		}
		if claimed[h] {
			return nil, &model.OverrideCollisionError{Field: f, Header: h}
		}
		mapping[f] = h
		claimed[h] = true
	}

	for _, f := range model.Fields() {
		if mapping.Resolved(f) {
			continue
		}
		if h, ok := keywordMatch(headers, claimed, cfg.Keywords[f]); ok {
			mapping[f] = h
			claimed[h] = true
			continue
		}
		if h, ok := fuzzyMatch(headers, claimed, f.Label(), cfg.Threshold); ok {
			mapping[f] = h
			claimed[h] = true
		}
	}

	return mapping, nil
}

// ---------------------------------------------------------------------------
// Keyword matching
// ---------------------------------------------------------------------------

// keywordMatch returns the left-most unclaimed header that contains one of
// the tokens as a whole word.
func keywordMatch(headers []string, claimed map[string]bool, tokens []string) (string, bool) {
	for _, h := range headers {
		if claimed[h] {
			continue
		}
		norm := normalizeHeader(h)
		for _, tok := range tokens {
			if containsWord(norm, normalizeHeader(tok)) {
				return h, true
			}
		}
	}
	return "", false
}

// containsWord reports whether s contains word as a whole word. Both
// arguments must already be normalized.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	return strings.Contains(" "+s+" ", " "+word+" ")
}

// ---------------------------------------------------------------------------
// Fuzzy fallback
// ---------------------------------------------------------------------------

// fuzzyMatch scores every unclaimed header against the field's canonical
// label and returns the best one if it clears the threshold. A strictly
// greater score is required to displace an earlier candidate, so ties keep
// the left-most column.
func fuzzyMatch(headers []string, claimed map[string]bool, label string, threshold float64) (string, bool) {
	var (
		best      string
		bestScore float64
	)
	for _, h := range headers {
		if claimed[h] {
			continue
		}
		if score := similarity(normalizeHeader(h), normalizeHeader(label)); score > bestScore {
			best = h
			bestScore = score
		}
	}
	if bestScore >= threshold && best != "" {
		return best, true
	}
	return "", false
}

// similarity is normalized Levenshtein similarity on a 0–1 scale:
// 1 - distance/max(len). Identical strings score 1.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// normalizeHeader lower-cases, maps punctuation to spaces, and collapses
// whitespace, so "Tip-Total " and "tip total" compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// firstDuplicate returns the first header string that appears twice. The
// boolean distinguishes a duplicated empty header from no duplicate at all.
func firstDuplicate(headers []string) (string, bool) {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return h, true
		}
		seen[h] = true
	}
	return "", false
}

func contains(headers []string, h string) bool {
	for _, cand := range headers {
		if cand == h {
			return true
		}
	}
	return false
}
