package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/shopspring/decimal"
)

// centUnits converts a two-decimal amount to integer minimum-currency units.
func centUnits(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// group accumulates one date's records before allocation.
type group struct {
	date  time.Time
	pool  decimal.Decimal
	other decimal.Decimal // first diverging pool value, if any
	bad   bool            // pool values disagree

	order   []string          // employee keys in first-seen order
	display map[string]string // employee key -> first-seen casing
	hours   map[string]decimal.Decimal
}

// Allocate merges the records, groups them by date, and computes each
// employee's proportional share of that date's pool.
//
// Shares are computed in integer cents: each raw share is floored and the
// leftover cents are handed out one at a time to the employees with the
// largest fractional remainder, ties broken by employee name ascending, so
// the shares of every allocated date sum to the pool exactly.
//
// Dates with disagreeing pool values or a nonzero pool over zero hours are
// excluded and reported; the remaining dates still allocate.
func Allocate(records []model.ShiftRecord) (model.AllocationResult, []*model.GroupError) {
	groups := make(map[string]*group)
	var keys []string

	// Merge: table origin is gone by now; same employee on the same date
	// sums hours before allocation.
	for _, r := range records {
		dk := r.DateKey()
		g, ok := groups[dk]
		if !ok {
			g = &group{
				date:    r.Date,
				pool:    r.DailyTipTotal,
				display: make(map[string]string),
				hours:   make(map[string]decimal.Decimal),
			}
			groups[dk] = g
			keys = append(keys, dk)
		} else if !g.bad && !g.pool.Equal(r.DailyTipTotal) {
			g.bad = true
			g.other = r.DailyTipTotal
		}

		ek := r.EmployeeKey()
		if _, seen := g.hours[ek]; !seen {
			g.order = append(g.order, ek)
			g.display[ek] = r.Employee
		}
		g.hours[ek] = g.hours[ek].Add(r.Hours)
	}
	sort.Strings(keys)

	var (
		result model.AllocationResult
		errs   []*model.GroupError
		totals = make(map[string]int64)
		names  = make(map[string]string)
	)

	for _, dk := range keys {
		g := groups[dk]

		if g.bad {
			errs = append(errs, &model.GroupError{
				Date:   g.date,
				Reason: model.ReasonInconsistentPool,
				Detail: fmt.Sprintf("daily tip totals disagree: %s vs %s", g.pool, g.other),
			})
			continue
		}

		shares, err := allocateGroup(g)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, s := range shares {
			result.Shares = append(result.Shares, s)
			ek := model.FoldName(s.Employee)
			totals[ek] += centUnits(s.Amount)
			if _, ok := names[ek]; !ok {
				names[ek] = s.Employee
			}
		}
	}

	// Grand totals, sorted by employee.
	var eks []string
	for ek := range totals {
		eks = append(eks, ek)
	}
	sort.Strings(eks)
	for _, ek := range eks {
		result.Totals = append(result.Totals, model.EmployeeTotal{
			Employee: names[ek],
			Amount:   decimal.New(totals[ek], -2),
		})
	}

	return result, errs
}

// allocateGroup splits one date's pool across its employees.
func allocateGroup(g *group) ([]model.Share, *model.GroupError) {
	poolUnits := centUnits(g.pool)

	// Total hours in centi-hours; hours arrive with at most two decimals,
	// so this is exact.
	var totalCenti int64
	for _, ek := range g.order {
		totalCenti += centUnits(g.hours[ek])
	}

	if totalCenti == 0 && poolUnits > 0 {
		return nil, &model.GroupError{
			Date:   g.date,
			Reason: model.ReasonUnallocatablePool,
			Detail: fmt.Sprintf("pool %s with zero total hours", g.pool),
		}
	}

	eks := append([]string(nil), g.order...)
	sort.Strings(eks)

	type cut struct {
		ek    string
		units int64
		frac  int64 // numerator remainder, for leftover-cent ranking
	}
	cuts := make([]cut, 0, len(eks))

	var floored int64
	for _, ek := range eks {
		c := cut{ek: ek}
		if totalCenti > 0 {
			num := poolUnits * centUnits(g.hours[ek])
			c.units = num / totalCenti
			c.frac = num % totalCenti
		}
		floored += c.units
		cuts = append(cuts, c)
	}

	// Hand out the cents lost to flooring, largest fractional remainder
	// first, employee name ascending on ties.
	leftover := poolUnits - floored
	ranked := make([]*cut, len(cuts))
	for i := range cuts {
		ranked[i] = &cuts[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].frac != ranked[j].frac {
			return ranked[i].frac > ranked[j].frac
		}
		return ranked[i].ek < ranked[j].ek
	})
	for i := int64(0); i < leftover; i++ {
		ranked[i].units++
	}

	shares := make([]model.Share, 0, len(cuts))
	for _, c := range cuts {
		shares = append(shares, model.Share{
			Date:     g.date,
			Employee: g.display[c.ek],
			Hours:    g.hours[c.ek],
			Amount:   decimal.New(c.units, -2),
		})
	}
	return shares, nil
}
