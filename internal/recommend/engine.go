// Package recommend turns monthly spending data and budget signals into
// prioritized, human-readable suggestions.
//
// A single rule-evaluation engine serves both the insight path and the
// rule-based fallback path: every rule declares which mode it belongs to
// and which signals it needs, and is skipped cleanly when a signal is
// absent.
package recommend

import (
	"sort"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// Mode selects which rule set runs. ModeInsights is the primary path;
// ModeFallback is the independent rule-based path used when ML signals
// (a trained classifier) are unavailable.
type Mode int

// Evaluation modes.
const (
	ModeInsights Mode = iota
	ModeFallback
)

// fallbackCap bounds how many recommendations the fallback path returns.
const fallbackCap = 10

// BudgetInfo carries the optional budget signals a caller may supply.
// Zero values mean "signal absent"; rules depending on them are skipped.
type BudgetInfo struct {
	MonthlyBudget   float64
	CategoryBudgets map[string]float64
}

// Snapshot is the precomputed view of the analyzed month that rules
// evaluate against. Analysis is restricted to the most recent calendar
// month present in the data.
type Snapshot struct {
	Transactions   []model.Transaction
	CategoryTotals map[string]float64
	CategoryCounts map[string]int
	Total          float64
	MonthStart     time.Time
	MonthEnd       time.Time
}

// Categories returns the snapshot's category names sorted by monthly spend
// descending, ties broken alphabetically, so rule output is deterministic.
func (s *Snapshot) Categories() []string {
	names := make([]string, 0, len(s.CategoryTotals))
	for name := range s.CategoryTotals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.CategoryTotals[names[i]] != s.CategoryTotals[names[j]] {
			return s.CategoryTotals[names[i]] > s.CategoryTotals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Rule is one independently evaluable recommendation rule. Evaluate may
// emit zero or more recommendations; it must not fail.
type Rule interface {
	Name() string
	Mode() Mode
	Evaluate(snap *Snapshot, budget BudgetInfo, now time.Time) []model.Recommendation
}

// Generator evaluates the rule set over a transaction list. It is stateless
// and safe for concurrent use; the clock is injectable for tests.
type Generator struct {
	clock func() time.Time
	rules []Rule
}

// NewGenerator returns a generator with the full rule set and a wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWithClock(time.Now)
}

// NewGeneratorWithClock returns a generator using the given clock for
// "days left in month" arithmetic.
func NewGeneratorWithClock(clock func() time.Time) *Generator {
	return &Generator{
		clock: clock,
		rules: []Rule{
			&highSpendingRule{},
			&smallTransactionsRule{},
			&weekendSpendingRule{},
			&budgetPaceRule{},
			&categoryOverspendRule{},
			&frequencyRule{},
			&highAverageRule{},
		},
	}
}

// Recommend runs the insight rule set over the latest month of data.
// There is no cap here; persistence of a top-N is the caller's policy.
func (g *Generator) Recommend(transactions []model.Transaction, budget BudgetInfo) []model.Recommendation {
	return g.evaluate(transactions, budget, ModeInsights)
}

// Fallback runs the rule-based path that needs no ML signals: per-category
// budget overspend, transaction frequency, and high average transaction
// size. At most fallbackCap recommendations are returned.
func (g *Generator) Fallback(transactions []model.Transaction, budget BudgetInfo) []model.Recommendation {
	recs := g.evaluate(transactions, budget, ModeFallback)
	if len(recs) > fallbackCap {
		recs = recs[:fallbackCap]
	}
	return recs
}

func (g *Generator) evaluate(transactions []model.Transaction, budget BudgetInfo, mode Mode) []model.Recommendation {
	snap := buildSnapshot(transactions)
	if snap == nil {
		return nil
	}

	var recs []model.Recommendation
	now := g.clock()
	for _, rule := range g.rules {
		if rule.Mode() != mode {
			continue
		}
		recs = append(recs, rule.Evaluate(snap, budget, now)...)
	}
	return recs
}

// buildSnapshot restricts the input to the most recent calendar month
// present in the data and precomputes the per-category rollups rules
// share. Records without a date are skipped.
func buildSnapshot(transactions []model.Transaction) *Snapshot {
	var latest time.Time
	for _, txn := range transactions {
		if txn.HasDate() && txn.Date.After(latest) {
			latest = txn.Date
		}
	}
	if latest.IsZero() {
		return nil
	}

	monthStart := time.Date(latest.Year(), latest.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	snap := &Snapshot{
		CategoryTotals: make(map[string]float64),
		CategoryCounts: make(map[string]int),
		MonthStart:     monthStart,
		MonthEnd:       monthEnd,
	}
	for _, txn := range transactions {
		if !txn.HasDate() {
			continue
		}
		day := txn.Day()
		if day.Before(monthStart) || !day.Before(monthEnd) {
			continue
		}
		snap.Transactions = append(snap.Transactions, txn)
		snap.Total += txn.Amount
		snap.CategoryTotals[txn.Category] += txn.Amount
		snap.CategoryCounts[txn.Category]++
	}
	return snap
}
