package recommend

import (
	"fmt"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// Rule thresholds. Shares and ratios are strict comparisons.
const (
	highSpendingShare    = 0.30
	smallTxnAmount       = 50.0
	smallTxnCount        = 20
	weekendRatio         = 1.5
	budgetPaceFraction   = 0.8
	frequencyLimit       = 15
	highAverageAmount    = 100.0
	frequencySavingsRate = 0.20
	averageSavingsRate   = 0.15
)

// highSpendingRule flags each of the top-3 categories whose share of the
// monthly total exceeds 30%.
type highSpendingRule struct{}

func (r *highSpendingRule) Name() string { return model.RecHighSpending }
func (r *highSpendingRule) Mode() Mode   { return ModeInsights }

func (r *highSpendingRule) Evaluate(snap *Snapshot, _ BudgetInfo, _ time.Time) []model.Recommendation {
	if snap.Total <= 0 {
		return nil
	}

	var recs []model.Recommendation
	categories := snap.Categories()
	if len(categories) > 3 {
		categories = categories[:3]
	}
	for _, category := range categories {
		amount := snap.CategoryTotals[category]
		share := amount / snap.Total
		if share <= highSpendingShare {
			continue
		}
		recs = append(recs, model.Recommendation{
			Type:     model.RecHighSpending,
			Title:    fmt.Sprintf("High Spending in %s", category),
			Category: category,
			Priority: model.PriorityHigh,
			Amount:   amount,
			Description: fmt.Sprintf(
				"You've spent %.1f%% of this month's total on %s. Consider reducing expenses in this category.",
				share*100, category),
		})
	}
	return recs
}

// smallTransactionsRule flags clutter: many transactions under 50 in the
// month.
type smallTransactionsRule struct{}

func (r *smallTransactionsRule) Name() string { return model.RecSmallTransactions }
func (r *smallTransactionsRule) Mode() Mode   { return ModeInsights }

func (r *smallTransactionsRule) Evaluate(snap *Snapshot, _ BudgetInfo, _ time.Time) []model.Recommendation {
	var count int
	var total float64
	for _, txn := range snap.Transactions {
		if txn.Amount < smallTxnAmount {
			count++
			total += txn.Amount
		}
	}
	if count <= smallTxnCount {
		return nil
	}

	return []model.Recommendation{{
		Type:     model.RecSmallTransactions,
		Title:    "Frequent Small Transactions",
		Priority: model.PriorityMedium,
		Amount:   total,
		Description: fmt.Sprintf(
			"You made %d small transactions totaling $%.2f this month. Consider consolidating purchases.",
			count, total),
	}}
}

// weekendSpendingRule compares the mean weekend transaction against the
// mean weekday transaction. It is skipped when either bucket is empty.
type weekendSpendingRule struct{}

func (r *weekendSpendingRule) Name() string { return model.RecWeekendSpending }
func (r *weekendSpendingRule) Mode() Mode   { return ModeInsights }

func (r *weekendSpendingRule) Evaluate(snap *Snapshot, _ BudgetInfo, _ time.Time) []model.Recommendation {
	var weekendSum, weekdaySum float64
	var weekendCount, weekdayCount int
	for _, txn := range snap.Transactions {
		switch txn.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += txn.Amount
			weekendCount++
		default:
			weekdaySum += txn.Amount
			weekdayCount++
		}
	}
	if weekendCount == 0 || weekdayCount == 0 {
		return nil
	}

	weekendMean := weekendSum / float64(weekendCount)
	weekdayMean := weekdaySum / float64(weekdayCount)
	if weekdayMean <= 0 || weekendMean <= weekdayMean*weekendRatio {
		return nil
	}

	excess := (weekendMean/weekdayMean - 1) * 100
	return []model.Recommendation{{
		Type:     model.RecWeekendSpending,
		Title:    "Elevated Weekend Spending",
		Priority: model.PriorityMedium,
		Description: fmt.Sprintf(
			"Your weekend spending is %.0f%% higher than weekdays. Plan weekend activities within budget.",
			excess),
	}}
}

// budgetPaceRule warns when month-to-date spend passes 80% of the supplied
// monthly budget, including the remaining daily allowance.
type budgetPaceRule struct{}

func (r *budgetPaceRule) Name() string { return model.RecBudgetAlert }
func (r *budgetPaceRule) Mode() Mode   { return ModeInsights }

func (r *budgetPaceRule) Evaluate(snap *Snapshot, budget BudgetInfo, now time.Time) []model.Recommendation {
	if budget.MonthlyBudget <= 0 || snap.Total <= budget.MonthlyBudget*budgetPaceFraction {
		return nil
	}

	daysLeft := int(snap.MonthEnd.Sub(now).Hours() / 24)
	if daysLeft < 1 {
		daysLeft = 1
	}
	dailyAllowance := (budget.MonthlyBudget - snap.Total) / float64(daysLeft)
	if dailyAllowance < 0 {
		dailyAllowance = 0
	}

	return []model.Recommendation{{
		Type:     model.RecBudgetAlert,
		Title:    "Monthly Budget Running Out",
		Priority: model.PriorityHigh,
		Amount:   snap.Total,
		Description: fmt.Sprintf(
			"You've used %.0f%% of your monthly budget. Limit daily spending to $%.2f.",
			snap.Total/budget.MonthlyBudget*100, dailyAllowance),
	}}
}

// categoryOverspendRule reports the exact overspend against an explicit
// per-category budget map. Fallback path only.
type categoryOverspendRule struct{}

func (r *categoryOverspendRule) Name() string { return model.RecBudgetAlert }
func (r *categoryOverspendRule) Mode() Mode   { return ModeFallback }

func (r *categoryOverspendRule) Evaluate(snap *Snapshot, budget BudgetInfo, _ time.Time) []model.Recommendation {
	if len(budget.CategoryBudgets) == 0 {
		return nil
	}

	var recs []model.Recommendation
	for _, category := range snap.Categories() {
		limit, ok := budget.CategoryBudgets[category]
		if !ok || limit <= 0 {
			continue
		}
		spent := snap.CategoryTotals[category]
		if spent <= limit {
			continue
		}
		overspend := spent - limit
		recs = append(recs, model.Recommendation{
			Type:             model.RecBudgetAlert,
			Title:            fmt.Sprintf("Over Budget in %s", category),
			Category:         category,
			Priority:         model.PriorityHigh,
			Amount:           spent,
			PotentialSavings: overspend,
			Description: fmt.Sprintf(
				"You have exceeded your %s budget by $%.2f this month.",
				category, overspend),
		})
	}
	return recs
}

// frequencyRule flags categories with more than 15 transactions in the
// month, estimating savings at 20% of the category's average transaction.
type frequencyRule struct{}

func (r *frequencyRule) Name() string { return model.RecFrequencyAlert }
func (r *frequencyRule) Mode() Mode   { return ModeFallback }

func (r *frequencyRule) Evaluate(snap *Snapshot, _ BudgetInfo, _ time.Time) []model.Recommendation {
	var recs []model.Recommendation
	for _, category := range snap.Categories() {
		count := snap.CategoryCounts[category]
		if count <= frequencyLimit {
			continue
		}
		average := snap.CategoryTotals[category] / float64(count)
		recs = append(recs, model.Recommendation{
			Type:             model.RecFrequencyAlert,
			Title:            fmt.Sprintf("High Transaction Frequency in %s", category),
			Category:         category,
			Priority:         model.PriorityMedium,
			PotentialSavings: average * frequencySavingsRate,
			Description: fmt.Sprintf(
				"You made %d transactions in %s this month. Consider consolidating purchases.",
				count, category),
		})
	}
	return recs
}

// highAverageRule flags categories whose average transaction exceeds 100,
// estimating savings at 15% of the average.
type highAverageRule struct{}

func (r *highAverageRule) Name() string { return model.RecSpendingTip }
func (r *highAverageRule) Mode() Mode   { return ModeFallback }

func (r *highAverageRule) Evaluate(snap *Snapshot, _ BudgetInfo, _ time.Time) []model.Recommendation {
	var recs []model.Recommendation
	for _, category := range snap.Categories() {
		count := snap.CategoryCounts[category]
		if count == 0 {
			continue
		}
		average := snap.CategoryTotals[category] / float64(count)
		if average <= highAverageAmount {
			continue
		}
		recs = append(recs, model.Recommendation{
			Type:             model.RecSpendingTip,
			Title:            fmt.Sprintf("High Average Spending in %s", category),
			Category:         category,
			Priority:         model.PriorityMedium,
			PotentialSavings: average * averageSavingsRate,
			Description: fmt.Sprintf(
				"Your average %s transaction is $%.2f. Look for bulk discounts or alternatives.",
				category, average),
		})
	}
	return recs
}
