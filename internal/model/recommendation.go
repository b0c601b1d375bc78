package model

// Priority ranks how urgently a recommendation should be surfaced.
type Priority string

// Recommendation priorities, lowest to highest.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recommendation types emitted by the rule engine.
const (
	RecHighSpending      = "high_spending_alert"
	RecSmallTransactions = "small_transactions"
	RecWeekendSpending   = "weekend_spending"
	RecBudgetAlert       = "budget_alert"
	RecFrequencyAlert    = "frequency_alert"
	RecSpendingTip       = "spending_tip"
)

// Recommendation is a single actionable suggestion. Recommendations are
// stateless outputs; any read/dismissed lifecycle belongs to the caller's
// storage layer.
type Recommendation struct {
	Type             string
	Title            string
	Description      string
	Category         string
	Priority         Priority
	Amount           float64
	PotentialSavings float64
}
