package model

// Spending profile labels derived from the mean transaction amount.
const (
	ProfileHighSpender         = "High Spender"
	ProfileModerateSpender     = "Moderate Spender"
	ProfileConservativeSpender = "Conservative Spender"
)

// Spending pattern labels derived from amount volatility.
const (
	PatternConsistent = "Consistent"
	PatternVariable   = "Variable"
)

// Profile is a coarse behavioral summary of one caller's transactions.
// This is single-tenant descriptive statistics, not a cross-user cluster
// assignment.
type Profile struct {
	SpendingProfile   string
	SpendingPattern   string
	PrimaryCategory   string
	PreferredPayment  string
	TopCategoryRatios map[string]float64 // top-5 categories, share of total spend
	PaymentModeUsage  map[string]float64 // cash/card/wallet/bank usage fractions
	MeanAmount        float64
	StddevAmount      float64
	Frequency         float64 // transactions per day over the observed span
}
