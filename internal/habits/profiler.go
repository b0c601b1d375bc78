// Package habits summarizes a caller's transactions into a coarse
// behavioral profile.
package habits

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// MinTransactions is the floor below which no profile is produced.
const MinTransactions = 20

// topCategoryCount bounds how many category spend ratios the profile reports.
const topCategoryCount = 5

// paymentModes is the fixed mode set reported by the profile. Modes absent
// from the data default to a 0 fraction.
var paymentModes = []string{"cash", "card", "wallet", "bank"}

// Spending thresholds for the profile labels.
const (
	highSpenderMean     = 1000
	moderateSpenderMean = 500
)

// Profiler computes descriptive spending statistics for a single tenant.
// Despite its clustering-flavored origins this performs no cross-user
// clustering; the scope is intentionally single-tenant.
type Profiler struct{}

// NewProfiler returns a profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Profile summarizes the transactions, or returns nil when fewer than
// MinTransactions are supplied.
func (p *Profiler) Profile(transactions []model.Transaction) *model.Profile {
	if len(transactions) < MinTransactions {
		return nil
	}

	amounts := make([]float64, len(transactions))
	categoryTotals := make(map[string]float64)
	modeCounts := make(map[string]int)
	var grandTotal float64
	for i, txn := range transactions {
		amounts[i] = txn.Amount
		grandTotal += txn.Amount
		categoryTotals[txn.Category] += txn.Amount
		modeCounts[txn.PaymentMode]++
	}

	mean := stat.Mean(amounts, nil)
	stddev := stat.StdDev(amounts, nil)

	profile := &model.Profile{
		MeanAmount:        mean,
		StddevAmount:      stddev,
		TopCategoryRatios: topCategoryRatios(categoryTotals, grandTotal),
		PaymentModeUsage:  modeUsage(modeCounts, len(transactions)),
		PrimaryCategory:   largestKey(categoryTotals),
		PreferredPayment:  mostUsedMode(modeCounts),
		Frequency:         frequency(transactions),
	}

	switch {
	case mean > highSpenderMean:
		profile.SpendingProfile = model.ProfileHighSpender
	case mean > moderateSpenderMean:
		profile.SpendingProfile = model.ProfileModerateSpender
	default:
		profile.SpendingProfile = model.ProfileConservativeSpender
	}

	if stddev < 0.5*mean {
		profile.SpendingPattern = model.PatternConsistent
	} else {
		profile.SpendingPattern = model.PatternVariable
	}

	return profile
}

// frequency is transactions per day over the observed span, counting the
// span as day-difference plus one so a single-day history divides by 1.
func frequency(transactions []model.Transaction) float64 {
	var earliest, latest *model.Transaction
	for i := range transactions {
		txn := &transactions[i]
		if !txn.HasDate() {
			continue
		}
		if earliest == nil || txn.Date.Before(earliest.Date) {
			earliest = txn
		}
		if latest == nil || txn.Date.After(latest.Date) {
			latest = txn
		}
	}
	if earliest == nil {
		return 0
	}
	span := latest.Day().Sub(earliest.Day()).Hours()/24 + 1
	return float64(len(transactions)) / span
}

func topCategoryRatios(totals map[string]float64, grandTotal float64) map[string]float64 {
	if grandTotal <= 0 {
		return map[string]float64{}
	}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if totals[categories[i]] != totals[categories[j]] {
			return totals[categories[i]] > totals[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > topCategoryCount {
		categories = categories[:topCategoryCount]
	}

	ratios := make(map[string]float64, len(categories))
	for _, category := range categories {
		ratios[category] = totals[category] / grandTotal
	}
	return ratios
}

func modeUsage(counts map[string]int, total int) map[string]float64 {
	usage := make(map[string]float64, len(paymentModes))
	for _, mode := range paymentModes {
		usage[mode] = float64(counts[mode]) / float64(total)
	}
	return usage
}

func largestKey(totals map[string]float64) string {
	var best string
	var bestTotal float64
	for category, total := range totals {
		if total > bestTotal || (total == bestTotal && (best == "" || category < best)) {
			best = category
			bestTotal = total
		}
	}
	return best
}

func mostUsedMode(counts map[string]int) string {
	var best string
	var bestCount int
	for mode, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || mode < best)) {
			best = mode
			bestCount = count
		}
	}
	return best
}
