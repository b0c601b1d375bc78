// Package anomaly flags statistically unusual spending days.
package anomaly

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// MinDays is the smallest number of distinct calendar days the detector will
// operate on. Below it, Detect returns no anomalies rather than an error.
const MinDays = 7

// highSeverityQuantile separates High from Medium severity: a flagged day
// whose total exceeds this quantile of all daily totals is High.
const highSeverityQuantile = 0.9

// Detector finds anomalous spending days. It holds no state between calls;
// the feature scaler and the forest are fit on each call's data only.
type Detector struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// NewDetector returns a detector with the standard configuration: 100 trees,
// ~10% of days flagged, fixed seed for reproducible output.
func NewDetector() *Detector {
	return &Detector{
		Trees:         100,
		SampleSize:    256,
		Contamination: 0.1,
		Seed:          42,
	}
}

// Detect groups transactions into daily aggregates and returns one record
// per flagged day. Duplicate days are impossible since the grouping key is
// the calendar date. Output order follows the date order of the aggregates.
func (d *Detector) Detect(transactions []model.Transaction) []model.AnomalyRecord {
	aggregates := model.BuildDailyAggregates(transactions)
	if len(aggregates) < MinDays {
		return nil
	}

	features := make([][]float64, len(aggregates))
	totals := make([]float64, len(aggregates))
	for i, agg := range aggregates {
		features[i] = []float64{agg.TotalAmount, float64(agg.Count), agg.MeanAmount}
		totals[i] = agg.TotalAmount
	}
	standardize(features)

	forest := fitForest(features, d.Trees, d.SampleSize, d.Seed)
	scores := make([]float64, len(features))
	for i, point := range features {
		scores[i] = forest.score(point)
	}

	flagged := topIndices(scores, flagCount(d.Contamination, len(scores)))

	sortedTotals := append([]float64(nil), totals...)
	sort.Float64s(sortedTotals)
	threshold := stat.Quantile(highSeverityQuantile, stat.LinInterp, sortedTotals, nil)

	records := make([]model.AnomalyRecord, 0, len(flagged))
	for _, idx := range flagged {
		agg := aggregates[idx]
		severity := model.SeverityMedium
		if agg.TotalAmount > threshold {
			severity = model.SeverityHigh
		}
		records = append(records, model.AnomalyRecord{
			Date:             agg.Date,
			TotalSpent:       agg.TotalAmount,
			AverageAmount:    agg.MeanAmount,
			TransactionCount: agg.Count,
			Severity:         severity,
		})
	}

	return records
}

// standardize rescales each feature column to zero mean and unit variance.
// Constant columns are left centered at zero.
func standardize(features [][]float64) {
	if len(features) == 0 {
		return
	}
	dims := len(features[0])
	column := make([]float64, len(features))
	for attr := 0; attr < dims; attr++ {
		for i, row := range features {
			column[i] = row[attr]
		}
		mean, stddev := stat.MeanStdDev(column, nil)
		if stddev == 0 || math.IsNaN(stddev) {
			stddev = 1
		}
		for i := range features {
			features[i][attr] = (features[i][attr] - mean) / stddev
		}
	}
}

// flagCount converts a contamination fraction into a whole number of flagged
// days, always at least one.
func flagCount(contamination float64, n int) int {
	k := int(math.Round(contamination * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// topIndices returns the indices of the k highest scores, in ascending index
// order. Score ties break toward the earlier day so output is deterministic.
func topIndices(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	flagged := append([]int(nil), order[:k]...)
	sort.Ints(flagged)
	return flagged
}
