package model

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DailyAggregate is a per-calendar-day rollup of transaction amounts. It is
// the shared input shape for anomaly detection and forecasting.
type DailyAggregate struct {
	Date         time.Time
	TotalAmount  float64
	MeanAmount   float64
	StddevAmount float64
	Count        int
}

// BuildDailyAggregates groups transactions by calendar date and computes
// per-day totals, counts, and amount statistics. The result is sorted by
// date ascending. Records without a date are skipped.
func BuildDailyAggregates(transactions []Transaction) []DailyAggregate {
	byDay := make(map[time.Time][]float64)
	for _, txn := range transactions {
		if !txn.HasDate() {
			continue
		}
		day := txn.Day()
		byDay[day] = append(byDay[day], txn.Amount)
	}

	aggregates := make([]DailyAggregate, 0, len(byDay))
	for day, amounts := range byDay {
		agg := DailyAggregate{
			Date:       day,
			Count:      len(amounts),
			MeanAmount: stat.Mean(amounts, nil),
		}
		for _, amount := range amounts {
			agg.TotalAmount += amount
		}
		// Sample stddev is undefined for a single observation; report 0.
		if len(amounts) > 1 {
			agg.StddevAmount = stat.StdDev(amounts, nil)
		}
		aggregates = append(aggregates, agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Date.Before(aggregates[j].Date)
	})

	return aggregates
}
