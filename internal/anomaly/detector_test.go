package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

func dayTxn(day int, amount float64) model.Transaction {
	return model.Transaction{
		Date:   time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC),
		Title:  "txn",
		Amount: amount,
	}
}

func TestDetectBelowMinimumDays(t *testing.T) {
	detector := NewDetector()

	// Six distinct days, one of them wildly larger. Floor not met, so no
	// anomalies regardless of magnitude.
	var txns []model.Transaction
	for day := 1; day <= 5; day++ {
		txns = append(txns, dayTxn(day, 100))
	}
	txns = append(txns, dayTxn(6, 50000))

	assert.Empty(t, detector.Detect(txns))
}

func TestDetectFlagsExtremeDay(t *testing.T) {
	detector := NewDetector()

	var txns []model.Transaction
	for day := 1; day <= 7; day++ {
		txns = append(txns, dayTxn(day, 100))
		txns = append(txns, dayTxn(day, 120))
	}
	// Day 8 is roughly 10x the others' total.
	txns = append(txns, dayTxn(8, 1100), dayTxn(8, 1100))

	records := detector.Detect(txns)
	require.NotEmpty(t, records)

	var spike *model.AnomalyRecord
	for i := range records {
		if records[i].Date.Day() == 8 {
			spike = &records[i]
		}
	}
	require.NotNil(t, spike, "the extreme day must be flagged")
	assert.Equal(t, model.SeverityHigh, spike.Severity)
	assert.InDelta(t, 2200, spike.TotalSpent, 1e-9)
	assert.Equal(t, 2, spike.TransactionCount)
	assert.InDelta(t, 1100, spike.AverageAmount, 1e-9)
}

func TestDetectDeterministic(t *testing.T) {
	detector := NewDetector()

	var txns []model.Transaction
	amounts := []float64{80, 95, 110, 300, 70, 85, 90, 105, 65, 1500}
	for day, amount := range amounts {
		txns = append(txns, dayTxn(day+1, amount))
	}

	first := detector.Detect(txns)
	second := detector.Detect(txns)
	assert.Equal(t, first, second)
}

func TestDetectNoDuplicateDays(t *testing.T) {
	detector := NewDetector()

	var txns []model.Transaction
	for day := 1; day <= 10; day++ {
		for i := 0; i < 3; i++ {
			txns = append(txns, dayTxn(day, float64(50+day*10+i)))
		}
	}

	records := detector.Detect(txns)
	seen := make(map[time.Time]bool)
	for _, rec := range records {
		assert.False(t, seen[rec.Date], "day flagged twice: %s", rec.Date)
		seen[rec.Date] = true
	}
}

func TestDetectSkipsRecordsWithoutDates(t *testing.T) {
	detector := NewDetector()

	var txns []model.Transaction
	for day := 1; day <= 8; day++ {
		txns = append(txns, dayTxn(day, 100))
	}
	// Malformed record: no date. Skipped, not fatal.
	txns = append(txns, model.Transaction{Title: "no date", Amount: 99999})

	records := detector.Detect(txns)
	for _, rec := range records {
		assert.False(t, rec.Date.IsZero())
	}
}

func TestFlagCount(t *testing.T) {
	assert.Equal(t, 1, flagCount(0.1, 7))
	assert.Equal(t, 1, flagCount(0.1, 8))
	assert.Equal(t, 2, flagCount(0.1, 15))
	assert.Equal(t, 10, flagCount(0.1, 100))
	assert.Equal(t, 1, flagCount(0.0, 50))
}
