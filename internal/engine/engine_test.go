package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darshu236/smartexpense-server/internal/classify"
	"github.com/Darshu236/smartexpense-server/internal/common"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/recommend"
)

func foodCorpus(n int) []classify.TrainingPair {
	titles := []string{
		"starbucks coffee downtown",
		"mcdonalds burger meal",
		"dominos pizza delivery",
		"subway sandwich lunch",
		"kfc chicken bucket",
	}
	pairs := make([]classify.TrainingPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, classify.TrainingPair{
			Title:    fmt.Sprintf("%s order %d", titles[i%len(titles)], i),
			Category: "Food & Dining",
		})
	}
	return pairs
}

func mixedCorpus(n int) []classify.TrainingPair {
	pairs := foodCorpus(n / 2)
	for i := 0; i < n-n/2; i++ {
		pairs = append(pairs, classify.TrainingPair{
			Title:    fmt.Sprintf("uber ride airport trip %d", i),
			Category: "Transport",
		})
	}
	return pairs
}

func dailyTxns(days int, amount float64) []model.Transaction {
	txns := make([]model.Transaction, 0, days)
	for i := 0; i < days; i++ {
		txns = append(txns, model.Transaction{
			Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Title:  "txn",
			Amount: amount,
		})
	}
	return txns
}

func TestTrainAndPredict(t *testing.T) {
	e := New(DefaultConfig())

	result := e.Train("acme", mixedCorpus(20))
	require.True(t, result.Trained)
	assert.Equal(t, 20, result.SourceCount)
	assert.Contains(t, result.Categories, "Food & Dining")
	assert.Contains(t, result.Categories, "Transport")

	pred, err := e.PredictCategory("acme", "starbucks coffee")
	require.NoError(t, err)
	assert.Equal(t, "Food & Dining", pred.Category)
}

func TestPredictWithoutTraining(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.PredictCategory("acme", "starbucks coffee")
	assert.ErrorIs(t, err, common.ErrNotTrained)
}

func TestPredictUnusableTitle(t *testing.T) {
	e := New(DefaultConfig())
	require.True(t, e.Train("acme", mixedCorpus(20)).Trained)

	_, err := e.PredictCategory("acme", "12 34 !!")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestTrainBelowMinimumKeepsUntrained(t *testing.T) {
	e := New(DefaultConfig())

	result := e.Train("acme", foodCorpus(4))
	assert.False(t, result.Trained)
	assert.False(t, e.ClassifierTrained("acme"))
}

func TestSuggestCategoryAutoApplyPolicy(t *testing.T) {
	t.Run("small corpus never auto-applies", func(t *testing.T) {
		e := New(DefaultConfig())
		// Single-label corpus predicts with confidence 1.0, but the corpus
		// is below the minimum source count.
		require.True(t, e.Train("acme", foodCorpus(6)).Trained)

		s, err := e.SuggestCategory("acme", "starbucks coffee")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, s.Prediction.Confidence, 1e-9)
		assert.False(t, s.AutoApply)
	})

	t.Run("confident prediction over large corpus auto-applies", func(t *testing.T) {
		e := New(DefaultConfig())
		require.True(t, e.Train("acme", foodCorpus(12)).Trained)

		s, err := e.SuggestCategory("acme", "starbucks coffee")
		require.NoError(t, err)
		assert.True(t, s.AutoApply)
	})

	t.Run("threshold is strict", func(t *testing.T) {
		e := New(Config{ConfidenceThreshold: 1.0, MinSourceCount: 10})
		require.True(t, e.Train("acme", foodCorpus(12)).Trained)

		s, err := e.SuggestCategory("acme", "starbucks coffee")
		require.NoError(t, err)
		assert.False(t, s.AutoApply)
	})
}

func TestTenantsAreIsolated(t *testing.T) {
	e := New(DefaultConfig())
	require.True(t, e.Train("acme", mixedCorpus(20)).Trained)

	_, err := e.PredictCategory("globex", "starbucks coffee")
	assert.ErrorIs(t, err, common.ErrNotTrained)
}

func TestDetectAnomaliesInsufficientDays(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.DetectAnomalies(dailyTxns(6, 50))
	assert.ErrorIs(t, err, common.ErrInsufficientData)

	records, err := e.DetectAnomalies(dailyTxns(8, 50))
	require.NoError(t, err)
	assert.NotNil(t, records)
}

func TestProfileInsufficientData(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.Profile(dailyTxns(19, 50))
	assert.ErrorIs(t, err, common.ErrInsufficientData)

	profile, err := e.Profile(dailyTxns(25, 50))
	require.NoError(t, err)
	assert.NotEmpty(t, profile.SpendingProfile)
}

func TestForecastInsufficientData(t *testing.T) {
	e := New(DefaultConfig())

	_, err := e.Forecast(dailyTxns(29, 50), 30)
	assert.ErrorIs(t, err, common.ErrInsufficientData)

	result, err := e.Forecast(dailyTxns(31, 50), 7)
	require.NoError(t, err)
	assert.Len(t, result.Values, 7)
}

func TestRecommendModeFollowsClassifierState(t *testing.T) {
	e := New(DefaultConfig())
	txns := dailyTxns(10, 200)

	_, fallback := e.Recommend("acme", txns, recommend.BudgetInfo{})
	assert.True(t, fallback, "untrained tenant uses the fallback path")

	require.True(t, e.Train("acme", mixedCorpus(20)).Trained)
	_, fallback = e.Recommend("acme", txns, recommend.BudgetInfo{})
	assert.False(t, fallback, "trained tenant uses the insight path")
}
