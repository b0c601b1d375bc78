package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/service"
)

func TestRenderAnomalies(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := RenderAnomalies(nil)
		assert.Contains(t, out, "No unusual spending days")
	})

	t.Run("flags severity", func(t *testing.T) {
		out := RenderAnomalies([]model.AnomalyRecord{{
			Date:             time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			TotalSpent:       512.75,
			TransactionCount: 9,
			Severity:         model.SeverityHigh,
		}})
		assert.Contains(t, out, "2024-06-15")
		assert.Contains(t, out, "$512.75")
		assert.Contains(t, out, "High")
	})
}

func TestRenderRecommendationsShowsIDs(t *testing.T) {
	out := RenderRecommendations([]service.StoredRecommendation{{
		ID: 7,
		Rec: model.Recommendation{
			Title:            "High Spending in Dining",
			Description:      "Consider reducing expenses.",
			Priority:         model.PriorityHigh,
			PotentialSavings: 42.50,
		},
	}})
	assert.Contains(t, out, "[7]")
	assert.Contains(t, out, "$42.50")
}

func TestRenderForecast(t *testing.T) {
	out := RenderForecast(&model.ForecastResult{
		Dates:  []time.Time{time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		Values: []float64{120.5},
		Total:  120.5,
		Method: model.MethodMovingAverage,
	})
	assert.Contains(t, out, "moving_average")
	assert.Contains(t, out, "2024-07-01")
}

func TestRenderSummaryLabelsUncategorized(t *testing.T) {
	out := RenderSummary(&service.SpendingSummary{
		Start:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: 100,
		Count:       2,
		ByCategory: map[string]service.CategorySummary{
			"":          {Amount: 40, Count: 1},
			"Groceries": {Amount: 60, Count: 1},
		},
	})
	assert.Contains(t, out, "(uncategorized)")
	assert.Contains(t, out, "Groceries")
}
