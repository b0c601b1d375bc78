package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// spanTxns spreads count transactions evenly across the given number of
// distinct days starting 2024-06-01.
func spanTxns(count, days int, amount float64) []model.Transaction {
	txns := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txns = append(txns, model.Transaction{
			Date:   time.Date(2024, 6, 1+i%days, 10, 0, 0, 0, time.UTC),
			Title:  "txn",
			Amount: amount,
		})
	}
	return txns
}

type failingStrategy struct{}

func (f *failingStrategy) Method() model.ForecastMethod { return model.MethodStatisticalSeasonal }
func (f *failingStrategy) Project([]model.DailyAggregate, int) ([]float64, error) {
	return nil, errors.New("model blew up")
}

func TestForecastBelowMinimumTransactions(t *testing.T) {
	f := New()
	assert.Nil(t, f.Forecast(spanTxns(29, 10, 50), 30))
	assert.Nil(t, f.Forecast(nil, 30))
}

func TestForecastShortSeriesUsesLinearTrend(t *testing.T) {
	f := New()

	// 40 transactions over exactly 10 distinct days.
	result := f.Forecast(spanTxns(40, 10, 50), 30)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodLinearTrend, result.Method)
	assert.Len(t, result.Values, 30)
	assert.Len(t, result.Dates, 30)
}

func TestForecastLongSeriesUsesSeasonal(t *testing.T) {
	f := New()

	// 60 transactions over 20 consecutive days: every weekday observed.
	result := f.Forecast(spanTxns(60, 20, 50), 14)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodStatisticalSeasonal, result.Method)
	assert.Len(t, result.Values, 14)
}

func TestForecastSeasonalFailureFallsBack(t *testing.T) {
	f := NewWithStrategies(&LinearTrend{}, &failingStrategy{}, &MovingAverage{})

	result := f.Forecast(spanTxns(60, 20, 50), 30)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodMovingAverage, result.Method)
}

func TestForecastSeasonalAbsentFallsBack(t *testing.T) {
	f := NewWithStrategies(&LinearTrend{}, nil, &MovingAverage{})

	result := f.Forecast(spanTxns(60, 20, 50), 30)
	require.NotNil(t, result)
	assert.Equal(t, model.MethodMovingAverage, result.Method)
}

func TestForecastOutputInvariants(t *testing.T) {
	f := New()

	for _, horizon := range []int{1, 7, 30, 90} {
		result := f.Forecast(spanTxns(45, 15, 80), horizon)
		require.NotNil(t, result)
		require.Len(t, result.Values, horizon)
		require.Len(t, result.Dates, horizon)

		var sum float64
		for i, v := range result.Values {
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
			if i > 0 {
				assert.Equal(t, result.Dates[i-1].AddDate(0, 0, 1), result.Dates[i],
					"dates must be contiguous")
			}
		}
		assert.InDelta(t, sum, result.Total, 1e-9)
	}
}

func TestForecastDatesStartAfterLastObservation(t *testing.T) {
	f := New()

	txns := spanTxns(40, 10, 50)
	result := f.Forecast(txns, 5)
	require.NotNil(t, result)

	lastObserved := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, lastObserved.AddDate(0, 0, 1), result.Dates[0])
}

func TestForecastDefaultHorizon(t *testing.T) {
	f := New()

	result := f.Forecast(spanTxns(40, 10, 50), 0)
	require.NotNil(t, result)
	assert.Len(t, result.Values, DefaultHorizon)
}

func TestLinearTrendProjection(t *testing.T) {
	// Ten days ramping 10, 20, ..., 100.
	days := make([]model.DailyAggregate, 10)
	for i := range days {
		days[i] = model.DailyAggregate{
			Date:        time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			TotalAmount: float64(10 * (i + 1)),
		}
	}

	values, err := (&LinearTrend{}).Project(days, 3)
	require.NoError(t, err)

	// recent 7-day mean = 70, first 7-day mean = 40, trend = 3/day.
	assert.InDelta(t, 73, values[0], 1e-9)
	assert.InDelta(t, 76, values[1], 1e-9)
	assert.InDelta(t, 79, values[2], 1e-9)
}

func TestLinearTrendFloorsAtZero(t *testing.T) {
	// Steeply declining series projects below zero quickly.
	days := make([]model.DailyAggregate, 10)
	for i := range days {
		days[i] = model.DailyAggregate{
			Date:        time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			TotalAmount: float64(1000 - 110*i),
		}
	}

	values, err := (&LinearTrend{}).Project(days, 30)
	require.NoError(t, err)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Equal(t, 0.0, values[len(values)-1])
}

func TestMovingAverageFlat(t *testing.T) {
	days := make([]model.DailyAggregate, 10)
	for i := range days {
		days[i] = model.DailyAggregate{
			Date:        time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			TotalAmount: float64(10 * (i + 1)),
		}
	}

	values, err := (&MovingAverage{}).Project(days, 5)
	require.NoError(t, err)

	// Trailing 7-day mean: (40+...+100)/7 = 70.
	for _, v := range values {
		assert.InDelta(t, 70, v, 1e-9)
	}
}

func TestSeasonalRejectsShortSeries(t *testing.T) {
	days := make([]model.DailyAggregate, 10)
	for i := range days {
		days[i] = model.DailyAggregate{
			Date:        time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			TotalAmount: 50,
		}
	}

	_, err := (&Seasonal{}).Project(days, 7)
	assert.ErrorIs(t, err, ErrSeriesTooShort)
}

func TestSeasonalRejectsUnobservedWeekday(t *testing.T) {
	// 21 days but every Sunday removed.
	var days []model.DailyAggregate
	for i := 0; i < 21; i++ {
		date := time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC)
		if date.Weekday() == time.Sunday {
			continue
		}
		days = append(days, model.DailyAggregate{Date: date, TotalAmount: 50})
	}
	require.GreaterOrEqual(t, len(days), seasonalMinDays)

	_, err := (&Seasonal{}).Project(days, 7)
	assert.ErrorIs(t, err, ErrUnobservedWeekday)
}

func TestSeasonalCapturesWeeklyPattern(t *testing.T) {
	// Flat 100/day with a +200 bump every Saturday across four weeks.
	var days []model.DailyAggregate
	for i := 0; i < 28; i++ {
		date := time.Date(2024, 6, 3+i, 0, 0, 0, 0, time.UTC) // Monday start
		total := 100.0
		if date.Weekday() == time.Saturday {
			total = 300
		}
		days = append(days, model.DailyAggregate{Date: date, TotalAmount: total})
	}

	values, err := (&Seasonal{}).Project(days, 7)
	require.NoError(t, err)
	require.Len(t, values, 7)

	// The projected Saturday should clearly exceed the projected midweek.
	var saturday, tuesday float64
	last := days[len(days)-1].Date
	for i, v := range values {
		switch last.AddDate(0, 0, i+1).Weekday() {
		case time.Saturday:
			saturday = v
		case time.Tuesday:
			tuesday = v
		}
	}
	assert.Greater(t, saturday, tuesday+100)
}
