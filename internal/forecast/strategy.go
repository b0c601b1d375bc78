// Package forecast projects future daily spending from historical daily
// aggregates.
package forecast

import (
	"log/slog"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// MinTransactions is the floor below which no forecast is produced.
const MinTransactions = 30

// seasonalMinDays is the number of distinct observed days required before a
// trend-capable seasonal model is attempted.
const seasonalMinDays = 14

// DefaultHorizon is the projection length used when the caller does not ask
// for a specific one.
const DefaultHorizon = 30

// Strategy projects daily totals over a horizon from an ordered daily
// series. Implementations must return exactly horizon values, all >= 0.
type Strategy interface {
	Method() model.ForecastMethod
	Project(days []model.DailyAggregate, horizon int) ([]float64, error)
}

// Forecaster selects among strategies by data volume: a short series gets a
// linear trend, a longer one attempts the seasonal model and degrades to a
// moving average when the fit fails. Strategy failures never reach the
// caller.
type Forecaster struct {
	linear   Strategy
	seasonal Strategy
	fallback Strategy
}

// New returns a forecaster with the standard strategy chain.
func New() *Forecaster {
	return &Forecaster{
		linear:   &LinearTrend{},
		seasonal: &Seasonal{},
		fallback: &MovingAverage{},
	}
}

// NewWithStrategies builds a forecaster from explicit strategies. A nil
// seasonal strategy disables the seasonal attempt entirely (the capability
// is simply absent).
func NewWithStrategies(linear, seasonal, fallback Strategy) *Forecaster {
	return &Forecaster{linear: linear, seasonal: seasonal, fallback: fallback}
}

// Forecast aggregates transactions into a daily series and projects horizon
// days past the last observed day. It returns nil when fewer than
// MinTransactions are supplied. The result's dates are contiguous and its
// values sum to Total.
func (f *Forecaster) Forecast(transactions []model.Transaction, horizon int) *model.ForecastResult {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if len(transactions) < MinTransactions {
		return nil
	}

	days := model.BuildDailyAggregates(transactions)
	if len(days) == 0 {
		return nil
	}

	var values []float64
	var method model.ForecastMethod

	if len(days) < seasonalMinDays {
		values, _ = f.linear.Project(days, horizon)
		method = f.linear.Method()
	} else {
		if f.seasonal != nil {
			projected, err := f.seasonal.Project(days, horizon)
			if err == nil {
				values = projected
				method = f.seasonal.Method()
			} else {
				slog.Debug("seasonal forecast unavailable, falling back",
					"error", err)
			}
		}
		if values == nil {
			values, _ = f.fallback.Project(days, horizon)
			method = f.fallback.Method()
		}
	}

	lastDay := days[len(days)-1].Date
	dates := make([]time.Time, horizon)
	var total float64
	for i := 0; i < horizon; i++ {
		dates[i] = lastDay.AddDate(0, 0, i+1)
		total += values[i]
	}

	return &model.ForecastResult{
		Dates:  dates,
		Values: values,
		Total:  total,
		Method: method,
	}
}

func meanTotals(days []model.DailyAggregate) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, day := range days {
		sum += day.TotalAmount
	}
	return sum / float64(len(days))
}
