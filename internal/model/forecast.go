package model

import "time"

// ForecastMethod identifies which strategy produced a forecast.
type ForecastMethod string

// Forecasting strategies, in selection priority order.
const (
	MethodLinearTrend         ForecastMethod = "linear_trend"
	MethodStatisticalSeasonal ForecastMethod = "statistical_seasonal"
	MethodMovingAverage       ForecastMethod = "moving_average"
)

// ForecastResult projects daily spending over a horizon. Dates and Values
// are index-aligned, strictly date-ordered, and contiguous starting the day
// after the last observed day.
type ForecastResult struct {
	Dates  []time.Time
	Values []float64
	Total  float64
	Method ForecastMethod
}
