package forecast

import (
	"github.com/Darshu236/smartexpense-server/internal/model"
)

// LinearTrend projects from the recent 7-day average plus a per-step trend
// derived from the gap between the first and last weeks of the series. Used
// for short histories where a seasonal fit would be meaningless.
type LinearTrend struct{}

// Method identifies this strategy in forecast output.
func (l *LinearTrend) Method() model.ForecastMethod {
	return model.MethodLinearTrend
}

// Project never fails; it works on any non-empty series.
func (l *LinearTrend) Project(days []model.DailyAggregate, horizon int) ([]float64, error) {
	window := 7
	if window > len(days) {
		window = len(days)
	}

	recentAvg := meanTotals(days[len(days)-window:])
	firstAvg := meanTotals(days[:window])
	trend := (recentAvg - firstAvg) / float64(len(days))

	values := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		projected := recentAvg + trend*float64(i+1)
		if projected < 0 {
			projected = 0
		}
		values[i] = projected
	}
	return values, nil
}
