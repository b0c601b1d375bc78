package forecast

import (
	"github.com/Darshu236/smartexpense-server/internal/model"
)

// MovingAverage forecasts every future day as the flat mean of the trailing
// window. It is the terminal fallback and cannot fail.
type MovingAverage struct{}

// Method identifies this strategy in forecast output.
func (m *MovingAverage) Method() model.ForecastMethod {
	return model.MethodMovingAverage
}

// Project returns a flat projection of the trailing min(7, len) window mean.
func (m *MovingAverage) Project(days []model.DailyAggregate, horizon int) ([]float64, error) {
	window := 7
	if window > len(days) {
		window = len(days)
	}
	avg := meanTotals(days[len(days)-window:])
	if avg < 0 {
		avg = 0
	}

	values := make([]float64, horizon)
	for i := range values {
		values[i] = avg
	}
	return values, nil
}
