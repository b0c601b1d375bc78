package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// Seasonal strategy errors. These trigger a silent fallback in the
// forecaster and are never surfaced to callers.
var (
	ErrSeriesTooShort    = errors.New("seasonal fit: series shorter than two weeks")
	ErrDegenerateFit     = errors.New("seasonal fit: regression did not converge")
	ErrUnobservedWeekday = errors.New("seasonal fit: weekday never observed")
)

// Seasonal fits a linear trend over the day index plus a weekly seasonal
// offset per weekday (no daily seasonality). The fit fails when the series
// is too short or some weekday has no observations to estimate an offset
// from.
type Seasonal struct{}

// Method identifies this strategy in forecast output.
func (s *Seasonal) Method() model.ForecastMethod {
	return model.MethodStatisticalSeasonal
}

// Project fits on the full series and projects horizon days past the last
// observation, flooring each value at 0.
func (s *Seasonal) Project(days []model.DailyAggregate, horizon int) ([]float64, error) {
	if len(days) < seasonalMinDays {
		return nil, ErrSeriesTooShort
	}

	origin := days[0].Date
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, day := range days {
		xs[i] = day.Date.Sub(origin).Hours() / 24
		ys[i] = day.TotalAmount
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return nil, ErrDegenerateFit
	}

	var offsetSums [7]float64
	var offsetCounts [7]int
	for i, day := range days {
		w := int(day.Date.Weekday())
		offsetSums[w] += ys[i] - (alpha + beta*xs[i])
		offsetCounts[w]++
	}
	var offsets [7]float64
	for w := 0; w < 7; w++ {
		if offsetCounts[w] == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnobservedWeekday, time.Weekday(w))
		}
		offsets[w] = offsetSums[w] / float64(offsetCounts[w])
	}

	lastDay := days[len(days)-1].Date
	lastX := xs[len(xs)-1]
	values := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		date := lastDay.AddDate(0, 0, i+1)
		projected := alpha + beta*(lastX+float64(i+1)) + offsets[int(date.Weekday())]
		if projected < 0 {
			projected = 0
		}
		values[i] = projected
	}
	return values, nil
}
