// Package engine wires the analytics components together behind one
// facade. The engine holds the only mutable state in the analytics layer,
// the per-tenant classifier registry; everything else is computed fresh
// from the transactions passed in.
package engine

import (
	"fmt"

	"github.com/Darshu236/smartexpense-server/internal/anomaly"
	"github.com/Darshu236/smartexpense-server/internal/classify"
	"github.com/Darshu236/smartexpense-server/internal/common"
	"github.com/Darshu236/smartexpense-server/internal/forecast"
	"github.com/Darshu236/smartexpense-server/internal/habits"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/recommend"
)

// Config holds the engine's tunable policy knobs.
type Config struct {
	// ConfidenceThreshold gates automatic category application. A
	// prediction at or below the threshold is surfaced but not applied.
	ConfidenceThreshold float64
	// MinSourceCount is the training corpus size below which predictions
	// are never auto-applied, regardless of confidence.
	MinSourceCount int
}

// DefaultConfig returns the standard policy settings.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.7,
		MinSourceCount:      10,
	}
}

// TrainResult reports the outcome of a training run.
type TrainResult struct {
	Categories  []string
	SourceCount int
	Trained     bool
}

// Suggestion is a prediction plus the auto-apply decision for it.
type Suggestion struct {
	Prediction model.Prediction
	AutoApply  bool
}

// Engine coordinates classification, anomaly detection, habit profiling,
// forecasting and recommendations. Safe for concurrent use.
type Engine struct {
	classifiers *classify.Registry
	detector    *anomaly.Detector
	profiler    *habits.Profiler
	forecaster  *forecast.Forecaster
	recommender *recommend.Generator
	cfg         Config
}

// New creates an engine with the given policy config.
func New(cfg Config) *Engine {
	return &Engine{
		classifiers: classify.NewRegistry(),
		detector:    anomaly.NewDetector(),
		profiler:    habits.NewProfiler(),
		forecaster:  forecast.New(),
		recommender: recommend.NewGenerator(),
		cfg:         cfg,
	}
}

// Train fits or refits the tenant's classifier from labeled pairs. A run
// that cannot train (corpus too small after filtering) leaves any prior
// model in place and reports Trained false.
func (e *Engine) Train(tenant string, corpus []classify.TrainingPair) TrainResult {
	handle := e.classifiers.Get(tenant)
	trained := handle.Train(corpus)
	return TrainResult{
		Trained:     trained,
		SourceCount: handle.SourceCount(),
		Categories:  handle.Categories(),
	}
}

// PredictCategory returns the tenant classifier's best category for a
// transaction title. ErrNotTrained is returned when the tenant has no
// fitted model, ErrInvalidInput when the title normalizes to nothing.
func (e *Engine) PredictCategory(tenant, title string) (*model.Prediction, error) {
	handle, ok := e.classifiers.Lookup(tenant)
	if !ok || !handle.Trained() {
		return nil, fmt.Errorf("%w: tenant %q", common.ErrNotTrained, tenant)
	}

	pred := handle.Predict(title)
	if pred == nil {
		return nil, fmt.Errorf("%w: title has no usable tokens", common.ErrInvalidInput)
	}
	return pred, nil
}

// SuggestCategory predicts a category and decides whether it should be
// applied automatically: confidence strictly above the threshold and a
// training corpus of at least MinSourceCount transactions.
func (e *Engine) SuggestCategory(tenant, title string) (*Suggestion, error) {
	pred, err := e.PredictCategory(tenant, title)
	if err != nil {
		return nil, err
	}

	handle, _ := e.classifiers.Lookup(tenant)
	return &Suggestion{
		Prediction: *pred,
		AutoApply: pred.Confidence > e.cfg.ConfidenceThreshold &&
			handle.SourceCount() >= e.cfg.MinSourceCount,
	}, nil
}

// ClassifierTrained reports whether the tenant has a fitted model.
func (e *Engine) ClassifierTrained(tenant string) bool {
	handle, ok := e.classifiers.Lookup(tenant)
	return ok && handle.Trained()
}

// DetectAnomalies flags unusual spending days. ErrInsufficientData is
// returned when fewer than the minimum number of distinct spending days
// are present.
func (e *Engine) DetectAnomalies(transactions []model.Transaction) ([]model.AnomalyRecord, error) {
	days := model.BuildDailyAggregates(transactions)
	if len(days) < anomaly.MinDays {
		return nil, fmt.Errorf("%w: need %d distinct spending days, have %d",
			common.ErrInsufficientData, anomaly.MinDays, len(days))
	}
	return e.detector.Detect(transactions), nil
}

// Profile derives the tenant's spending habits. ErrInsufficientData is
// returned below the minimum transaction count.
func (e *Engine) Profile(transactions []model.Transaction) (*model.Profile, error) {
	profile := e.profiler.Profile(transactions)
	if profile == nil {
		return nil, fmt.Errorf("%w: need %d transactions, have %d",
			common.ErrInsufficientData, habits.MinTransactions, len(transactions))
	}
	return profile, nil
}

// Forecast projects daily spending for the given horizon.
// ErrInsufficientData is returned below the minimum transaction count.
func (e *Engine) Forecast(transactions []model.Transaction, horizon int) (*model.ForecastResult, error) {
	result := e.forecaster.Forecast(transactions, horizon)
	if result == nil {
		return nil, fmt.Errorf("%w: need %d transactions, have %d",
			common.ErrInsufficientData, forecast.MinTransactions, len(transactions))
	}
	return result, nil
}

// Recommend generates spending recommendations. The insight rule set runs
// when the tenant has a trained classifier; otherwise the rule-based
// fallback path runs. The second return reports whether the fallback path
// was used.
func (e *Engine) Recommend(tenant string, transactions []model.Transaction, budget recommend.BudgetInfo) ([]model.Recommendation, bool) {
	if e.ClassifierTrained(tenant) {
		return e.recommender.Recommend(transactions, budget), false
	}
	return e.recommender.Fallback(transactions, budget), true
}
