package model

// Prediction is the classifier's answer for a single title. Confidence is
// the posterior probability of the winning class, not a calibrated accuracy
// estimate.
type Prediction struct {
	Category   string
	Confidence float64
}
