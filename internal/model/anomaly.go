package model

import "time"

// Severity is a coarse anomaly magnitude label.
type Severity string

// Severity levels assigned to flagged days.
const (
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// AnomalyRecord describes one statistically unusual spending day. Records
// are recomputed on every call and never persisted by the engine itself.
type AnomalyRecord struct {
	Date             time.Time
	TotalSpent       float64
	AverageAmount    float64
	TransactionCount int
	Severity         Severity
}
