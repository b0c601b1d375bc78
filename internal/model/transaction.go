// Package model defines the core domain types shared across the analytics engine.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single expense record supplied by a caller.
// Transactions are immutable inputs: the engine never modifies them.
type Transaction struct {
	Date        time.Time
	ID          string
	Title       string // Free-text description, e.g. "Starbucks coffee downtown"
	Category    string // Category label; empty until classified
	PaymentMode string // cash, card, wallet or bank
	Hash        string
	Amount      float64
}

// GenerateHash creates a stable hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Title,
		t.PaymentMode)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// HasDate reports whether the transaction carries a usable calendar date.
// Records without one are skipped by the aggregating components rather than
// aborting the whole batch.
func (t *Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Day returns the transaction's calendar date truncated to midnight UTC,
// which is the grouping key for daily aggregation.
func (t *Transaction) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
}
