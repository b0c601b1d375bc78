package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/service"
)

// GetSpendingSummary aggregates the tenant's spending between start
// (inclusive) and end (exclusive).
func (s *SQLiteStorage) GetSpendingSummary(ctx context.Context, tenant string, start, end time.Time) (*service.SpendingSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, payment_mode, amount
		FROM transactions
		WHERE tenant = ? AND date >= ? AND date < ?
	`, tenant, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := &service.SpendingSummary{
		Start:         start,
		End:           end,
		ByCategory:    make(map[string]service.CategorySummary),
		ByPaymentMode: make(map[string]service.CategorySummary),
	}
	for rows.Next() {
		var category, mode string
		var amount float64
		if err := rows.Scan(&category, &mode, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		summary.TotalAmount += amount
		summary.Count++

		byCat := summary.ByCategory[category]
		byCat.Amount += amount
		byCat.Count++
		summary.ByCategory[category] = byCat

		byMode := summary.ByPaymentMode[mode]
		byMode.Amount += amount
		byMode.Count++
		summary.ByPaymentMode[mode] = byMode
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary rows: %w", err)
	}

	if summary.Count > 0 {
		summary.AverageAmount = summary.TotalAmount / float64(summary.Count)
	}
	return summary, nil
}
