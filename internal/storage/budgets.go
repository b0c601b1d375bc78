package storage

import (
	"context"
	"fmt"

	"github.com/Darshu236/smartexpense-server/internal/service"
)

// The overall monthly budget is stored as the empty category.
const monthlyBudgetKey = ""

// SetMonthlyBudget sets or replaces the tenant's overall monthly budget.
func (s *SQLiteStorage) SetMonthlyBudget(ctx context.Context, tenant string, amount float64) error {
	return s.upsertBudget(ctx, tenant, monthlyBudgetKey, amount)
}

// SetCategoryBudget sets or replaces a per-category budget for the tenant.
func (s *SQLiteStorage) SetCategoryBudget(ctx context.Context, tenant, category string, amount float64) error {
	if err := validateString(category, "category"); err != nil {
		return err
	}
	return s.upsertBudget(ctx, tenant, category, amount)
}

func (s *SQLiteStorage) upsertBudget(ctx context.Context, tenant, category string, amount float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %.2f", ErrInvalidAmount, amount)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (tenant, category, amount, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(tenant, category) DO UPDATE SET
			amount = excluded.amount,
			updated_at = CURRENT_TIMESTAMP
	`, tenant, category, amount)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// GetBudgets returns the tenant's monthly and per-category budgets. A
// tenant with no budgets gets a zero-valued result, not an error.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, tenant string) (*service.Budgets, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount FROM budgets WHERE tenant = ?", tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	budgets := &service.Budgets{ByCategory: make(map[string]float64)}
	for rows.Next() {
		var category string
		var amount float64
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if category == monthlyBudgetKey {
			budgets.Monthly = amount
		} else {
			budgets.ByCategory[category] = amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}
