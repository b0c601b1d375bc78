// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Limit     int
	Offset    int
}

// Budgets carries a tenant's configured spending limits. A zero Monthly
// value means no overall budget is set.
type Budgets struct {
	ByCategory map[string]float64
	Monthly    float64
}

// StoredRecommendation is a persisted recommendation with its row identity
// and dismissal state.
type StoredRecommendation struct {
	CreatedAt time.Time
	Rec       model.Recommendation
	ID        int64
	Dismissed bool
}

// SpendingSummary contains aggregated statistics for a date range.
type SpendingSummary struct {
	ByCategory    map[string]CategorySummary
	ByPaymentMode map[string]CategorySummary
	Start         time.Time
	End           time.Time
	TotalAmount   float64
	AverageAmount float64
	Count         int
}

// CategorySummary contains aggregated statistics for one grouping key.
type CategorySummary struct {
	Amount float64
	Count  int
}

// Storage defines the contract for our persistence layer. Every operation
// is scoped to a tenant; an unknown tenant behaves like an empty one.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, tenant string, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, tenant string, filter TransactionFilter) ([]model.Transaction, error)
	GetLabeledTransactions(ctx context.Context, tenant string) ([]model.Transaction, error)
	CountTransactions(ctx context.Context, tenant string) (int, error)
	UpdateTransactionCategory(ctx context.Context, tenant, hash, category string) error

	// Budget operations
	SetMonthlyBudget(ctx context.Context, tenant string, amount float64) error
	SetCategoryBudget(ctx context.Context, tenant, category string, amount float64) error
	GetBudgets(ctx context.Context, tenant string) (*Budgets, error)

	// Recommendation operations
	SaveRecommendations(ctx context.Context, tenant string, recs []model.Recommendation) error
	GetRecommendations(ctx context.Context, tenant string, includeDismissed bool) ([]StoredRecommendation, error)
	DismissRecommendation(ctx context.Context, tenant string, id int64) error

	// Reporting
	GetSpendingSummary(ctx context.Context, tenant string, start, end time.Time) (*SpendingSummary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
