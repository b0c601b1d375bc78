// Package testutil provides test utilities: in-memory databases with
// automatic cleanup and transaction fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/service"
	"github.com/Darshu236/smartexpense-server/internal/storage"
)

// TestDB represents a migrated in-memory test database.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. It automatically
// handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustSaveTransactions saves transactions for a tenant or fails the test.
// It returns the number of rows inserted.
func (db *TestDB) MustSaveTransactions(tenant string, transactions []model.Transaction) int {
	db.t.Helper()

	inserted, err := db.Storage.SaveTransactions(context.Background(), tenant, transactions)
	if err != nil {
		db.t.Fatalf("failed to save transactions: %v", err)
	}
	return inserted
}

// Txn builds a transaction fixture with sensible defaults.
func Txn(date time.Time, title string, amount float64, category string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Title:       title,
		Amount:      amount,
		Category:    category,
		PaymentMode: "card",
	}
}
