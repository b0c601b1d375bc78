package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Darshu236/smartexpense-server/internal/classify"
	"github.com/Darshu236/smartexpense-server/internal/config"
	"github.com/Darshu236/smartexpense-server/internal/engine"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/service"
	"github.com/Darshu236/smartexpense-server/internal/storage"
)

// openStorage opens the configured database and applies pending migrations.
// The caller owns the returned storage and must close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func currentTenant() string {
	if tenant := viper.GetString("tenant"); tenant != "" {
		return tenant
	}
	return "default"
}

// loadAllTransactions fetches the full transaction history for the tenant.
func loadAllTransactions(ctx context.Context, store service.Storage) ([]model.Transaction, error) {
	transactions, err := store.GetTransactions(ctx, currentTenant(), service.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return transactions, nil
}

// trainedEngine builds an engine and fits the tenant's classifier from
// stored labeled transactions. Models live only for the process lifetime,
// so commands needing predictions train on startup.
func trainedEngine(ctx context.Context, store service.Storage) (*engine.Engine, engine.TrainResult, error) {
	eng := engine.New(engine.DefaultConfig())

	labeled, err := store.GetLabeledTransactions(ctx, currentTenant())
	if err != nil {
		return nil, engine.TrainResult{}, fmt.Errorf("failed to load labeled transactions: %w", err)
	}

	corpus := make([]classify.TrainingPair, 0, len(labeled))
	for _, txn := range labeled {
		corpus = append(corpus, classify.TrainingPair{Title: txn.Title, Category: txn.Category})
	}
	return eng, eng.Train(currentTenant(), corpus), nil
}
