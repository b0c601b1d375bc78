package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/common"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/service"
)

// SaveTransactions saves multiple transactions for a tenant, silently
// skipping duplicates by content hash. It returns the number of rows
// actually inserted.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, tenant string, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, tenant, hash, date, title, category, payment_mode, amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var inserted int
	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if txn.ID == "" {
			txn.ID = txn.Hash
		}

		result, execErr := stmt.ExecContext(ctx,
			txn.ID,
			tenant,
			txn.Hash,
			txn.Date,
			txn.Title,
			txn.Category,
			txn.PaymentMode,
			txn.Amount,
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, execErr)
		}
		rows, raErr := result.RowsAffected()
		if raErr != nil {
			return 0, fmt.Errorf("failed to count inserted rows: %w", raErr)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

// GetTransactions returns a tenant's transactions matching the filter,
// ordered by date ascending.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, tenant string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, hash, date, title, category, payment_mode, amount
		FROM transactions
		WHERE tenant = ?
	`)
	args := []any{tenant}

	if filter.StartDate != nil {
		sb.WriteString(" AND date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND date < ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, filter.Category)
	}

	sb.WriteString(" ORDER BY date ASC, id ASC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			sb.WriteString(" OFFSET ?")
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetLabeledTransactions returns the tenant's transactions that already
// carry a category, which form the training corpus for the classifier.
func (s *SQLiteStorage) GetLabeledTransactions(ctx context.Context, tenant string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, title, category, payment_mode, amount
		FROM transactions
		WHERE tenant = ? AND category != ''
		ORDER BY date ASC, id ASC
	`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query labeled transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// CountTransactions returns how many transactions the tenant has stored.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, tenant string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE tenant = ?", tenant).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// UpdateTransactionCategory sets the category on a single transaction
// identified by its content hash.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, tenant, hash, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return err
	}
	if err := validateString(hash, "hash"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category = ? WHERE tenant = ? AND hash = ?
	`, category, tenant, hash)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, hash)
	}
	return nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var date time.Time
		if err := rows.Scan(&txn.ID, &txn.Hash, &date, &txn.Title,
			&txn.Category, &txn.PaymentMode, &txn.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Date = date.UTC()
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
