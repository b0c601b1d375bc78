package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Darshu236/smartexpense-server/internal/common"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/service"
)

// storedRecommendationCap bounds how many recommendations are persisted
// per refresh. Dismissed rows are retained so a dismissal outlives a
// refresh.
const storedRecommendationCap = 5

// SaveRecommendations replaces the tenant's active recommendations with
// the top slice of the given list. Dismissed recommendations are kept.
func (s *SQLiteStorage) SaveRecommendations(ctx context.Context, tenant string, recs []model.Recommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return err
	}

	if len(recs) > storedRecommendationCap {
		recs = recs[:storedRecommendationCap]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM recommendations WHERE tenant = ? AND dismissed = 0", tenant); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations (
			tenant, type, title, description, category, priority, amount, potential_savings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			tenant, rec.Type, rec.Title, rec.Description, rec.Category,
			rec.Priority, rec.Amount, rec.PotentialSavings); err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

// GetRecommendations returns the tenant's stored recommendations, newest
// first, excluding dismissed ones unless includeDismissed is set.
func (s *SQLiteStorage) GetRecommendations(ctx context.Context, tenant string, includeDismissed bool) ([]service.StoredRecommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, type, title, description, category, priority,
			amount, potential_savings, dismissed, created_at
		FROM recommendations
		WHERE tenant = ?
	`
	if !includeDismissed {
		query += " AND dismissed = 0"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stored []service.StoredRecommendation
	for rows.Next() {
		var rec service.StoredRecommendation
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.Rec.Type, &rec.Rec.Title,
			&rec.Rec.Description, &rec.Rec.Category, &rec.Rec.Priority,
			&rec.Rec.Amount, &rec.Rec.PotentialSavings, &rec.Dismissed,
			&createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.CreatedAt = createdAt.UTC()
		stored = append(stored, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return stored, nil
}

// DismissRecommendation marks one stored recommendation as dismissed.
func (s *SQLiteStorage) DismissRecommendation(ctx context.Context, tenant string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenant, "tenant"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE recommendations SET dismissed = 1 WHERE tenant = ? AND id = ?", tenant, id)
	if err != nil {
		return fmt.Errorf("failed to dismiss recommendation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check dismiss result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: recommendation %d", common.ErrNotFound, id)
	}
	return nil
}
