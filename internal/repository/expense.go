package repository

import (
	"context"
	"time"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

type ExpenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, record *models.ExpenseRecord) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO expense_records (user_id, spent_at, category, note, amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		record.UserID, record.SpentAt, record.Category, record.Note, record.Amount,
	).Scan(&record.ID, &record.CreatedAt)
}

// GetByDateRange returns the user's expenses spent inside the closed date
// range [start, end]; end is extended to the end of its day.
func (r *ExpenseRepository) GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.ExpenseRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, spent_at, category, note, amount, created_at
		 FROM expense_records WHERE user_id = $1 AND spent_at >= $2 AND spent_at < $3
		 ORDER BY spent_at DESC`,
		userID, start, end.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ExpenseRecord
	for rows.Next() {
		record := &models.ExpenseRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.SpentAt, &record.Category,
			&record.Note, &record.Amount, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SumByDateRange returns the total spent in the closed date range.
func (r *ExpenseRepository) SumByDateRange(ctx context.Context, userID int64, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expense_records
		 WHERE user_id = $1 AND spent_at >= $2 AND spent_at < $3`,
		userID, start, end.AddDate(0, 0, 1),
	).Scan(&total)
	return total, err
}

func (r *ExpenseRepository) Delete(ctx context.Context, recordID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM expense_records WHERE id = $1 AND user_id = $2`,
		recordID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
