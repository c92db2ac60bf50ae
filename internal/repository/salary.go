package repository

import (
	"context"
	"time"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

type SalaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

func (r *SalaryRepository) Create(ctx context.Context, record *models.SalaryRecord) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO salary_records (user_id, record_date, kind, start_time, end_time, hours, rate, amount, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		record.UserID, record.RecordDate, record.Kind, record.StartTime, record.EndTime,
		record.Hours, record.Rate, record.Amount, record.Note,
	).Scan(&record.ID, &record.CreatedAt)
}

// GetByDateRange returns the user's salary records with record_date inside
// the closed range [start, end].
func (r *SalaryRepository) GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.SalaryRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, record_date, kind, start_time, end_time, hours, rate, amount, note, created_at
		 FROM salary_records WHERE user_id = $1 AND record_date >= $2 AND record_date <= $3
		 ORDER BY record_date DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.SalaryRecord
	for rows.Next() {
		record := &models.SalaryRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.RecordDate, &record.Kind,
			&record.StartTime, &record.EndTime, &record.Hours, &record.Rate,
			&record.Amount, &record.Note, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *SalaryRepository) Delete(ctx context.Context, recordID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM salary_records WHERE id = $1 AND user_id = $2`,
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
