package repository

import (
	"context"
	"time"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

type ReportLogRepository struct {
	db *database.DB
}

func NewReportLogRepository(db *database.DB) *ReportLogRepository {
	return &ReportLogRepository{db: db}
}

// TryInsert claims the (user, period, kind) slot. It reports false without
// error when the row already exists — the unique constraint makes this the
// atomic "did I win the right to send" check for concurrent dispatchers.
func (r *ReportLogRepository) TryInsert(ctx context.Context, entry *models.ReportLog) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`INSERT INTO report_logs (user_id, period_start, period_end, report_kind, sent_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, period_start, period_end, report_kind) DO NOTHING`,
		entry.UserID, entry.PeriodStart, entry.PeriodEnd, entry.Kind, entry.SentAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReportLogRepository) Exists(ctx context.Context, userID int64, periodStart, periodEnd time.Time, kind models.ReportKind) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM report_logs
		 WHERE user_id = $1 AND period_start = $2 AND period_end = $3 AND report_kind = $4)`,
		userID, periodStart, periodEnd, kind,
	).Scan(&exists)
	return exists, err
}
