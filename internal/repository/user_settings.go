package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

type UserSettingsRepository struct {
	db  *database.DB
	log *logrus.Logger
}

func NewUserSettingsRepository(db *database.DB, log *logrus.Logger) *UserSettingsRepository {
	return &UserSettingsRepository{db: db, log: log}
}

func (r *UserSettingsRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings, err := r.get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	settings = models.NewDefaultUserSettings(userID)
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, hourly_rate, monthly_budget, budget_alert_threshold,
		 billing_cycle_start_day, monthly_report_day, notify_channels, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO NOTHING`,
		settings.UserID, settings.HourlyRate, settings.MonthlyBudget, settings.BudgetAlertThreshold,
		settings.BillingCycleStartDay, settings.MonthlyReportDay, settings.Channels.Strings(), settings.Email,
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *UserSettingsRepository) get(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings := &models.UserSettings{}
	var channels []string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, hourly_rate, monthly_budget, budget_alert_threshold,
		 billing_cycle_start_day, monthly_report_day, notify_channels, email, updated_at
		 FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&settings.UserID, &settings.HourlyRate, &settings.MonthlyBudget, &settings.BudgetAlertThreshold,
		&settings.BillingCycleStartDay, &settings.MonthlyReportDay, &channels, &settings.Email, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}

	settings.Channels, err = models.ParseChannels(channels)
	if err != nil {
		// Keep the valid subset; bad values only lose that channel.
		r.log.WithField("user_id", userID).Warnf("Ignoring invalid notify channels: %v", err)
	}
	return settings, nil
}

func (r *UserSettingsRepository) Update(ctx context.Context, settings *models.UserSettings) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET hourly_rate = $1, monthly_budget = $2, budget_alert_threshold = $3,
		 billing_cycle_start_day = $4, monthly_report_day = $5, notify_channels = $6, email = $7, updated_at = NOW()
		 WHERE user_id = $8`,
		settings.HourlyRate, settings.MonthlyBudget, settings.BudgetAlertThreshold,
		settings.BillingCycleStartDay, settings.MonthlyReportDay, settings.Channels.Strings(), settings.Email,
		settings.UserID,
	)
	return err
}
