package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

type ReminderRepository struct {
	db  *database.DB
	log *logrus.Logger
}

func NewReminderRepository(db *database.DB, log *logrus.Logger) *ReminderRepository {
	return &ReminderRepository{db: db, log: log}
}

const reminderColumns = `reminder_id, user_id, title, description, frequency, remind_time,
	remind_date, weekdays, notify_channels, is_active, last_sent_at, created_at`

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (user_id, title, description, frequency, remind_time, remind_date, weekdays, notify_channels, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING reminder_id, created_at`,
		reminder.UserID, reminder.Title, reminder.Description, reminder.Frequency, reminder.RemindTime,
		reminder.RemindDate, reminder.Weekdays.Ints(), reminder.Channels.Strings(), reminder.Active,
	).Scan(&reminder.ID, &reminder.CreatedAt)
}

func (r *ReminderRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanReminders(rows)
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID int, userID int64) (*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE reminder_id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders, err := r.scanReminders(rows)
	if err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, ErrNotFound
	}
	return reminders[0], nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET title = $1, description = $2, frequency = $3, remind_time = $4,
		 remind_date = $5, weekdays = $6, notify_channels = $7
		 WHERE reminder_id = $8 AND user_id = $9`,
		reminder.Title, reminder.Description, reminder.Frequency, reminder.RemindTime,
		reminder.RemindDate, reminder.Weekdays.Ints(), reminder.Channels.Strings(),
		reminder.ID, reminder.UserID,
	)
	return err
}

func (r *ReminderRepository) Delete(ctx context.Context, reminderID int, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE reminder_id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	return err
}

func (r *ReminderRepository) SetActive(ctx context.Context, reminderID int, userID int64, active bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET is_active = $1 WHERE reminder_id = $2 AND user_id = $3`,
		active, reminderID, userID,
	)
	return err
}

// GetActive returns all active reminders across all users; the scheduler
// evaluates due-ness itself, so no time filtering happens here.
func (r *ReminderRepository) GetActive(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT ` + reminderColumns + ` FROM reminders WHERE is_active = true`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanReminders(rows)
}

// MarkSent records a fire in a single statement so the sent marker and the
// once-deactivation can never be observed apart.
func (r *ReminderRepository) MarkSent(ctx context.Context, reminderID int, sentAt time.Time, deactivate bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET last_sent_at = $1, is_active = (is_active AND NOT $2) WHERE reminder_id = $3`,
		sentAt, deactivate, reminderID,
	)
	return err
}

func (r *ReminderRepository) scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		var (
			weekdays []int32
			channels []string
		)
		if err := rows.Scan(&reminder.ID, &reminder.UserID, &reminder.Title, &reminder.Description,
			&reminder.Frequency, &reminder.RemindTime, &reminder.RemindDate, &weekdays, &channels,
			&reminder.Active, &reminder.LastSentAt, &reminder.CreatedAt); err != nil {
			return nil, err
		}

		// Malformed persisted values degrade that reminder, never the scan:
		// the valid subset is kept and the rest is logged.
		var err error
		if reminder.Weekdays, err = models.ParseWeekdays(weekdays); err != nil {
			r.log.WithField("reminder_id", reminder.ID).Warnf("Ignoring invalid weekdays: %v", err)
		}
		// A payload that was present but yielded no valid weekday must not
		// look like a legacy row without a set.
		reminder.WeekdaysMalformed = len(weekdays) > 0 && len(reminder.Weekdays) == 0
		if reminder.Channels, err = models.ParseChannels(channels); err != nil {
			r.log.WithField("reminder_id", reminder.ID).Warnf("Ignoring invalid notify channels: %v", err)
		}

		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}
