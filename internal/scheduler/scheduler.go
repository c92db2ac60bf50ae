// Package scheduler drives reminder delivery: a single ticker evaluates the
// active reminder population once per interval and dispatches whatever is
// due. Ticks run inline in the loop goroutine, so a tick always finishes
// before the next one starts.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/notify"
	"github.com/hray3182/LedgerLine/internal/recurrence"
)

// ReminderSource is the slice of the reminder store the scheduler needs.
type ReminderSource interface {
	GetActive(ctx context.Context) ([]*models.Reminder, error)
	// MarkSent records a fire: sets last_sent_at and, when deactivate is
	// true (a once reminder), clears is_active in the same statement.
	MarkSent(ctx context.Context, reminderID int, sentAt time.Time, deactivate bool) error
}

// SettingsSource resolves a user's delivery target.
type SettingsSource interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserSettings, error)
}

// Dispatcher sends one message over a set of channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, target notify.Target, channels models.Channels, msg notify.Message) error
}

type Scheduler struct {
	reminders  ReminderSource
	settings   SettingsSource
	dispatcher Dispatcher
	log        *logrus.Logger

	interval time.Duration
	loc      *time.Location
	now      func() time.Time
	notifyCh chan struct{}
}

func New(reminders ReminderSource, settings SettingsSource, dispatcher Dispatcher, loc *time.Location, interval time.Duration, log *logrus.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		reminders:  reminders,
		settings:   settings,
		dispatcher: dispatcher,
		log:        log,
		interval:   interval,
		loc:        loc,
		now:        time.Now,
		notifyCh:   make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if one is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start runs the tick loop until the context is cancelled. It blocks, so it
// should be launched in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Infof("Reminder scheduler started (interval %s)", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.check(ctx)
		}
	}
}

// check is one tick: evaluate every active reminder against the current
// minute and fire the due ones. Failures are isolated per reminder.
func (s *Scheduler) check(ctx context.Context) {
	now := s.now().In(s.loc)

	reminders, err := s.reminders.GetActive(ctx)
	if err != nil {
		s.log.Errorf("Failed to load active reminders: %v", err)
		return
	}

	sent := 0
	for _, r := range reminders {
		if !recurrence.IsDue(r, now) {
			continue
		}
		if ShouldSuppress(r.LastSentAt, now) {
			s.log.WithField("reminder_id", r.ID).Debug("Suppressed duplicate fire within dedup window")
			continue
		}
		if err := s.fire(ctx, r, now); err != nil {
			s.log.WithField("reminder_id", r.ID).Errorf("Failed to process reminder: %v", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		s.log.Infof("Tick complete, sent %d reminder(s)", sent)
	}
}

// fire dispatches one due reminder and persists the fire. Delivery is best
// effort: channel failures are logged by the dispatcher and the reminder is
// still marked sent, so a flaky transport cannot cause a retry storm. The
// returned error is a persistence failure only.
func (s *Scheduler) fire(ctx context.Context, r *models.Reminder, now time.Time) error {
	settings, err := s.settings.GetOrCreate(ctx, r.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user settings: %w", err)
	}

	channels := r.Channels
	if len(channels) == 0 {
		channels = settings.Channels
	}

	target := notify.Target{ChatID: r.UserID, Email: settings.Email}
	msg := notify.Message{
		Subject: fmt.Sprintf("🔔 提醒: %s", r.Title),
		Body:    reminderText(r),
	}

	s.log.WithFields(logrus.Fields{
		"reminder_id": r.ID,
		"user_id":     r.UserID,
	}).Infof("Sending reminder %q", r.Title)

	if err := s.dispatcher.Dispatch(ctx, target, channels, msg); err != nil {
		s.log.WithField("reminder_id", r.ID).Warnf("Delivery incomplete: %v", err)
	}

	deactivate := r.Frequency == models.FrequencyOnce
	if err := s.reminders.MarkSent(ctx, r.ID, now, deactivate); err != nil {
		// A failure here can duplicate the send on the next tick.
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

func reminderText(r *models.Reminder) string {
	text := fmt.Sprintf("🔔 [提醒] %s", r.Title)
	if r.Description != "" {
		text += "\n\n" + r.Description
	}
	text += "\n\n時間: " + r.RemindTime
	return text
}
