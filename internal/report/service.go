// Package report assembles and delivers the monthly salary and expense
// reports. Checks are triggered lazily by user activity, not by a timer:
// handlers enqueue the user id and a small worker pool does the period math,
// send-log bookkeeping, rendering and delivery off the request path.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/notify"
)

type UserSource interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
}

type SettingsSource interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserSettings, error)
}

// SendLog is the durable already-sent marker store. TryInsert must be backed
// by a uniqueness constraint on (user, period, kind): it reports false when
// the row already exists, which callers treat as "someone else sent it".
type SendLog interface {
	TryInsert(ctx context.Context, entry *models.ReportLog) (bool, error)
	Exists(ctx context.Context, userID int64, periodStart, periodEnd time.Time, kind models.ReportKind) (bool, error)
}

type SalarySource interface {
	GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.SalaryRecord, error)
}

type ExpenseSource interface {
	GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.ExpenseRecord, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, target notify.Target, channels models.Channels, msg notify.Message) error
}

const (
	queueSize   = 64
	workerCount = 2
)

type Service struct {
	users      UserSource
	settings   SettingsSource
	sendLog    SendLog
	salary     SalarySource
	expenses   ExpenseSource
	dispatcher Dispatcher
	log        *logrus.Logger

	loc   *time.Location
	now   func() time.Time
	tasks chan int64
	wg    sync.WaitGroup
}

func NewService(users UserSource, settings SettingsSource, sendLog SendLog, salary SalarySource, expenses ExpenseSource, dispatcher Dispatcher, loc *time.Location, log *logrus.Logger) *Service {
	return &Service{
		users:      users,
		settings:   settings,
		sendLog:    sendLog,
		salary:     salary,
		expenses:   expenses,
		dispatcher: dispatcher,
		log:        log,
		loc:        loc,
		now:        time.Now,
		tasks:      make(chan int64, queueSize),
	}
}

// Start launches the worker pool. It returns immediately; workers drain the
// queue until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	for i := 0; i < workerCount; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case userID := <-s.tasks:
					s.checkUser(ctx, userID)
				}
			}
		}()
	}
}

// Wait blocks until all workers have exited.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Enqueue schedules a report check for the user. Fire-and-forget: it never
// blocks the caller, and a full queue just drops the task — the next user
// action will enqueue it again.
func (s *Service) Enqueue(userID int64) {
	select {
	case s.tasks <- userID:
	default:
		s.log.WithField("user_id", userID).Debug("Report queue full, dropping check")
	}
}

// checkUser sends whatever reports are pending for the user's most recently
// completed billing period. Failures are logged only; nothing propagates
// back to the triggering request.
func (s *Service) checkUser(ctx context.Context, userID int64) {
	now := s.now().In(s.loc)

	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		s.log.WithField("user_id", userID).Errorf("Failed to load settings for report check: %v", err)
		return
	}

	// The report is not due until the user's preferred day of month.
	if now.Day() < settings.MonthlyReportDay {
		return
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		s.log.WithField("user_id", userID).Errorf("Failed to load user for report check: %v", err)
		return
	}

	start, end := LastCompletedMonth(now)
	target := notify.Target{ChatID: userID, Email: settings.Email}

	s.sendSalaryReport(ctx, user, settings, target, start, end, now)
	s.sendExpenseReport(ctx, user, settings, target, start, end, now)
}

func (s *Service) sendSalaryReport(ctx context.Context, user *models.User, settings *models.UserSettings, target notify.Target, start, end, now time.Time) {
	logged, err := s.sendLog.Exists(ctx, user.UserID, start, end, models.ReportSalary)
	if err != nil || logged {
		if err != nil {
			s.log.Errorf("Failed to query salary report log: %v", err)
		}
		return
	}

	records, err := s.salary.GetByDateRange(ctx, user.UserID, start, end)
	if err != nil {
		s.log.Errorf("Failed to load salary records for report: %v", err)
		return
	}
	// No records, no report and no log entry: a retroactive entry for the
	// period can still trigger the report on a later check.
	if len(records) == 0 {
		return
	}

	if !s.reserve(ctx, user.UserID, start, end, models.ReportSalary, now) {
		return
	}

	msg, err := renderSalary(user.Username, start, end, now, records)
	if err != nil {
		s.log.Errorf("Failed to render salary report: %v", err)
		return
	}
	s.deliver(ctx, target, settings.Channels, msg, models.ReportSalary)
}

func (s *Service) sendExpenseReport(ctx context.Context, user *models.User, settings *models.UserSettings, target notify.Target, start, end, now time.Time) {
	logged, err := s.sendLog.Exists(ctx, user.UserID, start, end, models.ReportExpense)
	if err != nil || logged {
		if err != nil {
			s.log.Errorf("Failed to query expense report log: %v", err)
		}
		return
	}

	records, err := s.expenses.GetByDateRange(ctx, user.UserID, start, end)
	if err != nil {
		s.log.Errorf("Failed to load expense records for report: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	if !s.reserve(ctx, user.UserID, start, end, models.ReportExpense, now) {
		return
	}

	msg, err := renderExpense(user.Username, start, end, records)
	if err != nil {
		s.log.Errorf("Failed to render expense report: %v", err)
		return
	}
	s.deliver(ctx, target, settings.Channels, msg, models.ReportExpense)
}

// reserve claims the (user, period, kind) send-log slot before delivering.
// Losing the insert means a concurrent check already claimed it, so exactly
// one worker proceeds to send. Claiming before sending trades a lost report
// on a crash mid-send for never double-delivering.
func (s *Service) reserve(ctx context.Context, userID int64, start, end time.Time, kind models.ReportKind, now time.Time) bool {
	inserted, err := s.sendLog.TryInsert(ctx, &models.ReportLog{
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
		Kind:        kind,
		SentAt:      now,
	})
	if err != nil {
		s.log.WithField("user_id", userID).Errorf("Failed to write %s report log: %v", kind, err)
		return false
	}
	if !inserted {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"kind":    kind,
		}).Debug("Report already sent by a concurrent check")
		return false
	}
	return true
}

func (s *Service) deliver(ctx context.Context, target notify.Target, channels models.Channels, msg notify.Message, kind models.ReportKind) {
	if err := s.dispatcher.Dispatch(ctx, target, channels, msg); err != nil {
		s.log.WithField("kind", kind).Warnf("Report delivery incomplete: %v", err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"chat_id": target.ChatID,
		"kind":    kind,
	}).Info("Monthly report sent")
}
