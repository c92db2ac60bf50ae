package report

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/notify"
)

type fakeUsers struct{}

func (fakeUsers) Get(_ context.Context, userID int64) (*models.User, error) {
	return &models.User{UserID: userID, Username: "tester"}, nil
}

type fakeSettings struct {
	reportDay int
}

func (f fakeSettings) GetOrCreate(_ context.Context, userID int64) (*models.UserSettings, error) {
	s := models.NewDefaultUserSettings(userID)
	if f.reportDay > 0 {
		s.MonthlyReportDay = f.reportDay
	}
	s.Email = "tester@example.com"
	return s, nil
}

type logKey struct {
	userID     int64
	start, end string
	kind       models.ReportKind
}

// fakeSendLog mimics the unique-constraint semantics of the real store.
type fakeSendLog struct {
	rows map[logKey]bool
}

func newFakeSendLog() *fakeSendLog {
	return &fakeSendLog{rows: make(map[logKey]bool)}
}

func key(userID int64, start, end time.Time, kind models.ReportKind) logKey {
	return logKey{userID, start.Format("2006-01-02"), end.Format("2006-01-02"), kind}
}

func (f *fakeSendLog) TryInsert(_ context.Context, e *models.ReportLog) (bool, error) {
	k := key(e.UserID, e.PeriodStart, e.PeriodEnd, e.Kind)
	if f.rows[k] {
		return false, nil
	}
	f.rows[k] = true
	return true, nil
}

func (f *fakeSendLog) Exists(_ context.Context, userID int64, start, end time.Time, kind models.ReportKind) (bool, error) {
	return f.rows[key(userID, start, end, kind)], nil
}

type fakeSalary struct {
	records []*models.SalaryRecord
}

func (f fakeSalary) GetByDateRange(context.Context, int64, time.Time, time.Time) ([]*models.SalaryRecord, error) {
	return f.records, nil
}

type fakeExpenses struct {
	records []*models.ExpenseRecord
}

func (f fakeExpenses) GetByDateRange(context.Context, int64, time.Time, time.Time) ([]*models.ExpenseRecord, error) {
	return f.records, nil
}

type countingDispatcher struct {
	calls []notify.Message
}

func (c *countingDispatcher) Dispatch(_ context.Context, _ notify.Target, _ models.Channels, msg notify.Message) error {
	c.calls = append(c.calls, msg)
	return nil
}

func testService(sendLog *fakeSendLog, salary fakeSalary, expenses fakeExpenses, disp *countingDispatcher, now time.Time, reportDay int) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewService(fakeUsers{}, fakeSettings{reportDay: reportDay}, sendLog, salary, expenses, disp, time.UTC, log)
	s.now = func() time.Time { return now }
	return s
}

func salaryRecords() []*models.SalaryRecord {
	return []*models.SalaryRecord{
		{UserID: 1, RecordDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Kind: models.SalaryKindShift, Hours: 8, Amount: 1464},
		{UserID: 1, RecordDate: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			Kind: models.SalaryKindBonus, Amount: 2000},
	}
}

func TestCheckUserIdempotent(t *testing.T) {
	now := time.Date(2024, time.February, 11, 9, 0, 0, 0, time.UTC)
	sendLog := newFakeSendLog()
	disp := &countingDispatcher{}
	s := testService(sendLog, fakeSalary{records: salaryRecords()}, fakeExpenses{}, disp, now, 5)

	s.checkUser(context.Background(), 1)
	s.checkUser(context.Background(), 1)

	if len(disp.calls) != 1 {
		t.Fatalf("expected exactly one dispatch across repeated checks, got %d", len(disp.calls))
	}
	if len(sendLog.rows) != 1 {
		t.Fatalf("expected exactly one send-log entry, got %d", len(sendLog.rows))
	}
}

func TestCheckUserBeforeReportDay(t *testing.T) {
	now := time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC)
	sendLog := newFakeSendLog()
	disp := &countingDispatcher{}
	s := testService(sendLog, fakeSalary{records: salaryRecords()}, fakeExpenses{}, disp, now, 5)

	s.checkUser(context.Background(), 1)

	if len(disp.calls) != 0 {
		t.Errorf("nothing should be sent before the user's report day, got %d dispatches", len(disp.calls))
	}
}

func TestCheckUserEmptyPeriodLeavesNoLog(t *testing.T) {
	now := time.Date(2024, time.February, 11, 9, 0, 0, 0, time.UTC)
	sendLog := newFakeSendLog()
	disp := &countingDispatcher{}
	s := testService(sendLog, fakeSalary{}, fakeExpenses{}, disp, now, 5)

	s.checkUser(context.Background(), 1)

	if len(disp.calls) != 0 || len(sendLog.rows) != 0 {
		t.Fatalf("empty period must produce no send and no log, dispatches=%d rows=%d",
			len(disp.calls), len(sendLog.rows))
	}

	// Records added retroactively trigger the report on the next check.
	s.salary = fakeSalary{records: salaryRecords()}
	s.checkUser(context.Background(), 1)
	if len(disp.calls) != 1 {
		t.Errorf("retroactive records should trigger the report, dispatches=%d", len(disp.calls))
	}
}

func TestCheckUserSendsBothKinds(t *testing.T) {
	now := time.Date(2024, time.February, 11, 9, 0, 0, 0, time.UTC)
	sendLog := newFakeSendLog()
	disp := &countingDispatcher{}
	expenses := fakeExpenses{records: []*models.ExpenseRecord{
		{UserID: 1, SpentAt: time.Date(2024, time.January, 20, 12, 30, 0, 0, time.UTC),
			Category: "🍜 飲食", Amount: 120},
	}}
	s := testService(sendLog, fakeSalary{records: salaryRecords()}, expenses, disp, now, 5)

	s.checkUser(context.Background(), 1)

	if len(disp.calls) != 2 {
		t.Fatalf("expected salary and expense reports, got %d dispatches", len(disp.calls))
	}
	if len(sendLog.rows) != 2 {
		t.Fatalf("expected two send-log entries, got %d", len(sendLog.rows))
	}
}

func TestCheckUserLostReservationSkipsSend(t *testing.T) {
	now := time.Date(2024, time.February, 11, 9, 0, 0, 0, time.UTC)
	sendLog := newFakeSendLog()
	start, end := LastCompletedMonth(now)
	// Another process won the slot between the Exists check and our insert.
	sendLog.rows[key(1, start, end, models.ReportSalary)] = true

	disp := &countingDispatcher{}
	s := testService(sendLog, fakeSalary{records: salaryRecords()}, fakeExpenses{}, disp, now, 5)

	// Exists sees the row and skips; even if it did not, TryInsert would
	// lose. Either way nothing is delivered twice.
	s.checkUser(context.Background(), 1)
	if len(disp.calls) != 0 {
		t.Errorf("lost reservation must not deliver, dispatches=%d", len(disp.calls))
	}
}

func TestRenderSalaryContent(t *testing.T) {
	now := time.Date(2024, time.February, 11, 9, 0, 0, 0, time.UTC)
	start, end := LastCompletedMonth(now)

	msg, err := renderSalary("tester", start, end, now, salaryRecords())
	if err != nil {
		t.Fatalf("renderSalary: %v", err)
	}
	for _, want := range []string{"薪資報表", "2024-01-01 ~ 2024-01-31", "$3,464", "排班", "獎金"} {
		if !strings.Contains(msg.Body, want) && !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
	if msg.HTMLBody == "" {
		t.Error("expected an HTML body for the email channel")
	}
}
