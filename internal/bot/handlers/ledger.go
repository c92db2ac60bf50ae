package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/report"
)

var moneyPrinter = message.NewPrinter(language.English)

func money(amount float64) string {
	return moneyPrinter.Sprintf("$%.0f", amount)
}

// shiftInput is the parsed form of "/shift [日期] 09:00 18:00 [備註]".
type shiftInput struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Hours     float64
	Note      string
}

// parseShift parses shift arguments. The date defaults to today; a shift
// ending at or before its start time is taken to run past midnight.
func parseShift(args []string, today time.Time, loc *time.Location) (*shiftInput, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("not enough arguments")
	}

	in := &shiftInput{Date: today}
	if !strings.Contains(args[0], ":") {
		date, err := time.ParseInLocation("2006-01-02", args[0], loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", args[0])
		}
		in.Date = date
		args = args[1:]
		if len(args) < 2 {
			return nil, fmt.Errorf("not enough arguments")
		}
	}

	start, err := time.Parse("15:04", args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q", args[0])
	}
	end, err := time.Parse("15:04", args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q", args[1])
	}
	in.StartTime = args[0]
	in.EndTime = args[1]

	dur := end.Sub(start)
	if dur <= 0 {
		dur += 24 * time.Hour
	}
	in.Hours = dur.Hours()
	in.Note = strings.Join(args[2:], " ")
	return in, nil
}

func (h *Handlers) handleShift(ctx context.Context, msg *tgbotapi.Message) {
	today := time.Now().In(h.loc)
	in, err := parseShift(strings.Fields(msg.CommandArguments()), today, h.loc)
	if err != nil {
		h.reply(msg, "格式: /shift [日期] 09:00 18:00 [備註]")
		return
	}

	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorf("Failed to load settings: %v", err)
		h.reply(msg, "記錄失敗，請稍後再試")
		return
	}

	record := &models.SalaryRecord{
		UserID:     msg.From.ID,
		RecordDate: in.Date,
		Kind:       models.SalaryKindShift,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Hours:      in.Hours,
		Rate:       settings.HourlyRate,
		Amount:     int(math.Round(in.Hours * settings.HourlyRate)),
		Note:       in.Note,
	}
	if err := h.repos.Salary.Create(ctx, record); err != nil {
		h.log.Errorf("Failed to create shift record: %v", err)
		h.reply(msg, "記錄失敗，請稍後再試")
		return
	}

	h.reply(msg, fmt.Sprintf("💼 已記錄排班 %s %s-%s (%.1f 小時, %s)",
		record.RecordDate.Format("01/02"), record.StartTime, record.EndTime,
		record.Hours, money(float64(record.Amount))))
}

func (h *Handlers) handleBonus(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		h.reply(msg, "格式: /bonus [日期] 2000 [備註]")
		return
	}

	date := time.Now().In(h.loc)
	if strings.Contains(args[0], "-") {
		d, err := h.parseDate(args[0])
		if err != nil {
			h.reply(msg, "日期格式錯誤，請用 YYYY-MM-DD")
			return
		}
		date = d
		args = args[1:]
		if len(args) < 1 {
			h.reply(msg, "格式: /bonus [日期] 2000 [備註]")
			return
		}
	}

	amount, err := strconv.Atoi(args[0])
	if err != nil || amount <= 0 {
		h.reply(msg, "金額請輸入正整數")
		return
	}

	record := &models.SalaryRecord{
		UserID:     msg.From.ID,
		RecordDate: date,
		Kind:       models.SalaryKindBonus,
		Amount:     amount,
		Note:       strings.Join(args[1:], " "),
	}
	if err := h.repos.Salary.Create(ctx, record); err != nil {
		h.log.Errorf("Failed to create bonus record: %v", err)
		h.reply(msg, "記錄失敗，請稍後再試")
		return
	}

	h.reply(msg, fmt.Sprintf("🎁 已記錄獎金 %s %s",
		record.RecordDate.Format("01/02"), money(float64(record.Amount))))
}

func (h *Handlers) handleSalarySummary(ctx context.Context, msg *tgbotapi.Message) {
	now := time.Now().In(h.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)

	records, err := h.repos.Salary.GetByDateRange(ctx, msg.From.ID, start, now)
	if err != nil {
		h.log.Errorf("Failed to load salary records: %v", err)
		h.reply(msg, "查詢失敗，請稍後再試")
		return
	}
	if len(records) == 0 {
		h.reply(msg, fmt.Sprintf("%d 月還沒有薪資記錄", now.Month()))
		return
	}

	var (
		hours      float64
		shiftPay   int
		bonus      int
		shiftCount int
	)
	for _, r := range records {
		switch r.Kind {
		case models.SalaryKindShift:
			shiftCount++
			hours += r.Hours
			shiftPay += r.Amount
		case models.SalaryKindBonus:
			bonus += r.Amount
		}
	}

	h.reply(msg, fmt.Sprintf(`💰 %d 月薪資 (至 %s)

排班: %d 班 / %.1f 小時 / %s
獎金: %s
合計: %s`,
		now.Month(), now.Format("01/02"),
		shiftCount, hours, money(float64(shiftPay)),
		money(float64(bonus)),
		money(float64(shiftPay+bonus))))
}

func (h *Handlers) handleSpend(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.reply(msg, "格式: /spend 120 飲食 [備註]")
		return
	}

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		h.reply(msg, "金額請輸入正數")
		return
	}

	record := &models.ExpenseRecord{
		UserID:   msg.From.ID,
		SpentAt:  time.Now().In(h.loc),
		Category: args[1],
		Note:     strings.Join(args[2:], " "),
		Amount:   amount,
	}
	if err := h.repos.Expense.Create(ctx, record); err != nil {
		h.log.Errorf("Failed to create expense record: %v", err)
		h.reply(msg, "記錄失敗，請稍後再試")
		return
	}

	reply := fmt.Sprintf("🧾 已記錄 %s %s", record.Category, money(record.Amount))

	// Budget alert rides on the same reply when the cycle total crosses the
	// configured threshold.
	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err == nil && settings.MonthlyBudget > 0 {
		start, end := report.CycleRange(time.Now().In(h.loc), settings.BillingCycleStartDay)
		total, err := h.repos.Expense.SumByDateRange(ctx, msg.From.ID, start, end)
		if err == nil {
			percent := total / settings.MonthlyBudget * 100
			if percent >= float64(settings.BudgetAlertThreshold) {
				reply += fmt.Sprintf("\n⚠️ 本期已花 %s，達預算 %.0f%%",
					money(total), percent)
			}
		}
	}
	h.reply(msg, reply)
}

func (h *Handlers) handleExpenseSummary(ctx context.Context, msg *tgbotapi.Message) {
	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorf("Failed to load settings: %v", err)
		h.reply(msg, "查詢失敗，請稍後再試")
		return
	}

	now := time.Now().In(h.loc)
	start, end := report.CycleRange(now, settings.BillingCycleStartDay)
	records, err := h.repos.Expense.GetByDateRange(ctx, msg.From.ID, start, end)
	if err != nil {
		h.log.Errorf("Failed to load expense records: %v", err)
		h.reply(msg, "查詢失敗，請稍後再試")
		return
	}
	if len(records) == 0 {
		h.reply(msg, fmt.Sprintf("本期 (%s - %s) 還沒有支出記錄",
			start.Format("01/02"), end.Format("01/02")))
		return
	}

	var total float64
	byCategory := map[string]float64{}
	for _, r := range records {
		total += r.Amount
		byCategory[r.Category] += r.Amount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 本期支出 (%s - %s)\n\n", start.Format("01/02"), end.Format("01/02"))
	for cat, sum := range byCategory {
		fmt.Fprintf(&b, "%s: %s\n", cat, money(sum))
	}
	fmt.Fprintf(&b, "\n合計: %s", money(total))
	if settings.MonthlyBudget > 0 {
		fmt.Fprintf(&b, " / 預算 %s (%.0f%%)",
			money(settings.MonthlyBudget), total/settings.MonthlyBudget*100)
	}
	h.reply(msg, b.String())
}
