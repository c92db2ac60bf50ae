package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/recurrence"
)

const remindUsage = `格式:
/remind once 2025-01-31 08:00 標題
/remind daily 08:00 標題
/remind weekly 1,3 08:00 標題 (1=一 ... 7=日)
/remind monthly 10 08:00 標題`

func (h *Handlers) handleRemindAdd(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 3 {
		h.reply(msg, remindUsage)
		return
	}

	reminder := &models.Reminder{
		UserID: msg.From.ID,
		Active: true,
	}

	var rest []string
	switch models.Frequency(args[0]) {
	case models.FrequencyOnce:
		if len(args) < 4 {
			h.reply(msg, remindUsage)
			return
		}
		date, err := h.parseDate(args[1])
		if err != nil {
			h.reply(msg, "日期格式錯誤，請用 YYYY-MM-DD")
			return
		}
		reminder.Frequency = models.FrequencyOnce
		reminder.RemindDate = &date
		reminder.RemindTime = args[2]
		rest = args[3:]

	case models.FrequencyDaily:
		reminder.Frequency = models.FrequencyDaily
		reminder.RemindTime = args[1]
		rest = args[2:]

	case models.FrequencyWeekly:
		if len(args) < 4 {
			h.reply(msg, remindUsage)
			return
		}
		weekdays, err := parseWeekdayList(args[1])
		if err != nil {
			h.reply(msg, "星期格式錯誤，請用 1-7 並以逗號分隔，例如 1,3,5")
			return
		}
		reminder.Frequency = models.FrequencyWeekly
		reminder.Weekdays = weekdays
		reminder.RemindTime = args[2]
		rest = args[3:]

	case models.FrequencyMonthly:
		if len(args) < 4 {
			h.reply(msg, remindUsage)
			return
		}
		day, err := strconv.Atoi(args[1])
		if err != nil || day < 1 || day > 31 {
			h.reply(msg, "日期請輸入 1-31")
			return
		}
		date := monthlyAnchor(day, time.Now().In(h.loc).Year(), h.loc)
		reminder.Frequency = models.FrequencyMonthly
		reminder.RemindDate = &date
		reminder.RemindTime = args[2]
		rest = args[3:]

	default:
		h.reply(msg, remindUsage)
		return
	}

	if _, err := time.Parse("15:04", reminder.RemindTime); err != nil {
		h.reply(msg, "時間格式錯誤，請用 HH:MM，例如 08:00")
		return
	}
	if len(rest) == 0 {
		h.reply(msg, "請輸入提醒標題")
		return
	}
	reminder.Title = strings.Join(rest, " ")

	// Channels default to the user's global notification preference.
	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorf("Failed to load settings: %v", err)
		h.reply(msg, "建立提醒失敗，請稍後再試")
		return
	}
	reminder.Channels = settings.Channels

	if err := h.repos.Reminder.Create(ctx, reminder); err != nil {
		h.log.Errorf("Failed to create reminder: %v", err)
		h.reply(msg, "建立提醒失敗，請稍後再試")
		return
	}

	h.scheduler.Notify()
	h.reply(msg, fmt.Sprintf("✅ 已建立提醒 #%d: %s (%s %s)",
		reminder.ID, reminder.Title, frequencyLabel(reminder.Frequency), reminder.RemindTime))
}

func (h *Handlers) handleReminderList(ctx context.Context, msg *tgbotapi.Message) {
	reminders, err := h.repos.Reminder.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorf("Failed to list reminders: %v", err)
		h.reply(msg, "查詢失敗，請稍後再試")
		return
	}
	if len(reminders) == 0 {
		h.reply(msg, "目前沒有提醒，用 /remind 建立一個吧")
		return
	}

	now := time.Now().In(h.loc)
	var b strings.Builder
	b.WriteString("⏰ 提醒列表\n")
	for _, r := range reminders {
		status := "🟢"
		if !r.Active {
			status = "⚪"
		}
		fmt.Fprintf(&b, "\n%s #%d %s\n　%s %s", status, r.ID, r.Title,
			frequencyLabel(r.Frequency), r.RemindTime)
		if r.Frequency == models.FrequencyWeekly {
			b.WriteString(" " + weekdayLabels(r))
		}
		if r.Active {
			if next, err := recurrence.NextOccurrence(r, now); err == nil && next != nil {
				fmt.Fprintf(&b, "\n　下次: %s", next.Format("2006-01-02 15:04"))
			}
		}
	}
	h.reply(msg, b.String())
}

func (h *Handlers) handleReminderToggle(ctx context.Context, msg *tgbotapi.Message, active bool) {
	id, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.reply(msg, "請輸入提醒編號，例如 /remind_on 3")
		return
	}
	if err := h.repos.Reminder.SetActive(ctx, id, msg.From.ID, active); err != nil {
		h.log.Errorf("Failed to toggle reminder %d: %v", id, err)
		h.reply(msg, "操作失敗，請稍後再試")
		return
	}
	if active {
		h.scheduler.Notify()
		h.reply(msg, fmt.Sprintf("🟢 提醒 #%d 已啟用", id))
	} else {
		h.reply(msg, fmt.Sprintf("⚪ 提醒 #%d 已停用", id))
	}
}

func (h *Handlers) handleReminderDelete(ctx context.Context, msg *tgbotapi.Message) {
	id, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.reply(msg, "請輸入提醒編號，例如 /remind_del 3")
		return
	}
	if err := h.repos.Reminder.Delete(ctx, id, msg.From.ID); err != nil {
		h.log.Errorf("Failed to delete reminder %d: %v", id, err)
		h.reply(msg, "刪除失敗，請稍後再試")
		return
	}
	h.reply(msg, fmt.Sprintf("🗑 提醒 #%d 已刪除", id))
}

// monthlyAnchor builds the stored reference date for a monthly reminder.
// Only the day matters at evaluation time (short months clamp there), so
// the date is anchored in January, which has all 31 days. Anchoring in the
// creation month would let time.Date normalize day 31 into the next month.
func monthlyAnchor(day, year int, loc *time.Location) time.Time {
	return time.Date(year, time.January, day, 0, 0, 0, 0, loc)
}

// parseWeekdayList parses user input like "1,3,5" (1=Monday ... 7=Sunday).
func parseWeekdayList(s string) (models.Weekdays, error) {
	var out models.Weekdays
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		d := time.Weekday(n % 7) // 7 wraps to Sunday
		if !out.Contains(d) {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty weekday list")
	}
	return out, nil
}

func frequencyLabel(f models.Frequency) string {
	switch f {
	case models.FrequencyOnce:
		return "單次"
	case models.FrequencyDaily:
		return "每日"
	case models.FrequencyWeekly:
		return "每週"
	case models.FrequencyMonthly:
		return "每月"
	}
	return string(f)
}

var weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

func weekdayLabels(r *models.Reminder) string {
	if len(r.Weekdays) == 0 {
		return ""
	}
	names := make([]string, len(r.Weekdays))
	for i, d := range r.Weekdays {
		names[i] = weekdayNames[d]
	}
	return "週" + strings.Join(names, "、")
}

func (h *Handlers) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, h.loc)
}
