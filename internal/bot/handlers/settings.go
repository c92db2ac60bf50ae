package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/LedgerLine/internal/models"
)

func (h *Handlers) handleSettingsShow(ctx context.Context, msg *tgbotapi.Message) {
	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorf("Failed to load settings: %v", err)
		h.reply(msg, "查詢失敗，請稍後再試")
		return
	}

	email := settings.Email
	if email == "" {
		email = "(未設定)"
	}
	h.reply(msg, fmt.Sprintf(`⚙️ 目前設定

時薪: %s
每月預算: %s (警示門檻 %d%%)
帳務週期起始日: 每月 %d 號
月報表日: 每月 %d 號
通知管道: %s
信箱: %s`,
		money(settings.HourlyRate),
		money(settings.MonthlyBudget), settings.BudgetAlertThreshold,
		settings.BillingCycleStartDay,
		settings.MonthlyReportDay,
		strings.Join(settings.Channels.Strings(), ", "),
		email))
}

// updateSettings loads, mutates and persists the user's settings in one place
// so every setter shares the same error handling.
func (h *Handlers) updateSettings(ctx context.Context, msg *tgbotapi.Message, mutate func(*models.UserSettings), confirm string) {
	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorf("Failed to load settings: %v", err)
		h.reply(msg, "設定失敗，請稍後再試")
		return
	}
	mutate(settings)
	if err := h.repos.Settings.Update(ctx, settings); err != nil {
		h.log.Errorf("Failed to update settings: %v", err)
		h.reply(msg, "設定失敗，請稍後再試")
		return
	}
	h.reply(msg, confirm)
}

func (h *Handlers) handleSetEmail(ctx context.Context, msg *tgbotapi.Message) {
	email := strings.TrimSpace(msg.CommandArguments())
	if email == "" || !strings.Contains(email, "@") {
		h.reply(msg, "格式: /set_email name@example.com")
		return
	}
	h.updateSettings(ctx, msg, func(s *models.UserSettings) { s.Email = email },
		fmt.Sprintf("📧 信箱已設定為 %s", email))
}

func (h *Handlers) handleSetChannels(ctx context.Context, msg *tgbotapi.Message) {
	raw := strings.Split(strings.TrimSpace(msg.CommandArguments()), ",")
	for i := range raw {
		raw[i] = strings.TrimSpace(raw[i])
	}
	channels, err := models.ParseChannels(raw)
	if err != nil || len(channels) == 0 {
		h.reply(msg, "格式: /set_channels push,email (可用: push, email)")
		return
	}
	h.updateSettings(ctx, msg, func(s *models.UserSettings) { s.Channels = channels },
		fmt.Sprintf("🔔 通知管道已設定為 %s", strings.Join(channels.Strings(), ", ")))
}

func (h *Handlers) handleSetReportDay(ctx context.Context, msg *tgbotapi.Message) {
	day, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	// Capped at 28 so the report day exists in every month.
	if err != nil || day < 1 || day > 28 {
		h.reply(msg, "報表日請輸入 1-28")
		return
	}
	h.updateSettings(ctx, msg, func(s *models.UserSettings) { s.MonthlyReportDay = day },
		fmt.Sprintf("📅 月報表日已設定為每月 %d 號", day))
}

func (h *Handlers) handleSetCycleDay(ctx context.Context, msg *tgbotapi.Message) {
	day, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || day < 1 || day > 31 {
		h.reply(msg, "週期起始日請輸入 1-31")
		return
	}
	h.updateSettings(ctx, msg, func(s *models.UserSettings) { s.BillingCycleStartDay = day },
		fmt.Sprintf("📅 帳務週期起始日已設定為每月 %d 號", day))
}

func (h *Handlers) handleSetBudget(ctx context.Context, msg *tgbotapi.Message) {
	budget, err := strconv.ParseFloat(strings.TrimSpace(msg.CommandArguments()), 64)
	if err != nil || budget < 0 {
		h.reply(msg, "預算請輸入非負數字，0 表示不設預算")
		return
	}
	h.updateSettings(ctx, msg, func(s *models.UserSettings) { s.MonthlyBudget = budget },
		fmt.Sprintf("💵 每月預算已設定為 %s", money(budget)))
}

func (h *Handlers) handleSetRate(ctx context.Context, msg *tgbotapi.Message) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(msg.CommandArguments()), 64)
	if err != nil || rate <= 0 {
		h.reply(msg, "時薪請輸入正數")
		return
	}
	h.updateSettings(ctx, msg, func(s *models.UserSettings) { s.HourlyRate = rate },
		fmt.Sprintf("💵 時薪已設定為 %s", money(rate)))
}
