package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/hray3182/LedgerLine/internal/report"
	"github.com/hray3182/LedgerLine/internal/repository"
)

type Repositories struct {
	User     *repository.UserRepository
	Settings *repository.UserSettingsRepository
	Reminder *repository.ReminderRepository
	Salary   *repository.SalaryRepository
	Expense  *repository.ExpenseRepository
}

// Waker lets handlers nudge the scheduler after reminder changes instead of
// waiting out the tick interval.
type Waker interface {
	Notify()
}

type Handlers struct {
	api       *tgbotapi.BotAPI
	repos     *Repositories
	reports   *report.Service
	scheduler Waker
	loc       *time.Location
	log       *logrus.Logger
}

func New(api *tgbotapi.BotAPI, repos *Repositories, reports *report.Service, scheduler Waker, loc *time.Location, log *logrus.Logger) *Handlers {
	return &Handlers{
		api:       api,
		repos:     repos,
		reports:   reports,
		scheduler: scheduler,
		loc:       loc,
		log:       log,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	if _, err := h.repos.User.GetOrCreate(ctx, userID, msg.From.UserName); err != nil {
		h.log.Errorf("Failed to get/create user %d: %v", userID, err)
		return
	}

	// Any user activity is a chance to deliver a pending monthly report;
	// the check itself runs on the report worker pool, never here.
	h.reports.Enqueue(userID)

	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "help":
		h.handleHelp(msg)
	case "remind":
		h.handleRemindAdd(ctx, msg)
	case "reminders":
		h.handleReminderList(ctx, msg)
	case "remind_on":
		h.handleReminderToggle(ctx, msg, true)
	case "remind_off":
		h.handleReminderToggle(ctx, msg, false)
	case "remind_del":
		h.handleReminderDelete(ctx, msg)
	case "shift":
		h.handleShift(ctx, msg)
	case "bonus":
		h.handleBonus(ctx, msg)
	case "salary":
		h.handleSalarySummary(ctx, msg)
	case "spend":
		h.handleSpend(ctx, msg)
	case "expenses":
		h.handleExpenseSummary(ctx, msg)
	case "settings":
		h.handleSettingsShow(ctx, msg)
	case "set_email":
		h.handleSetEmail(ctx, msg)
	case "set_channels":
		h.handleSetChannels(ctx, msg)
	case "set_report_day":
		h.handleSetReportDay(ctx, msg)
	case "set_cycle_day":
		h.handleSetCycleDay(ctx, msg)
	case "set_budget":
		h.handleSetBudget(ctx, msg)
	case "set_rate":
		h.handleSetRate(ctx, msg)
	case "report":
		h.handleReportCheck(msg)
	default:
		h.reply(msg, "未知的指令，輸入 /help 查看可用指令")
	}
}

// HandleText handles non-command messages.
func (h *Handlers) HandleText(ctx context.Context, msg *tgbotapi.Message) {
	h.reply(msg, "請使用指令操作，輸入 /help 查看可用指令")
}

func (h *Handlers) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := h.api.Send(reply); err != nil {
		h.log.Errorf("Failed to send reply: %v", err)
	}
}

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	h.reply(msg, "👋 歡迎使用 LedgerLine！\n\n"+
		"記錄薪資與支出，設定提醒，每月自動寄送報表。\n"+
		"輸入 /help 查看所有指令。")
}

func (h *Handlers) handleHelp(msg *tgbotapi.Message) {
	h.reply(msg, `📖 指令列表

提醒
/remind once 2025-01-31 08:00 繳房租 — 單次提醒
/remind daily 08:00 吃藥 — 每日提醒
/remind weekly 1,3 08:00 倒垃圾 — 每週提醒 (1=一 ... 7=日)
/remind monthly 10 08:00 繳卡費 — 每月提醒
/reminders — 列出提醒
/remind_on N /remind_off N — 啟用/停用
/remind_del N — 刪除

薪資
/shift [日期] 09:00 18:00 [備註] — 記錄排班
/bonus [日期] 2000 [備註] — 記錄獎金
/salary — 本月薪資

記帳
/spend 120 飲食 [備註] — 記錄支出
/expenses — 本期支出

設定
/settings — 查看設定
/set_email a@b.c — 設定信箱
/set_channels push,email — 通知管道
/set_report_day N — 報表日 (1-28)
/set_cycle_day N — 帳務週期起始日
/set_budget N — 每月預算
/set_rate N — 時薪
/report — 立即檢查報表`)
}

func (h *Handlers) handleReportCheck(msg *tgbotapi.Message) {
	h.reports.Enqueue(msg.From.ID)
	h.reply(msg, "已排入報表檢查，若有未寄送的月報將在背景送出。")
}
