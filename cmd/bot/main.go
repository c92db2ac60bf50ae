package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/LedgerLine/internal/bot"
	"github.com/hray3182/LedgerLine/internal/bot/handlers"
	"github.com/hray3182/LedgerLine/internal/config"
	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/notify"
	"github.com/hray3182/LedgerLine/internal/report"
	"github.com/hray3182/LedgerLine/internal/repository"
	"github.com/hray3182/LedgerLine/internal/scheduler"
	"github.com/hray3182/LedgerLine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to resolve time zone: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database and run migrations
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	if err := db.Migrate(ctx, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	// Email transport is optional; push rides on the bot's own API client.
	var email notify.EmailSender
	if cfg.EmailConfigured() {
		email = notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		log.Infof("Email transport configured (%s:%d)", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Info("Email transport not configured, email channel disabled")
	}
	dispatcher := notify.NewDispatcher(notify.NewTelegramNotifier(api), email, log)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewUserSettingsRepository(db, log)
	reminderRepo := repository.NewReminderRepository(db, log)
	salaryRepo := repository.NewSalaryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reportLogRepo := repository.NewReportLogRepository(db)

	// Monthly report workers
	reports := report.NewService(userRepo, settingsRepo, reportLogRepo, salaryRepo, expenseRepo, dispatcher, loc, log)
	reports.Start(ctx)

	// Reminder scheduler. Skipped when no delivery transport exists, so a
	// notifier misconfiguration degrades to "no notifications" instead of a
	// loop that fails every tick.
	sched := scheduler.New(reminderRepo, settingsRepo, dispatcher, loc, cfg.CheckInterval, log)
	if dispatcher.Configured() {
		go sched.Start(ctx)
	} else {
		log.Warn("No notification transport configured, reminder scheduler disabled")
	}

	repos := &handlers.Repositories{
		User:     userRepo,
		Settings: settingsRepo,
		Reminder: reminderRepo,
		Salary:   salaryRepo,
		Expense:  expenseRepo,
	}
	h := handlers.New(api, repos, reports, sched, loc, log)
	b := bot.New(api, h, log)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("Shutting down...")
		cancel()
	}()

	log.Info("Starting bot...")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot error: %v", err)
	}
	reports.Wait()
}
