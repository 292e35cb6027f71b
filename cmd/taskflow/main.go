package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow-app/taskflowd/internal/config"
	"github.com/taskflow-app/taskflowd/internal/notify"
	"github.com/taskflow-app/taskflowd/internal/reminder"
	"github.com/taskflow-app/taskflowd/internal/storage"
	"github.com/taskflow-app/taskflowd/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return err
	}

	permission := notify.RequestPermission(cfg.DesktopNotifications)
	sink := reminder.NewChannelSink(cfg.EventBuffer)

	engine := reminder.NewEngine(reminder.Options{
		Source:   storage.NewTaskReader(repo),
		Local:    notify.NewDesktopDispatcher(permission),
		Remote:   notify.NewTelegramDispatcher(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
		Sink:     sink,
		Logger:   logger,
		Interval: cfg.ScanInterval(),
	})
	engine.Start()
	defer engine.Stop()

	app := update.NewModel(update.ModelOptions{
		Store:  storage.NewTaskGateway(repo),
		Events: sink.C(),
	})
	program := tea.NewProgram(app)
	_, err = program.Run()
	return err
}
