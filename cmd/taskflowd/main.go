package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskflow-app/taskflowd/internal/config"
	"github.com/taskflow-app/taskflowd/internal/notify"
	"github.com/taskflow-app/taskflowd/internal/reminder"
	"github.com/taskflow-app/taskflowd/internal/server"
	"github.com/taskflow-app/taskflowd/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflowd failed: %v\n", err)
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return err
	}

	permission := notify.RequestPermission(cfg.DesktopNotifications)
	engine := reminder.NewEngine(reminder.Options{
		Source:   storage.NewTaskReader(repo),
		Local:    notify.NewDesktopDispatcher(permission),
		Remote:   notify.NewTelegramDispatcher(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
		Sink:     reminder.LogSink{Logger: logger},
		Logger:   logger,
		Interval: cfg.ScanInterval(),
	})
	engine.Start()
	defer engine.Stop()

	srv := server.New(server.Options{
		Repo:          repo,
		Logger:        logger,
		Addr:          cfg.ListenAddr,
		TelegramToken: cfg.Telegram.BotToken,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
