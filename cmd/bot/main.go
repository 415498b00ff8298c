// Package main contains the entrypoint for the Herald bot service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wavechat/herald/internal/bot"
	"github.com/wavechat/herald/internal/bot/command"
	"github.com/wavechat/herald/internal/bot/delivery"
	"github.com/wavechat/herald/internal/bot/tasks"
	"github.com/wavechat/herald/internal/config"
	"github.com/wavechat/herald/internal/database"
	"github.com/wavechat/herald/internal/logger"
	"github.com/wavechat/herald/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, command
// engine, delivery, server, scheduler), handles graceful shutdown, and
// returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// Optional .env file for local development; env vars feed viper below.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// Fail fast if the provisioned bot identity cannot authenticate; each
	// inbound request re-authenticates anyway.
	if err := store.AuthenticateService(ctx, cfg.Bot.ID, cfg.Bot.Secret); err != nil {
		log.Error("Bot identity failed to authenticate against the store",
			"bot_id", cfg.Bot.ID, "error", err)
		return 1
	}

	registry := command.NewRegistry(command.Deps{Logger: log, Store: store})
	dispatcher := command.NewDispatcher(registry, cfg.Bot.Messages, log)
	deliveryMgr := delivery.NewManager(store, cfg.Bot.ID, log)

	handler := server.NewBotHandler(store, dispatcher, deliveryMgr, cfg.Bot, log)
	srv := server.NewServer(cfg.Server, server.NewRouter(handler), log)

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Config: cfg})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, srv, sched)

	log.Info("Starting bot...", "bot_id", cfg.Bot.ID, "bot_username", cfg.Bot.Username)
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
