// Package bot implements Herald's component orchestration and lifecycle
// management: the HTTP edge and the task scheduler run side by side and
// shut down together.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/wavechat/herald/internal/server"
)

// Bot represents the running application and manages its components'
// lifecycle.
type Bot struct {
	logger    *slog.Logger
	srv       *server.Server
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot orchestrator.
func NewBot(logger *slog.Logger, srv *server.Server, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "orchestrator"),
		srv:       srv,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails, then shuts everything down gracefully.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := b.srv.Run(gCtx); err != nil {
			b.logger.Error("HTTP server stopped with error", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
