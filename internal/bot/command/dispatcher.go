package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wavechat/herald/internal/config"
)

// Dispatcher resolves a classified request to a handler and normalizes
// every failure mode into a user-facing reply string. Dispatch is a single
// attempt; retries and timeouts belong to the caller.
type Dispatcher struct {
	registry *Registry
	messages config.MessagesConfig
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, messages config.MessagesConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		messages: messages,
		logger:   logger.With("component", "dispatcher"),
	}
}

// Dispatch produces exactly one reply string for the request. Plain-text
// messages get a canned reply that differs by channel; unknown commands get
// a pointer to /help; handler failures degrade to a generic apology.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) string {
	if !req.IsCommand {
		if req.RoomID != "" {
			return d.messages.MentionAck
		}
		return d.messages.DirectGreeting
	}

	desc, ok := d.registry.Find(req.Name)
	if !ok {
		d.logger.InfoContext(ctx, "Unknown command requested",
			"command", req.RawName, "requester_id", req.RequesterID)
		return fmt.Sprintf("Unknown command: /%s. Type /help to see available commands.", req.RawName)
	}

	return d.invoke(ctx, desc, req)
}

// invoke runs the handler behind the dispatcher-level safety net: any error
// or panic a handler lets escape becomes a generic apology string.
func (d *Dispatcher) invoke(ctx context.Context, desc *Descriptor, req *Request) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "Command handler panicked",
				"command", desc.Name, "panic", r)
			reply = d.apology(desc.Name)
		}
	}()

	out, err := desc.Handler(ctx, req)
	if err != nil {
		d.logger.ErrorContext(ctx, "Command handler returned error",
			"command", desc.Name, "error", err)
		return d.apology(desc.Name)
	}
	if out == "" {
		d.logger.WarnContext(ctx, "Command handler returned empty reply", "command", desc.Name)
		return d.apology(desc.Name)
	}
	return out
}

func (d *Dispatcher) apology(name string) string {
	return fmt.Sprintf("Sorry, an error occurred while processing the /%s command.", name)
}
