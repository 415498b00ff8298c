// Package command implements Herald's command engine: classification of
// inbound messages, the command registry, the per-command handlers, and the
// dispatcher that ties them together.
package command

import (
	"log/slog"

	"github.com/wavechat/herald/internal/database"
)

// Deps provides dependencies for command handlers.
type Deps struct {
	Logger *slog.Logger
	Store  database.Store
}
