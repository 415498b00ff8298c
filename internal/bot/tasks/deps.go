// Package tasks implements Herald's scheduled background tasks: database
// maintenance and presence housekeeping.
package tasks

import (
	"log/slog"

	"github.com/wavechat/herald/internal/config"
	"github.com/wavechat/herald/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
