// Package config manages application configuration from a YAML file,
// BOT_-prefixed environment variables, and default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all
// components of the Herald bot service.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Bot       BotConfig       `mapstructure:"bot"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds the HTTP edge settings.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"      validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// BotConfig holds the bot's service identity and canned reply strings.
// The identity is provisioned out-of-band and treated as read-only
// configuration; it is never mutated at runtime.
type BotConfig struct {
	ID       string `mapstructure:"id"       validate:"required"`
	Username string `mapstructure:"username" validate:"required"`
	Secret   string `mapstructure:"secret"   validate:"required"`

	Messages MessagesConfig `mapstructure:"messages"`
}

// MessagesConfig holds the canned replies for non-command messages.
type MessagesConfig struct {
	MentionAck     string `mapstructure:"mention_ack"     validate:"required"`
	DirectGreeting string `mapstructure:"direct_greeting" validate:"required"`
}

// SchedulerConfig holds the scheduled-task table keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration in precedence order: defaults, then the
// YAML file at path (optional), then BOT_* environment variables. The
// merged result is validated before being returned.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env and defaults still apply.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.path", "herald.db")

	// Registered empty so BOT_BOT_ID / BOT_BOT_SECRET env vars are picked up
	// during Unmarshal even without a config file.
	v.SetDefault("bot.id", "")
	v.SetDefault("bot.secret", "")
	v.SetDefault("bot.username", "herald")
	v.SetDefault("bot.messages.mention_ack",
		"Hi! I'm Herald. Type /help to see what I can do.")
	v.SetDefault("bot.messages.direct_greeting",
		"Hello! I'm Herald, this platform's assistant bot. "+
			"Try /help for the full command list, or start with /info, /weather <city> or /random coin.")

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
	v.SetDefault("scheduler.tasks.presence_sweep.enabled", true)
	v.SetDefault("scheduler.tasks.presence_sweep.schedule", "0 */10 * * * *")
}
