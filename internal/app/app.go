package app

import (
	"context"
	"io"
	"log/slog"
	"os/user"
	"time"

	"github.com/specialistvlad/fsgen/internal/ctxlog"
)

// Version is the generator version written into every output header.
var Version = "dev"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	now    func() time.Time
}

// NewApp is the constructor for the main application. Reports go to outW,
// log records to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		now:    time.Now,
	}
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) buildDate() time.Time {
	if !a.config.BuildDate.IsZero() {
		return a.config.BuildDate
	}
	return a.now()
}

func (a *App) buildUser() string {
	if a.config.User != "" {
		return a.config.User
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	a.logger.Warn("Could not determine the current user.")
	return "unknown"
}
