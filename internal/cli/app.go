// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring shared by every command that talks to the server.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/config"
	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/logging"
	"github.com/jeranaias/t2t-tui/internal/storage"
)

// App bundles the configured client stack for one command run.
type App struct {
	Args     Args
	Config   *config.Config
	Logger   *logging.ZapLogger
	Client   *api.Client
	Sessions *storage.SessionStore
	Ctrl     *controller.Controller

	// Out receives command output, Err receives prompts and notices.
	Out io.Writer
	Err io.Writer

	// Prompt reads interactive answers.
	Prompt *Prompter
}

// NewApp loads the global configuration, applies --server and builds the
// client stack.
func NewApp(args Args) (*App, error) {
	cfg := config.Global().Clone()
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return newApp(cfg, args)
}

func newApp(cfg *config.Config, args Args) (*App, error) {
	sessionPath, err := config.SessionPath()
	if err != nil {
		return nil, fmt.Errorf("locate session file: %w", err)
	}

	logger := logging.New(logging.Options{
		Path:      cfg.LogPath(),
		Level:     cfg.Log.Level,
		MaxSizeMB: cfg.Log.MaxSizeMB,
		Console:   args.Verbose,
	})

	sessions := storage.NewSessionStore(sessionPath, cfg.Server.BaseURL)
	client := api.NewClient(cfg.Server.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithMaxRetries(cfg.Server.MaxRetries).
		WithRateLimit(cfg.Server.RateLimit).
		WithLogger(logger).
		WithCookieStore(sessions)

	ctrl := controller.New(client,
		controller.WithLogger(logger),
		controller.WithDefaultMode(cfg.Mode()),
		controller.WithCheckoutTier(cfg.Server.CheckoutTier),
	)

	logger.Debug("cli", "client configured", map[string]interface{}{
		"server":  cfg.Server.BaseURL,
		"timeout": cfg.Timeout().String(),
		"session": sessionPath,
	})

	return &App{
		Args:     args,
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Sessions: sessions,
		Ctrl:     ctrl,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Prompt:   &Prompter{},
	}, nil
}

// Close waits for background requests and flushes the log.
func (a *App) Close() {
	a.Ctrl.Wait()
	_ = a.Logger.Sync()
}

// Context returns a context bounded by the configured request timeout.
func (a *App) Context() (context.Context, context.CancelFunc) {
	timeout := a.Config.Timeout()
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutSecs) * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// RequireSession checks the stored session with the server.
func (a *App) RequireSession(ctx context.Context) error {
	if !a.Ctrl.CheckSession(ctx) {
		return ErrNotSignedIn
	}
	return nil
}

// notice writes a human-readable line to stderr unless --quiet.
func (a *App) notice(format string, args ...interface{}) {
	if a.Args.Quiet {
		return
	}
	fmt.Fprintf(a.Err, format+"\n", args...)
}
