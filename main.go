// t2t - your AI consulting partner in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/t2t-tui/internal/cli"
	"github.com/jeranaias/t2t-tui/internal/config"
	"github.com/jeranaias/t2t-tui/internal/export"
	"github.com/jeranaias/t2t-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdChat:
		err = cli.HandleChatCommand(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdSignup:
		err = cli.HandleSignup(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdWhoAmI:
		err = cli.HandleWhoAmI(args)
	case cli.CmdThreads:
		err = cli.HandleThreads(args)
	case cli.CmdExport:
		err = cli.HandleExport(args)
	case cli.CmdUpgrade:
		err = cli.HandleUpgrade(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	default:
		err = cli.HandleHelp(args)
	}

	if err != nil {
		cli.DisplayError(err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}

// =============================================================================
// TUI
// =============================================================================

// runTUI starts the full-screen interface. It returns once the user quits.
func runTUI(args cli.Args) error {
	app, err := cli.NewApp(args)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := app.Config
	m := chat.New(chat.Options{
		Controller: app.Ctrl,
		Context:    ctx,
		Logger:     app.Logger,
		Theme:      cfg.UI.Theme,
		WordWrap:   cfg.UI.WordWrap,
		Export: export.Options{
			OutputDir:       cfg.ExportDir(),
			OpenAfterExport: cfg.Export.OpenAfter,
		},
		ExportFormat: cfg.Export.Format,
		CheckoutTier: cfg.Server.CheckoutTier,
		CheckoutURL:  app.Client.CheckoutURL,
		OpenURL:      export.OpenURL,
		LastEmail:    app.Sessions.LastEmail(),
		RememberEmail: func(email string) {
			if err := app.Sessions.SetLastEmail(email); err != nil {
				app.Logger.Warn("main", "could not remember email", map[string]interface{}{"error": err.Error()})
			}
		},
	})

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Settings edited with "t2t config set" or by hand apply without a restart.
	go func() {
		err := config.Watch(ctx, func(updated *config.Config) {
			p.Send(chat.ConfigChangedMsg{Config: updated})
		}, func(err error) {
			app.Logger.Warn("main", "config reload failed", map[string]interface{}{"error": err.Error()})
		})
		if err != nil && ctx.Err() == nil {
			app.Logger.Warn("main", "config watcher stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	app.Logger.Info("main", "tui started", map[string]interface{}{
		"version": Version,
		"server":  app.Client.BaseURL(),
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running t2t: %w", err)
	}
	return nil
}
