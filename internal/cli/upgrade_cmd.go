// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upgrade_cmd.go - "t2t upgrade": hand off to the checkout page.
//
// The browser is opened on this machine and a QR code is printed so the
// checkout can be finished on a phone.

package cli

import (
	"fmt"
	"io"

	"github.com/mdp/qrterminal/v3"

	"github.com/jeranaias/t2t-tui/internal/export"
)

// HandleUpgrade handles "t2t upgrade".
func HandleUpgrade(args Args) error {
	return withApp(args, runUpgrade)
}

// openURL is replaced in tests.
var openURL = export.OpenURL

func runUpgrade(app *App) error {
	p := app.Args.Parser()

	tier := p.Positional(0)
	if tier == "" {
		tier = app.Config.Server.CheckoutTier
	}
	url := app.Client.CheckoutURL(tier)

	opened := false
	if !p.BoolFlag("no-browser") && !app.Args.JSON {
		if err := openURL(url); err != nil {
			app.Logger.Warn("cli", "could not open browser", map[string]interface{}{"error": err.Error()})
		} else {
			opened = true
		}
	}

	if app.Args.JSON {
		return NewJSONResponse("upgrade", UpgradeData{Tier: tier, URL: url, Opened: opened}).Write(app.Out)
	}

	fmt.Fprintln(app.Out, TitleStyle.Render("Upgrade to unlock Career Clarity"))
	fmt.Fprintln(app.Out, LinkStyle.Render(url))
	if !app.Args.Quiet {
		fmt.Fprintln(app.Out)
		printQR(app.Out, url)
	}
	if opened {
		fmt.Fprintln(app.Out, DimStyle.Render("Opened in your browser."))
	}
	return nil
}

// printQR renders url as a half-block QR code.
func printQR(w io.Writer, url string) {
	qrterminal.GenerateHalfBlock(url, qrterminal.L, w)
}
