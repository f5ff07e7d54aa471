// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the t2t TUI.
//
// Colors are Lip Gloss AdaptiveColors so the same palette works on light
// and dark terminals. The ui.theme setting ("dark", "light", "auto") picks
// which half is used; "auto" asks the terminal through termenv.
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	fmt.Println(theme.UserLabel.Render("You"))
package styles
