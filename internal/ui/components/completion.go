// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/t2t-tui/internal/commands"
	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// CompletionPopup lists slash command completions above the input.
type CompletionPopup struct {
	theme      *styles.Theme
	maxVisible int
}

// NewCompletionPopup creates a new completion popup.
func NewCompletionPopup(theme *styles.Theme) CompletionPopup {
	return CompletionPopup{theme: theme, maxVisible: 6}
}

// View renders the state's completions, scrolled to keep the selection
// visible. An invisible state renders nothing.
func (c CompletionPopup) View(state *commands.CompletionState, width int) string {
	if state == nil || !state.Visible || len(state.Completions) == 0 {
		return ""
	}

	start := 0
	if state.Selected >= c.maxVisible {
		start = state.Selected - c.maxVisible + 1
	}
	end := start + c.maxVisible
	if end > len(state.Completions) {
		end = len(state.Completions)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		comp := state.Completions[i]
		line := runewidth.FillRight(comp.Display, 24)
		if comp.Description != "" {
			line += "  " + comp.Description
		}
		line = runewidth.Truncate(line, width-3, "…")

		if i == state.Selected {
			lines = append(lines, c.theme.ListItemSelected.Render(line))
		} else {
			lines = append(lines, c.theme.ListItem.Render(line))
		}
	}
	if more := len(state.Completions) - end; more > 0 {
		lines = append(lines, c.theme.Muted.Render("  +"+strconv.Itoa(more)+" more"))
	}
	return strings.Join(lines, "\n")
}
