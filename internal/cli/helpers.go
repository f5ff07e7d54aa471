// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Formatting shared by the CLI commands.

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/t2t-tui/internal/config"
	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/components"
)

// markdownStyle picks the glamour style for terminal output.
func markdownStyle(cfg *config.Config) string {
	if !ColorsEnabled() {
		return "notty"
	}
	if cfg != nil && cfg.UI.Theme == "light" {
		return "light"
	}
	return "dark"
}

func threadData(t model.ThreadSummary) ThreadData {
	d := ThreadData{
		ID:    t.ID,
		Title: t.DisplayTitle(),
		Mode:  string(model.ModeOrDefault(string(t.Mode))),
	}
	if !t.UpdatedAt.IsZero() {
		d.UpdatedAt = t.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return d
}

func messageData(msgs []model.Message) []MessageData {
	out := make([]MessageData, 0, len(msgs))
	for _, m := range msgs {
		if m.Local {
			continue
		}
		out = append(out, MessageData{Role: m.Role.String(), Content: m.Content})
	}
	return out
}

// printMessage writes one transcript entry. Assistant replies are rendered
// as markdown; user text is printed as typed.
func printMessage(w io.Writer, md *components.MarkdownRenderer, msg model.Message, width int) {
	switch msg.Role {
	case model.RoleUser:
		fmt.Fprintf(w, "%s %s\n\n", UserStyle.Render(msg.Role.DisplayName()+":"), msg.Content)
	default:
		label := msg.Role.DisplayName()
		if badge := msg.Badge(); badge != "" {
			label += " · " + badge
		}
		fmt.Fprintln(w, AssistantStyle.Render(label))
		body := msg.Content
		if md != nil && !msg.Local {
			body = md.Render(msg.Content, width)
		}
		fmt.Fprintln(w, strings.TrimRight(body, "\n"))
		fmt.Fprintln(w)
	}
}
