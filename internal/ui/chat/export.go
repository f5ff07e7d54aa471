// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/t2t-tui/internal/export"
)

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// exportCmd writes the visible conversation in format. The transcript is
// taken from the current snapshot, so a reply arriving meanwhile is not
// included.
func (m Model) exportCmd(format string) tea.Cmd {
	transcript := export.NewTranscript(m.state.Title, m.state.ActiveThread, m.state.Messages)
	opts := m.opts.Export
	logger := m.logger

	return func() tea.Msg {
		exporter, err := export.ForFormat(format)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ExportToFile(transcript, exporter, &opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		logger.Info("ui", "conversation exported", map[string]interface{}{"path": path, "format": format})
		return ExportDoneMsg{Path: path}
	}
}
