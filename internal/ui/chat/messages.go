// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/t2t-tui/internal/config"
	"github.com/jeranaias/t2t-tui/internal/controller"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// SessionCheckedMsg follows the startup session check.
type SessionCheckedMsg struct {
	SignedIn bool
}

// AuthResultMsg carries the result of a login, sign-up or logout.
type AuthResultMsg struct {
	Err error
}

// RequestDoneMsg follows a send or career start.
type RequestDoneMsg struct {
	Outcome controller.Outcome
}

// ThreadsLoadedMsg follows a thread list refresh.
type ThreadsLoadedMsg struct {
	Err error
}

// ThreadOpMsg follows an open, delete or rename.
type ThreadOpMsg struct {
	Op  string
	ID  int64
	Err error
}

// ExportDoneMsg follows an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ConfigChangedMsg is sent by the config watcher after the file changes.
type ConfigChangedMsg struct {
	Config *config.Config
}

// clearStatusMsg expires a status line; seq guards against clearing a newer one.
type clearStatusMsg struct {
	seq int
}
