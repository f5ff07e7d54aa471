// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash commands shared by the TUI and the
// line-mode REPL.
//
// Handlers never touch the controller directly. Each returns a tea.Cmd that
// yields one of the *Msg types in this package; the TUI feeds that message
// into its Update loop and the REPL invokes the command and switches on the
// message it returns.
//
// # Built-in Commands
//
//   - /help, /quit, /whoami, /logout
//   - /new, /mode <chat|document|research|career>, /career
//   - /threads, /open <id>, /delete <id>, /rename <id> <title>
//   - /export [md|txt|json|yaml|html|ansi], /upgrade [tier]
//
// # Usage
//
//	reg := commands.NewRegistry()
//	if cmd := reg.Execute(input, &commands.Context{State: ctrl.Snapshot()}); cmd != nil {
//	    msg := cmd()
//	    // switch on msg
//	}
package commands
