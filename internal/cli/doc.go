// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands for t2t.
//
// Running t2t with no command starts the full-screen TUI. Every other
// command is a one-shot operation against the same backend, session cookies
// and configuration, which makes t2t scriptable:
//
//	t2t login --email ada@example.com
//	t2t threads list --json | jq '.data[].title'
//	t2t export 42 --format html --open
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global flags plus the command's own arguments
//   - App: The wired client, controller, session store and logger shared by
//     command handlers
//   - JSONResponse: The envelope for --json output
//
// # Commands Overview
//
// Account:
//   - login, signup, logout, whoami
//   - upgrade: Open checkout in the browser and print a QR code
//
// Conversations:
//   - chat: Line-mode chat that accepts the TUI's slash commands
//   - threads: list, show, delete, rename and create conversations
//   - export: Write a conversation as md, txt, json, yaml, html or ansi
//
// Configuration:
//   - config: show, get, set, path, reset
//
// # Exit Codes
//
// Handlers return errors; GetExitCode maps them to the process exit status
// (usage, config, auth, network, not found, payment). DisplayError renders
// them as text on stderr or as a JSON envelope on stdout.
package cli
