// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders a conversation transcript to a local file.
//
// Export never contacts the server: it works from the messages currently
// displayed, in display order, including client-side notices.
//
// # Supported Formats
//
//   - md: the canonical transcript, headed "# T2T Conversation Export"
//   - txt: plain text without markdown decoration
//   - json, yaml: machine-readable with per-message mode and timestamp
//   - html: a standalone page with rendered markdown
//   - ansi: the markdown transcript syntax-highlighted for a terminal
//
// # Usage
//
//	exporter, err := export.ForFormat("md")
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(export.NewTranscript(title, id, msgs), exporter, opts)
package export
