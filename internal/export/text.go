// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"
)

const textRule = "────────────────────────────────────────"

// TextExporter renders a plain-text transcript without markdown markup.
type TextExporter struct{}

// NewTextExporter creates a plain-text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export renders t as plain text.
func (e *TextExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("T2T Conversation Export\n")
	sb.WriteString(t.Title + "\n\n")
	for _, msg := range t.Messages {
		sb.WriteString(msg.Role.DisplayName())
		if badge := msg.Badge(); badge != "" {
			sb.WriteString(" [" + badge + "]")
		}
		sb.WriteString(":\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n" + textRule + "\n\n")
	}
	return []byte(sb.String()), nil
}

// FileExtension returns ".txt".
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the plain text MIME type.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}
