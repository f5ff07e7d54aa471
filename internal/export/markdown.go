// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"

	"github.com/jeranaias/t2t-tui/internal/model"
)

// MarkdownHeader opens every markdown transcript.
const MarkdownHeader = "# T2T Conversation Export\n\n"

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders the canonical transcript: per message, the mode
// badge in italics for assistant messages, the role as a bold heading, the
// raw content, then a horizontal rule.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export renders t as markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return []byte(renderMarkdown(t.Messages)), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the markdown MIME type.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func renderMarkdown(msgs []model.Message) string {
	var sb strings.Builder
	sb.WriteString(MarkdownHeader)
	for _, msg := range msgs {
		if badge := msg.Badge(); badge != "" {
			sb.WriteString("_" + badge + "_\n\n")
		}
		sb.WriteString("### **" + msg.Role.DisplayName() + "**\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}
