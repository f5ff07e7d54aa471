// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a standalone page. Message content is converted
// from markdown and sanitized, since replies may contain arbitrary HTML.
type HTMLExporter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Export renders t as HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(t.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"t2t\">\n")
	sb.WriteString("    <style>\n" + htmlCSS + "    </style>\n")
	sb.WriteString("</head>\n<body>\n<div class=\"container\">\n")
	sb.WriteString("    <header><h1>T2T Conversation Export</h1>\n")
	sb.WriteString(fmt.Sprintf("    <p class=\"meta\">%s</p></header>\n", html.EscapeString(t.Title)))
	sb.WriteString("    <main>\n")

	for _, msg := range t.Messages {
		body, err := e.render(msg.Content)
		if err != nil {
			return nil, err
		}
		class := string(msg.Role)
		if msg.Local {
			class += " notice"
		}
		sb.WriteString(fmt.Sprintf("    <section class=\"message %s\">\n", class))
		if badge := msg.Badge(); badge != "" {
			sb.WriteString(fmt.Sprintf("        <div class=\"badge\">%s</div>\n", html.EscapeString(badge)))
		}
		sb.WriteString(fmt.Sprintf("        <h3>%s</h3>\n", msg.Role.DisplayName()))
		sb.WriteString("        <div class=\"content\">\n" + body + "        </div>\n")
		sb.WriteString("    </section>\n")
	}

	sb.WriteString("    </main>\n")
	sb.WriteString(fmt.Sprintf("    <footer>Exported %s</footer>\n", t.ExportedAt.Format(time.RFC1123)))
	sb.WriteString("</div>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}

func (e *HTMLExporter) render(content string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return e.policy.Sanitize(buf.String()), nil
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the HTML MIME type.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

const htmlCSS = `        body { margin: 0; background: #0f1115; color: #e6e6e6; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; line-height: 1.6; }
        .container { max-width: 860px; margin: 0 auto; padding: 2rem 1rem; }
        header h1 { margin-bottom: 0.25rem; }
        .meta { color: #9aa0a6; margin-top: 0; }
        .message { border-radius: 10px; padding: 0.75rem 1rem; margin: 1rem 0; }
        .message.user { background: #1d2533; }
        .message.assistant { background: #171a21; border: 1px solid #2a2f3a; }
        .message.notice { border-color: #a35c00; }
        .message h3 { margin: 0 0 0.5rem; font-size: 0.95rem; }
        .badge { display: inline-block; font-size: 0.75rem; color: #c7a6ff; margin-bottom: 0.25rem; }
        pre { background: #0b0d10; padding: 0.75rem; border-radius: 6px; overflow-x: auto; }
        code { font-family: "JetBrains Mono", Consolas, monospace; }
        footer { color: #6b7280; font-size: 0.8rem; margin-top: 2rem; }
`
