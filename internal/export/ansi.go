// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// DefaultANSIStyle is the chroma style used when none is given.
const DefaultANSIStyle = "monokai"

// ANSIExporter renders the markdown transcript with terminal colors, for
// `t2t export --format ansi` piped to a pager.
type ANSIExporter struct {
	style string
}

// NewANSIExporter creates an ANSI exporter using a chroma style name.
func NewANSIExporter(style string) *ANSIExporter {
	if style == "" {
		style = DefaultANSIStyle
	}
	return &ANSIExporter{style: style}
}

// Export renders t as ANSI-colored markdown.
func (e *ANSIExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return []byte(Highlight(renderMarkdown(t.Messages), "markdown", e.style)), nil
}

// FileExtension returns ".ans".
func (e *ANSIExporter) FileExtension() string {
	return ".ans"
}

// MimeType returns the plain text MIME type; the escapes are in-band.
func (e *ANSIExporter) MimeType() string {
	return "text/plain"
}

// Highlight colors source for a 256-color terminal. On any failure the
// source is returned unchanged.
func Highlight(source, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	st := chromaStyles.Get(style)
	if st == nil {
		st = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, st, iterator); err != nil {
		return source
	}
	return buf.String()
}
