// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("conversation has no messages")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the exportable view of one conversation.
type Transcript struct {
	Title      string
	ThreadID   int64 // 0 for an unsaved conversation
	ExportedAt time.Time
	Messages   []model.Message
}

// NewTranscript builds a transcript from displayed messages. An empty title
// becomes the default conversation title.
func NewTranscript(title string, threadID int64, msgs []model.Message) *Transcript {
	if strings.TrimSpace(title) == "" {
		title = model.DefaultTitle
	}
	return &Transcript{
		Title:      title,
		ThreadID:   threadID,
		ExportedAt: time.Now().UTC(),
		Messages:   model.CloneMessages(msgs),
	}
}

// FromThread builds a transcript from a fetched thread.
func FromThread(t *model.ThreadDetail) *Transcript {
	return NewTranscript(t.DisplayTitle(), t.ID, t.Messages)
}

func (t *Transcript) validate() error {
	if t == nil || len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a transcript in one format.
type Exporter interface {
	// Export renders the transcript.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the extension including the dot, e.g. ".md".
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// Formats lists the accepted format names.
var Formats = []string{"md", "txt", "json", "yaml", "html", "ansi"}

// ForFormat returns the exporter for a format name. "markdown", "text" and
// "yml" are accepted as aliases.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return NewMarkdownExporter(), nil
	case "txt", "text":
		return NewTextExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "yaml", "yml":
		return NewYAMLExporter(), nil
	case "html", "htm":
		return NewHTMLExporter(), nil
	case "ansi":
		return NewANSIExporter(""), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want one of: %s)", format, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures ExportToFile.
type Options struct {
	// OutputDir is where the file is written. Default: working directory.
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Now stamps the filename. Default: time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{OutputDir: "."}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Filename returns the file name for an export made at ts:
// t2t-conversation-{unix millis}{ext}.
func Filename(ts time.Time, ext string) string {
	return fmt.Sprintf("t2t-conversation-%d%s", ts.UnixMilli(), ext)
}

// ExportToFile renders t and writes it under opts.OutputDir. It returns the
// written path.
func ExportToFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := t.validate(); err != nil {
		return "", err
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, Filename(now(), exporter.FileExtension()))
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		// Non-fatal: the file exists either way.
		_ = openFile(outputPath)
	}

	return outputPath, nil
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	return openFile(url)
}
