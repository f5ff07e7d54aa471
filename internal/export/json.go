// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// STRUCTURED DOCUMENT
// =============================================================================

// document is the shape shared by the JSON and YAML exports.
type document struct {
	Title      string          `json:"title" yaml:"title"`
	ThreadID   int64           `json:"thread_id,omitempty" yaml:"thread_id,omitempty"`
	ExportedAt string          `json:"exported_at" yaml:"exported_at"`
	Messages   []documentEntry `json:"messages" yaml:"messages"`
}

type documentEntry struct {
	Role      string `json:"role" yaml:"role"`
	Author    string `json:"author" yaml:"author"`
	Mode      string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Badge     string `json:"badge,omitempty" yaml:"badge,omitempty"`
	Content   string `json:"content" yaml:"content"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Notice    bool   `json:"notice,omitempty" yaml:"notice,omitempty"`
}

func newDocument(t *Transcript) document {
	doc := document{
		Title:      t.Title,
		ThreadID:   t.ThreadID,
		ExportedAt: t.ExportedAt.UTC().Format(time.RFC3339),
		Messages:   make([]documentEntry, 0, len(t.Messages)),
	}
	for _, msg := range t.Messages {
		entry := documentEntry{
			Role:    string(msg.Role),
			Author:  msg.Role.DisplayName(),
			Mode:    string(msg.Mode),
			Badge:   msg.Badge(),
			Content: msg.Content,
			Notice:  msg.Local,
		}
		if !msg.CreatedAt.IsZero() {
			entry.CreatedAt = msg.CreatedAt.UTC().Format(time.RFC3339)
		}
		doc.Messages = append(doc.Messages, entry)
	}
	return doc
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts as indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export renders t as JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(newDocument(t), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter exports transcripts as YAML. Multi-line content is written
// as literal blocks.
type YAMLExporter struct{}

// NewYAMLExporter creates a YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Export renders t as YAML.
func (e *YAMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(t)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension returns ".yaml".
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns the YAML MIME type.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
