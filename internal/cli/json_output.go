// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for --json.
//
// Every command prints one JSONResponse on stdout. Prompts and progress go
// to stderr so the output can be piped.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/t2t-tui/internal/model"
)

// JSONResponse is the envelope for all --json output.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`

	// Error is null on success
	Error *string `json:"error"`

	// Timestamp is RFC3339 UTC
	Timestamp string `json:"timestamp"`
	Command   string `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response to stdout.
func (r *JSONResponse) Print() error {
	return r.Write(os.Stdout)
}

// Write writes the indented response to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// UserData is returned by login, signup and whoami.
type UserData struct {
	SignedIn  bool   `json:"signed_in"`
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Onboarded bool   `json:"onboarded"`
	Server    string `json:"server"`
}

func newUserData(u *model.User, server string) UserData {
	if u == nil {
		return UserData{Server: server}
	}
	return UserData{
		SignedIn:  true,
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Onboarded: u.HasSeenOnboarding,
		Server:    server,
	}
}

// ThreadData is one conversation in "threads list" output.
type ThreadData struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Mode      string `json:"mode"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ThreadDetailData is returned by "threads show".
type ThreadDetailData struct {
	ThreadData
	Messages []MessageData `json:"messages"`
}

// MessageData is one transcript line.
type MessageData struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExportData is returned by the export command.
type ExportData struct {
	ThreadID int64  `json:"thread_id"`
	Format   string `json:"format"`
	Path     string `json:"path"`
}

// UpgradeData is returned by the upgrade command.
type UpgradeData struct {
	Tier   string `json:"tier"`
	URL    string `json:"url"`
	Opened bool   `json:"opened"`
}

// ConfigData is returned by "config show".
type ConfigData struct {
	Path     string            `json:"config_path"`
	Settings map[string]string `json:"settings"`
}
