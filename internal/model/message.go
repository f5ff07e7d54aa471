// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "T2T"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a thread.
type Message struct {
	ID        int64     `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Mode      Mode      `json:"mode,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitempty"`

	// Local marks notices generated by the client (errors, session expiry).
	// They are never sent to or returned by the server.
	Local bool `json:"-"`
}

// NewUserMessage creates an optimistic user message tagged with mode.
func NewUserMessage(content string, mode Mode) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Mode:      mode,
		CreatedAt: Now(),
	}
}

// NewAssistantMessage creates an assistant reply tagged with mode.
func NewAssistantMessage(content string, mode Mode) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Mode:      mode,
		CreatedAt: Now(),
	}
}

// NewNotice creates a client-side assistant notice such as an error line.
func NewNotice(content string, mode Mode) Message {
	msg := NewAssistantMessage(content, mode)
	msg.Local = true
	return msg
}

// Badge returns the mode badge shown above assistant messages, or "" for
// user messages.
func (m Message) Badge() string {
	if m.Role != RoleAssistant {
		return ""
	}
	return ModeOrDefault(string(m.Mode)).Info().Badge
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(m.Content), " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// CountUserMessages returns the number of user-authored messages.
func CountUserMessages(msgs []Message) int {
	n := 0
	for _, msg := range msgs {
		if msg.Role == RoleUser {
			n++
		}
	}
	return n
}

// CloneMessages returns a copy of msgs that shares no backing array.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// =============================================================================
// TIMESTAMP
// =============================================================================

// Timestamp decodes the server's naive ISO-8601 timestamps (UTC without an
// offset) as well as RFC 3339 values.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC()}
}

// ParseTimestamp parses s using the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return Timestamp{Time: t}, nil
		}
		lastErr = err
	}
	return Timestamp{}, lastErr
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.UTC().Format(time.RFC3339), nil
}

// Relative formats t relative to now ("just now", "5m ago", "3d ago").
func (t Timestamp) Relative(now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t.Time)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return formatUnit(int(d/time.Minute), "m")
	case d < 24*time.Hour:
		return formatUnit(int(d/time.Hour), "h")
	case d < 30*24*time.Hour:
		return formatUnit(int(d/(24*time.Hour)), "d")
	default:
		return t.Format("2006-01-02")
	}
}

func formatUnit(n int, unit string) string {
	return itoa(n) + unit + " ago"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
