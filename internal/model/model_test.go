// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

// =============================================================================
// MODE TESTS
// =============================================================================

func TestModeTable_HasRequiredFields(t *testing.T) {
	for _, m := range AllModes() {
		t.Run(string(m), func(t *testing.T) {
			info := m.Info()
			if info.Mode != m {
				t.Errorf("Info().Mode = %q, want %q", info.Mode, m)
			}
			if info.Label == "" || info.Badge == "" {
				t.Error("Label and Badge should not be empty")
			}
			if info.Description == "" {
				t.Error("Description should not be empty")
			}
			if info.WorkingLabel == "" {
				t.Error("WorkingLabel should not be empty")
			}
		})
	}
}

func TestMode_WorkingLabels(t *testing.T) {
	tests := map[Mode]string{
		ModeChat:     "T2T is thinking…",
		ModeDocument: "Generating your document…",
		ModeResearch: "Searching the web…",
		ModeCareer:   "Your coach is thinking…",
	}
	for mode, want := range tests {
		if got := mode.Info().WorkingLabel; got != want {
			t.Errorf("%s WorkingLabel = %q, want %q", mode, got, want)
		}
	}
}

func TestMode_UnknownFallsBackToChat(t *testing.T) {
	if got := Mode("poetry").Info().Mode; got != ModeChat {
		t.Errorf("unknown mode Info().Mode = %q, want chat", got)
	}
	if got := ModeOrDefault(""); got != ModeChat {
		t.Errorf("ModeOrDefault(\"\") = %q, want chat", got)
	}
	if got := ModeOrDefault("research"); got != ModeResearch {
		t.Errorf("ModeOrDefault(research) = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"chat", ModeChat, false},
		{" Document ", ModeDocument, false},
		{"CAREER", ModeCareer, false},
		{"", "", true},
		{"poetry", "", true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// CAREER PROGRESS TESTS
// =============================================================================

func TestCareerProgress_Rendering(t *testing.T) {
	tests := []struct {
		question     int
		wantFraction float64
		wantLabel    string
		wantComplete bool
	}{
		{0, 0, "Starting your journey…", false},
		{1, 0.125, "Question 1 of 8", false},
		{4, 0.5, "Question 4 of 8", false},
		{7, 0.875, "Question 7 of 8", false},
		{8, 1, "✅ Report Complete", true},
	}
	for _, tc := range tests {
		p := NewCareerProgress(tc.question)
		if got := p.Fraction(); got != tc.wantFraction {
			t.Errorf("q=%d Fraction() = %v, want %v", tc.question, got, tc.wantFraction)
		}
		if got := p.Label(); got != tc.wantLabel {
			t.Errorf("q=%d Label() = %q, want %q", tc.question, got, tc.wantLabel)
		}
		if got := p.Complete(); got != tc.wantComplete {
			t.Errorf("q=%d Complete() = %v, want %v", tc.question, got, tc.wantComplete)
		}
	}
}

func TestCareerProgress_Clamps(t *testing.T) {
	if got := NewCareerProgress(12).Question; got != 8 {
		t.Errorf("NewCareerProgress(12) = %d, want 8", got)
	}
	if got := NewCareerProgress(-3).Question; got != 0 {
		t.Errorf("NewCareerProgress(-3) = %d, want 0", got)
	}
	if got := NewCareerProgress(4).Percent(); got != 50 {
		t.Errorf("Percent() = %d, want 50", got)
	}
}

func TestProgressFromMessages(t *testing.T) {
	var msgs []Message
	for i := 0; i < 11; i++ {
		msgs = append(msgs, NewAssistantMessage("q", ModeCareer), NewUserMessage("a", ModeCareer))
	}

	tests := []struct {
		name string
		msgs []Message
		want int
	}{
		{"empty thread", nil, 0},
		{"opening message only", msgs[:1], 0},
		{"three answers", msgs[:6], 3},
		{"capped at eight", msgs, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProgressFromMessages(tc.msgs).Question; got != tc.want {
				t.Errorf("ProgressFromMessages() = %d, want %d", got, tc.want)
			}
		})
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Badge(t *testing.T) {
	if got := NewUserMessage("hi", ModeResearch).Badge(); got != "" {
		t.Errorf("user message Badge() = %q, want empty", got)
	}
	if got := NewAssistantMessage("hi", ModeResearch).Badge(); got != "🔍 Research" {
		t.Errorf("assistant Badge() = %q", got)
	}
	if got := (Message{Role: RoleAssistant}).Badge(); got != "💬 Chat" {
		t.Errorf("untagged assistant Badge() = %q", got)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := Message{Content: "hello   wide\nworld"}
	if got := msg.Preview(50); got != "hello wide world" {
		t.Errorf("Preview() = %q", got)
	}
	if got := msg.Preview(6); got != "hello…" {
		t.Errorf("Preview(6) = %q", got)
	}
}

func TestNewNotice_IsLocal(t *testing.T) {
	n := NewNotice("⚠️ Error", ModeChat)
	if !n.Local || n.Role != RoleAssistant {
		t.Errorf("NewNotice() = %+v, want local assistant message", n)
	}
}

// =============================================================================
// TIMESTAMP TESTS
// =============================================================================

func TestTimestamp_UnmarshalServerFormats(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{`"2025-03-01T10:20:30.123456"`, time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{`"2025-03-01T10:20:30"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{`"2025-03-01T10:20:30Z"`, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
	}
	for _, tc := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tc.input), &ts); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tc.input, err)
			continue
		}
		if !ts.Equal(tc.want) {
			t.Errorf("Unmarshal(%s) = %v, want %v", tc.input, ts.Time, tc.want)
		}
	}

	var empty Timestamp
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil || !empty.IsZero() {
		t.Errorf("null timestamp = %v, %v", empty, err)
	}
}

func TestThreadDetail_Decode(t *testing.T) {
	body := `{"id": 7, "title": "Pricing memo", "mode": "document",
		"created_at": "2025-03-01T10:20:30", "updated_at": "2025-03-01T10:25:00",
		"messages": [{"id": 1, "role": "user", "content": "Draft it", "mode": "document", "created_at": "2025-03-01T10:20:30"}]}`

	var detail ThreadDetail
	if err := json.Unmarshal([]byte(body), &detail); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if detail.ID != 7 || detail.Title != "Pricing memo" || detail.EffectiveMode() != ModeDocument {
		t.Errorf("decoded summary = %+v", detail.ThreadSummary)
	}
	if len(detail.Messages) != 1 || detail.Messages[0].Role != RoleUser {
		t.Errorf("decoded messages = %+v", detail.Messages)
	}
}

func TestTimestamp_Relative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2024-01-02"},
	}
	for _, tc := range tests {
		if got := (Timestamp{Time: tc.at}).Relative(now); got != tc.want {
			t.Errorf("Relative(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestUser_FirstName(t *testing.T) {
	if got := (User{Name: "Ada Lovelace"}).FirstName(); got != "Ada" {
		t.Errorf("FirstName() = %q", got)
	}
	if got := (User{Name: "Cher"}).FirstName(); got != "Cher" {
		t.Errorf("FirstName() = %q", got)
	}
}
