// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// MODE TYPE
// =============================================================================

// Mode selects how the backend treats a message.
type Mode string

const (
	ModeChat     Mode = "chat"
	ModeDocument Mode = "document"
	ModeResearch Mode = "research"
	ModeCareer   Mode = "career"
)

// DefaultMode is used for threads that carry no mode.
const DefaultMode = ModeChat

// String returns the wire value of the mode.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, ok := modeTable[m]
	return ok
}

// Info returns the presentation metadata for the mode.
// Unknown modes fall back to the chat entry.
func (m Mode) Info() ModeInfo {
	if info, ok := modeTable[m]; ok {
		return info
	}
	return modeTable[DefaultMode]
}

// =============================================================================
// MODE METADATA
// =============================================================================

// ModeInfo is the single source of presentation data for a mode. The same
// entry is used when tagging outgoing requests and when rendering replies.
type ModeInfo struct {
	Mode Mode

	// Label is shown in the mode indicator ("💬 Chat Mode").
	Label string

	// Badge tags assistant messages in the transcript ("💬 Chat").
	Badge string

	// Description is the one-line explanation under the mode selector.
	Description string

	// WorkingLabel is shown while a request is in flight.
	WorkingLabel string

	// Placeholder is the input hint for the mode.
	Placeholder string
}

var modeTable = map[Mode]ModeInfo{
	ModeChat: {
		Mode:         ModeChat,
		Label:        "💬 Chat Mode",
		Badge:        "💬 Chat",
		Description:  "Ask anything — consulting advice, career guidance, framework explanations, or coaching.",
		WorkingLabel: "T2T is thinking…",
		Placeholder:  "Ask T2T anything…",
	},
	ModeDocument: {
		Mode:         ModeDocument,
		Label:        "📄 Document Mode",
		Badge:        "📄 Document",
		Description:  "Describe what you need and T2T will generate a complete, professional deliverable.",
		WorkingLabel: "Generating your document…",
		Placeholder:  "Describe the document you need…",
	},
	ModeResearch: {
		Mode:         ModeResearch,
		Label:        "🔍 Research Mode",
		Badge:        "🔍 Research",
		Description:  "T2T searches the web in real time to support your query with current evidence.",
		WorkingLabel: "Searching the web…",
		Placeholder:  "What should T2T research?",
	},
	ModeCareer: {
		Mode:         ModeCareer,
		Label:        "🎯 Career Clarity",
		Badge:        "🎯 Career Clarity",
		Description:  "8 guided questions → your personalised LinkedIn plan and 90-day career roadmap.",
		WorkingLabel: "Your coach is thinking…",
		Placeholder:  "Answer your coach…",
	},
}

// AllModes returns the modes in selector order.
func AllModes() []Mode {
	return []Mode{ModeChat, ModeDocument, ModeResearch, ModeCareer}
}

// ModeNames returns the wire names of all modes in selector order.
func ModeNames() []string {
	modes := AllModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// ParseMode converts user input to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (expected one of: %s)", s, strings.Join(ModeNames(), ", "))
	}
	return m, nil
}

// ModeOrDefault converts a server value to a Mode, treating empty and
// unknown values as chat.
func ModeOrDefault(s string) Mode {
	m := Mode(s)
	if m.Valid() {
		return m
	}
	return DefaultMode
}
