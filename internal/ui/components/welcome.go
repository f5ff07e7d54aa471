// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// =============================================================================
// QUICK STARTERS
// =============================================================================

// Starter is a canned prompt on the welcome screen. Prompts ending in ": "
// are templates: they are placed in the input for the user to finish
// rather than sent.
type Starter struct {
	Label  string
	Prompt string
}

// IsTemplate reports whether the prompt needs finishing before sending.
func (s Starter) IsTemplate() bool {
	return strings.HasSuffix(s.Prompt, ": ")
}

var starters = map[model.Mode][]Starter{
	model.ModeChat: {
		{"Prioritise my week", "Help me prioritise my week. Here is what is on my plate: "},
		{"Explain a framework", "Explain the MECE principle with a practical consulting example."},
		{"Prepare for a meeting", "I have a difficult stakeholder meeting tomorrow. How should I prepare?"},
	},
	model.ModeDocument: {
		{"Project proposal", "Write a one-page project proposal for: "},
		{"Status report", "Draft a weekly status report template for a consulting engagement."},
		{"Executive summary", "Write an executive summary for the following findings: "},
	},
	model.ModeResearch: {
		{"Market overview", "Give me a current market overview of: "},
		{"Industry trends", "What are the biggest trends in management consulting this year?"},
		{"Competitor scan", "Research the main competitors of: "},
	},
	model.ModeCareer: {
		{"Start coaching", "I'm ready for my first question."},
	},
}

// Starters returns the quick-start prompts for a mode.
func Starters(mode model.Mode) []Starter {
	return starters[mode.Info().Mode]
}

// StarterAt returns the 1-based starter n for mode.
func StarterAt(mode model.Mode, n int) (Starter, bool) {
	list := Starters(mode)
	if n < 1 || n > len(list) {
		return Starter{}, false
	}
	return list[n-1], true
}

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome renders the empty-conversation screen.
type Welcome struct {
	theme *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{theme: theme}
}

// View renders the greeting, the mode description and numbered starters.
func (w Welcome) View(user *model.User, mode model.Mode, width int) string {
	info := mode.Info()

	greeting := "Welcome to T2T"
	if user != nil && user.FirstName() != "" {
		greeting = "Welcome back, " + user.FirstName()
	}

	descWidth := width - 4
	if descWidth < 20 {
		descWidth = 20
	}

	var b strings.Builder
	b.WriteString(w.theme.HeaderBrand.Render(greeting))
	b.WriteString("\n\n")
	b.WriteString(w.theme.ModeBadge.Render(info.Label))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(descWidth).Render(w.theme.Muted.Render(info.Description)))
	b.WriteString("\n\n")

	for i, s := range Starters(mode) {
		b.WriteString(w.theme.InputPrompt.Render("alt+" + strconv.Itoa(i+1)))
		b.WriteString("  ")
		b.WriteString(s.Label)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
