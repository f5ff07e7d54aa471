// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// Slide is one onboarding page.
type Slide struct {
	Title string
	Body  string
}

// Slides is the first-run introduction.
var Slides = []Slide{
	{
		Title: "Meet T2T",
		Body:  "Your AI consulting partner. Ask for advice, frameworks or coaching in Chat mode.",
	},
	{
		Title: "Documents and research",
		Body:  "Document mode produces complete deliverables. Research mode searches the web for current evidence.",
	},
	{
		Title: "Career Clarity",
		Body:  "Eight guided questions build your LinkedIn plan and a 90-day career roadmap. Type /career to begin.",
	},
}

// Onboarding steps through Slides.
type Onboarding struct {
	index int
	theme *styles.Theme
}

// NewOnboarding starts at the first slide.
func NewOnboarding(theme *styles.Theme) Onboarding {
	return Onboarding{theme: theme}
}

// Index returns the current slide.
func (o Onboarding) Index() int { return o.index }

// Last reports whether the current slide is the final one.
func (o Onboarding) Last() bool { return o.index >= len(Slides)-1 }

// Next advances and reports whether the sequence is finished.
func (o *Onboarding) Next() bool {
	if o.Last() {
		return true
	}
	o.index++
	return false
}

// Prev goes back one slide.
func (o *Onboarding) Prev() {
	if o.index > 0 {
		o.index--
	}
}

// View renders the current slide centered in width x height.
func (o Onboarding) View(width, height int) string {
	s := Slides[o.index]

	dots := make([]string, len(Slides))
	for i := range Slides {
		if i == o.index {
			dots[i] = "●"
		} else {
			dots[i] = "○"
		}
	}

	next := "Next →"
	if o.Last() {
		next = "Get Started ✦"
	}

	bodyWidth := width - 16
	if bodyWidth > 60 {
		bodyWidth = 60
	}
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		o.theme.OverlayTitle.Render(s.Title),
		lipgloss.NewStyle().Width(bodyWidth).Align(lipgloss.Center).Render(s.Body),
		"",
		o.theme.Muted.Render(strings.Join(dots, " ")),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			o.theme.Button.Render("esc skip"),
			o.theme.ButtonActive.Render("enter "+next),
		),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, o.theme.Overlay.Render(content))
}
