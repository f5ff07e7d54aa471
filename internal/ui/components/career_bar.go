// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// =============================================================================
// CAREER PROGRESS BAR
// =============================================================================

// CareerBar shows how far the user is through the Career Clarity questions.
type CareerBar struct {
	bar   progress.Model
	theme *styles.Theme
}

// NewCareerBar creates the indicator.
func NewCareerBar(theme *styles.Theme) CareerBar {
	return CareerBar{
		bar: progress.New(
			progress.WithGradient(styles.ProgressStart, styles.ProgressEnd),
			progress.WithoutPercentage(),
		),
		theme: theme,
	}
}

// View renders the label and bar on one line within width columns.
func (c CareerBar) View(p model.CareerProgress, width int) string {
	labelStyle := c.theme.Badge
	if p.Complete() {
		labelStyle = c.theme.Success.Bold(true)
	}
	label := labelStyle.Render(p.Label())

	barWidth := width - lipgloss.Width(label) - 1
	if barWidth < 10 {
		return label
	}
	c.bar.Width = barWidth
	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", c.bar.ViewAs(p.Fraction()))
}
