// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/t2t-tui/internal/commands"
	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the active surface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading…"
	}

	switch m.state.Surface {
	case controller.SurfaceAuth:
		return m.authView()
	case controller.SurfaceOnboarding:
		return m.onboarding.View(m.width, m.height)
	case controller.SurfaceCareerHook:
		return m.overlay(m.hookView())
	case controller.SurfacePaywall:
		return m.overlay(m.paywallView())
	}
	return m.appView()
}

func (m Model) authView() string {
	banner := m.theme.HeaderBrand.Render("T2T") + m.theme.Muted.Render("  your AI consulting partner")
	form := m.auth.view(m.theme, m.state.AuthError, m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, banner),
		"",
		form,
	)
}

// overlay centers a dialog over the full screen.
func (m Model) overlay(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.theme.Overlay.Render(content))
}

func (m Model) hookView() string {
	info := model.ModeCareer.Info()
	body := lipgloss.NewStyle().Width(52).Render(info.Description +
		"\n\nYour coach asks eight questions, one at a time. At the end you get a personalised report you can export.")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.OverlayTitle.Render(info.Label),
		body,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.theme.ButtonActive.Render("enter Start"),
			m.theme.Button.Render("esc Not now"),
		),
	)
}

func (m Model) paywallView() string {
	url := m.ctrl.CheckoutURL()
	body := lipgloss.NewStyle().Width(52).Render(
		"Career Clarity is part of a paid plan. Upgrade to get your personalised LinkedIn plan and 90-day roadmap.")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.OverlayTitle.Render("Unlock Career Clarity"),
		body,
		"",
		m.theme.Link.Render(url),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.theme.ButtonActive.Render("enter Open checkout"),
			m.theme.Button.Render("esc Maybe later"),
		),
	)
}

func (m Model) appView() string {
	rows := []string{m.headerView()}
	if m.state.CareerVisible() {
		rows = append(rows, m.careerBar.View(m.state.CareerProgress, m.width))
	}

	main := m.viewport.View()
	if m.showHelp {
		main = lipgloss.NewStyle().Width(m.transcriptWidth()).Height(m.viewport.Height).Render(m.helpView())
	}
	if m.sidebarVisible() {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), " ", main)
	}
	rows = append(rows, main)

	inputBox := m.theme.InputFocused
	if m.focus != focusInput {
		inputBox = m.theme.InputBlurred
	}
	rows = append(rows, inputBox.Width(m.width-2).Render(m.input.View()))
	rows = append(rows, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) headerView() string {
	left := m.theme.HeaderBrand.Render("T2T") + "  " +
		m.theme.HeaderTitle.Render(runewidth.Truncate(m.state.DisplayTitle(), m.width/2, "…"))
	right := m.theme.ModeBadge.Render(m.state.ModeInfo().Label)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) footerView() string {
	if popup := m.popup.View(m.completion, m.width); popup != "" {
		return popup
	}
	if m.status != "" {
		style := m.theme.Success
		if m.statusErr {
			style = m.theme.Error
		}
		return style.Render(runewidth.Truncate(m.status, m.width-1, "…"))
	}
	if m.focus == focusThreads {
		return m.theme.Help.Render("↑/↓ select · enter open · d delete · ctrl+n new · esc back")
	}
	return m.theme.Help.Render(runewidth.Truncate(renderBindings(m.keys.ShortHelp()), m.width-1, "…"))
}

func (m Model) sidebarView() string {
	w := m.theme.SidebarWidth()
	title := m.theme.SidebarTitle.Render("Conversations")
	list := m.threads.View(w, m.viewport.Height-2, m.state.ActiveThread, m.focus == focusThreads)
	return m.theme.Sidebar.Width(w).Height(m.viewport.Height).Render(title + "\n" + list)
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Help"))
	b.WriteString("\n")
	b.WriteString(commands.HelpText(m.registry, m.helpTopic))
	if m.helpTopic == "" {
		b.WriteString("\nKeys\n")
		for _, group := range m.keys.FullHelp() {
			b.WriteString("  " + renderBindings(group) + "\n")
		}
	}
	b.WriteString(m.theme.Muted.Render("\nesc to close"))
	return b.String()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// transcriptView renders the conversation, or the welcome screen when
// there is none, followed by the working indicator.
func (m Model) transcriptView() string {
	width := m.viewport.Width
	if m.opts.WordWrap > 0 && m.opts.WordWrap < width {
		width = m.opts.WordWrap
	}

	if m.state.IsEmpty() && !m.state.Busy {
		return m.welcome.View(m.state.User, m.state.Mode, width)
	}

	var b strings.Builder
	for i, msg := range m.state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.messageView(msg, width))
	}
	if m.state.Busy {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " " + m.theme.Working.Render(m.state.WorkingLabel()))
	}
	return b.String()
}

func (m Model) messageView(msg model.Message, width int) string {
	if msg.Role == model.RoleUser {
		return m.theme.UserLabel.Render(msg.Role.DisplayName()) + "\n" +
			m.theme.UserText.Width(width).Render(msg.Content)
	}

	header := m.theme.AssistantLabel.Render(msg.Role.DisplayName()) + "  " + m.theme.Badge.Render(msg.Badge())
	if msg.Local {
		return header + "\n" + m.theme.Notice.Width(width).Render(msg.Content)
	}
	return header + "\n" + m.markdown.Render(msg.Content, width)
}
