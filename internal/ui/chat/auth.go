// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// =============================================================================
// AUTH FORM
// =============================================================================

type authField struct {
	label string
	input textinput.Model
}

// authForm is the login or sign-up form. It only collects input; all
// validation happens in the controller.
type authForm struct {
	panel   controller.AuthPanel
	fields  []authField
	focus   int
	pending bool
}

func newField(label, placeholder string, secret bool) authField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = ""
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return authField{label: label, input: ti}
}

// newAuthForm builds the form for panel with email prefilled.
func newAuthForm(panel controller.AuthPanel, email string) authForm {
	f := authForm{panel: panel}
	if panel == controller.PanelSignup {
		f.fields = []authField{
			newField("Full name", "Ada Lovelace", false),
			newField("Email", "you@example.com", false),
			newField("Phone (optional)", "+44 …", false),
			newField("Password", "", true),
		}
	} else {
		f.fields = []authField{
			newField("Email", "you@example.com", false),
			newField("Password", "", true),
		}
	}
	f.set("Email", email)

	// Start on the first empty field.
	for i, field := range f.fields {
		if field.input.Value() == "" {
			f.focus = i
			break
		}
	}
	f.fields[f.focus].input.Focus()
	return f
}

func (f *authForm) index(label string) int {
	for i, field := range f.fields {
		if field.label == label {
			return i
		}
	}
	return -1
}

func (f *authForm) set(label, value string) {
	if i := f.index(label); i >= 0 {
		f.fields[i].input.SetValue(value)
	}
}

func (f authForm) value(label string) string {
	if i := f.index(label); i >= 0 {
		return f.fields[i].input.Value()
	}
	return ""
}

func (f *authForm) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// onLastField reports whether enter should submit.
func (f authForm) onLastField() bool {
	return f.focus == len(f.fields)-1
}

func (f authForm) update(msg tea.Msg) (authForm, tea.Cmd) {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f authForm) signupForm() controller.SignupForm {
	return controller.SignupForm{
		Name:     f.value("Full name"),
		Email:    f.value("Email"),
		Phone:    f.value("Phone (optional)"),
		Password: f.value("Password"),
	}
}

func (f authForm) view(theme *styles.Theme, authError string, width int) string {
	title := "Sign in to T2T"
	toggle := "No account? ctrl+s to sign up"
	if f.panel == controller.PanelSignup {
		title = "Create your T2T account"
		toggle = "Have an account? ctrl+s to sign in"
	}

	var b strings.Builder
	b.WriteString(theme.OverlayTitle.Render(title))
	b.WriteString("\n")
	for i, field := range f.fields {
		box := theme.InputBlurred
		if i == f.focus {
			box = theme.InputFocused
		}
		b.WriteString(theme.FieldLabel.Render(field.label))
		b.WriteString("\n")
		b.WriteString(box.Render(field.input.View()))
		b.WriteString("\n")
	}

	if f.pending {
		b.WriteString(theme.Working.Render("Please wait…"))
	} else if authError != "" {
		b.WriteString(theme.Error.Render(authError))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Help.Render("enter continue · tab next field · " + toggle + " · ctrl+c quit"))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Overlay.BorderForeground(styles.Indigo).Render(b.String()))
}
