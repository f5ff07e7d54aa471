// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/t2t-tui/internal/commands"
	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/components"
)

// statusTTL is how long a status line stays up.
const statusTTL = 6 * time.Second

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state.Surface {
	case controller.SurfaceAuth:
		return m.handleAuthKey(msg)
	case controller.SurfaceOnboarding:
		return m.handleOnboardingKey(msg)
	case controller.SurfaceCareerHook:
		return m.handleHookKey(msg)
	case controller.SurfacePaywall:
		return m.handlePaywallKey(msg)
	}

	if m.showHelp && key.Matches(msg, m.keys.Back, m.keys.Help) {
		m.showHelp = false
		m.layout()
		return m, nil
	}
	if m.focus == focusThreads {
		return m.handleThreadsKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.pending {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.ToggleAuth):
		if m.state.AuthPanel == controller.PanelLogin {
			m.ctrl.ShowSignup()
		} else {
			m.ctrl.ShowLogin()
		}
		m.sync()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Submit):
		if !m.auth.onLastField() {
			m.auth.move(1)
			return m, nil
		}
		return m.submitAuth()
	case key.Matches(msg, m.keys.NextField):
		m.auth.move(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.auth.move(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.auth, cmd = m.auth.update(msg)
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	m.auth.pending = true
	ctrl, ctx := m.ctrl, m.ctx

	if m.auth.panel == controller.PanelSignup {
		form := m.auth.signupForm()
		return m, func() tea.Msg {
			return AuthResultMsg{Err: ctrl.Signup(ctx, form)}
		}
	}

	email, password := m.auth.value("Email"), m.auth.value("Password")
	return m, func() tea.Msg {
		return AuthResultMsg{Err: ctrl.Login(ctx, email, password)}
	}
}

func (m Model) handleOnboardingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit, m.keys.Right):
		if !m.onboarding.Next() {
			return m, nil
		}
		m.ctrl.CompleteOnboarding()
	case key.Matches(msg, m.keys.Left):
		m.onboarding.Prev()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.ctrl.CompleteOnboarding()
	default:
		return m, nil
	}
	m.sync()
	return m, textinput.Blink
}

func (m Model) handleHookKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		req, ok := m.ctrl.BeginCareerStart()
		m.sync()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.runRequest(req), m.spinner.Tick)
	case "esc", "n":
		m.ctrl.DismissCareer()
		m.sync()
	}
	return m, nil
}

func (m Model) handlePaywallKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "o":
		return m.openCheckout("")
	case "esc", "n":
		m.ctrl.DismissPaywall()
		m.sync()
	}
	return m, nil
}

func (m Model) handleThreadsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back, m.keys.Threads):
		m.focus = focusInput
		m.input.Focus()
		m.layout()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Up):
		m.threads.Up()
	case key.Matches(msg, m.keys.Down):
		m.threads.Down()
	case key.Matches(msg, m.keys.Submit):
		t, ok := m.threads.Selected()
		if !ok {
			return m, nil
		}
		m.focus = focusInput
		m.input.Focus()
		m.layout()
		return m, m.threadOp("open", t.ID, "")
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.threads.Selected()
		if !ok {
			return m, nil
		}
		return m, m.threadOp("delete", t.ID, "")
	case key.Matches(msg, m.keys.NewChat):
		return m.handleCommandMsg(commands.NewConversationMsg{})
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keys.Complete):
		if commands.IsCommand(m.input.Value()) {
			return m.complete(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.CompletePrev):
		if m.completion.Visible {
			return m.complete(-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.completion.Visible {
			m.completion.Clear()
			m.layout()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		return m.handleCommandMsg(commands.NewConversationMsg{})

	case key.Matches(msg, m.keys.Export):
		return m.handleCommandMsg(commands.ExportMsg{Format: m.opts.ExportFormat})

	case key.Matches(msg, m.keys.Threads):
		return m.handleCommandMsg(commands.ListThreadsMsg{})

	case key.Matches(msg, m.keys.CycleMode):
		return m.handleCommandMsg(commands.SwitchModeMsg{Mode: nextMode(m.state.Mode)})

	case key.Matches(msg, m.keys.Starter):
		return m.useStarter(msg.String())

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.helpTopic = ""
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.updateCompletion()
	return m, cmd
}

// nextMode cycles the non-career modes. Career is only entered via the hook.
func nextMode(current model.Mode) model.Mode {
	switch current {
	case model.ModeChat:
		return model.ModeDocument
	case model.ModeDocument:
		return model.ModeResearch
	default:
		return model.ModeChat
	}
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if commands.IsCommand(text) {
		m.input.Reset()
		m.completion.Clear()
		m.layout()
		cmd := m.registry.Execute(text, &commands.Context{
			State:        m.state,
			CheckoutTier: m.opts.CheckoutTier,
		})
		if cmd == nil {
			return m, nil
		}
		return m.handleCommandMsg(cmd())
	}

	return m.send(text)
}

func (m Model) send(text string) (tea.Model, tea.Cmd) {
	req, ok := m.ctrl.BeginSend(text)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.sync()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.runRequest(req), m.spinner.Tick)
}

func (m Model) useStarter(keyName string) (tea.Model, tea.Cmd) {
	if !m.state.IsEmpty() || m.state.Busy {
		return m, nil
	}
	n := int(keyName[len(keyName)-1] - '0')
	s, ok := components.StarterAt(m.state.Mode, n)
	if !ok {
		return m, nil
	}
	if s.IsTemplate() {
		m.input.SetValue(s.Prompt)
		m.input.CursorEnd()
		return m, nil
	}
	return m.send(s.Prompt)
}

func (m Model) complete(delta int) (tea.Model, tea.Cmd) {
	if !m.completion.Visible {
		m.updateCompletion()
		if !m.completion.Visible {
			return m, nil
		}
		if len(m.completion.Completions) > 1 {
			return m, nil
		}
	} else if delta > 0 && len(m.completion.Completions) > 1 {
		m.completion.Next()
		return m, nil
	} else if delta < 0 {
		m.completion.Prev()
		return m, nil
	}

	m.input.SetValue(m.completion.Accept())
	m.input.CursorEnd()
	m.completion.Clear()
	m.layout()
	return m, nil
}

// updateCompletion recomputes completions after the input changed.
func (m *Model) updateCompletion() {
	value := m.input.Value()
	if !commands.IsCommand(value) {
		if m.completion.Visible {
			m.completion.Clear()
			m.layout()
		}
		return
	}
	m.completion.Update(value, m.completer.Complete(value, len(value)))
	m.layout()
}

// =============================================================================
// COMMAND MESSAGES
// =============================================================================

// handleCommandMsg applies a slash command's message.
func (m Model) handleCommandMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		m.showHelp = true
		m.helpTopic = msg.Topic
		m.layout()
		return m, nil

	case commands.QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case commands.NewConversationMsg:
		m.ctrl.StartNew()
		m.focus = focusInput
		m.input.Focus()
		m.sync()
		return m, nil

	case commands.SwitchModeMsg:
		if err := m.ctrl.SelectMode(msg.Mode); err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.sync()
		return m.setStatus("Switched to "+msg.Mode.Info().Label, false)

	case commands.EnterCareerMsg:
		m.ctrl.EnterCareer()
		m.sync()
		return m, nil

	case commands.ListThreadsMsg:
		m.focus = focusThreads
		m.input.Blur()
		m.layout()
		return m, m.refreshThreads()

	case commands.OpenThreadMsg:
		return m, m.threadOp("open", msg.ID, "")

	case commands.DeleteThreadMsg:
		return m, m.threadOp("delete", msg.ID, "")

	case commands.RenameThreadMsg:
		return m, m.threadOp("rename", msg.ID, msg.Title)

	case commands.ExportMsg:
		return m, m.exportCmd(msg.Format)

	case commands.UpgradeMsg:
		return m.openCheckout(msg.Tier)

	case commands.WhoAmIMsg:
		return m.setStatus(msg.Text, false)

	case commands.LogoutMsg:
		ctrl, ctx := m.ctrl, m.ctx
		return m, func() tea.Msg {
			ctrl.Logout(ctx)
			return AuthResultMsg{}
		}

	case commands.ErrorMsg:
		return m.setStatus(msg.Error(), true)
	}
	return m, nil
}

func (m Model) openCheckout(tier string) (tea.Model, tea.Cmd) {
	url := m.ctrl.CheckoutURL()
	if tier != "" && m.opts.CheckoutURL != nil {
		url = m.opts.CheckoutURL(tier)
	}
	if err := m.opts.OpenURL(url); err != nil {
		m.logger.Warn("ui", "open checkout failed", map[string]interface{}{"error": err.Error()})
		return m.setStatus("Open this link to upgrade: "+url, false)
	}
	return m.setStatus("Opened checkout in your browser: "+url, false)
}

// =============================================================================
// ASYNC RESULTS
// =============================================================================

func (m Model) handleAuthResult(msg AuthResultMsg) (tea.Model, tea.Cmd) {
	m.auth.pending = false
	m.sync()
	if msg.Err != nil || m.state.User == nil {
		return m, nil
	}

	if m.opts.RememberEmail != nil {
		m.opts.RememberEmail(m.state.User.Email)
	}
	m.opts.LastEmail = m.state.User.Email
	m.auth = newAuthForm(controller.PanelLogin, m.state.User.Email)
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) handleRequestDone(msg RequestDoneMsg) (tea.Model, tea.Cmd) {
	m.sync()
	m.viewport.GotoBottom()

	switch msg.Outcome {
	case controller.OutcomeAuthExpired:
		return m.setStatus(controller.AuthSessionExpired, true)
	case controller.OutcomeStarted:
		return m.setStatus("Career Clarity started. Answer your coach below.", false)
	}
	return m, nil
}

func (m Model) handleThreadOp(msg ThreadOpMsg) (tea.Model, tea.Cmd) {
	m.sync()
	if msg.Err != nil {
		if errors.Is(msg.Err, controller.ErrBusy) {
			return m.setStatus("Wait for the current reply to finish.", true)
		}
		return m.setStatus("Could not "+msg.Op+" conversation: "+msg.Err.Error(), true)
	}
	switch msg.Op {
	case "delete":
		return m.setStatus("Conversation deleted.", false)
	case "rename":
		return m.setStatus("Conversation renamed.", false)
	}
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleConfigChanged(msg ConfigChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	cfg := msg.Config
	m.opts.ExportFormat = cfg.Export.Format
	m.opts.Export.OutputDir = cfg.ExportDir()
	m.opts.Export.OpenAfterExport = cfg.Export.OpenAfter
	m.opts.WordWrap = cfg.UI.WordWrap
	m.opts.CheckoutTier = cfg.Server.CheckoutTier
	m.layout()
	return m.setStatus("Configuration reloaded.", false)
}

// setStatus shows a status line that clears itself after statusTTL.
func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = strings.TrimSpace(text)
	m.statusErr = isErr
	m.layout()
	seq := m.statusSeq
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

func (m Model) checkSessionCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return SessionCheckedMsg{SignedIn: ctrl.CheckSession(ctx)}
	}
}

// runRequest runs a begun request off the update loop.
func (m Model) runRequest(req *controller.Request) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return RequestDoneMsg{Outcome: req.Run(ctx)}
	}
}

func (m Model) refreshThreads() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return ThreadsLoadedMsg{Err: ctrl.RefreshThreads(ctx)}
	}
}

func (m Model) threadOp(op string, id int64, title string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		var err error
		switch op {
		case "open":
			err = ctrl.SelectThread(ctx, id)
		case "delete":
			err = ctrl.RemoveThread(ctx, id)
		case "rename":
			err = ctrl.RenameThread(ctx, id, title)
		}
		return ThreadOpMsg{Op: op, ID: id, Err: err}
	}
}
