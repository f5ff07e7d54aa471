// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/t2t-tui/internal/commands"
	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/export"
	"github.com/jeranaias/t2t-tui/internal/logging"
	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/components"
	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the model to the rest of the application.
type Options struct {
	Controller *controller.Controller

	// Context bounds every network call made from the UI.
	Context context.Context

	Logger logging.Logger

	// Theme is the ui.theme setting.
	Theme string

	// WordWrap caps the transcript width; 0 uses the terminal width.
	WordWrap int

	Export        export.Options
	ExportFormat  string
	CheckoutTier  string
	CheckoutURL   func(tier string) string
	OpenURL       func(url string) error
	LastEmail     string
	RememberEmail func(email string)
}

// =============================================================================
// CHAT MODEL
// =============================================================================

type focus int

const (
	focusInput focus = iota
	focusThreads
)

// Model is the Bubble Tea model for the t2t TUI.
type Model struct {
	ctrl   *controller.Controller
	ctx    context.Context
	logger logging.Logger
	opts   Options

	// state is the last controller snapshot; never mutated here.
	state controller.State

	theme  *styles.Theme
	keys   KeyMap
	width  int
	height int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	auth       authForm
	onboarding components.Onboarding
	threads    *components.ThreadList
	markdown   *components.MarkdownRenderer
	careerBar  components.CareerBar
	welcome    components.Welcome
	popup      components.CompletionPopup

	registry   *commands.Registry
	completer  *commands.Completer
	completion *commands.CompletionState

	focus     focus
	showHelp  bool
	helpTopic string
	status    string
	statusErr bool
	statusSeq int
	quitting  bool
}

// New creates the model. Options.Controller is required.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.OpenURL == nil {
		opts.OpenURL = export.OpenURL
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = "md"
	}

	theme := styles.NewTheme(opts.Theme)

	input := textinput.New()
	input.Prompt = "› "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 8000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Working

	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)

	m := Model{
		ctrl:       opts.Controller,
		ctx:        opts.Context,
		logger:     opts.Logger,
		opts:       opts,
		theme:      theme,
		keys:       DefaultKeyMap(),
		input:      input,
		viewport:   viewport.New(80, 20),
		spinner:    sp,
		onboarding: components.NewOnboarding(theme),
		threads:    components.NewThreadList(theme),
		markdown:   components.NewMarkdownRenderer(theme.GlamourStyle()),
		careerBar:  components.NewCareerBar(theme),
		welcome:    components.NewWelcome(theme),
		popup:      components.NewCompletionPopup(theme),
		registry:   registry,
		completer:  completer,
		completion: commands.NewCompletionState(),
	}
	m.state = m.ctrl.Snapshot()
	m.auth = newAuthForm(m.state.AuthPanel, opts.LastEmail)

	ctrl := opts.Controller
	completer.ThreadsFn = func() []model.ThreadSummary { return ctrl.Snapshot().Threads }
	return m
}

// Init checks the stored session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkSessionCmd())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.state.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshTranscript()
		return m, cmd

	case SessionCheckedMsg:
		m.sync()
		return m, nil

	case AuthResultMsg:
		return m.handleAuthResult(msg)

	case RequestDoneMsg:
		return m.handleRequestDone(msg)

	case ThreadsLoadedMsg:
		m.sync()
		if msg.Err != nil {
			return m.setStatus("Could not load conversations: "+msg.Err.Error(), true)
		}
		return m, nil

	case ThreadOpMsg:
		return m.handleThreadOp(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			return m.setStatus("Export failed: "+msg.Err.Error(), true)
		}
		return m.setStatus("Exported to "+msg.Path, false)

	case ConfigChangedMsg:
		return m.handleConfigChanged(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
			m.layout()
		}
		return m, nil
	}

	return m.handleCommandMsg(msg)
}

// =============================================================================
// STATE SYNC
// =============================================================================

// sync re-reads the controller snapshot and refreshes everything derived
// from it.
func (m *Model) sync() {
	prev := m.state
	m.state = m.ctrl.Snapshot()

	if m.state.Surface == controller.SurfaceAuth {
		if prev.Surface != controller.SurfaceAuth || prev.AuthPanel != m.state.AuthPanel {
			email := m.state.PrefillEmail
			if email == "" {
				email = m.auth.value("Email")
			}
			if email == "" {
				email = m.opts.LastEmail
			}
			m.auth = newAuthForm(m.state.AuthPanel, email)
		}
	}
	if m.state.Surface == controller.SurfaceOnboarding && prev.Surface != controller.SurfaceOnboarding {
		m.onboarding = components.NewOnboarding(m.theme)
	}
	if m.state.Surface != controller.SurfaceApp && m.focus == focusThreads {
		m.focus = focusInput
	}

	m.threads.SetThreads(m.state.Threads)
	m.input.Placeholder = m.state.ModeInfo().Placeholder
	m.layout()
}

// layout sizes the viewport from the terminal size and the visible chrome.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		m.refreshTranscript()
		return
	}

	w := m.transcriptWidth()
	m.input.Width = w - 6
	m.viewport.Width = w

	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView()) + 3
	if m.state.CareerVisible() {
		chrome++
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.refreshTranscript()
}

// transcriptWidth is the width left for the conversation column.
func (m Model) transcriptWidth() int {
	w := m.width
	if m.sidebarVisible() {
		w -= m.theme.SidebarWidth() + 2
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) sidebarVisible() bool {
	return m.theme.GetLayoutMode() == styles.LayoutWide || m.focus == focusThreads
}

func (m *Model) refreshTranscript() {
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.transcriptView())
	if atBottom || m.state.Busy {
		m.viewport.GotoBottom()
	}
}
