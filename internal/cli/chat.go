// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals where the TUI is not wanted.
//
// Command: chat
// Aliases: repl
//
// Everything the TUI's input box accepts works here: plain text is sent in
// the active mode and slash commands go through the same registry.
//
// Examples:
//   t2t chat
//   t2t --server https://t2t.example.com chat
//
// Keys:
//   Up/Down             History
//   Ctrl+C              Cancel the request in flight, or exit at the prompt
//   Ctrl+D              Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/t2t-tui/internal/commands"
	"github.com/jeranaias/t2t-tui/internal/config"
	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/export"
	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/components"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// historyFileName is stored in the config directory.
const historyFileName = "chat_history"

// ChatCLI provides input history and line editing for line-mode chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes history to disk, owner-readable only.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles "t2t chat".
func HandleChatCommand(args Args) error {
	return withApp(args, runChat)
}

func runChat(app *App) error {
	ctx, cancel := app.Context()
	err := app.RequireSession(ctx)
	cancel()
	if err != nil {
		return err
	}

	r := newREPL(app, app.Out, components.NewMarkdownRenderer(markdownStyle(app.Config)), GetTerminalWidth())
	if !app.Args.Quiet {
		r.printWelcome()
	}

	input := NewChatCLI()
	defer input.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if r.cancelInFlight() {
				fmt.Fprintln(app.Err, "\n"+WarningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		line, err := input.ReadInput(r.prompt())
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C) and io.EOF (Ctrl+D) both end
			// the session.
			fmt.Fprintln(app.Out)
			return nil
		}
		if r.handleLine(context.Background(), line) {
			return r.err
		}
	}
}

// =============================================================================
// REPL
// =============================================================================

// repl turns input lines into controller operations and prints results.
type repl struct {
	app      *App
	out      io.Writer
	registry *commands.Registry
	md       *components.MarkdownRenderer
	width    int

	// shown is how many of the controller's messages are already printed.
	shown int

	mu       sync.Mutex
	inFlight context.CancelFunc

	// err is returned from the session when handleLine reports quit.
	err error
}

func newREPL(app *App, out io.Writer, md *components.MarkdownRenderer, width int) *repl {
	return &repl{
		app:      app,
		out:      out,
		registry: commands.NewRegistry(),
		md:       md,
		width:    width,
		shown:    len(app.Ctrl.Snapshot().Messages),
	}
}

func (r *repl) prompt() string {
	st := r.app.Ctrl.Snapshot()
	if st.Surface == controller.SurfaceCareerHook {
		return "start career clarity? [y/N] "
	}
	return string(st.Mode) + "› "
}

func (r *repl) printWelcome() {
	st := r.app.Ctrl.Snapshot()
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, TitleStyle.Render("T2T · line-mode chat"))
	fmt.Fprintln(r.out, RenderSeparator(30))
	fmt.Fprintln(r.out, RenderField("Account", commands.DescribeUser(st.User)))
	fmt.Fprintln(r.out, RenderField("Mode", st.ModeInfo().Label))
	fmt.Fprintln(r.out, RenderField("Server", r.app.Client.BaseURL()))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, DimStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Fprintln(r.out)
}

// handleLine processes one input line and reports whether the session
// should end.
func (r *repl) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	st := r.app.Ctrl.Snapshot()

	if st.Surface == controller.SurfaceCareerHook {
		return r.answerHook(ctx, line)
	}
	if line == "" {
		return false
	}
	if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
		return true
	}

	cmd := r.registry.Execute(line, &commands.Context{
		State:        st,
		CheckoutTier: r.app.Config.Server.CheckoutTier,
	})
	if cmd == nil {
		return r.send(ctx, line)
	}
	return r.dispatch(ctx, cmd())
}

// dispatch applies a slash command's message.
func (r *repl) dispatch(ctx context.Context, msg interface{}) bool {
	ctrl := r.app.Ctrl

	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		fmt.Fprint(r.out, commands.HelpText(r.registry, msg.Topic))

	case commands.QuitMsg:
		return true

	case commands.NewConversationMsg:
		ctrl.StartNew()
		r.shown = 0
		r.info("Started a new conversation in " + ctrl.ModeInfo().Label)

	case commands.SwitchModeMsg:
		if err := ctrl.SelectMode(msg.Mode); err != nil {
			r.fail(err)
			break
		}
		r.info("Switched to " + msg.Mode.Info().Label)

	case commands.EnterCareerMsg:
		ctrl.EnterCareer()
		fmt.Fprintln(r.out, TitleStyle.Render(model.ModeCareer.Info().Label))
		fmt.Fprintln(r.out, model.ModeCareer.Info().Description)

	case commands.ListThreadsMsg:
		r.listThreads(ctx)

	case commands.OpenThreadMsg:
		if err := ctrl.SelectThread(ctx, msg.ID); err != nil {
			r.fail(err)
			break
		}
		st := ctrl.Snapshot()
		fmt.Fprintln(r.out, TitleStyle.Render(st.DisplayTitle())+" "+DimStyle.Render(st.ModeInfo().Label))
		r.shown = 0
		r.flush(false)
		r.printProgress()

	case commands.DeleteThreadMsg:
		if err := ctrl.RemoveThread(ctx, msg.ID); err != nil {
			r.fail(err)
			break
		}
		r.shown = len(ctrl.Snapshot().Messages)
		r.info(fmt.Sprintf("Deleted conversation #%d", msg.ID))

	case commands.RenameThreadMsg:
		if err := ctrl.RenameThread(ctx, msg.ID, msg.Title); err != nil {
			r.fail(err)
			break
		}
		r.info(fmt.Sprintf("Renamed #%d", msg.ID))

	case commands.ExportMsg:
		r.export(msg.Format)

	case commands.UpgradeMsg:
		url := ctrl.CheckoutURL()
		if msg.Tier != "" {
			url = r.app.Client.CheckoutURL(msg.Tier)
		}
		fmt.Fprintln(r.out, LinkStyle.Render(url))
		if err := openURL(url); err != nil {
			r.app.Logger.Warn("cli", "could not open browser", map[string]interface{}{"error": err.Error()})
			printQR(r.out, url)
		}

	case commands.WhoAmIMsg:
		fmt.Fprintln(r.out, msg.Text)

	case commands.LogoutMsg:
		ctrl.Logout(ctx)
		r.info("Signed out.")
		return true

	case commands.ErrorMsg:
		r.fail(msg.Err)
	}
	return false
}

// answerHook handles the reply to the Career Clarity prompt.
func (r *repl) answerHook(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "y", "yes":
	default:
		r.app.Ctrl.DismissCareer()
		r.info("Career Clarity not started.")
		return false
	}

	req, ok := r.app.Ctrl.BeginCareerStart()
	if !ok {
		r.fail(controller.ErrBusy)
		return false
	}
	return r.run(ctx, req)
}

// send sends text in the active mode.
func (r *repl) send(ctx context.Context, text string) bool {
	req, ok := r.app.Ctrl.BeginSend(text)
	if !ok {
		r.fail(controller.ErrBusy)
		return false
	}
	return r.run(ctx, req)
}

// run executes a begun request with Ctrl+C cancellation and prints the
// outcome.
func (r *repl) run(ctx context.Context, req *controller.Request) bool {
	// The optimistic user line is already on screen as typed input.
	r.shown = len(r.app.Ctrl.Snapshot().Messages)
	if label := r.app.Ctrl.Snapshot().WorkingLabel(); label != "" {
		fmt.Fprintln(r.out, DimStyle.Render(label))
	}

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.inFlight = cancel
	r.mu.Unlock()
	start := time.Now()

	outcome := req.Run(ctx)

	r.mu.Lock()
	r.inFlight = nil
	r.mu.Unlock()
	cancel()

	r.app.Logger.Debug("cli", "request finished", map[string]interface{}{
		"outcome":     outcome.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	switch outcome {
	case controller.OutcomeAuthExpired:
		fmt.Fprintln(r.out, ErrorStyle.Render(controller.NoticeSessionExpired))
		r.err = ErrNotSignedIn
		return true
	case controller.OutcomePaywall:
		url := r.app.Ctrl.CheckoutURL()
		r.app.Ctrl.DismissPaywall()
		fmt.Fprintln(r.out, WarningStyle.Render("Career Clarity needs a paid plan."))
		fmt.Fprintln(r.out, "Upgrade here: "+LinkStyle.Render(url))
		fmt.Fprintln(r.out, DimStyle.Render("Or run /upgrade to open checkout."))
		return false
	case controller.OutcomeStale, controller.OutcomeNone:
		return false
	}

	if outcome == controller.OutcomeStarted {
		r.shown = 0
	}
	r.flush(true)
	r.printProgress()
	return false
}

// cancelInFlight cancels the running request, if any.
func (r *repl) cancelInFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight == nil {
		return false
	}
	r.inFlight()
	r.inFlight = nil
	return true
}

// flush prints messages not yet shown. skipUser omits user lines, which
// the terminal already shows as typed input.
func (r *repl) flush(skipUser bool) {
	msgs := r.app.Ctrl.Snapshot().Messages
	if r.shown > len(msgs) {
		r.shown = 0
	}
	for _, msg := range msgs[r.shown:] {
		if skipUser && msg.Role == model.RoleUser {
			continue
		}
		printMessage(r.out, r.md, msg, r.width)
	}
	r.shown = len(msgs)
}

func (r *repl) printProgress() {
	st := r.app.Ctrl.Snapshot()
	if st.CareerVisible() {
		fmt.Fprintln(r.out, DimStyle.Render(st.CareerProgress.Label()))
	}
}

func (r *repl) listThreads(ctx context.Context) {
	if err := r.app.Ctrl.RefreshThreads(ctx); err != nil {
		r.fail(err)
		return
	}
	threads := r.app.Ctrl.Snapshot().Threads
	if len(threads) == 0 {
		r.info("No saved conversations yet.")
		return
	}
	now := time.Now()
	for _, t := range threads {
		fmt.Fprintln(r.out, components.PlainThreadLine(t, 40, now))
	}
	fmt.Fprintln(r.out, DimStyle.Render("Open one with /open <id>"))
}

func (r *repl) export(format string) {
	st := r.app.Ctrl.Snapshot()
	exporter, err := export.ForFormat(format)
	if err != nil {
		r.fail(err)
		return
	}
	path, err := export.ExportToFile(export.NewTranscript(st.Title, st.ActiveThread, st.Messages), exporter, &export.Options{
		OutputDir:       r.app.Config.ExportDir(),
		OpenAfterExport: r.app.Config.Export.OpenAfter,
	})
	if err != nil {
		r.fail(err)
		return
	}
	r.info("Exported to " + path)
}

func (r *repl) info(text string) {
	fmt.Fprintln(r.out, SuccessStyle.Render("✓")+" "+text)
}

func (r *repl) fail(err error) {
	if errors.Is(err, controller.ErrBusy) {
		fmt.Fprintln(r.out, WarningStyle.Render("Wait for the current reply to finish."))
		return
	}
	fmt.Fprintln(r.out, ErrorStyle.Render("[Error]")+" "+err.Error())
}
