// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/t2t-tui/internal/model"
)

// ErrSignedOut is returned for commands that need an account.
var ErrSignedOut = errors.New("sign in first")

// UnknownCommandError is returned for an unregistered command name.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command " + e.Name + " (try /help)"
}

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are produced by command handlers. The TUI handles them in
// its Update loop; the REPL dispatches them to controller operations.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Topic string
}

// QuitMsg requests a clean exit.
type QuitMsg struct{}

// NewConversationMsg starts a fresh conversation.
type NewConversationMsg struct{}

// SwitchModeMsg selects a conversation mode. Career routes through the
// hook rather than switching directly.
type SwitchModeMsg struct {
	Mode model.Mode
}

// EnterCareerMsg opens the Career Clarity hook.
type EnterCareerMsg struct{}

// ListThreadsMsg refreshes and shows the thread list.
type ListThreadsMsg struct{}

// OpenThreadMsg opens a saved thread.
type OpenThreadMsg struct {
	ID int64
}

// DeleteThreadMsg deletes a saved thread.
type DeleteThreadMsg struct {
	ID int64
}

// RenameThreadMsg renames a saved thread.
type RenameThreadMsg struct {
	ID    int64
	Title string
}

// ExportMsg exports the active conversation.
type ExportMsg struct {
	Format string
}

// UpgradeMsg hands off to the checkout page.
type UpgradeMsg struct {
	Tier string
}

// WhoAmIMsg carries the account summary to display.
type WhoAmIMsg struct {
	Text string
}

// LogoutMsg ends the session.
type LogoutMsg struct{}

// ErrorMsg reports a command that could not run.
type ErrorMsg struct {
	Err error
}

func (e ErrorMsg) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func errorCmd(err error) tea.Cmd {
	return msgCmd(ErrorMsg{Err: err})
}

// =============================================================================
// HANDLERS
// =============================================================================

// HandleHelp shows general help or help for one command.
func HandleHelp(_ *Context, args []string) tea.Cmd {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
		if !strings.HasPrefix(topic, "/") {
			topic = "/" + topic
		}
	}
	return msgCmd(ShowHelpMsg{Topic: strings.ToLower(topic)})
}

// HandleQuit exits the application.
func HandleQuit(_ *Context, _ []string) tea.Cmd {
	return msgCmd(QuitMsg{})
}

// HandleNew starts a new conversation.
func HandleNew(_ *Context, _ []string) tea.Cmd {
	return msgCmd(NewConversationMsg{})
}

// HandleMode switches mode. /mode career is the same as /career.
func HandleMode(_ *Context, args []string) tea.Cmd {
	mode, err := model.ParseMode(args[0])
	if err != nil {
		return errorCmd(err)
	}
	if mode == model.ModeCareer {
		return msgCmd(EnterCareerMsg{})
	}
	return msgCmd(SwitchModeMsg{Mode: mode})
}

// HandleCareer opens the Career Clarity hook.
func HandleCareer(_ *Context, _ []string) tea.Cmd {
	return msgCmd(EnterCareerMsg{})
}

// HandleThreads lists threads.
func HandleThreads(_ *Context, _ []string) tea.Cmd {
	return msgCmd(ListThreadsMsg{})
}

// HandleOpen opens a thread by id.
func HandleOpen(_ *Context, args []string) tea.Cmd {
	id, err := ParseThreadID(args[0])
	if err != nil {
		return errorCmd(err)
	}
	return msgCmd(OpenThreadMsg{ID: id})
}

// HandleDelete deletes a thread by id.
func HandleDelete(_ *Context, args []string) tea.Cmd {
	id, err := ParseThreadID(args[0])
	if err != nil {
		return errorCmd(err)
	}
	return msgCmd(DeleteThreadMsg{ID: id})
}

// HandleRename renames a thread.
func HandleRename(_ *Context, args []string) tea.Cmd {
	id, err := ParseThreadID(args[0])
	if err != nil {
		return errorCmd(err)
	}
	return msgCmd(RenameThreadMsg{ID: id, Title: strings.TrimSpace(args[1])})
}

// HandleExport exports the active conversation. Empty conversations are
// refused here so the user gets feedback before any file is touched.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	if ctx.State.IsEmpty() {
		return errorCmd(errors.New("nothing to export yet"))
	}
	format := "md"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	return msgCmd(ExportMsg{Format: format})
}

// HandleUpgrade hands off to checkout.
func HandleUpgrade(ctx *Context, args []string) tea.Cmd {
	tier := ctx.CheckoutTier
	if len(args) > 0 && args[0] != "" {
		tier = args[0]
	}
	return msgCmd(UpgradeMsg{Tier: tier})
}

// HandleWhoAmI describes the signed-in account.
func HandleWhoAmI(ctx *Context, _ []string) tea.Cmd {
	return msgCmd(WhoAmIMsg{Text: DescribeUser(ctx.State.User)})
}

// HandleLogout ends the session.
func HandleLogout(_ *Context, _ []string) tea.Cmd {
	return msgCmd(LogoutMsg{})
}

// DescribeUser formats an account for /whoami and `t2t whoami`.
func DescribeUser(u *model.User) string {
	if u == nil {
		return "Not signed in."
	}
	var b strings.Builder
	b.WriteString("Signed in as ")
	if u.Name != "" {
		b.WriteString(u.Name)
		b.WriteString(" <")
		b.WriteString(u.Email)
		b.WriteString(">")
	} else {
		b.WriteString(u.Email)
	}
	return b.String()
}

// =============================================================================
// HELP TEXT
// =============================================================================

// HelpText renders help for the registry, or for one command when topic
// names one.
func HelpText(r *Registry, topic string) string {
	var b strings.Builder
	if topic != "" {
		cmd := r.Get(topic)
		if cmd == nil {
			return (&UnknownCommandError{Name: topic}).Error()
		}
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		b.WriteString(usage + "\n  " + cmd.Description + "\n")
		if len(cmd.Aliases) > 0 {
			b.WriteString("  aliases: " + strings.Join(cmd.Aliases, ", ") + "\n")
		}
		for _, a := range cmd.Args {
			b.WriteString("  " + a.Name + ": " + a.Description)
			if !a.Required {
				b.WriteString(" (optional)")
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	groups := r.ByCategory()
	for _, cat := range Categories() {
		cmds := groups[cat]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString(cat + "\n")
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			b.WriteString("  " + padRight(usage, 38) + cmd.Description + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
