// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/t2t-tui/internal/controller"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/open <id>")
	Usage string

	Args []ArgDef

	// Handler runs after the arguments have been validated.
	Handler func(ctx *Context, args []string) tea.Cmd

	// NeedsAuth commands are refused while signed out.
	NeedsAuth bool

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string

	// Rest makes the argument swallow the remainder of the line.
	Rest bool
}

// ArgType indicates what kind of validation and completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeEnum                  // One of predefined values
	ArgTypeMode                  // Conversation mode
	ArgTypeThread                // Thread id from the thread list
	ArgTypeFormat                // Export format
)

// Context carries the state a handler may read. Handlers never mutate it.
type Context struct {
	State controller.State

	// CheckoutTier is the default tier for /upgrade.
	CheckoutTier string
}

// Completion represents a single completion suggestion.
type Completion struct {
	Value       string
	Display     string
	Description string
	Score       int
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	parser   *Parser
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.parser = NewParser(r)
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// Categories lists help categories in display order.
func Categories() []string {
	return []string{"Conversation", "Threads", "Account", "General"}
}

// Parse parses input against this registry.
func (r *Registry) Parse(input string) ParseResult {
	return r.parser.Parse(input)
}

// Execute parses and runs input. It returns nil for plain chat text; any
// command problem (unknown name, bad arguments, signed out) comes back as
// an ErrorMsg so the caller has one path for command feedback.
func (r *Registry) Execute(input string, ctx *Context) tea.Cmd {
	result := r.Parse(input)
	if !result.IsCommand {
		return nil
	}
	if result.Command == nil {
		return errorCmd(&UnknownCommandError{Name: result.CommandName})
	}

	args := result.Args
	if n := len(result.Command.Args); n > 0 && result.Command.Args[n-1].Rest && len(args) > n {
		joined := append([]string{}, args[:n-1]...)
		args = append(joined, strings.Join(args[n-1:], " "))
	}
	if err := ValidateArgs(result.Command, args); err != nil {
		return errorCmd(err)
	}
	if ctx == nil {
		ctx = &Context{}
	}
	if result.Command.NeedsAuth && !ctx.State.Authenticated() {
		return errorCmd(ErrSignedOut)
	}
	return result.Command.Handler(ctx, args)
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Usage:       "/help [command]",
		Args: []ArgDef{
			{Name: "command", Type: ArgTypeString, Description: "Command to describe"},
		},
		Category: "General",
		Handler:  HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit t2t",
		Category:    "General",
		Handler:     HandleQuit,
	})

	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new conversation",
		Category:    "Conversation",
		NeedsAuth:   true,
		Handler:     HandleNew,
	})

	r.Register(&Command{
		Name:        "/mode",
		Aliases:     []string{"/m"},
		Description: "Switch conversation mode",
		Usage:       "/mode <chat|document|research|career>",
		Args: []ArgDef{
			{Name: "mode", Required: true, Type: ArgTypeMode, Values: model.ModeNames(), Description: "Mode to switch to"},
		},
		Category:  "Conversation",
		NeedsAuth: true,
		Handler:   HandleMode,
	})

	r.Register(&Command{
		Name:        "/career",
		Description: "Start Career Clarity coaching",
		Category:    "Conversation",
		NeedsAuth:   true,
		Handler:     HandleCareer,
	})

	r.Register(&Command{
		Name:        "/export",
		Aliases:     []string{"/x"},
		Description: "Export the conversation to a file",
		Usage:       "/export [md|txt|json|yaml|html|ansi]",
		Args: []ArgDef{
			{Name: "format", Type: ArgTypeFormat, Description: "Export format (default md)"},
		},
		Category:  "Conversation",
		NeedsAuth: true,
		Handler:   HandleExport,
	})

	r.Register(&Command{
		Name:        "/threads",
		Aliases:     []string{"/t", "/list"},
		Description: "List saved conversations",
		Category:    "Threads",
		NeedsAuth:   true,
		Handler:     HandleThreads,
	})

	r.Register(&Command{
		Name:        "/open",
		Aliases:     []string{"/o"},
		Description: "Open a saved conversation",
		Usage:       "/open <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeThread, Description: "Thread id"},
		},
		Category:  "Threads",
		NeedsAuth: true,
		Handler:   HandleOpen,
	})

	r.Register(&Command{
		Name:        "/delete",
		Aliases:     []string{"/rm"},
		Description: "Delete a saved conversation",
		Usage:       "/delete <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeThread, Description: "Thread id"},
		},
		Category:  "Threads",
		NeedsAuth: true,
		Handler:   HandleDelete,
	})

	r.Register(&Command{
		Name:        "/rename",
		Description: "Rename a saved conversation",
		Usage:       "/rename <id> <title>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeThread, Description: "Thread id"},
			{Name: "title", Required: true, Type: ArgTypeString, Rest: true, Description: "New title"},
		},
		Category:  "Threads",
		NeedsAuth: true,
		Handler:   HandleRename,
	})

	r.Register(&Command{
		Name:        "/upgrade",
		Description: "Open the checkout page",
		Usage:       "/upgrade [tier]",
		Args: []ArgDef{
			{Name: "tier", Type: ArgTypeString, Description: "Checkout tier"},
		},
		Category:  "Account",
		NeedsAuth: true,
		Handler:   HandleUpgrade,
	})

	r.Register(&Command{
		Name:        "/whoami",
		Description: "Show the signed-in account",
		Category:    "Account",
		Handler:     HandleWhoAmI,
	})

	r.Register(&Command{
		Name:        "/logout",
		Description: "Sign out",
		Category:    "Account",
		NeedsAuth:   true,
		Handler:     HandleLogout,
	})
}
