// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and top-level command handlers for t2t.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdLogin
	CmdSignup
	CmdLogout
	CmdWhoAmI
	CmdThreads
	CmdExport
	CmdUpgrade
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command's name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdLogin:
		return "login"
	case CmdSignup:
		return "signup"
	case CmdLogout:
		return "logout"
	case CmdWhoAmI:
		return "whoami"
	case CmdThreads:
		return "threads"
	case CmdExport:
		return "export"
	case CmdUpgrade:
		return "upgrade"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server  string // overrides server.base_url for this run
	JSON    bool   // Output in JSON format
	Verbose bool
	Quiet   bool

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after the command name)
	Raw []string
}

// Parser returns an ArgParser over the command's own arguments.
func (a Args) Parser() *ArgParser {
	return NewArgParser(a.Raw)
}

const usageText = `t2t - your AI consulting partner in the terminal

Usage:
  t2t                          Start the TUI (default)
  t2t chat                     Line-mode chat with slash commands
  t2t login [--email E]        Sign in (password is read without echo)
  t2t signup                   Create an account
  t2t logout                   End the session
  t2t whoami                   Show the signed-in user

Conversations:
  t2t threads [list]           List conversations
  t2t threads show <id>        Print a conversation
  t2t threads delete <id>      Delete a conversation
    --yes                      Skip the confirmation prompt
  t2t threads rename <id> <title>
  t2t threads new [mode]       Create an empty conversation (chat, document, research)
  t2t export <id>              Export a conversation to a file
    --format md|txt|json|yaml|html|ansi
    --output DIR               Directory to write to (default: export.dir)

Account:
  t2t upgrade [tier]           Open checkout (prints a QR code for other devices)
    --no-browser               Only print the link

Configuration:
  t2t config show              Show the current configuration
  t2t config get <key>         Print one setting, e.g. server.base_url
  t2t config set <key> <value> Change a setting
  t2t config path              Print the config file path
  t2t config reset             Restore defaults

Global Flags:
  --server URL    Use another backend for this run
  --json          Machine-readable output
  -v, --verbose   Log to stderr as well as the log file
  -q, --quiet     Minimal output

Examples:
  t2t --server https://t2t.example.com login --email ada@example.com
  t2t threads list --json
  t2t export 42 --format html --output ~/Documents
  t2t config set ui.default_mode research

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("t2t version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		parsedArgs.Subcommand = strings.ToLower(remaining[0])
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "chat", "repl":
		return CmdChat, parsedArgs
	case "login", "signin":
		return CmdLogin, parsedArgs
	case "signup", "register":
		return CmdSignup, parsedArgs
	case "logout", "signout":
		return CmdLogout, parsedArgs
	case "whoami", "me":
		return CmdWhoAmI, parsedArgs
	case "threads", "thread", "ls":
		return CmdThreads, parsedArgs
	case "export":
		return CmdExport, parsedArgs
	case "upgrade", "checkout":
		return CmdUpgrade, parsedArgs
	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		// Unknown command: show help rather than guessing.
		parsedArgs.Subcommand = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear anywhere on the command line.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsedArgs.Server = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsedArgs.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// SIMPLE HANDLERS
// =============================================================================

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command. An unknown command name is
// reported as a usage error after the help text.
func HandleHelp(args Args) error {
	PrintUsage()
	if name := args.Subcommand; name != "" && !isKnownCommand(name) {
		return NewValidationErrorWithExample("command", name, "unknown command", "t2t help")
	}
	return nil
}

func isKnownCommand(name string) bool {
	if name == "help" || name == "-h" || name == "--help" {
		return true
	}
	cmd, _ := ParseArgs([]string{name})
	return cmd != CmdHelp
}
