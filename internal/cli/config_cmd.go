// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - "t2t config": view and modify configuration.
//
// Subcommands:
//   show (default)      Display every setting
//   get <key>           Print one setting
//   set <key> <value>   Change a setting
//   path                Show the configuration file path
//   reset [--yes]       Restore defaults
//
// Keys use dot notation: server.base_url, ui.default_mode, export.format.
// The running TUI picks up changes without a restart.

package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/t2t-tui/internal/config"
)

// HandleConfig handles "t2t config".
func HandleConfig(args Args) error {
	return runConfig(args, os.Stdout)
}

func runConfig(args Args, w io.Writer) error {
	switch args.Subcommand {
	case "", "show", "list":
		return configShow(args, w)
	case "get":
		return configGet(args, w)
	case "set":
		return configSet(args, w)
	case "path":
		return configPath(args, w)
	case "reset":
		return configReset(args, w)
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand, "unknown config subcommand",
			"t2t config [show|get <key>|set <key> <value>|path|reset]")
	}
}

// loadConfig reads the configuration from disk, bypassing the process-wide
// copy so edits see the current file.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

func configSettings(cfg *config.Config) map[string]string {
	out := make(map[string]string)
	for _, key := range config.GetAllKeys() {
		if v, err := cfg.Get(key); err == nil {
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}

func configShow(args Args, w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, _ := config.ConfigPathTOML()
	settings := configSettings(cfg)

	if args.JSON {
		return NewJSONResponse("config show", ConfigData{Path: path, Settings: settings}).Write(w)
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, TitleStyle.Render("t2t configuration"))
	fmt.Fprintln(w, DimStyle.Render(path))
	section := ""
	for _, key := range keys {
		head, _, found := strings.Cut(key, ".")
		if !found {
			head = ""
		}
		if head != section {
			section = head
			fmt.Fprintln(w, SectionStyle.Render("["+section+"]"))
		}
		value := settings[key]
		if value == "" {
			value = DimStyle.Render("(default)")
		}
		fmt.Fprintf(w, "  %-24s %s\n", key, value)
	}
	return nil
}

func configGet(args Args, w io.Writer) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "t2t config get server.base_url")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	v, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewValidationErrorWithExample("key", args.ConfigKey, err.Error(),
			"keys: "+strings.Join(config.GetAllKeys(), ", "))
	}

	if args.JSON {
		return NewJSONResponse("config get", map[string]interface{}{"key": args.ConfigKey, "value": v}).Write(w)
	}
	fmt.Fprintln(w, v)
	return nil
}

func configSet(args Args, w io.Writer) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "t2t config set ui.default_mode research")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationErrorWithExample("key", args.ConfigKey, err.Error(), "t2t config set <key> <value>")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return NewCommandError("config", "set", "could not save configuration", err)
	}

	if args.JSON {
		return NewJSONResponse("config set", map[string]interface{}{"key": args.ConfigKey, "value": args.ConfigVal}).Write(w)
	}
	fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("✓"), args.ConfigKey, args.ConfigVal)
	return nil
}

func configPath(args Args, w io.Writer) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config path", map[string]string{"path": path}).Write(w)
	}
	fmt.Fprintln(w, path)
	return nil
}

func configReset(args Args, w io.Writer) error {
	p := args.Parser()
	if !p.BoolFlag("yes", "y", "confirm") {
		if args.JSON || !IsTTY() {
			return NewValidationErrorWithExample("confirmation", "", "reset requires --yes", "t2t config reset --yes")
		}
		ok, err := (&Prompter{}).Confirm("Reset all settings to defaults?")
		if err != nil || !ok {
			return err
		}
	}

	if err := config.Save(config.Default()); err != nil {
		return NewCommandError("config", "reset", "could not save configuration", err)
	}
	if args.JSON {
		return NewJSONResponse("config reset", map[string]bool{"reset": true}).Write(w)
	}
	fmt.Fprintf(w, "%s Configuration reset to defaults\n", SuccessStyle.Render("✓"))
	return nil
}
