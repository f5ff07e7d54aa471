// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - "t2t export": write a saved conversation to a file.
//
// Examples:
//   t2t export 42                        Markdown into export.dir
//   t2t export 42 --format html --open
//   t2t export 42 --format json --output -    Print to stdout

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/t2t-tui/internal/export"
)

const exportUsage = "t2t export <id> [--format md|txt|json|yaml|html|ansi] [--output DIR|-] [--open]"

// HandleExport handles "t2t export".
func HandleExport(args Args) error {
	return withApp(args, runExport)
}

func runExport(app *App) error {
	p := app.Args.Parser()

	id, err := parseThreadArg(p.Positional(0), exportUsage)
	if err != nil {
		return err
	}

	format := strings.ToLower(p.FlagOrDefault("format", app.Config.Export.Format))
	exporter, err := export.ForFormat(format)
	if err != nil {
		return ErrUnsupportedFormat(format, export.Formats)
	}

	ctx, cancel := app.Context()
	defer cancel()
	if err := app.RequireSession(ctx); err != nil {
		return err
	}

	detail, err := app.Client.GetThread(ctx, id)
	if err != nil {
		return err
	}
	transcript := export.FromThread(detail)

	output := p.FlagOrDefault("output", app.Config.ExportDir())
	if output == "-" {
		content, err := exporter.Export(transcript)
		if err != nil {
			return NewCommandError("export", "render", format, err)
		}
		_, err = app.Out.Write(content)
		return err
	}

	path, err := export.ExportToFile(transcript, exporter, &export.Options{
		OutputDir:       output,
		OpenAfterExport: p.BoolFlag("open") || app.Config.Export.OpenAfter,
	})
	if err != nil {
		return NewCommandError("export", "write", "could not export conversation", err)
	}
	app.Logger.Info("cli", "conversation exported", map[string]interface{}{
		"thread_id": id,
		"format":    format,
		"path":      path,
	})

	if app.Args.JSON {
		return NewJSONResponse("export", ExportData{ThreadID: id, Format: format, Path: path}).Write(app.Out)
	}
	fmt.Fprintf(app.Out, "%s Exported to %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
