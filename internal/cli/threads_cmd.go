// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// threads_cmd.go - Saved conversation commands.
//
// Command: threads [subcommand]
// Aliases: thread, ls
//
// Subcommands:
//   list (default)          List conversations in server order
//   show <id>               Print a conversation
//   delete <id> [--yes]     Delete a conversation
//   rename <id> <title>     Rename a conversation
//   new [mode] [--title T]  Create an empty conversation

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/components"
)

const threadsUsage = "t2t threads [list|show <id>|delete <id>|rename <id> <title>|new [mode]]"

// HandleThreads handles "t2t threads".
func HandleThreads(args Args) error {
	return withApp(args, runThreads)
}

func runThreads(app *App) error {
	p := app.Args.Parser()

	ctx, cancel := app.Context()
	defer cancel()
	if err := app.RequireSession(ctx); err != nil {
		return err
	}

	switch p.Subcommand() {
	case "", "list", "ls":
		return threadsList(app)
	case "show", "open", "cat":
		id, err := parseThreadArg(p.Positional(1), "t2t threads show <id>")
		if err != nil {
			return err
		}
		return threadsShow(app, id)
	case "delete", "rm":
		id, err := parseThreadArg(p.Positional(1), "t2t threads delete <id> [--yes]")
		if err != nil {
			return err
		}
		return threadsDelete(app, id, p.BoolFlag("yes", "y", "confirm"))
	case "rename", "mv":
		id, err := parseThreadArg(p.Positional(1), "t2t threads rename <id> <title>")
		if err != nil {
			return err
		}
		title := strings.Join(p.PositionalFrom(2), " ")
		if strings.TrimSpace(title) == "" {
			return ErrMissingArgument("title", "t2t threads rename <id> <title>")
		}
		return threadsRename(app, id, title)
	case "new", "create":
		mode := app.Config.Mode()
		if raw := p.Positional(1); raw != "" {
			m, err := model.ParseMode(raw)
			if err != nil || m == model.ModeCareer {
				return NewValidationErrorWithExample("mode", raw, "must be chat, document or research", "t2t threads new research")
			}
			mode = m
		}
		return threadsNew(app, p.Flag("title"), mode)
	default:
		return NewValidationErrorWithExample("subcommand", p.Subcommand(), "unknown threads subcommand", threadsUsage)
	}
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func threadsList(app *App) error {
	ctx, cancel := app.Context()
	defer cancel()

	if err := app.Ctrl.RefreshThreads(ctx); err != nil {
		return err
	}
	threads := app.Ctrl.Snapshot().Threads

	if app.Args.JSON {
		data := make([]ThreadData, 0, len(threads))
		for _, t := range threads {
			data = append(data, threadData(t))
		}
		return NewJSONResponse("threads list", data).Write(app.Out)
	}

	if len(threads) == 0 {
		fmt.Fprintln(app.Out, DimStyle.Render("No conversations yet. Start one with: t2t chat"))
		return nil
	}
	titleWidth := GetTerminalWidth() - 30
	if titleWidth < 20 {
		titleWidth = 20
	}
	now := time.Now()
	for _, t := range threads {
		fmt.Fprintln(app.Out, components.PlainThreadLine(t, titleWidth, now))
	}
	return nil
}

func threadsShow(app *App, id int64) error {
	ctx, cancel := app.Context()
	defer cancel()

	detail, err := app.Client.GetThread(ctx, id)
	if err != nil {
		return err
	}

	if app.Args.JSON {
		return NewJSONResponse("threads show", ThreadDetailData{
			ThreadData: threadData(detail.ThreadSummary),
			Messages:   messageData(detail.Messages),
		}).Write(app.Out)
	}

	width := GetTerminalWidth()
	fmt.Fprintln(app.Out, TitleStyle.Render(detail.DisplayTitle()))
	fmt.Fprintln(app.Out, DimStyle.Render("#"+strconv.FormatInt(detail.ID, 10)+" · "+detail.EffectiveMode().Info().Label))
	fmt.Fprintln(app.Out, RenderSeparator(width))

	md := components.NewMarkdownRenderer(markdownStyle(app.Config))
	for _, msg := range detail.Messages {
		printMessage(app.Out, md, msg, width)
	}
	return nil
}

func threadsDelete(app *App, id int64, yes bool) error {
	ok, err := app.RequireConfirmation(yes, "delete conversation #"+strconv.FormatInt(id, 10), "t2t threads delete <id> --yes")
	if err != nil {
		return err
	}
	if !ok {
		app.notice("Cancelled.")
		return nil
	}

	ctx, cancel := app.Context()
	defer cancel()
	if err := app.Ctrl.RemoveThread(ctx, id); err != nil {
		return err
	}

	if app.Args.JSON {
		return NewJSONResponse("threads delete", map[string]interface{}{"id": id, "deleted": true}).Write(app.Out)
	}
	fmt.Fprintf(app.Out, "%s Deleted conversation #%d\n", SuccessStyle.Render("✓"), id)
	return nil
}

func threadsRename(app *App, id int64, title string) error {
	ctx, cancel := app.Context()
	defer cancel()
	if err := app.Ctrl.RenameThread(ctx, id, title); err != nil {
		return err
	}

	renamed, ok := model.FindThread(app.Ctrl.Snapshot().Threads, id)
	if !ok {
		renamed = model.ThreadSummary{ID: id, Title: title}
	}
	if app.Args.JSON {
		return NewJSONResponse("threads rename", threadData(renamed)).Write(app.Out)
	}
	fmt.Fprintf(app.Out, "%s Renamed #%d to %q\n", SuccessStyle.Render("✓"), id, renamed.DisplayTitle())
	return nil
}

func threadsNew(app *App, title string, mode model.Mode) error {
	ctx, cancel := app.Context()
	defer cancel()

	created, err := app.Client.CreateThread(ctx, title, mode)
	if err != nil {
		return err
	}
	if app.Args.JSON {
		return NewJSONResponse("threads new", threadData(*created)).Write(app.Out)
	}
	fmt.Fprintf(app.Out, "%s Created #%d %s\n", SuccessStyle.Render("✓"), created.ID, created.DisplayTitle())
	return nil
}
