// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/t2t-tui/internal/export"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry

	// ThreadsFn returns the current thread list for id completion.
	ThreadsFn func() []model.ThreadSummary
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns completions for the given input at the cursor position.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos >= 0 && cursorPos < len(input) {
		input = input[:cursorPos]
	}
	input = strings.TrimLeft(input, " \t")
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := splitCommandLine(input)
	trailingSpace := strings.HasSuffix(input, " ")

	if len(parts) <= 1 && !trailingSpace {
		name := ""
		if len(parts) == 1 {
			name = parts[0]
		}
		return c.completeCommands(name)
	}

	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := parts[len(parts)-1]
	if trailingSpace {
		argIndex++
		partial = ""
	}
	return c.completeArg(cmd, argIndex, partial)
}

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

func (c *Completer) completeCommands(partial string) []Completion {
	var completions []Completion
	partial = strings.ToLower(partial)

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(cmd.Name, partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
		}
		for _, alias := range cmd.Aliases {
			// "/" alone would otherwise list every alias twice over.
			if partial != "/" && strings.HasPrefix(alias, partial) {
				completions = append(completions, Completion{
					Value:       alias,
					Display:     alias + " -> " + cmd.Name,
					Description: cmd.Description,
					Score:       calculateScore(alias, partial) - 10,
				})
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// ARGUMENT COMPLETION
// =============================================================================

func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	arg := cmd.Args[argIndex]
	switch arg.Type {
	case ArgTypeMode:
		return completeFromList(model.ModeNames(), partial, func(v string) string {
			return model.Mode(v).Info().Description
		})
	case ArgTypeFormat:
		return completeFromList(export.Formats, partial, nil)
	case ArgTypeEnum:
		return completeFromList(arg.Values, partial, nil)
	case ArgTypeThread:
		return c.completeThreads(partial)
	default:
		return nil
	}
}

// completeThreads offers thread ids, keeping the server's list order.
func (c *Completer) completeThreads(partial string) []Completion {
	if c.ThreadsFn == nil {
		return nil
	}
	partial = strings.TrimPrefix(partial, "#")

	var completions []Completion
	for _, t := range c.ThreadsFn() {
		id := strconv.FormatInt(t.ID, 10)
		if !strings.HasPrefix(id, partial) {
			continue
		}
		completions = append(completions, Completion{
			Value:       id,
			Display:     id + "  " + runewidth.Truncate(t.DisplayTitle(), 40, "…"),
			Description: string(t.Mode),
		})
	}
	return completions
}

func completeFromList(values []string, partial string, describe func(string) string) []Completion {
	partial = strings.ToLower(partial)
	var completions []Completion
	for _, v := range values {
		if !strings.HasPrefix(strings.ToLower(v), partial) {
			continue
		}
		comp := Completion{Value: v, Display: v, Score: calculateScore(v, partial)}
		if describe != nil {
			comp.Description = describe(v)
		}
		completions = append(completions, comp)
	}
	sortCompletions(completions)
	return completions
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// calculateScore ranks a prefix match. Exact matches win, then shorter
// values.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	if value == partial {
		return 200
	}
	return 150 + 20 - len(value)
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for navigating completions.
type CompletionState struct {
	OriginalInput string
	Completions   []Completion

	// Selected index (-1 for none)
	Selected int

	Visible bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the completions and selects the first.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the input with its last token replaced by the selected
// completion and a trailing space.
func (cs *CompletionState) Accept() string {
	sel := cs.GetSelected()
	if sel == nil {
		return cs.OriginalInput
	}
	input := cs.OriginalInput
	if i := strings.LastIndexAny(input, " \t"); i >= 0 {
		return input[:i+1] + sel.Value + " "
	}
	return sel.Value + " "
}

// Clear clears the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}

// GetSelected returns the currently selected completion, or nil.
func (cs *CompletionState) GetSelected() *Completion {
	if cs.Selected < 0 || cs.Selected >= len(cs.Completions) {
		return nil
	}
	return &cs.Completions[cs.Selected]
}
