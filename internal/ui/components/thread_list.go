// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/t2t-tui/internal/model"
	"github.com/jeranaias/t2t-tui/internal/ui/styles"
)

// =============================================================================
// THREAD LIST
// =============================================================================

// ThreadList renders saved threads in server order and tracks a cursor.
type ThreadList struct {
	threads []model.ThreadSummary
	cursor  int
	theme   *styles.Theme

	// Now is overridable for tests.
	Now func() time.Time
}

// NewThreadList creates an empty list.
func NewThreadList(theme *styles.Theme) *ThreadList {
	return &ThreadList{theme: theme, Now: time.Now}
}

// SetThreads replaces the list, keeping the cursor on the same thread when
// it still exists.
func (l *ThreadList) SetThreads(threads []model.ThreadSummary) {
	var selected int64
	if t, ok := l.Selected(); ok {
		selected = t.ID
	}
	l.threads = threads
	l.cursor = 0
	for i, t := range threads {
		if t.ID == selected {
			l.cursor = i
			break
		}
	}
}

// Len returns the number of threads.
func (l *ThreadList) Len() int { return len(l.threads) }

// Cursor returns the cursor index.
func (l *ThreadList) Cursor() int { return l.cursor }

// Up moves the cursor up, stopping at the top.
func (l *ThreadList) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Down moves the cursor down, stopping at the bottom.
func (l *ThreadList) Down() {
	if l.cursor < len(l.threads)-1 {
		l.cursor++
	}
}

// Selected returns the thread under the cursor.
func (l *ThreadList) Selected() (model.ThreadSummary, bool) {
	if l.cursor < 0 || l.cursor >= len(l.threads) {
		return model.ThreadSummary{}, false
	}
	return l.threads[l.cursor], true
}

// View renders up to height rows (two per thread) within width columns.
// focused draws the cursor; active marks the open thread.
func (l *ThreadList) View(width, height int, active int64, focused bool) string {
	if len(l.threads) == 0 {
		return l.theme.Muted.Render("No conversations yet.")
	}

	perPage := height / 2
	if perPage < 1 {
		perPage = 1
	}
	start := 0
	if l.cursor >= perPage {
		start = l.cursor - perPage + 1
	}
	end := start + perPage
	if end > len(l.threads) {
		end = len(l.threads)
	}

	now := l.Now()
	textWidth := width - 3
	if textWidth < 4 {
		textWidth = 4
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		t := l.threads[i]
		title := runewidth.Truncate(t.DisplayTitle(), textWidth, "…")
		meta := runewidth.Truncate(threadMeta(t, now), textWidth, "…")

		style := l.theme.ListItem
		switch {
		case focused && i == l.cursor:
			style = l.theme.ListItemSelected
		case t.ID == active:
			style = l.theme.ListItemActive
		}
		b.WriteString(style.Render(title))
		b.WriteString("\n")
		b.WriteString(l.theme.ListMeta.Render("  " + meta))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func threadMeta(t model.ThreadSummary, now time.Time) string {
	parts := []string{"#" + strconv.FormatInt(t.ID, 10)}
	if t.Mode != "" {
		parts = append(parts, model.ModeOrDefault(string(t.Mode)).Info().Badge)
	}
	ts := t.UpdatedAt
	if ts.IsZero() {
		ts = t.CreatedAt
	}
	if rel := ts.Relative(now); rel != "" {
		parts = append(parts, rel)
	}
	return strings.Join(parts, " · ")
}

// PlainThreadLine formats a thread for line-oriented output such as the REPL
// and `t2t threads`.
func PlainThreadLine(t model.ThreadSummary, width int, now time.Time) string {
	id := runewidth.FillLeft(strconv.FormatInt(t.ID, 10), 6)
	title := runewidth.FillRight(runewidth.Truncate(t.DisplayTitle(), width, "…"), width)
	return id + "  " + title + "  " + threadMeta(t, now)
}
