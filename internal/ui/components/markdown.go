// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/patrickmn/go-cache"
)

// DefaultMarkdownWidth is used when the caller has no width yet.
const DefaultMarkdownWidth = 80

// MarkdownRenderer renders assistant replies with glamour. Rendering is
// expensive and the transcript re-renders on every resize and tick, so
// output is memoized per (width, content).
type MarkdownRenderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer

	cache *cache.Cache
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark", "light", "notty").
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Render returns content rendered for width columns. Content glamour cannot
// render is returned unchanged.
func (r *MarkdownRenderer) Render(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultMarkdownWidth
	}

	key := strconv.Itoa(width) + "\x00" + content
	if out, found := r.cache.Get(key); found {
		return out.(string)
	}

	tr, err := r.renderer(width)
	if err != nil {
		return content
	}

	r.mu.Lock()
	out, err := tr.Render(content)
	r.mu.Unlock()
	if err != nil {
		return content
	}

	out = strings.Trim(out, "\n")
	r.cache.Set(key, out, cache.DefaultExpiration)
	return out
}

// Cached reports how many renders are memoized.
func (r *MarkdownRenderer) Cached() int {
	return r.cache.ItemCount()
}

// Flush drops all memoized output, e.g. after a theme change.
func (r *MarkdownRenderer) Flush() {
	r.cache.Flush()
}

// renderer returns the term renderer for a width, creating it on first use.
func (r *MarkdownRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}
