// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// FRAME
	// ==========================================================================

	App          lipgloss.Style
	Header       lipgloss.Style
	HeaderBrand  lipgloss.Style
	HeaderTitle  lipgloss.Style
	ModeBadge    lipgloss.Style
	StatusBar    lipgloss.Style
	Divider      lipgloss.Style
	Help         lipgloss.Style
	Sidebar      lipgloss.Style
	SidebarTitle lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Badge          lipgloss.Style
	UserText       lipgloss.Style
	Notice         lipgloss.Style
	Working        lipgloss.Style

	// ==========================================================================
	// LISTS & INPUT
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemActive   lipgloss.Style
	ListMeta         lipgloss.Style
	InputPrompt      lipgloss.Style
	InputFocused     lipgloss.Style
	InputBlurred     lipgloss.Style
	FieldLabel       lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Link         lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme creates a theme for the given ui.theme setting.
func NewTheme(setting string) *Theme {
	t := &Theme{
		IsDark:       ResolveDark(setting),
		ColorProfile: termenv.ColorProfile(),
	}
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
	return t
}

// ResolveDark maps a theme setting to a background. Unknown values are
// treated as "auto".
func ResolveDark(setting string) bool {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "dark":
		return true
	case "light":
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.ModeBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.Divider = lipgloss.NewStyle().
		Foreground(Overlay)
	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)
	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginBottom(1)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)
	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.Badge = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextSecondary)
	t.UserText = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)
	t.Notice = lipgloss.NewStyle().
		Foreground(Rose).
		PaddingLeft(2)
	t.Working = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextSecondary)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)
	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true).
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Indigo)
	t.ListItemActive = t.ListItem.
		Foreground(Teal)
	t.ListMeta = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)
	t.InputFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)
	t.InputBlurred = t.InputFocused.
		BorderForeground(Overlay)
	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Gold).
		Padding(1, 3)
	t.OverlayTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold).
		MarginBottom(1)
	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)
	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Gold).
		Bold(true).
		Padding(0, 2)
	t.Link = lipgloss.NewStyle().
		Foreground(Teal).
		Underline(true)

	t.Error = lipgloss.NewStyle().Foreground(Rose)
	t.Success = lipgloss.NewStyle().Foreground(Emerald)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns, no sidebar
	LayoutWide                     // sidebar shown
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	return LayoutWide
}

// SidebarWidth is the thread list width in the wide layout.
func (t *Theme) SidebarWidth() int {
	w := t.Width / 4
	if w < 24 {
		w = 24
	}
	if w > 36 {
		w = 36
	}
	return w
}
