// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import "github.com/jeranaias/t2t-tui/internal/model"

// =============================================================================
// SURFACES
// =============================================================================

// Surface is the screen the front end should present.
type Surface int

const (
	// SurfaceAuth is the login/sign-up screen.
	SurfaceAuth Surface = iota
	// SurfaceOnboarding is the first-run introduction.
	SurfaceOnboarding
	// SurfaceApp is the conversation view.
	SurfaceApp
	// SurfaceCareerHook explains the career flow before it starts.
	SurfaceCareerHook
	// SurfacePaywall offers the checkout hand-off.
	SurfacePaywall
)

// String returns the surface name.
func (s Surface) String() string {
	switch s {
	case SurfaceAuth:
		return "auth"
	case SurfaceOnboarding:
		return "onboarding"
	case SurfaceApp:
		return "app"
	case SurfaceCareerHook:
		return "career-hook"
	case SurfacePaywall:
		return "paywall"
	default:
		return "unknown"
	}
}

// AuthPanel selects the form shown on SurfaceAuth.
type AuthPanel int

const (
	PanelLogin AuthPanel = iota
	PanelSignup
)

// =============================================================================
// CAREER STATE
// =============================================================================

// CareerState is the position of the career clarity flow.
type CareerState int

const (
	// CareerHidden means no career indicator is shown.
	CareerHidden CareerState = iota
	// CareerHooked means the explanatory interstitial is up.
	CareerHooked
	// CareerInProgress means questions are being answered.
	CareerInProgress
	// CareerComplete means all questions are answered.
	CareerComplete
	// CareerPaywallBlocked means the last start attempt hit the paywall.
	CareerPaywallBlocked
)

// String returns the state name.
func (s CareerState) String() string {
	switch s {
	case CareerHidden:
		return "hidden"
	case CareerHooked:
		return "hooked"
	case CareerInProgress:
		return "in-progress"
	case CareerComplete:
		return "complete"
	case CareerPaywallBlocked:
		return "paywall-blocked"
	default:
		return "unknown"
	}
}

// RequestKind identifies what the busy flag is held for.
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestSend
	RequestCareerStart
	RequestSelect
)

// selectLabel is shown while a thread is loading.
const selectLabel = "Loading conversation…"

// =============================================================================
// STATE
// =============================================================================

// State is a read-only copy of the controller's state.
type State struct {
	Surface   Surface
	AuthPanel AuthPanel

	// AuthError is the inline message for the active auth form.
	AuthError string

	// PrefillEmail is copied into the sign-up form when login reports that
	// the account needs sign-up.
	PrefillEmail string

	// User is nil when signed out.
	User *model.User

	Mode         model.Mode
	ActiveThread int64 // 0 means a new, unsaved conversation
	Title        string
	Messages     []model.Message
	Threads      []model.ThreadSummary

	Busy     bool
	BusyKind RequestKind
	BusyMode model.Mode

	Career         CareerState
	CareerProgress model.CareerProgress
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// ModeInfo returns the presentation metadata of the active mode.
func (s State) ModeInfo() model.ModeInfo {
	return s.Mode.Info()
}

// WorkingLabel returns the in-flight label, or "" when idle.
func (s State) WorkingLabel() string {
	if !s.Busy {
		return ""
	}
	if s.BusyKind == RequestSelect {
		return selectLabel
	}
	return s.BusyMode.Info().WorkingLabel
}

// CareerVisible reports whether the progress indicator is shown.
func (s State) CareerVisible() bool {
	return s.Career == CareerInProgress || s.Career == CareerComplete
}

// HasThread reports whether a saved thread is active.
func (s State) HasThread() bool {
	return s.ActiveThread != 0
}

// IsEmpty reports whether the conversation view shows the welcome state.
func (s State) IsEmpty() bool {
	return len(s.Messages) == 0
}

// DisplayTitle returns the active title or a default.
func (s State) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return model.DefaultTitle
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Messages = model.CloneMessages(s.Messages)
	if s.Threads != nil {
		out.Threads = make([]model.ThreadSummary, len(s.Threads))
		copy(out.Threads, s.Threads)
	}
	return out
}
