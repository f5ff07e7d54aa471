// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the t2t TUI.

Components are plain values with a View method; none of them own state
that belongs to the controller. The chat model passes a controller
snapshot in and renders what comes out.

# Components

MarkdownRenderer (markdown.go) - glamour rendering of assistant replies,
memoized per (content, width) in a go-cache.

CareerBar (career_bar.go) - Career Clarity progress indicator built on
bubbles/progress.

ThreadList (thread_list.go) - The sidebar and /threads picker.

Welcome (welcome.go) - Empty-conversation screen with quick-start prompts
for the active mode.

Onboarding (onboarding.go) - First-run slides.

CompletionPopup (completion.go) - Slash command completions.
*/
package components
