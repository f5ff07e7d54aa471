// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea front end of t2t.
//
// The Model renders whatever surface the controller reports (auth form,
// onboarding, conversation, career hook, paywall) and turns key presses
// and slash commands into controller operations. Every network call runs
// inside a tea.Cmd; its result comes back as one of the *Msg types in
// messages.go, after which the model re-reads the controller snapshot.
//
// # Keys
//
//   - enter: send / submit, tab: complete a slash command
//   - ctrl+n: new conversation, ctrl+e: export, ctrl+t: thread list
//   - alt+m: cycle mode, alt+1..4: quick-start prompt, f1: help
//   - ctrl+c: quit
package chat
