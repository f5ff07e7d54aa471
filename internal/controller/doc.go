// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller owns the client-side session state of t2t.
//
// A single Controller holds every piece of mutable conversation state
// (signed-in user, active thread, active mode, rendered messages, the busy
// flag and the career flow) and is the only writer of it. Front ends read
// Snapshot() and call one named operation per user action.
//
// # Components
//
//   - Session: CheckSession, Login, Signup, Logout, CompleteOnboarding
//   - Modes: SelectMode
//   - Career flow: EnterCareer, BeginCareerStart, DismissCareer, DismissPaywall
//   - Request lifecycle: BeginSend, Request.Run, Send
//   - Thread registry: RefreshThreads, SelectThread, RemoveThread,
//     RenameThread, StartNew
//
// # Sends and Stale Responses
//
// BeginSend runs synchronously: it sets the busy flag and appends the user
// message before any network call, so a renderer can show it at once.
// Request.Run performs the call and always releases the busy flag.
//
// Every change of the active conversation (StartNew, SelectThread, removing
// the active thread, Logout) advances a generation counter. A response whose
// generation or thread id no longer matches the active conversation is
// discarded instead of being rendered into the wrong thread.
//
// Thread switches and deletes are refused with ErrBusy while a request is in
// flight. StartNew and Logout are always allowed.
package controller
