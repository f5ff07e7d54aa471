// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// DefaultTitle is shown for threads the server has not titled yet.
const DefaultTitle = "New conversation"

// =============================================================================
// THREAD TYPES
// =============================================================================

// ThreadSummary is one entry of the thread list. The server decides the
// order; the client never re-sorts it.
type ThreadSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Mode      Mode      `json:"mode"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// DisplayTitle returns the title or a default.
func (t ThreadSummary) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return DefaultTitle
}

// ThreadDetail is a full thread as returned by GET /api/threads/{id}.
// It is always fetched fresh and never cached.
type ThreadDetail struct {
	ThreadSummary
	Messages []Message `json:"messages"`
}

// EffectiveMode returns the stored mode, defaulting to chat.
func (t ThreadDetail) EffectiveMode() Mode {
	return ModeOrDefault(string(t.Mode))
}

// FindThread returns the summary with the given id.
func FindThread(threads []ThreadSummary, id int64) (ThreadSummary, bool) {
	for _, t := range threads {
		if t.ID == id {
			return t, true
		}
	}
	return ThreadSummary{}, false
}

// =============================================================================
// USER
// =============================================================================

// User is the authenticated account.
type User struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	HasSeenOnboarding bool   `json:"has_seen_onboarding"`
}

// FirstName returns the first word of the user's name for greetings.
func (u User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}
