// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/t2t-tui/internal/model"

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type userResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	User    *model.User `json:"user"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// =============================================================================
// THREADS
// =============================================================================

type threadListResponse struct {
	Threads []model.ThreadSummary `json:"threads"`
}

type threadDetailResponse struct {
	Thread *model.ThreadDetail `json:"thread"`
}

type threadResponse struct {
	Thread *model.ThreadSummary `json:"thread"`
}

type renameRequest struct {
	Title string `json:"title"`
}

type createThreadRequest struct {
	Title string     `json:"title,omitempty"`
	Mode  model.Mode `json:"mode"`
}

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the body of POST /api/chat. A nil ThreadID asks the server
// to create a thread.
type ChatRequest struct {
	Message  string     `json:"message"`
	Mode     model.Mode `json:"mode"`
	ThreadID *int64     `json:"thread_id"`
}

// ChatResponse is a successful reply from POST /api/chat.
type ChatResponse struct {
	Success  bool        `json:"success"`
	Error    string      `json:"error,omitempty"`
	Message  string      `json:"message"`
	Mode     model.Mode  `json:"mode"`
	ThreadID int64       `json:"thread_id"`
	Thread   *ChatThread `json:"thread,omitempty"`

	// QuestionNumber is set for career-mode replies.
	QuestionNumber *int `json:"question_number,omitempty"`
}

// ChatThread is the thread summary attached to a chat reply.
type ChatThread struct {
	Title string `json:"title"`
}

// Title returns the thread title from the reply, if any.
func (r *ChatResponse) Title() string {
	if r.Thread == nil {
		return ""
	}
	return r.Thread.Title
}

// =============================================================================
// CAREER
// =============================================================================

// CareerStartResponse is a successful reply from POST /api/career/start.
type CareerStartResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	OpeningMessage string `json:"opening_message"`
	Thread         struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"thread"`
}
