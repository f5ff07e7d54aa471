// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// gated arms the fake so Chat and StartCareer block until release is called.
func gated(f *fakeAPI) (release func()) {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	gate := f.gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func TestSend_EmptyIsNoop(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, OutcomeNone, c.Send(context.Background(), text))
	}
	assert.Equal(t, 0, f.Calls("chat"))
	assert.Empty(t, c.Snapshot().Messages)
}

func TestSend_FirstMessageCreatesThread(t *testing.T) {
	f := newFakeAPI()
	f.chatFn = func(req api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{
			Success:  true,
			Message:  "Hi!",
			Mode:     model.ModeChat,
			ThreadID: 42,
			Thread:   &api.ChatThread{Title: "Greetings"},
		}, nil
	}
	c := signedInController(t, f)

	outcome := c.Send(context.Background(), "  hello  ")
	require.Equal(t, OutcomeReply, outcome)

	s := c.Snapshot()
	assert.Equal(t, int64(42), s.ActiveThread)
	assert.Equal(t, "Greetings", s.Title)
	if diff := cmp.Diff([]string{"user:hello", "assistant:Hi!"}, contents(s.Messages)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.Busy)
	assert.Equal(t, 2, f.Calls("list"), "list refreshed after the reply")

	require.Len(t, f.chats, 1)
	assert.Nil(t, f.chats[0].ThreadID, "first message carries no thread id")
}

func TestSend_FollowUpCarriesThreadID(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)

	require.Equal(t, OutcomeReply, c.Send(context.Background(), "one"))
	require.Equal(t, OutcomeReply, c.Send(context.Background(), "two"))

	require.Len(t, f.chats, 2)
	require.NotNil(t, f.chats[1].ThreadID)
	assert.Equal(t, int64(1), *f.chats[1].ThreadID)
	assert.Len(t, c.Snapshot().Messages, 4)
}

func TestSend_UsesActiveMode(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)
	require.NoError(t, c.SelectMode(model.ModeResearch))

	req, ok := c.BeginSend("sources?")
	require.True(t, ok)
	s := c.Snapshot()
	assert.True(t, s.Busy)
	assert.Equal(t, "Searching the web…", s.WorkingLabel())
	assert.Equal(t, model.ModeResearch, s.Messages[0].Mode)

	assert.Equal(t, OutcomeReply, req.Run(context.Background()))
	assert.Equal(t, model.ModeResearch, f.chats[0].Mode)
	assert.Equal(t, OutcomeNone, req.Run(context.Background()), "a request runs once")
}

func TestSend_BusyIsNoop(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)
	release := gated(f)

	req, ok := c.BeginSend("first")
	require.True(t, ok)

	done := make(chan Outcome)
	go func() { done <- req.Run(context.Background()) }()
	<-f.entered

	_, ok = c.BeginSend("second")
	assert.False(t, ok)
	assert.Equal(t, OutcomeNone, c.Send(context.Background(), "third"))
	assert.True(t, c.Busy())

	release()
	assert.Equal(t, OutcomeReply, <-done)

	assert.Equal(t, 1, f.Calls("chat"), "exactly one request reached the server")
	if diff := cmp.Diff([]string{"user:first", "assistant:reply to first"}, contents(c.Snapshot().Messages)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, c.Busy())
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantOutcome Outcome
		wantNotice  string
		wantSurface Surface
	}{
		{
			name:        "network",
			err:         fmt.Errorf("%w: connection reset", api.ErrNetwork),
			wantOutcome: OutcomeNetworkError,
			wantNotice:  NoticeNetworkError,
			wantSurface: SurfaceApp,
		},
		{
			name:        "server message",
			err:         appError("Model overloaded"),
			wantOutcome: OutcomeAppError,
			wantNotice:  "⚠️ Error: Model overloaded",
			wantSurface: SurfaceApp,
		},
		{
			name:        "no message",
			err:         &api.APIError{Status: 500},
			wantOutcome: OutcomeAppError,
			wantNotice:  "⚠️ Error: " + FallbackSendError,
			wantSurface: SurfaceApp,
		},
		{
			name:        "session expired",
			err:         fmt.Errorf("%w: 401", api.ErrAuthExpired),
			wantOutcome: OutcomeAuthExpired,
			wantNotice:  NoticeSessionExpired,
			wantSurface: SurfaceAuth,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeAPI()
			f.chatFn = func(api.ChatRequest) (*api.ChatResponse, error) { return nil, tc.err }
			c := signedInController(t, f)

			assert.Equal(t, tc.wantOutcome, c.Send(context.Background(), "hello"))

			s := c.Snapshot()
			want := []string{"user:hello", "assistant:" + tc.wantNotice}
			if diff := cmp.Diff(want, contents(s.Messages)); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, s.Messages[1].Local, "notices are local")
			assert.Equal(t, tc.wantSurface, s.Surface)
			assert.False(t, s.Busy, "busy flag released")
		})
	}
}

func TestSend_SessionExpiredRoutesToLogin(t *testing.T) {
	f := newFakeAPI()
	f.chatFn = func(api.ChatRequest) (*api.ChatResponse, error) {
		return nil, fmt.Errorf("%w: 401", api.ErrAuthExpired)
	}
	c := signedInController(t, f)
	c.Send(context.Background(), "hello")

	s := c.Snapshot()
	assert.False(t, s.Authenticated())
	assert.Equal(t, PanelLogin, s.AuthPanel)
	assert.Equal(t, AuthSessionExpired, s.AuthError)
}

func TestSend_StaleAfterStartNew(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)
	release := gated(f)

	req, ok := c.BeginSend("old question")
	require.True(t, ok)
	done := make(chan Outcome)
	go func() { done <- req.Run(context.Background()) }()
	<-f.entered

	c.StartNew()
	release()

	assert.Equal(t, OutcomeStale, <-done)
	s := c.Snapshot()
	assert.Empty(t, s.Messages, "late reply is not rendered into the new conversation")
	assert.Zero(t, s.ActiveThread)
	assert.False(t, s.Busy)
}

func TestSend_StaleFailureAddsNoNotice(t *testing.T) {
	f := newFakeAPI()
	f.chatFn = func(api.ChatRequest) (*api.ChatResponse, error) {
		return nil, fmt.Errorf("%w: timeout", api.ErrNetwork)
	}
	c := signedInController(t, f)
	release := gated(f)

	req, ok := c.BeginSend("question")
	require.True(t, ok)
	done := make(chan Outcome)
	go func() { done <- req.Run(context.Background()) }()
	<-f.entered

	c.StartNew()
	release()

	assert.Equal(t, OutcomeStale, <-done)
	assert.Empty(t, c.Snapshot().Messages)
}

func TestSend_StaleAfterSelectThread(t *testing.T) {
	f := newFakeAPI()
	f.details[7] = &model.ThreadDetail{
		ThreadSummary: model.ThreadSummary{ID: 7, Title: "Other", Mode: model.ModeChat},
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "earlier"},
			{Role: model.RoleAssistant, Content: "answer"},
		},
	}
	c := signedInController(t, f)
	release := gated(f)

	req, ok := c.BeginSend("question")
	require.True(t, ok)
	done := make(chan Outcome)
	go func() { done <- req.Run(context.Background()) }()
	<-f.entered

	// The busy flag refuses a switch mid-request.
	assert.ErrorIs(t, c.SelectThread(context.Background(), 7), ErrBusy)

	// A new conversation is allowed and makes the reply stale.
	c.StartNew()
	release()
	assert.Equal(t, OutcomeStale, <-done)

	require.NoError(t, c.SelectThread(context.Background(), 7))
	if diff := cmp.Diff([]string{"user:earlier", "assistant:answer"}, contents(c.Snapshot().Messages)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestSend_ReplyForOtherThreadDiscarded(t *testing.T) {
	f := newFakeAPI()
	f.details[3] = &model.ThreadDetail{ThreadSummary: model.ThreadSummary{ID: 3, Title: "Three"}}
	f.chatFn = func(api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{Success: true, Message: "elsewhere", Mode: model.ModeChat, ThreadID: 9}, nil
	}
	c := signedInController(t, f)
	require.NoError(t, c.SelectThread(context.Background(), 3))

	assert.Equal(t, OutcomeStale, c.Send(context.Background(), "hi"))
	assert.Equal(t, []string{"user:hi"}, contents(c.Snapshot().Messages))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "reply", OutcomeReply.String())
	assert.Equal(t, "stale", OutcomeStale.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
