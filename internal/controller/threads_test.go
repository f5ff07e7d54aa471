// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

func careerThread(id int64, userMessages int) *model.ThreadDetail {
	d := &model.ThreadDetail{ThreadSummary: model.ThreadSummary{ID: id, Title: "Career Clarity", Mode: model.ModeCareer}}
	d.Messages = append(d.Messages, model.Message{Role: model.RoleAssistant, Content: "Question 1", Mode: model.ModeCareer})
	for i := 0; i < userMessages; i++ {
		d.Messages = append(d.Messages,
			model.Message{Role: model.RoleUser, Content: fmt.Sprintf("answer %d", i+1), Mode: model.ModeCareer},
			model.Message{Role: model.RoleAssistant, Content: fmt.Sprintf("Question %d", i+2), Mode: model.ModeCareer},
		)
	}
	return d
}

func TestSelectThread_CareerProgress(t *testing.T) {
	tests := []struct {
		name      string
		answers   int
		wantQ     int
		wantState CareerState
	}{
		{"fresh", 0, 0, CareerInProgress},
		{"midway", 3, 3, CareerInProgress},
		{"finished", 8, 8, CareerComplete},
		{"past the end is capped", 12, 8, CareerComplete},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeAPI()
			f.details[11] = careerThread(11, tc.answers)
			c := signedInController(t, f)

			require.NoError(t, c.SelectThread(context.Background(), 11))

			s := c.Snapshot()
			assert.Equal(t, model.ModeCareer, s.Mode)
			assert.Equal(t, tc.wantQ, s.CareerProgress.Question)
			assert.Equal(t, tc.wantState, s.Career)
			assert.True(t, s.CareerVisible())
			assert.Len(t, s.Messages, 1+2*tc.answers)
		})
	}
}

func TestSelectThread_ReplacesMessages(t *testing.T) {
	f := newFakeAPI()
	f.details[1] = &model.ThreadDetail{
		ThreadSummary: model.ThreadSummary{ID: 1, Title: "Draft", Mode: model.ModeDocument},
		Messages:      []model.Message{{Role: model.RoleUser, Content: "write a memo"}},
	}
	f.details[2] = careerThread(2, 2)
	c := signedInController(t, f)

	require.NoError(t, c.SelectThread(context.Background(), 2))
	require.NoError(t, c.SelectThread(context.Background(), 1))

	s := c.Snapshot()
	assert.Equal(t, int64(1), s.ActiveThread)
	assert.Equal(t, "Draft", s.Title)
	assert.Equal(t, model.ModeDocument, s.Mode)
	assert.False(t, s.CareerVisible(), "indicator hidden outside career threads")
	if diff := cmp.Diff([]string{"user:write a memo"}, contents(s.Messages)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, f.Calls("get"), "details are always fetched fresh")
}

func TestSelectThread_Errors(t *testing.T) {
	t.Run("not found keeps state", func(t *testing.T) {
		f := newFakeAPI()
		c := signedInController(t, f)
		require.Equal(t, OutcomeReply, c.Send(context.Background(), "hello"))

		err := c.SelectThread(context.Background(), 404)
		assert.ErrorIs(t, err, api.ErrNotFound)
		s := c.Snapshot()
		assert.Equal(t, int64(1), s.ActiveThread)
		assert.Len(t, s.Messages, 2)
	})

	t.Run("expired session", func(t *testing.T) {
		f := newFakeAPI()
		f.getErr = fmt.Errorf("%w: 401", api.ErrAuthExpired)
		c := signedInController(t, f)

		assert.Error(t, c.SelectThread(context.Background(), 1))
		assert.Equal(t, SurfaceAuth, c.Snapshot().Surface)
	})
}

func TestRemoveThread(t *testing.T) {
	setup := func(t *testing.T) (*fakeAPI, *Controller) {
		f := newFakeAPI()
		f.threads = []model.ThreadSummary{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}
		f.details[1] = &model.ThreadDetail{
			ThreadSummary: model.ThreadSummary{ID: 1, Title: "One"},
			Messages:      []model.Message{{Role: model.RoleUser, Content: "hi"}},
		}
		c := signedInController(t, f)
		require.NoError(t, c.SelectThread(context.Background(), 1))
		return f, c
	}

	t.Run("active thread resets view", func(t *testing.T) {
		_, c := setup(t)
		require.NoError(t, c.RemoveThread(context.Background(), 1))

		s := c.Snapshot()
		assert.Zero(t, s.ActiveThread)
		assert.Empty(t, s.Messages)
		assert.Equal(t, model.DefaultTitle, s.DisplayTitle())
		require.Len(t, s.Threads, 1)
		assert.Equal(t, int64(2), s.Threads[0].ID)
	})

	t.Run("other thread keeps view", func(t *testing.T) {
		_, c := setup(t)
		require.NoError(t, c.RemoveThread(context.Background(), 2))

		s := c.Snapshot()
		assert.Equal(t, int64(1), s.ActiveThread)
		assert.Len(t, s.Messages, 1)
		require.Len(t, s.Threads, 1)
		assert.Equal(t, int64(1), s.Threads[0].ID)
	})

	t.Run("failure still refreshes", func(t *testing.T) {
		f, c := setup(t)
		f.mu.Lock()
		f.deleteErr = appError("nope")
		f.mu.Unlock()
		before := f.Calls("list")

		require.Error(t, c.RemoveThread(context.Background(), 1))
		assert.Equal(t, int64(1), c.Snapshot().ActiveThread)
		assert.Equal(t, before+1, f.Calls("list"))
	})

	t.Run("refused while busy", func(t *testing.T) {
		f, c := setup(t)
		release := gated(f)
		req, ok := c.BeginSend("hold")
		require.True(t, ok)
		done := make(chan Outcome)
		go func() { done <- req.Run(context.Background()) }()
		<-f.entered

		assert.ErrorIs(t, c.RemoveThread(context.Background(), 1), ErrBusy)
		release()
		<-done
		assert.Equal(t, 0, f.Calls("delete"))
	})
}

func TestSelectThread_HoldsBusyUntilLoaded(t *testing.T) {
	f := newFakeAPI()
	f.threads = []model.ThreadSummary{{ID: 9, Title: "doomed"}}
	f.details[9] = &model.ThreadDetail{
		ThreadSummary: model.ThreadSummary{ID: 9, Title: "doomed"},
		Messages:      []model.Message{{Role: model.RoleUser, Content: "hi"}},
	}
	c := signedInController(t, f)

	h := f.holdNext("get")
	done := make(chan error, 1)
	go func() { done <- c.SelectThread(context.Background(), 9) }()
	<-h.entered

	s := c.Snapshot()
	assert.True(t, s.Busy)
	assert.Equal(t, RequestSelect, s.BusyKind)
	assert.Equal(t, "Loading conversation…", s.WorkingLabel())

	assert.ErrorIs(t, c.RemoveThread(context.Background(), 9), ErrBusy)
	assert.ErrorIs(t, c.SelectThread(context.Background(), 9), ErrBusy)
	_, ok := c.BeginSend("too soon")
	assert.False(t, ok, "no send into a view that is about to be replaced")

	close(h.release)
	require.NoError(t, <-done)

	s = c.Snapshot()
	assert.False(t, s.Busy)
	assert.Empty(t, s.WorkingLabel())
	assert.Equal(t, int64(9), s.ActiveThread)
	assert.Equal(t, 0, f.Calls("delete"))
	assert.Equal(t, 0, f.Calls("chat"))
}

func TestSelectThread_ReleasesBusyOnError(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)

	assert.ErrorIs(t, c.SelectThread(context.Background(), 404), api.ErrNotFound)
	assert.False(t, c.Busy())
}

func TestRemoveThread_DropsLateLoadOfDeletedThread(t *testing.T) {
	f := newFakeAPI()
	f.threads = []model.ThreadSummary{{ID: 9, Title: "doomed"}}
	f.details[9] = &model.ThreadDetail{ThreadSummary: model.ThreadSummary{ID: 9, Title: "doomed"}}
	c := signedInController(t, f)

	del := f.holdNext("delete")
	deleted := make(chan error, 1)
	go func() { deleted <- c.RemoveThread(context.Background(), 9) }()
	<-del.entered

	// The detail is read before the delete lands but delivered after it.
	get := f.holdNext("get")
	selected := make(chan error, 1)
	go func() { selected <- c.SelectThread(context.Background(), 9) }()
	<-get.entered

	close(del.release)
	require.NoError(t, <-deleted)
	close(get.release)
	require.NoError(t, <-selected)

	s := c.Snapshot()
	assert.Zero(t, s.ActiveThread, "deleted thread must not become active")
	assert.Empty(t, s.Threads)
	assert.False(t, s.Busy)
}

func TestRefreshThreads_AccountSwitchMidFlight(t *testing.T) {
	f := newFakeAPI()
	f.threads = []model.ThreadSummary{{ID: 7, Title: "Ada private thread"}}
	c := signedInController(t, f)

	h := f.holdNext("list")
	done := make(chan error, 1)
	go func() { done <- c.RefreshThreads(context.Background()) }()
	<-h.entered

	c.Logout(context.Background())
	f.mu.Lock()
	f.threads = []model.ThreadSummary{{ID: 8, Title: "Grace thread"}}
	f.loginFn = func(email, password string) (*model.User, error) {
		return &model.User{ID: 2, Name: "Grace", Email: email, HasSeenOnboarding: true}, nil
	}
	f.mu.Unlock()
	require.NoError(t, c.Login(context.Background(), "grace@example.com", "secret"))

	close(h.release)
	require.NoError(t, <-done)

	s := c.Snapshot()
	require.NotNil(t, s.User)
	assert.Equal(t, int64(2), s.User.ID)
	if diff := cmp.Diff([]model.ThreadSummary{{ID: 8, Title: "Grace thread"}}, s.Threads); diff != "" {
		t.Errorf("threads mismatch (-want +got):\n%s", diff)
	}
}

func TestRefreshThreads_SharedCallOutlivesCaller(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)
	f.mu.Lock()
	f.threads = []model.ThreadSummary{{ID: 5, Title: "Fresh"}}
	f.mu.Unlock()

	h := f.holdNext("list")
	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- c.RefreshThreads(ctx) }()
	<-h.entered

	second := make(chan error, 1)
	go func() { second <- c.RefreshThreads(context.Background()) }()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(h.release)
	require.NoError(t, <-second, "a cancelled caller does not fail the others")
	s := c.Snapshot()
	require.Len(t, s.Threads, 1)
	assert.Equal(t, "Fresh", s.Threads[0].Title)
}

func TestRefreshThreads_UnauthorizedLeavesList(t *testing.T) {
	f := newFakeAPI()
	f.threads = []model.ThreadSummary{{ID: 1, Title: "One"}}
	c := signedInController(t, f)

	f.mu.Lock()
	f.listErr = fmt.Errorf("%w: 401", api.ErrAuthExpired)
	f.mu.Unlock()

	require.NoError(t, c.RefreshThreads(context.Background()))
	s := c.Snapshot()
	require.Len(t, s.Threads, 1)
	assert.Equal(t, SurfaceApp, s.Surface, "a list 401 does not sign out")
}

func TestRefreshThreads_OtherErrorsReturned(t *testing.T) {
	f := newFakeAPI()
	c := signedInController(t, f)
	f.mu.Lock()
	f.listErr = fmt.Errorf("%w: refused", api.ErrNetwork)
	f.mu.Unlock()

	assert.ErrorIs(t, c.RefreshThreads(context.Background()), api.ErrNetwork)
}

func TestRenameThread(t *testing.T) {
	f := newFakeAPI()
	f.threads = []model.ThreadSummary{{ID: 1, Title: "Old"}}
	f.details[1] = &model.ThreadDetail{ThreadSummary: model.ThreadSummary{ID: 1, Title: "Old"}}
	c := signedInController(t, f)
	require.NoError(t, c.SelectThread(context.Background(), 1))

	require.NoError(t, c.RenameThread(context.Background(), 1, "  New name "))
	s := c.Snapshot()
	assert.Equal(t, "New name", s.Title)
	assert.Equal(t, "New name", s.Threads[0].Title)

	var verr *ValidationError
	assert.True(t, errors.As(c.RenameThread(context.Background(), 1, "   "), &verr))

	long := strings.Repeat("é", MaxTitleLength+20)
	require.NoError(t, c.RenameThread(context.Background(), 1, long))
	assert.Equal(t, MaxTitleLength, len([]rune(c.Snapshot().Title)))
}

func TestStartNew(t *testing.T) {
	f := newFakeAPI()
	f.details[5] = careerThread(5, 2)
	c := signedInController(t, f)
	require.NoError(t, c.SelectThread(context.Background(), 5))
	calls := f.Calls("get") + f.Calls("chat") + f.Calls("list")

	c.StartNew()

	s := c.Snapshot()
	assert.Zero(t, s.ActiveThread)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, model.ModeChat, s.Mode, "career mode is left")
	assert.False(t, s.CareerVisible())
	assert.Equal(t, calls, f.Calls("get")+f.Calls("chat")+f.Calls("list"), "no server call")
}

func TestStartNew_KeepsNonCareerMode(t *testing.T) {
	c := signedInController(t, newFakeAPI())
	require.NoError(t, c.SelectMode(model.ModeResearch))
	c.StartNew()
	assert.Equal(t, model.ModeResearch, c.Snapshot().Mode)
}
