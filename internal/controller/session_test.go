// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

func TestNew_StartsSignedOut(t *testing.T) {
	c := New(newFakeAPI())
	s := c.Snapshot()

	assert.Equal(t, SurfaceAuth, s.Surface)
	assert.False(t, s.Authenticated())
	assert.Equal(t, model.ModeChat, s.Mode)
	assert.Equal(t, CareerHidden, s.Career)
}

func TestWithDefaultMode_RejectsCareer(t *testing.T) {
	assert.Equal(t, model.ModeResearch, New(newFakeAPI(), WithDefaultMode(model.ModeResearch)).Snapshot().Mode)
	assert.Equal(t, model.ModeChat, New(newFakeAPI(), WithDefaultMode(model.ModeCareer)).Snapshot().Mode)
}

func TestCheckSession(t *testing.T) {
	t.Run("signed in loads threads", func(t *testing.T) {
		f := newFakeAPI()
		f.threads = []model.ThreadSummary{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}
		c := signedInController(t, f)

		s := c.Snapshot()
		assert.Equal(t, SurfaceApp, s.Surface)
		require.NotNil(t, s.User)
		assert.Equal(t, "Ada Lovelace", s.User.Name)
		require.Len(t, s.Threads, 2)
		assert.Equal(t, int64(2), s.Threads[0].ID, "server order is kept")
	})

	t.Run("first run shows onboarding", func(t *testing.T) {
		f := newFakeAPI()
		f.user = &model.User{ID: 1, Name: "New", HasSeenOnboarding: false}
		c := signedInController(t, f)
		assert.Equal(t, SurfaceOnboarding, c.Snapshot().Surface)
	})

	t.Run("no session", func(t *testing.T) {
		c := New(newFakeAPI())
		assert.False(t, c.CheckSession(context.Background()))
		assert.Equal(t, SurfaceAuth, c.Snapshot().Surface)
	})

	t.Run("network failure counts as signed out", func(t *testing.T) {
		f := newFakeAPI()
		f.meErr = fmt.Errorf("%w: connection refused", api.ErrNetwork)
		c := New(f)
		assert.False(t, c.CheckSession(context.Background()))
		assert.Equal(t, SurfaceAuth, c.Snapshot().Surface)
		assert.Equal(t, 0, f.Calls("list"))
	})
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"both blank", "", ""},
		{"blank email", "   ", "secret"},
		{"blank password", "ada@example.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeAPI()
			c := New(f)

			err := c.Login(context.Background(), tc.email, tc.password)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, AuthLoginRequired, c.Snapshot().AuthError)
			assert.Equal(t, 0, f.Calls("login"), "no network call on validation failure")
		})
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFakeAPI()
	var gotEmail string
	f.loginFn = func(email, password string) (*model.User, error) {
		gotEmail = email
		u := *testUser
		return &u, nil
	}
	c := New(f)

	require.NoError(t, c.Login(context.Background(), "  Ada@Example.COM ", "secret"))
	assert.Equal(t, "ada@example.com", gotEmail, "email is trimmed and lower-cased")

	s := c.Snapshot()
	assert.Equal(t, SurfaceApp, s.Surface)
	assert.Empty(t, s.AuthError)
	assert.Equal(t, 1, f.Calls("list"))
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantPanel   AuthPanel
		wantMessage string
		wantPrefill string
	}{
		{
			name:        "wrong password",
			err:         fmt.Errorf("%w: %w", api.ErrInvalidCredentials, &api.APIError{Status: 401, Message: "Incorrect password. Please try again."}),
			wantPanel:   PanelLogin,
			wantMessage: "Incorrect password. Please try again.",
		},
		{
			name:        "needs signup",
			err:         fmt.Errorf("%w: %w", api.ErrUnknownAccount, &api.APIError{Status: 404, Message: "Account found — please complete sign-up to set your password.", NeedsSignup: true}),
			wantPanel:   PanelSignup,
			wantMessage: "Account found — please complete sign-up to set your password.",
			wantPrefill: "ada@example.com",
		},
		{
			name:        "no message falls back",
			err:         &api.APIError{Status: 400},
			wantPanel:   PanelLogin,
			wantMessage: AuthLoginFailed,
		},
		{
			name:        "network",
			err:         fmt.Errorf("%w: dial tcp", api.ErrNetwork),
			wantPanel:   PanelLogin,
			wantMessage: AuthNetworkError,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeAPI()
			f.loginFn = func(string, string) (*model.User, error) { return nil, tc.err }
			c := New(f)

			err := c.Login(context.Background(), "ada@example.com", "secret")
			require.Error(t, err)

			s := c.Snapshot()
			assert.Equal(t, SurfaceAuth, s.Surface)
			assert.Equal(t, tc.wantPanel, s.AuthPanel)
			assert.Equal(t, tc.wantMessage, s.AuthError)
			assert.Equal(t, tc.wantPrefill, s.PrefillEmail)
			assert.False(t, s.Authenticated())
		})
	}
}

func TestSignup(t *testing.T) {
	t.Run("phone is optional", func(t *testing.T) {
		f := newFakeAPI()
		c := New(f)
		err := c.Signup(context.Background(), SignupForm{Name: " Ada ", Email: "ADA@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, SurfaceOnboarding, c.Snapshot().Surface, "new accounts see onboarding")
	})

	for _, form := range []SignupForm{
		{Email: "a@example.com", Password: "secret1"},
		{Name: "Ada", Password: "secret1"},
		{Name: "Ada", Email: "a@example.com", Phone: "555"},
	} {
		f := newFakeAPI()
		c := New(f)
		err := c.Signup(context.Background(), form)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "form %+v: want ValidationError, got %v", form, err)
		assert.Equal(t, AuthSignupRequired, c.Snapshot().AuthError)
		assert.Equal(t, 0, f.Calls("signup"))
	}

	t.Run("server rejection", func(t *testing.T) {
		f := newFakeAPI()
		f.signupFn = func(api.SignupRequest) (*model.User, error) {
			return nil, &api.APIError{Status: 409, Message: "An account with this email already exists. Please log in."}
		}
		c := New(f)
		require.Error(t, c.Signup(context.Background(), SignupForm{Name: "Ada", Email: "a@example.com", Password: "secret1"}))
		assert.Equal(t, "An account with this email already exists. Please log in.", c.Snapshot().AuthError)
	})
}

func TestLogout_AlwaysResets(t *testing.T) {
	f := newFakeAPI()
	f.details[3] = &model.ThreadDetail{ThreadSummary: model.ThreadSummary{ID: 3, Title: "T", Mode: model.ModeResearch}}
	c := signedInController(t, f)
	require.NoError(t, c.SelectThread(context.Background(), 3))

	f.logoutErr = fmt.Errorf("%w: offline", api.ErrNetwork)
	c.Logout(context.Background())

	s := c.Snapshot()
	assert.Equal(t, SurfaceAuth, s.Surface)
	assert.False(t, s.Authenticated())
	assert.Zero(t, s.ActiveThread)
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.Threads)
	assert.Equal(t, model.ModeChat, s.Mode)
}

func TestSignIn_DifferentAccountClearsConversation(t *testing.T) {
	f := newFakeAPI()
	f.details[3] = &model.ThreadDetail{ThreadSummary: model.ThreadSummary{ID: 3, Title: "Mine"}}
	c := signedInController(t, f)
	require.NoError(t, c.SelectThread(context.Background(), 3))

	f.mu.Lock()
	f.user = &model.User{ID: 2, Name: "Grace", HasSeenOnboarding: true}
	f.mu.Unlock()
	require.True(t, c.CheckSession(context.Background()))

	assert.Zero(t, c.Snapshot().ActiveThread)
}

func TestCompleteOnboarding_FireAndForget(t *testing.T) {
	f := newFakeAPI()
	f.user = &model.User{ID: 1, Name: "New"}
	f.onboardingCh = make(chan struct{})
	c := signedInController(t, f)
	require.Equal(t, SurfaceOnboarding, c.Snapshot().Surface)

	c.CompleteOnboarding()
	s := c.Snapshot()
	assert.Equal(t, SurfaceApp, s.Surface, "surface changes before the server answers")
	assert.True(t, s.User.HasSeenOnboarding)

	select {
	case <-f.onboardingCh:
	case <-time.After(2 * time.Second):
		t.Fatal("onboarding call never made")
	}
	c.Wait()
}

func TestShowSignupAndLogin(t *testing.T) {
	c := New(newFakeAPI())
	c.ShowSignup()
	assert.Equal(t, PanelSignup, c.Snapshot().AuthPanel)
	c.ShowLogin()
	assert.Equal(t, PanelLogin, c.Snapshot().AuthPanel)
}
