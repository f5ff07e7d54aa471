// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"

	"github.com/jeranaias/t2t-tui/internal/api"
	"github.com/jeranaias/t2t-tui/internal/model"
)

// Auth surface messages.
const (
	AuthLoginRequired  = "Please enter your email and password."
	AuthLoginFailed    = "Login failed. Please try again."
	AuthSignupRequired = "Please fill in all required fields."
	AuthSignupFailed   = "Sign-up failed. Please try again."
	AuthNetworkError   = "Network error — please try again."
	AuthSessionExpired = "Your session expired — please sign in again."
)

// =============================================================================
// SESSION STORE
// =============================================================================

// CheckSession asks the server who is signed in. Any failure, including a
// network error, is treated as signed out. It reports whether a user is
// signed in.
func (c *Controller) CheckSession(ctx context.Context) bool {
	user, err := c.api.Me(ctx)
	if err != nil || user == nil {
		if err != nil {
			c.logger.Warn("controller", "session check failed", map[string]interface{}{"error": err.Error()})
		}
		c.mu.Lock()
		c.state.User = nil
		c.state.Surface = SurfaceAuth
		c.state.AuthPanel = PanelLogin
		c.mu.Unlock()
		return false
	}

	c.signedIn(ctx, user)
	return true
}

// Login signs in. On failure the auth surface's inline message is set and
// the error is returned. An account that needs sign-up switches the surface
// to the sign-up form with the email prefilled.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	form := LoginForm{Email: email, Password: password}.normalize()
	if field, ok := firstInvalidField(form); !ok {
		return c.authFailed(&ValidationError{Field: field, Message: AuthLoginRequired}, AuthLoginRequired)
	}

	c.clearAuthError()
	user, err := c.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		var apiErr *api.APIError
		if errors.Is(err, api.ErrUnknownAccount) && errors.As(err, &apiErr) && apiErr.NeedsSignup {
			c.mu.Lock()
			c.state.AuthPanel = PanelSignup
			c.state.PrefillEmail = form.Email
			c.state.AuthError = apiErr.Message
			c.mu.Unlock()
			return err
		}
		return c.authFailed(err, authMessage(err, AuthLoginFailed))
	}

	c.signedIn(ctx, user)
	return nil
}

// Signup creates an account. Name, email and password are required and are
// checked before any network call.
func (c *Controller) Signup(ctx context.Context, form SignupForm) error {
	form = form.normalize()
	if field, ok := firstInvalidField(form); !ok {
		return c.authFailed(&ValidationError{Field: field, Message: AuthSignupRequired}, AuthSignupRequired)
	}

	c.clearAuthError()
	user, err := c.api.Signup(ctx, api.SignupRequest{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
	})
	if err != nil {
		return c.authFailed(err, authMessage(err, AuthSignupFailed))
	}

	c.signedIn(ctx, user)
	return nil
}

// Logout notifies the server on a best-effort basis and always returns to
// the auth surface with an empty conversation.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Warn("controller", "logout request failed", map[string]interface{}{"error": err.Error()})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetConversationLocked()
	c.state.Mode = c.defaultMode
	c.state.User = nil
	c.state.Threads = nil
	c.state.Surface = SurfaceAuth
	c.state.AuthPanel = PanelLogin
	c.state.AuthError = ""
	c.state.PrefillEmail = ""
	c.lastUserID = 0
	c.session++
}

// CompleteOnboarding dismisses onboarding at once and tells the server in
// the background. Server errors are only logged; onboarding shows again on
// the next start if the call failed.
func (c *Controller) CompleteOnboarding() {
	c.mu.Lock()
	if c.state.User != nil {
		c.state.User.HasSeenOnboarding = true
	}
	if c.state.Surface == SurfaceOnboarding {
		c.state.Surface = SurfaceApp
	}
	c.mu.Unlock()

	c.goBackground("complete onboarding", c.api.CompleteOnboarding)
}

// ShowSignup switches the auth surface to the sign-up form.
func (c *Controller) ShowSignup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.AuthPanel = PanelSignup
	c.state.AuthError = ""
}

// ShowLogin switches the auth surface to the login form.
func (c *Controller) ShowLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.AuthPanel = PanelLogin
	c.state.AuthError = ""
}

// signedIn applies the shared post-condition of a successful session check,
// login or sign-up, then loads the thread list.
func (c *Controller) signedIn(ctx context.Context, user *model.User) {
	c.mu.Lock()
	if c.lastUserID != 0 && c.lastUserID != user.ID {
		// Another account: nothing of the previous conversation carries over.
		c.resetConversationLocked()
		c.state.Threads = nil
		c.state.Mode = c.defaultMode
	}
	c.lastUserID = user.ID
	c.session++

	u := *user
	c.state.User = &u
	c.state.AuthError = ""
	c.state.AuthPanel = PanelLogin
	c.state.PrefillEmail = ""
	if u.HasSeenOnboarding {
		c.state.Surface = SurfaceApp
	} else {
		c.state.Surface = SurfaceOnboarding
	}
	c.mu.Unlock()

	c.logger.Info("controller", "signed in", map[string]interface{}{"user_id": user.ID})

	if err := c.RefreshThreads(ctx); err != nil {
		c.logger.Warn("controller", "thread refresh after sign-in failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Controller) authFailed(err error, message string) error {
	c.mu.Lock()
	c.state.AuthError = message
	c.mu.Unlock()
	return err
}

func (c *Controller) clearAuthError() {
	c.mu.Lock()
	c.state.AuthError = ""
	c.mu.Unlock()
}

// authMessage picks the inline message for a failed login or sign-up.
func authMessage(err error, fallback string) string {
	if api.IsNetwork(err) {
		return AuthNetworkError
	}
	return api.ErrorMessage(err, fallback)
}
