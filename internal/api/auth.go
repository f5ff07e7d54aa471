// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jeranaias/t2t-tui/internal/model"
)

// Me returns the signed-in user, or nil when there is no session.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var resp userResponse
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/auth/me", &resp); err != nil {
		if errors.Is(err, ErrAuthExpired) {
			return nil, nil
		}
		return nil, err
	}
	return resp.User, nil
}

// Login signs in with email and password.
//
// Wrong passwords return ErrInvalidCredentials. Emails without an account
// return ErrUnknownAccount; the *APIError's NeedsSignup field tells whether
// the server wants the user to complete sign-up with that email.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp userResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusUnauthorized:
				apiErr.kind = ErrInvalidCredentials
			case http.StatusNotFound:
				apiErr.kind = ErrUnknownAccount
			}
		}
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, applicationError(http.StatusOK, resp.Error)
	}
	return resp.User, nil
}

// Signup creates an account and signs in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	var resp userResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, applicationError(http.StatusOK, resp.Error)
	}
	return resp.User, nil
}

// Logout ends the server session and forgets the local cookies whatever the
// server answered.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.ClearSession()
	return err
}

// CompleteOnboarding records that the user has seen onboarding.
func (c *Client) CompleteOnboarding(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/api/complete-onboarding", nil, nil)
}
