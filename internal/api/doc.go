// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the T2T backend.
//
// Authentication rides on the server's session cookie. The client keeps a
// cookie jar and, when given a CookieStore, persists it so separate CLI
// invocations share one login.
//
// # Error Model
//
// Every failure maps onto one of a small set of outcomes:
//
//   - ErrAuthExpired: HTTP 401 on an authenticated endpoint
//   - ErrPaywallRequired: HTTP 403 with "paywall": true
//   - ErrInvalidCredentials / ErrUnknownAccount: login-specific failures
//   - ErrNetwork: transport failure or an unreadable response
//   - *APIError without a sentinel: an application error carrying the
//     server's message
//
// Use errors.Is for the sentinels and errors.As to recover the *APIError.
//
// # Usage
//
//	client := api.NewClient("https://app.example.com").
//	    WithTimeout(90 * time.Second).
//	    WithCookieStore(store)
//
//	user, err := client.Me(ctx)
//	resp, err := client.Chat(ctx, api.ChatRequest{Message: "Hi", Mode: model.ModeChat})
package api
