// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for the t2t client.
//
// Conversations live on the server; the only local state is the login
// session (cookies) and the last email used to sign in, kept per server URL
// so that pointing the client at a different backend never leaks cookies.
//
// # Key Types
//
//   - SessionStore: Per-server cookie persistence implementing api.CookieStore
//   - SessionFile: The on-disk JSON document
//
// # Usage
//
//	store := storage.NewSessionStore(filepath.Join(dir, "session.json"), baseURL)
//	client := api.NewClient(baseURL).WithCookieStore(store)
//
// # Storage Location
//
// Sessions are stored in ~/.t2t/session.json with 0600 permissions.
package storage
