// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the t2t client.
//
// This package defines the core domain types used throughout the application
// for representing the signed-in user, server threads, messages, assistant
// modes and the career clarity progress indicator.
//
// # Key Types
//
//   - Mode: Assistant mode enumeration (chat, document, research, career)
//   - ModeInfo: The single metadata table entry for a mode (badge, label, copy)
//   - Message: Single message with role, content, mode and timestamp
//   - ThreadSummary / ThreadDetail: Server thread listing and full thread
//   - User: The authenticated account as reported by /api/auth/me
//   - CareerProgress: Question index for the 8-question career flow
//
// # Usage
//
// Look up how a mode is presented:
//
//	info := model.ModeChat.Info()
//	fmt.Println(info.Label, "-", info.Description)
//
// Rebuild career progress when reopening a thread:
//
//	p := model.ProgressFromMessages(detail.Messages)
//	fmt.Printf("%s (%.0f%%)\n", p.Label(), p.Fraction()*100)
package model
