// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small file helpers shared by config, storage and export.
//
//	// Session cookies and config are private to the user.
//	err := util.AtomicWriteFile(path, data, 0600)
package util
