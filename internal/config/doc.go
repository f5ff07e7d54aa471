// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for t2t.
//
// Supports both TOML and JSON configuration formats, with defaults, a .env
// file, environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (T2T_*), including those from ./.env
//   - ~/.t2t/config.toml
//   - ~/.t2t/config.json
//   - Built-in defaults
//
// T2T_HOME relocates the ~/.t2t directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.Server.BaseURL).WithTimeout(cfg.Timeout())
package config
