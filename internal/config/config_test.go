// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// isolate points the config directory at a fresh temp dir and clears the
// global config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	for _, key := range []string{"T2T_BASE_URL", "T2T_TIMEOUT", "T2T_THEME", "T2T_LOG_LEVEL", "T2T_DEFAULT_MODE", "T2T_CHECKOUT_TIER", "T2T_EXPORT_DIR"} {
		t.Setenv(key, "")
	}
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// called concurrently. Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := Default()
			c.UI.Theme = "light"
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

// TestConfig_ConcurrentMixedOperations mixes Global, SetGlobal and
// ReloadGlobal.
func TestConfig_ConcurrentMixedOperations(t *testing.T) {
	isolate(t)

	var wg sync.WaitGroup
	for i := 0; i < 90; i++ {
		wg.Add(1)
		switch i % 3 {
		case 0:
			go func() {
				defer wg.Done()
				if Global() == nil {
					t.Error("Global() returned nil")
				}
			}()
		case 1:
			go func() {
				defer wg.Done()
				SetGlobal(Default())
			}()
		case 2:
			go func() {
				defer wg.Done()
				_ = ReloadGlobal()
			}()
		}
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	isolate(t)

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Server.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Server.BaseURL, DefaultBaseURL)
	}

	custom := Default()
	custom.UI.Theme = "light"
	SetGlobal(custom)
	if got := Global().UI.Theme; got != "light" {
		t.Errorf("after SetGlobal theme = %q, want light", got)
	}
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.Timeout() != 120*time.Second {
		t.Errorf("Timeout() = %v, want 2m0s", cfg.Timeout())
	}
	if cfg.Mode() != "chat" {
		t.Errorf("Mode() = %q, want chat", cfg.Mode())
	}
	if !cfg.UI.ShowOnboarding {
		t.Error("ShowOnboarding should default to true")
	}
	if cfg.ExportDir() != "." {
		t.Errorf("ExportDir() = %q, want .", cfg.ExportDir())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid default config", func(*Config) {}, ""},
		{"https server", func(c *Config) { c.Server.BaseURL = "https://t2t.example.com" }, ""},
		{"missing scheme", func(c *Config) { c.Server.BaseURL = "t2t.example.com" }, "server.base_url"},
		{"ftp scheme", func(c *Config) { c.Server.BaseURL = "ftp://t2t.example.com" }, "server.base_url"},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSecs = 0 }, "server.timeout_secs"},
		{"huge timeout", func(c *Config) { c.Server.TimeoutSecs = 601 }, "server.timeout_secs"},
		{"negative retries", func(c *Config) { c.Server.MaxRetries = -1 }, "server.max_retries"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -2 }, "server.rate_limit"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"research mode", func(c *Config) { c.UI.DefaultMode = "research" }, ""},
		{"career cannot be default", func(c *Config) { c.UI.DefaultMode = "career" }, "ui.default_mode"},
		{"unknown mode", func(c *Config) { c.UI.DefaultMode = "poetry" }, "ui.default_mode"},
		{"yaml export", func(c *Config) { c.Export.Format = "yaml" }, ""},
		{"pdf export", func(c *Config) { c.Export.Format = "pdf" }, "export.format"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"tiny log", func(c *Config) { c.Log.MaxSizeMB = 0 }, "log.max_size_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidateErrors", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", verrs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	cfg.Log.Level = "loud"

	var verrs ValidateErrors
	if !errors.As(cfg.Validate(), &verrs) || len(verrs) != 2 {
		t.Fatalf("Validate() = %v, want two errors", verrs)
	}
	if !strings.Contains(verrs.Error(), "ui.theme") || !strings.Contains(verrs.Error(), "log.level") {
		t.Errorf("Error() = %q", verrs.Error())
	}
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("server.base_url")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != DefaultBaseURL {
		t.Errorf("Get(server.base_url) = %v, want %s", val, DefaultBaseURL)
	}

	tests := []struct {
		key   string
		value string
		want  interface{}
	}{
		{"server.timeout_secs", "30", 30},
		{"server.rate_limit", "2.5", 2.5},
		{"ui.show_onboarding", "no", false},
		{"ui.default_mode", "document", "document"},
		{"export.open_after", "true", true},
		{"log.max_size_mb", "25", 25},
	}
	for _, tt := range tests {
		if err := cfg.Set(tt.key, tt.value); err != nil {
			t.Fatalf("Set(%s) error = %v", tt.key, err)
		}
		got, _ := cfg.Get(tt.key)
		if got != tt.want {
			t.Errorf("Get(%s) after Set = %v (%T), want %v (%T)", tt.key, got, got, tt.want, tt.want)
		}
	}

	for _, bad := range []struct{ key, value string }{
		{"invalid.key", "x"},
		{"server", "x"},
		{"server.timeout_secs", "soon"},
		{"ui.show_onboarding", "maybe"},
	} {
		if err := cfg.Set(bad.key, bad.value); err == nil {
			t.Errorf("Set(%s, %s) should fail", bad.key, bad.value)
		}
	}
}

func TestConfig_AllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%s) error = %v", key, err)
		}
	}
}

func TestConfig_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.Server.BaseURL = "https://other.example.com"

	if original.Server.BaseURL != DefaultBaseURL {
		t.Error("Clone should create an independent copy")
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[server]
base_url = "https://t2t.example.com/"
timeout_secs = 45

[ui]
theme = "light"
default_mode = "research"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.BaseURL != "https://t2t.example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSecs != 45 {
		t.Errorf("TimeoutSecs = %d, want 45", cfg.Server.TimeoutSecs)
	}
	if cfg.Mode() != "research" {
		t.Errorf("Mode() = %q, want research", cfg.Mode())
	}
	if cfg.Server.MaxRetries != DefaultMaxRetries {
		t.Errorf("unset MaxRetries = %d, want default %d", cfg.Server.MaxRetries, DefaultMaxRetries)
	}
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.json"), `{"ui": {"theme": "auto"}}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want auto", cfg.UI.Theme)
	}
}

func TestLoad_BrokenFileFallsBackToDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[server\nbase_url = ")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() should report the parse error")
	}
	if cfg == nil || cfg.Server.BaseURL != DefaultBaseURL {
		t.Fatalf("Load() should still return defaults, got %+v", cfg)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[ui]\ntheme = \"neon\"\n")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an invalid theme")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("T2T_BASE_URL", "https://env.example.com")
	t.Setenv("T2T_TIMEOUT", "15")
	t.Setenv("T2T_THEME", "light")
	t.Setenv("T2T_DEFAULT_MODE", "document")
	t.Setenv("T2T_CHECKOUT_TIER", "tier2")
	t.Setenv("T2T_LOG_LEVEL", "debug")
	t.Setenv("T2T_EXPORT_DIR", "/tmp/exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.BaseURL != "https://env.example.com" ||
		cfg.Server.TimeoutSecs != 15 ||
		cfg.UI.Theme != "light" ||
		cfg.UI.DefaultMode != "document" ||
		cfg.Server.CheckoutTier != "tier2" ||
		cfg.Log.Level != "debug" ||
		cfg.ExportDir() != "/tmp/exports" {
		t.Errorf("env overrides not applied: %s", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	writeFile(t, ".env", "T2T_CHECKOUT_TIER=tier3\n")
	os.Unsetenv("T2T_CHECKOUT_TIER")
	t.Cleanup(func() { os.Unsetenv("T2T_CHECKOUT_TIER") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.CheckoutTier != "tier3" {
		t.Errorf("CheckoutTier = %q, want tier3 from .env", cfg.Server.CheckoutTier)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.Export.Dir = "~/exports"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	path := filepath.Join(dir, "config.toml")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.PathSeparator == '/' {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.UI.Theme != "light" || loaded.Export.Dir != "~/exports" {
		t.Errorf("round trip lost values: %s", loaded)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[ui]\ntheme = \"dark\"\n")
	_ = Global()

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		}, nil)
	}()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-changed:
			if c.UI.Theme == "light" {
				if Global().UI.Theme != "light" {
					t.Error("global config not reloaded")
				}
				return
			}
		case <-tick.C:
			// Rewrite until the watcher is registered and sees it.
			writeFile(t, path, "[ui]\ntheme = \"light\"\n")
		case <-deadline:
			t.Fatal("Watch() never reported the change")
		}
	}
}
