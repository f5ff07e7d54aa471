// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("base_url = \"http://localhost:5000\"\n")},
		{"empty", []byte{}},
		{"large", make([]byte, 1<<20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.bin")
			require.NoError(t, AtomicWriteFile(path, tt.data, 0644))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), len(got))
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, AtomicWriteFile(path, []byte(`{"old":true}`), 0600))
	require.NoError(t, AtomicWriteFile(path, []byte(`{"new":true}`), 0600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"new":true}`, string(got))
}

func TestAtomicWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		require.NoError(t, AtomicWriteFile(filepath.Join(dir, "config.toml"), []byte("x"), 0600))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	tests := []struct {
		name     string
		perm     os.FileMode
		wantDir  os.FileMode
		wantFile os.FileMode
	}{
		{"private file gets a private directory", 0600, 0700, 0600},
		{"shared file", 0644, 0755, 0644},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "dir")
			path := filepath.Join(dir, "file")
			require.NoError(t, AtomicWriteFile(path, []byte("data"), tt.perm))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, info.Mode().Perm())

			dirInfo, err := os.Stat(dir)
			require.NoError(t, err)
			// umask can only remove bits.
			assert.Zero(t, dirInfo.Mode().Perm()&^tt.wantDir)
		})
	}
}

func TestAtomicWriteFile_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0644))

	assert.Error(t, AtomicWriteFile(target, []byte("data"), 0644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is removed on failure")
}
