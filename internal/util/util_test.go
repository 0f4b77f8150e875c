// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.md")

	require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.html")

	require.NoError(t, AtomicWriteFile(path, []byte("<p>x</p>"), 0644))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Physics", 10, "Physics"},
		{"cut with ellipsis", "Mathematics", 8, "Mathe..."},
		{"tiny width", "Mathematics", 2, "Ma"},
		{"zero", "Mathematics", 0, ""},
		{"wide runes", "数学数学数学", 7, "数学..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateWidth(tc.in, tc.width))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "en   ", PadRight("en", 5))
	assert.Equal(t, "english", PadRight("english", 3))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Hello!", FirstLine("\n  \n  Hello!\nmore"))
	assert.Equal(t, "", FirstLine("   "))
}
