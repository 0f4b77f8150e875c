// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the tatvax packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation (Devanagari, Tamil, CJK)
//   - PadRight: pad to a display width
//   - FirstLine: first non-empty line of a block of text
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.TruncateWidth(subject.Name, 24)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
