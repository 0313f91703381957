// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the ollama-lan application.
//
// This package contains common helper functions used throughout the
// application for string manipulation, display formatting, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//
// Display Formatting:
//   - FormatBytes: humanized byte sizes ("4.20 GB")
//   - FormatContextLength: context window sizes ("128k", "1.5k")
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
//
//	// Humanize a VRAM size from the API
//	s := util.FormatBytes(modelMeta.SizeVRAM)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
