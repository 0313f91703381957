// terminal.go - Terminal detection helpers for the ollama-lan CLI.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when the real width cannot be detected.
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the floor for word-wrapped output.
	MinTerminalWidth = 40
)

// IsTTY reports whether stdin is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is an interactive terminal.
// False when output is piped or redirected.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the current terminal width in columns.
// Falls back to DefaultTerminalWidth when detection fails and clamps
// to MinTerminalWidth so rendering stays readable on tiny terminals.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}
