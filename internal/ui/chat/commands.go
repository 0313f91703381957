// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the ollama-lan TUI.
package chat

import (
	"strings"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// Command is a parsed slash command from the input line.
type Command struct {
	Name string // "clear", "model", "help", "quit"
	Arg  string // remainder after the name, trimmed
}

// ParseCommand recognizes a slash command in an input line. Returns
// ok=false for ordinary chat input. Only lines starting with "/" are
// commands; leading whitespace is tolerated.
func ParseCommand(input string) (Command, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}

	fields := strings.SplitN(strings.TrimPrefix(trimmed, "/"), " ", 2)
	name := strings.ToLower(strings.TrimSpace(fields[0]))
	if name == "" {
		return Command{}, false
	}

	var arg string
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}

	return Command{Name: name, Arg: arg}, true
}

// helpText lists the in-chat commands.
const helpText = `Commands:
  /clear          Clear the conversation
  /model [name]   Switch model (no name opens the picker)
  /help           Show this help
  /quit           Save the session and exit

Keys:
  enter   Send
  esc     Cancel generation / close picker
  ctrl+p  Model picker
  ctrl+l  Clear conversation
  ctrl+c  Quit`
