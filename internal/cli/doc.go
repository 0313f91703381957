// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the ollama-lan command line interface.
//
// The package parses arguments, applies global flag overrides on top of
// the loaded configuration, and provides the non-TUI command handlers:
//
//   - ask:      one-shot prompt, streamed to stdout
//   - chat:     liner-based REPL with input history
//   - sessions: list/show/search/delete saved conversations
//
// The full-screen TUI itself lives in internal/ui/chat; main wires it up
// when no subcommand is given.
package cli
