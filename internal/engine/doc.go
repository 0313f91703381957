// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine runs chat turns against an Ollama server and publishes
// UI snapshots.
//
// The engine is the session core shared by every front-end (TUI, one-
// shot ask, REPL). It owns the conversation's dual histories, the model
// metadata map, and the active model selection, and it exposes exactly
// one way to observe a running turn: a channel of Snapshot values.
//
// # Turn lifecycle
//
// Send validates the input (blank message or missing model selection is
// a no-op), appends the user message and an empty assistant placeholder
// to the display history, then streams deltas from the server. Partial
// snapshots are throttled by EmissionGate; the accumulated text is
// always complete regardless of how many snapshots were dropped. On
// success the display copy is math-normalized, the replay history gains
// the raw exchange, and a Ready snapshot with rendered metrics closes
// the turn. On failure the placeholder is overwritten with an [Error]
// annotation and the replay history is left untouched.
//
// # Usage
//
//	eng := engine.New(ollama.NewClient(cfg.URL))
//	eng.RefreshModels(ctx, cfg.Model)
//	for snap := range eng.Send(ctx, "why is the sky blue?") {
//	    render(snap)
//	}
package engine
