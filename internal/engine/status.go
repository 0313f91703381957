// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine runs chat turns against an Ollama server and publishes
// UI snapshots.
package engine

// Status is the session state surfaced in the header.
type Status int

const (
	// StatusReady means the session is idle and can accept a turn.
	StatusReady Status = iota
	// StatusThinking means the model is emitting a reasoning trace.
	StatusThinking
	// StatusGenerating means the model is emitting answer text.
	StatusGenerating
	// StatusError means the last turn failed or the server is unreachable.
	StatusError
)

// String returns the machine-readable status name.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusThinking:
		return "thinking"
	case StatusGenerating:
		return "generating"
	case StatusError:
		return "error"
	default:
		return "error"
	}
}

// Label returns the status as shown in the header. The mapping is
// total: out-of-range values degrade to the error label rather than
// panicking.
func (s Status) Label() string {
	switch s {
	case StatusReady:
		return "🟢 Ready"
	case StatusThinking:
		return "🧠 Thinking"
	case StatusGenerating:
		return "✍ Generating"
	case StatusError:
		return "⚠️ Ollama unreachable"
	default:
		return "⚠️ Ollama unreachable"
	}
}
