// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine runs chat turns against an Ollama server and publishes
// UI snapshots.
package engine

import "time"

// Emission thresholds. Re-rendering the transcript on every token
// wastes cycles at high token rates, so partial snapshots are gated on
// accumulated growth or elapsed time.
const (
	// EmitMinChars is the accumulated-character growth that forces an
	// emission.
	EmitMinChars = 24
	// EmitMinInterval is the elapsed time since the last emission that
	// forces one.
	EmitMinInterval = 120 * time.Millisecond
)

// EmissionGate decides when a partial snapshot is worth publishing.
// The gate only throttles emission, never accumulation: the text
// buffer it observes is always complete.
//
// Times are passed in explicitly so the policy is testable without
// sleeping.
type EmissionGate struct {
	lastEmit time.Time
	lastLen  int
}

// NewEmissionGate creates a gate. The start time counts as the first
// emission, matching the initial placeholder snapshot the turn sends.
func NewEmissionGate(start time.Time) *EmissionGate {
	return &EmissionGate{lastEmit: start}
}

// ShouldEmit reports whether a partial snapshot should be published:
// the text grew by at least EmitMinChars since the last emission, or at
// least EmitMinInterval elapsed, or the event was a thinking-only
// heartbeat (which must surface promptly because no text growth will
// ever trigger the other conditions).
func (g *EmissionGate) ShouldEmit(now time.Time, textLen int, thinkingOnly bool) bool {
	return textLen-g.lastLen >= EmitMinChars ||
		now.Sub(g.lastEmit) >= EmitMinInterval ||
		thinkingOnly
}

// Record marks an emission at the given time and text length.
func (g *EmissionGate) Record(now time.Time, textLen int) {
	g.lastEmit = now
	g.lastLen = textLen
}
