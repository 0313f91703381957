// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine runs chat turns against an Ollama server and publishes
// UI snapshots.
package engine

import (
	"fmt"

	"github.com/jeranaias/ollama-lan/internal/ollama"
)

// Metrics placeholders. Absent telemetry is stated outright, never
// rendered as a zero-filled table.
const (
	// NoMetricsYet is shown before and during a turn.
	NoMetricsYet = "No metrics yet."
	// NoMetricsReturned is shown after a turn that completed without
	// server telemetry.
	NoMetricsReturned = "No metrics returned by Ollama."
)

// NsToSeconds converts a nanosecond counter to seconds. Non-positive
// input yields 0.0.
func NsToSeconds(ns int64) float64 {
	if ns <= 0 {
		return 0.0
	}
	return float64(ns) / 1e9
}

// ComputeSpeed converts a token count and a nanosecond duration to
// tokens per second. A zero count or non-positive duration yields 0.0
// rather than NaN or Inf.
func ComputeSpeed(count int64, durationNs int64) float64 {
	seconds := NsToSeconds(durationNs)
	if count == 0 || seconds <= 0 {
		return 0.0
	}
	return float64(count) / seconds
}

// FormatMetrics renders turn telemetry as the response-metrics panel.
// A nil telemetry means the server never sent a final event with
// counters; the caller should show NoMetricsReturned instead.
func FormatMetrics(t *ollama.Telemetry) string {
	if t == nil {
		return NoMetricsReturned
	}

	promptTps := ComputeSpeed(t.PromptEvalCount, t.PromptEvalDuration)
	genTps := ComputeSpeed(t.EvalCount, t.EvalDuration)
	totalS := NsToSeconds(t.TotalDuration)
	loadS := NsToSeconds(t.LoadDuration)

	return "### Response Metrics\n" +
		fmt.Sprintf("- Prompt speed: **%.2f tok/s**\n", promptTps) +
		fmt.Sprintf("- Generation speed: **%.2f tok/s**\n", genTps) +
		fmt.Sprintf("- Total duration: **%.2f s**\n", totalS) +
		fmt.Sprintf("- Load duration: **%.2f s**", loadS)
}
