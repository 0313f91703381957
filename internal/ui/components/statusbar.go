// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ollama-lan TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/ui/styles"
	"github.com/jeranaias/ollama-lan/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom bar: connection status on the left, generation
// speed and key hints on the right.
type StatusBar struct {
	Status     engine.Status
	TokensPerS float64 // Generation speed of the last turn (0 = hide)
	Width      int
	theme      *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: engine.StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width
func (sb *StatusBar) SetWidth(width int) {
	sb.Width = width
}

// SetStatus updates the displayed status
func (sb *StatusBar) SetStatus(status engine.Status) {
	sb.Status = status
}

// SetSpeed updates the displayed generation speed
func (sb *StatusBar) SetSpeed(tokensPerS float64) {
	sb.TokensPerS = tokensPerS
}

// statusStyle picks the style for the current status.
func (sb *StatusBar) statusStyle() lipgloss.Style {
	switch sb.Status {
	case engine.StatusReady:
		return sb.theme.StatusReady
	case engine.StatusThinking:
		return sb.theme.StatusThinking
	case engine.StatusGenerating:
		return sb.theme.StatusGenerating
	default:
		return sb.theme.StatusError
	}
}

// Render renders the status bar to a single line.
func (sb *StatusBar) Render() string {
	left := sb.statusStyle().Render(sb.Status.Label())

	var parts []string
	if sb.TokensPerS > 0 {
		parts = append(parts, util.FloatToString(sb.TokensPerS)+" tok/s")
	}
	parts = append(parts, "ctrl+p models", "esc cancel", "ctrl+c quit")
	right := sb.theme.Hint.Render(strings.Join(parts, " | "))

	gap := sb.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return sb.theme.StatusBar.Width(sb.Width).Render(line)
}
