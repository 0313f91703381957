// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ollama-lan TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ollama-lan/internal/ui/styles"
	"github.com/jeranaias/ollama-lan/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: app name on the left, server URL and selected
// model on the right.
type Header struct {
	Title     string // Main title (default: "ollama-lan")
	ServerURL string // Normalized Ollama base URL
	ModelName string // Current model name
	Width     int    // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "ollama-lan",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model name
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// SetServerURL updates the displayed server URL
func (h *Header) SetServerURL(url string) {
	h.ServerURL = url
}

// Render renders the header to a single line.
func (h *Header) Render() string {
	title := h.theme.HeaderTitle.Render(h.Title)

	right := h.ServerURL
	if h.ModelName != "" {
		right = h.ModelName + "  " + right
	}
	// Column-based truncation: CJK model names count double width.
	right = h.theme.HeaderSubtitle.Render(util.TruncateWidth(right, h.Width/2))

	gap := h.Width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	line := title + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(h.Width).Render(line)
}
