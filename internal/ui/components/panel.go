// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ollama-lan TUI.
package components

import (
	"strings"

	"github.com/jeranaias/ollama-lan/internal/render"
	"github.com/jeranaias/ollama-lan/internal/ui/styles"
)

// =============================================================================
// SIDE PANEL COMPONENT
// =============================================================================

// Panel renders the markdown side panel holding the selected model's
// metadata and the response metrics of the latest turn.
type Panel struct {
	ModelInfo string // Markdown from the model registry
	Metrics   string // Markdown from the metrics aggregator
	Width     int
	theme     *styles.Theme
	markdown  *render.Markdown
}

// NewPanel creates a new side panel.
func NewPanel(theme *styles.Theme, width int) *Panel {
	return &Panel{
		Width:    width,
		theme:    theme,
		markdown: render.NewMarkdown(width - 4),
	}
}

// SetWidth updates the panel width and rebuilds the renderer to match.
func (p *Panel) SetWidth(width int) {
	if width == p.Width {
		return
	}
	p.Width = width
	p.markdown = render.NewMarkdown(width - 4)
}

// SetContent updates the panel sections.
func (p *Panel) SetContent(modelInfo, metrics string) {
	p.ModelInfo = modelInfo
	p.Metrics = metrics
}

// Render renders the panel box.
func (p *Panel) Render() string {
	var sections []string
	if p.ModelInfo != "" {
		sections = append(sections, p.markdown.Render(p.ModelInfo))
	}
	if p.Metrics != "" {
		sections = append(sections, p.markdown.Render(p.Metrics))
	}

	body := strings.TrimRight(strings.Join(sections, "\n"), "\n")
	return p.theme.Panel.Width(p.Width - 2).Render(body)
}
