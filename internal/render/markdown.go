// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns raw assistant output into presentable text:
// math notation normalization and markdown rendering.
package render

import (
	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown for terminal display. A nil or
// failed-to-initialize renderer degrades to plain text, never to an
// error the caller has to handle.
type Markdown struct {
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a terminal markdown renderer wrapped at the given
// width. Width 0 disables wrapping.
func NewMarkdown(wordWrap int) *Markdown {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
	}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return &Markdown{}
	}
	return &Markdown{renderer: renderer}
}

// Render renders markdown content, normalizing math notation first.
// Returns the input unchanged when the renderer is unavailable or
// rendering fails.
func (m *Markdown) Render(content string) string {
	normalized := NormalizeMath(content)
	if m == nil || m.renderer == nil {
		return normalized
	}
	rendered, err := m.renderer.Render(normalized)
	if err != nil {
		return normalized
	}
	return rendered
}
