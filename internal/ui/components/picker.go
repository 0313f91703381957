// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ollama-lan TUI.
package components

import (
	"strings"

	"github.com/jeranaias/ollama-lan/internal/ui/styles"
)

// =============================================================================
// MODEL PICKER COMPONENT
// =============================================================================

// Picker is the model selection overlay. Navigation wraps at both ends.
type Picker struct {
	Items    []string
	Cursor   int
	Selected string // Currently active model, marked in the list
	theme    *styles.Theme
}

// NewPicker creates a picker over the given model names.
func NewPicker(theme *styles.Theme, items []string, selected string) *Picker {
	cursor := 0
	for i, item := range items {
		if item == selected {
			cursor = i
			break
		}
	}
	return &Picker{
		Items:    items,
		Cursor:   cursor,
		Selected: selected,
		theme:    theme,
	}
}

// MoveUp moves the cursor up, wrapping to the bottom.
func (p *Picker) MoveUp() {
	if len(p.Items) == 0 {
		return
	}
	p.Cursor = (p.Cursor - 1 + len(p.Items)) % len(p.Items)
}

// MoveDown moves the cursor down, wrapping to the top.
func (p *Picker) MoveDown() {
	if len(p.Items) == 0 {
		return
	}
	p.Cursor = (p.Cursor + 1) % len(p.Items)
}

// Current returns the model name under the cursor, or "" when empty.
func (p *Picker) Current() string {
	if p.Cursor < 0 || p.Cursor >= len(p.Items) {
		return ""
	}
	return p.Items[p.Cursor]
}

// Render renders the picker box.
func (p *Picker) Render() string {
	var b strings.Builder
	b.WriteString(p.theme.PanelTitle.Render("Select Model"))
	b.WriteString("\n\n")

	if len(p.Items) == 0 {
		b.WriteString(p.theme.Hint.Render("No models installed."))
	}

	for i, item := range p.Items {
		marker := "  "
		if item == p.Selected {
			marker = "* "
		}
		line := marker + item
		if i == p.Cursor {
			line = p.theme.PickerItemSelected.Render("> " + line)
		} else {
			line = p.theme.PickerItem.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.theme.Hint.Render("enter select | esc close"))
	return p.theme.PickerBox.Render(b.String())
}
