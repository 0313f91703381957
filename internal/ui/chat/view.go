// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the ollama-lan TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ollama-lan/internal/model"
)

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting ollama-lan..."
	}

	if m.picker != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.picker.Render())
	}

	var b strings.Builder
	b.WriteString(m.header.Render())
	b.WriteString("\n")

	transcript := m.viewport.View()
	if m.width >= sidePanelMinWidth {
		transcript = lipgloss.JoinHorizontal(lipgloss.Top, transcript, m.panel.Render())
	}
	b.WriteString(transcript)
	b.WriteString("\n")

	prompt := m.input.View()
	if m.streaming {
		prompt = m.spinner.View() + " " + prompt
	}
	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(prompt))
	b.WriteString("\n")

	b.WriteString(m.statusBar.Render())
	return b.String()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from the current
// snapshot and sticks to the bottom.
func (m *Model) refreshTranscript() {
	var b strings.Builder
	for i, msg := range m.snapshot.Display {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renderMessage renders a single transcript entry. Assistant messages go
// through the markdown renderer; user and system text stays verbatim.
func (m *Model) renderMessage(msg model.Message) string {
	switch msg.Role {
	case model.RoleAssistant:
		label := m.theme.AssistantLabel.Render(msg.Role.DisplayName())
		content := msg.Content
		if strings.HasPrefix(content, "[Error] ") {
			return label + "\n" + m.theme.ErrorText.Render(content)
		}
		return label + "\n" + m.theme.AssistantText.Render(m.markdown.Render(content))
	case model.RoleSystem:
		label := m.theme.SystemLabel.Render(msg.Role.DisplayName())
		return label + "\n" + m.theme.SystemText.Render(msg.Content)
	default:
		label := m.theme.UserLabel.Render(msg.Role.DisplayName())
		return label + "\n" + m.theme.UserText.Render(msg.Content)
	}
}

// setTranscriptNotice shows local informational text (help, command
// errors) in the transcript without touching the conversation.
func (m *Model) setTranscriptNotice(text string) {
	m.viewport.SetContent(m.theme.Hint.Render(text))
	m.viewport.GotoTop()
}
