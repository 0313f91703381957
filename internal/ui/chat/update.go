// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the ollama-lan TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/render"
	"github.com/jeranaias/ollama-lan/internal/ui/components"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		// Keep draining until the turn closes its channel.
		return m, waitForSnapshot(m.snapshots)

	case TurnDoneMsg:
		m.streaming = false
		m.cancelTurn = nil
		m.snapshots = nil
		return m, nil

	case RegistryMsg:
		m.applyRegistry(msg.Update)
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg.Cfg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The picker swallows all keys while open.
	if m.picker != nil {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.saveSession()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Cancel):
		if m.cancelTurn != nil {
			m.cancelTurn()
		}
		return m, nil

	case key.Matches(msg, keys.Picker):
		m.openPicker()
		return m, nil

	case key.Matches(msg, keys.Clear):
		m.applySnapshot(m.engine.Clear())
		return m, nil

	case key.Matches(msg, keys.Send):
		return m.handleSend()
	}

	// Let the viewport handle scrolling keys, then the input.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker.MoveUp()
	case "down", "j":
		m.picker.MoveDown()
	case "enter":
		if name := m.picker.Current(); name != "" {
			m.applySnapshot(m.engine.SetModel(name))
			m.header.SetModel(name)
		}
		m.picker = nil
	case "esc", "ctrl+p":
		m.picker = nil
	case "ctrl+c":
		m.saveSession()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleSend submits the input line: slash commands run locally,
// everything else starts a turn.
func (m Model) handleSend() (tea.Model, tea.Cmd) {
	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	if cmd, ok := ParseCommand(input); ok {
		m.input.Reset()
		return m.runCommand(cmd)
	}

	if m.streaming {
		// One turn at a time.
		return m, nil
	}

	m.input.Reset()
	m.streaming = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTurn = cancel

	ch, wait := startTurnCmd(m.engine, ctx, input)
	m.snapshots = ch
	return m, wait
}

func (m Model) runCommand(cmd Command) (tea.Model, tea.Cmd) {
	switch cmd.Name {
	case "clear":
		m.applySnapshot(m.engine.Clear())
	case "model":
		if cmd.Arg == "" {
			m.openPicker()
		} else {
			m.applySnapshot(m.engine.SetModel(cmd.Arg))
			m.header.SetModel(cmd.Arg)
		}
	case "help":
		m.setTranscriptNotice(helpText)
	case "quit", "exit":
		m.saveSession()
		m.quitting = true
		return m, tea.Quit
	default:
		m.setTranscriptNotice("Unknown command: /" + cmd.Name + "\n\n" + helpText)
	}
	return m, nil
}

// =============================================================================
// STATE APPLICATION
// =============================================================================

// applySnapshot folds an engine snapshot into the view.
func (m *Model) applySnapshot(snap engine.Snapshot) {
	m.snapshot = snap
	m.statusBar.SetStatus(snap.Status)
	if snap.Speed > 0 {
		m.statusBar.SetSpeed(snap.Speed)
	}
	m.panel.SetContent(snap.ModelInfo, snap.Metrics)
	m.refreshTranscript()
}

// applyConfig folds a hot-reloaded configuration into the view. Only
// presentation settings apply live; a base URL or history change takes
// effect on the next start.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.markdown = render.NewMarkdown(cfg.UI.WordWrap)
	m.header.SetServerURL(cfg.Server.BaseURL)
	m.refreshTranscript()
}

// applyRegistry folds a registry refresh into the view.
func (m *Model) applyRegistry(update engine.RegistryUpdate) {
	m.statusBar.SetStatus(update.Status)
	m.header.SetModel(update.Selected)
	m.panel.SetContent(update.ModelInfo, m.snapshot.Metrics)
	m.refreshTranscript()
}

func (m *Model) openPicker() {
	m.picker = components.NewPicker(m.theme, m.engine.ModelNames(), m.engine.SelectedModel())
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)

	transcriptWidth := msg.Width
	if msg.Width >= sidePanelMinWidth {
		panelWidth := msg.Width / 3
		m.panel.SetWidth(panelWidth)
		transcriptWidth = msg.Width - panelWidth
	}

	// Header, input box, and status bar take the vertical margins.
	m.viewport.Width = transcriptWidth
	m.viewport.Height = msg.Height - 6
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.Width = msg.Width - 6

	m.ready = true
	m.refreshTranscript()
	return m
}
