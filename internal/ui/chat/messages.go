// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the ollama-lan TUI.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SnapshotMsg delivers one engine snapshot to the view.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// TurnDoneMsg signals that the snapshot channel for a turn has closed.
type TurnDoneMsg struct{}

// RegistryMsg delivers the result of a model-registry refresh.
type RegistryMsg struct {
	Update engine.RegistryUpdate
}

// ConfigReloadedMsg delivers a hot-reloaded configuration. Sent by the
// fsnotify watcher in main via Program.Send.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForSnapshot blocks on the turn's snapshot channel. The update loop
// re-issues it after every SnapshotMsg until the channel closes.
func waitForSnapshot(ch <-chan engine.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return TurnDoneMsg{}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// refreshModelsCmd refreshes the model registry.
func refreshModelsCmd(eng *engine.Engine, preferred string) tea.Cmd {
	return func() tea.Msg {
		return RegistryMsg{Update: eng.RefreshModels(context.Background(), preferred)}
	}
}

// startTurnCmd kicks off a turn and hands back the first snapshot wait.
func startTurnCmd(eng *engine.Engine, ctx context.Context, input string) (<-chan engine.Snapshot, tea.Cmd) {
	ch := eng.Send(ctx, input)
	return ch, waitForSnapshot(ch)
}
