// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/model"
	"github.com/jeranaias/ollama-lan/internal/ollama"
	"github.com/jeranaias/ollama-lan/internal/ui/styles"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantName string
		wantArg  string
	}{
		{"plain text", "hello there", false, "", ""},
		{"clear", "/clear", true, "clear", ""},
		{"model with arg", "/model qwen3:8b", true, "model", "qwen3:8b"},
		{"model no arg", "/model", true, "model", ""},
		{"leading whitespace", "  /help", true, "help", ""},
		{"uppercase name", "/QUIT", true, "quit", ""},
		{"arg whitespace trimmed", "/model   qwen3:8b  ", true, "model", "qwen3:8b"},
		{"bare slash", "/", false, "", ""},
		{"slash mid-sentence", "use /clear to reset", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := ParseCommand(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseCommand(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cmd.Name != tt.wantName || cmd.Arg != tt.wantArg {
				t.Errorf("ParseCommand(%q) = %+v, want name=%q arg=%q",
					tt.input, cmd, tt.wantName, tt.wantArg)
			}
		})
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.SetDefaults()
	eng := engine.New(ollama.NewClient(cfg.Server.BaseURL))
	return New(cfg, eng, nil, styles.NewTheme("dark"))
}

func resize(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func TestModel_ResizeMakesReady(t *testing.T) {
	m := newTestModel(t)
	if m.ready {
		t.Fatal("model ready before first resize")
	}

	m = resize(t, m, 120, 40)
	if !m.ready {
		t.Error("model not ready after resize")
	}
	if m.viewport.Height < 3 {
		t.Errorf("viewport height = %d", m.viewport.Height)
	}

	out := m.View()
	if !strings.Contains(out, "ollama-lan") {
		t.Errorf("view missing header: %q", out)
	}
}

func TestModel_SnapshotUpdatesTranscript(t *testing.T) {
	m := resize(t, newTestModel(t), 80, 30)

	snap := engine.Snapshot{
		Display: []model.Message{
			model.NewUserMessage("what is 2+2"),
			model.NewAssistantMessage("The answer is **4**."),
		},
		Status:  engine.StatusReady,
		Metrics: engine.NoMetricsYet,
		Speed:   12.5,
	}
	m.applySnapshot(snap)

	out := m.viewport.View()
	if !strings.Contains(out, "what is 2+2") {
		t.Errorf("transcript missing user message: %q", out)
	}
	if !strings.Contains(m.statusBar.Render(), "12.50 tok/s") {
		t.Error("status bar missing speed from snapshot")
	}
}

func TestModel_ErrorContentRendersAsError(t *testing.T) {
	m := resize(t, newTestModel(t), 80, 30)

	rendered := m.renderMessage(model.NewAssistantMessage("[Error] connection refused"))
	if !strings.Contains(rendered, "[Error] connection refused") {
		t.Errorf("error content lost: %q", rendered)
	}
}

func TestModel_TurnDoneResetsStreaming(t *testing.T) {
	m := resize(t, newTestModel(t), 80, 30)
	m.streaming = true

	updated, _ := m.Update(TurnDoneMsg{})
	m = updated.(Model)
	if m.streaming {
		t.Error("streaming still set after TurnDoneMsg")
	}
	if m.snapshots != nil || m.cancelTurn != nil {
		t.Error("turn state not cleared after TurnDoneMsg")
	}
}

func TestModel_PickerOpensAndCloses(t *testing.T) {
	m := resize(t, newTestModel(t), 80, 30)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m = updated.(Model)
	if m.picker == nil {
		t.Fatal("picker not open after ctrl+p")
	}

	out := m.View()
	if !strings.Contains(out, "Select Model") {
		t.Errorf("picker view not shown: %q", out)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.picker != nil {
		t.Error("picker still open after esc")
	}
}

func TestModel_HelpCommandShowsHelp(t *testing.T) {
	m := resize(t, newTestModel(t), 80, 30)

	updated, _ := m.runCommand(Command{Name: "help"})
	m = updated.(Model)
	if !strings.Contains(m.viewport.View(), "/clear") {
		t.Error("help text not shown in transcript")
	}
}

func TestModel_BlankSendIsNoOp(t *testing.T) {
	m := resize(t, newTestModel(t), 80, 30)
	m.input.SetValue("   ")

	updated, cmd := m.handleSend()
	m = updated.(Model)
	if cmd != nil {
		t.Error("blank input produced a command")
	}
	if m.streaming {
		t.Error("blank input started a turn")
	}
}

func TestModel_ConfigReloadUpdatesView(t *testing.T) {
	m := resize(t, newTestModel(t), 120, 40)

	next := config.Default()
	next.SetDefaults()
	next.Server.BaseURL = "http://box:9999"
	next.UI.WordWrap = 60

	updated, _ := m.Update(ConfigReloadedMsg{Cfg: next})
	m = updated.(Model)

	if m.cfg.UI.WordWrap != 60 {
		t.Errorf("word wrap = %d, want 60 after reload", m.cfg.UI.WordWrap)
	}
	if !strings.Contains(m.header.Render(), "box:9999") {
		t.Error("header does not show the reloaded server URL")
	}
}

func TestModel_ConfigReloadNilIsNoOp(t *testing.T) {
	m := resize(t, newTestModel(t), 120, 40)
	before := m.cfg

	updated, _ := m.Update(ConfigReloadedMsg{Cfg: nil})
	m = updated.(Model)
	if m.cfg != before {
		t.Error("nil reload replaced the config")
	}
}

func TestModel_ModelCommandUpdatesHeader(t *testing.T) {
	m := resize(t, newTestModel(t), 120, 40)

	updated, _ := m.runCommand(Command{Name: "model", Arg: "qwen3:8b"})
	m = updated.(Model)

	if !strings.Contains(m.header.Render(), "qwen3:8b") {
		t.Error("header does not show the switched model")
	}
}
