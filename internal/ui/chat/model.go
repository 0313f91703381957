// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the ollama-lan TUI.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/render"
	"github.com/jeranaias/ollama-lan/internal/storage"
	"github.com/jeranaias/ollama-lan/internal/ui/components"
	"github.com/jeranaias/ollama-lan/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// sidePanelMinWidth is the narrowest terminal at which the side panel
// is shown; below it the transcript takes the full width.
const sidePanelMinWidth = 100

// Model is the Bubble Tea model for the chat view. It owns no session
// state of its own: everything it renders comes from engine snapshots.
type Model struct {
	cfg    *config.Config
	engine *engine.Engine
	store  *storage.Store // nil when persistence is disabled
	theme  *styles.Theme

	// Components
	header    *components.Header
	statusBar *components.StatusBar
	panel     *components.Panel
	picker    *components.Picker // non-nil while the model picker is open

	// Bubbles
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Markdown renderer for the transcript
	markdown *render.Markdown

	// Turn state
	snapshots  <-chan engine.Snapshot
	cancelTurn context.CancelFunc
	streaming  bool
	snapshot   engine.Snapshot

	// Layout
	width  int
	height int
	ready  bool

	quitting bool
}

// New creates a new chat model over an engine.
func New(cfg *config.Config, eng *engine.Engine, store *storage.Store, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	m := Model{
		cfg:       cfg,
		engine:    eng,
		store:     store,
		theme:     theme,
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		panel:     components.NewPanel(theme, 40),
		input:     ti,
		viewport:  vp,
		spinner:   sp,
		markdown:  render.NewMarkdown(cfg.UI.WordWrap),
		snapshot:  eng.Current(),
	}
	m.header.SetServerURL(cfg.Server.BaseURL)
	return m
}

// Init starts the initial model refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		refreshModelsCmd(m.engine, m.cfg.Model.Preferred),
	)
}

// saveSession persists the current conversation, if enabled.
func (m *Model) saveSession() {
	if m.store == nil {
		return
	}
	conv := m.engine.Conversation()
	if conv.IsEmpty() {
		return
	}
	// Shutdown path; the error has nowhere useful to go.
	_ = m.store.Save(conv)
}
