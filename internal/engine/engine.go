// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine runs chat turns against an Ollama server and publishes
// UI snapshots.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/ollama-lan/internal/model"
	"github.com/jeranaias/ollama-lan/internal/ollama"
	"github.com/jeranaias/ollama-lan/internal/render"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is one observable state of the session. Every snapshot is
// self-contained: histories are copies, and the metrics and model-info
// panels are fully rendered. Consumers render snapshots as-is and never
// reach back into the engine.
type Snapshot struct {
	Display   []model.Message
	Replay    []model.Message
	Status    Status
	Metrics   string
	ModelInfo string

	// Speed is the generation speed of a just-completed turn in tokens
	// per second. Zero on every snapshot except the final Ready one.
	Speed float64

	// Err carries the cause when Status is StatusError.
	Err error
}

// =============================================================================
// REGISTRY UPDATE
// =============================================================================

// RegistryUpdate is the result of a model-registry refresh.
type RegistryUpdate struct {
	Names     []string
	Selected  string
	ModelInfo string
	Status    Status
	Err       error
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine owns one chat session: the conversation, the model metadata
// map, and the active model selection. All session state lives here,
// scoped to the instance; two engines never share state.
//
// A mutex serializes turns: Send on a busy engine blocks until the
// in-flight turn finishes.
type Engine struct {
	client *ollama.Client

	mu     sync.Mutex
	conv   *model.Conversation
	models model.Map
}

// New creates an engine for the given client with an empty conversation.
func New(client *ollama.Client) *Engine {
	return &Engine{
		client: client,
		conv:   model.NewConversation(""),
		models: model.Map{},
	}
}

// NewWithConversation creates an engine resuming an existing conversation.
func NewWithConversation(client *ollama.Client, conv *model.Conversation) *Engine {
	return &Engine{
		client: client,
		conv:   conv,
		models: model.Map{},
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SelectedModel returns the active model name, or "" when none is selected.
func (e *Engine) SelectedModel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.Model
}

// ModelNames returns the known model names, sorted.
func (e *Engine) ModelNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.models))
	for name := range e.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Conversation returns a deep copy of the current conversation, safe to
// persist while a turn is idle or running.
func (e *Engine) Conversation() *model.Conversation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.Clone()
}

// SetModel switches the active model and returns the resulting snapshot.
func (e *Engine) SetModel(name string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conv.Model = name
	return e.snapshotLocked(StatusReady, NoMetricsYet, nil)
}

// Clear wipes both histories, keeping the model selection and metadata.
func (e *Engine) Clear() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conv.Clear()
	return e.snapshotLocked(StatusReady, NoMetricsYet, nil)
}

// Current returns a snapshot of the present state without running a turn.
func (e *Engine) Current() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(StatusReady, NoMetricsYet, nil)
}

// snapshotLocked builds a self-contained snapshot. Caller holds e.mu.
func (e *Engine) snapshotLocked(status Status, metrics string, err error) Snapshot {
	return Snapshot{
		Display:   append([]model.Message(nil), e.conv.Display...),
		Replay:    append([]model.Message(nil), e.conv.Replay...),
		Status:    status,
		Metrics:   metrics,
		ModelInfo: model.BuildModelInfo(e.conv.Model, e.models),
		Err:       err,
	}
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// RefreshModels fetches the installed models and picks the active one:
// the preferred model when installed, otherwise the first listed. An
// unreachable registry clears the selection and reports an error status;
// it never terminates the session.
func (e *Engine) RefreshModels(ctx context.Context, preferred string) RegistryUpdate {
	infos, err := e.client.ListModels(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.models = model.Map{}
		e.conv.Model = ""
		return RegistryUpdate{
			Status: StatusError,
			ModelInfo: fmt.Sprintf(
				"### Selected Model\nUnavailable. Could not reach `%s`.\n\n`%v`",
				e.client.BaseURL(), err),
			Err: err,
		}
	}

	if len(infos) == 0 {
		e.models = model.Map{}
		e.conv.Model = ""
		return RegistryUpdate{
			Status:    StatusReady,
			ModelInfo: "### Selected Model\nNo models found.",
		}
	}

	names := model.Names(infos)
	e.models = model.NewMap(infos)
	e.conv.Model = model.ChooseModel(names, preferred)

	return RegistryUpdate{
		Names:     names,
		Selected:  e.conv.Model,
		ModelInfo: model.BuildModelInfo(e.conv.Model, e.models),
		Status:    StatusReady,
	}
}

// =============================================================================
// TURN EXECUTION
// =============================================================================

// Send runs one chat turn and returns a channel of snapshots: the
// initial placeholder state, throttled partials while tokens stream,
// and a terminal Ready or Error snapshot. The channel closes after the
// terminal snapshot.
//
// A blank message or missing model selection produces a single Ready
// snapshot with both histories unchanged.
//
// Cancelling ctx aborts the turn at the next suspension point; the
// replay history is left untouched.
func (e *Engine) Send(ctx context.Context, input string) <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	go e.runTurn(ctx, input, ch)
	return ch
}

func (e *Engine) runTurn(ctx context.Context, input string, ch chan<- Snapshot) {
	defer close(ch)

	e.mu.Lock()
	defer e.mu.Unlock()

	emit := func(s Snapshot) bool {
		select {
		case ch <- s:
			return true
		case <-ctx.Done():
			return false
		}
	}

	modelName := e.conv.Model
	if strings.TrimSpace(input) == "" || modelName == "" {
		emit(e.snapshotLocked(StatusReady, NoMetricsYet, nil))
		return
	}

	// The request is the replay history plus the new user message. The
	// conversation's replay history itself is only updated on success.
	requestMessages := append(e.conv.ToOllamaMessages(), ollama.NewUserMessage(input))

	e.conv.AppendDisplay(model.NewUserMessage(input))
	e.conv.AppendDisplay(model.NewAssistantMessage(""))
	if !emit(e.snapshotLocked(StatusGenerating, NoMetricsYet, nil)) {
		e.failTurnLocked(ctx.Err(), emit)
		return
	}

	var text strings.Builder
	var telemetry *ollama.Telemetry
	var turnErr error
	gate := NewEmissionGate(time.Now())
	status := StatusGenerating

	for chunk := range e.client.ChatStreamChan(ctx, modelName, requestMessages) {
		if chunk.Error != nil {
			turnErr = chunk.Error
			break
		}

		if chunk.Thinking != "" {
			status = StatusThinking
		} else {
			status = StatusGenerating
		}

		if chunk.Content != "" {
			text.WriteString(chunk.Content)
		}

		if chunk.Content != "" || chunk.Thinking != "" {
			now := time.Now()
			thinkingOnly := chunk.Thinking != "" && chunk.Content == ""
			if gate.ShouldEmit(now, text.Len(), thinkingOnly) {
				e.conv.SetLastDisplayContent(text.String())
				gate.Record(now, text.Len())
				if !emit(e.snapshotLocked(status, NoMetricsYet, nil)) {
					e.failTurnLocked(ctx.Err(), emit)
					return
				}
			}
		}

		if chunk.Done {
			telemetry = chunk.Telemetry
			break
		}
	}

	// A cancelled context can close the stream without an error chunk;
	// that is still an aborted turn, not a completed one.
	if turnErr == nil && ctx.Err() != nil {
		turnErr = ctx.Err()
	}
	if turnErr != nil {
		e.failTurnLocked(turnErr, emit)
		return
	}

	metrics := FormatMetrics(telemetry)

	// Opportunistic runtime probe: fills in VRAM use and the effective
	// context length while the model is still loaded. Best-effort only.
	if entry, err := e.client.RunningModel(ctx, modelName); err == nil {
		e.models.MergePs(modelName, entry)
	}

	raw := text.String()
	e.conv.SetLastDisplayContent(render.NormalizeMath(raw))
	e.conv.AppendReplay(model.NewUserMessage(input))
	e.conv.AppendReplay(model.NewAssistantMessage(raw))

	snap := e.snapshotLocked(StatusReady, metrics, nil)
	if telemetry != nil {
		snap.Speed = ComputeSpeed(telemetry.EvalCount, telemetry.EvalDuration)
	}
	emit(snap)
}

// failTurnLocked annotates the display placeholder with the failure and
// emits the terminal error snapshot. Replay history is never touched:
// a failed turn must not poison future requests. Caller holds e.mu.
func (e *Engine) failTurnLocked(cause error, emit func(Snapshot) bool) {
	if cause == nil {
		cause = context.Canceled
	}
	e.conv.SetLastDisplayContent("[Error] " + cause.Error())
	emit(e.snapshotLocked(StatusError, NoMetricsYet, cause))
}
