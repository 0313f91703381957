// ask.go - Single prompt command handler for the ollama-lan CLI.
//
// Handles "ollama-lan ask", which sends one prompt to the local Ollama
// server and streams the reply to stdout.
//
// Examples:
//
//	ollama-lan ask "What is the capital of France?"
//	ollama-lan ask --model qwen3:8b "Summarize this"
//	echo "Explain this error" | ollama-lan ask
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/model"
	"github.com/jeranaias/ollama-lan/internal/ollama"
	"github.com/jeranaias/ollama-lan/internal/render"
)

// HandleAsk sends a single prompt and streams the assistant reply to stdout.
// The prompt comes from the positional arguments, or from stdin when piped.
func HandleAsk(cfg *config.Config, parser *ArgParser) error {
	prompt := strings.TrimSpace(strings.Join(parser.PositionalFrom(0), " "))

	// Piped input becomes the prompt (or its context) when stdin is not a TTY.
	if !IsTTY() {
		data, err := io.ReadAll(os.Stdin)
		if err == nil && len(data) > 0 {
			piped := strings.TrimSpace(string(data))
			if prompt == "" {
				prompt = piped
			} else if piped != "" {
				prompt = prompt + "\n\n" + piped
			}
		}
	}

	if prompt == "" {
		return fmt.Errorf("no prompt given: usage: ollama-lan ask \"your question\"")
	}

	client := ollama.NewClient(cfg.Server.BaseURL)
	eng := engine.New(client)

	ctx := context.Background()
	update := eng.RefreshModels(ctx, cfg.Model.Preferred)
	if update.Err != nil {
		return fmt.Errorf("cannot reach Ollama at %s: %w", cfg.Server.BaseURL, update.Err)
	}
	if update.Selected == "" {
		return fmt.Errorf("no models installed: pull one with 'ollama pull llama3.2'")
	}

	quiet := parser.BoolFlag("quiet") || parser.BoolFlag("q")
	if !quiet {
		fmt.Fprintf(os.Stderr, "model: %s\n\n", update.Selected)
	}

	snap, err := streamTurn(ctx, eng, prompt, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Println()

	// On a terminal, re-render the finished answer as markdown. The
	// streamed text above is the raw wire form; the display history
	// holds the math-normalized copy.
	if IsStdoutTTY() {
		if content, ok := lastAssistantContent(snap.Display); ok && content != "" {
			md := render.NewMarkdown(GetTerminalWidth())
			fmt.Println()
			fmt.Print(md.Render(content))
		}
	}

	if !quiet && snap.Metrics != "" && snap.Metrics != engine.NoMetricsYet {
		fmt.Fprintf(os.Stderr, "\n%s\n", snap.Metrics)
	}
	return nil
}

// streamTurn runs one chat turn and writes assistant deltas to w as they
// arrive. It returns the final snapshot.
//
// Partial snapshots carry the raw accumulated text, but the terminal
// Ready snapshot's display copy is math-normalized and may differ in
// length, so the streamed offset must never index into it. The raw
// text of a finished turn lives in the replay history.
func streamTurn(ctx context.Context, eng *engine.Engine, input string, w io.Writer) (engine.Snapshot, error) {
	var last engine.Snapshot
	printed := 0

	for snap := range eng.Send(ctx, input) {
		last = snap
		if snap.Err != nil || snap.Status == engine.StatusReady {
			continue
		}
		content, ok := lastAssistantContent(snap.Display)
		if !ok {
			continue
		}
		if printed < len(content) {
			fmt.Fprint(w, content[printed:])
			printed = len(content)
		}
	}

	if last.Err != nil {
		return last, fmt.Errorf("chat failed: %w", last.Err)
	}

	// Flush whatever the emission gate held back, from the raw copy.
	// Only a completed turn appends to replay; its terminal snapshot is
	// Ready with real metrics, while no-op turns report NoMetricsYet.
	if last.Status == engine.StatusReady && last.Metrics != engine.NoMetricsYet {
		if raw, ok := lastAssistantContent(last.Replay); ok && printed < len(raw) {
			fmt.Fprint(w, raw[printed:])
		}
	}
	return last, nil
}

// lastAssistantContent returns the content of the trailing assistant
// message, if the transcript ends with one.
func lastAssistantContent(display []model.Message) (string, bool) {
	if len(display) == 0 {
		return "", false
	}
	msg := display[len(display)-1]
	if msg.Role != model.RoleAssistant {
		return "", false
	}
	return msg.Content, true
}
