// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Concurrency safety tests for the chat engine: snapshot reads, model
// switches, and clears racing against an in-flight streaming turn.
package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ollama-lan/internal/ollama"
)

// TestEngine_ConcurrentReadsDuringTurn hammers the read-side accessors
// while a turn is streaming. Must not race or panic.
func TestEngine_ConcurrentReadsDuringTurn(t *testing.T) {
	server := newTurnServer(t)
	defer server.Close()

	eng := New(ollama.NewClient(server.URL))
	update := eng.RefreshModels(context.Background(), "")
	require.NoError(t, update.Err)
	require.NotEmpty(t, update.Selected)

	ch := eng.Send(context.Background(), "what is 2+2?")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = eng.Current()
			_ = eng.SelectedModel()
			_ = eng.ModelNames()
			_ = eng.Conversation()
		}()
	}

	snaps := drain(ch)
	wg.Wait()

	require.NotEmpty(t, snaps)
	final := snaps[len(snaps)-1]
	require.NoError(t, final.Err)
	require.Equal(t, StatusReady, final.Status)
}

// TestEngine_ConcurrentClearAndCurrent runs Clear against Current from
// many goroutines. Every snapshot must still be internally consistent.
func TestEngine_ConcurrentClearAndCurrent(t *testing.T) {
	server := newTurnServer(t)
	defer server.Close()

	eng := New(ollama.NewClient(server.URL))
	eng.RefreshModels(context.Background(), "")
	drain(eng.Send(context.Background(), "seed the transcript"))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				_ = eng.Clear()
			} else {
				_ = eng.Current()
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, eng.Clear().Display)
}

// TestEngine_SnapshotIsolation verifies a snapshot taken before a model
// switch does not observe the switch.
func TestEngine_SnapshotIsolation(t *testing.T) {
	server := newTurnServer(t)
	defer server.Close()

	eng := New(ollama.NewClient(server.URL))
	eng.RefreshModels(context.Background(), "")
	drain(eng.Send(context.Background(), "hello"))

	before := eng.Current()
	eng.Clear()

	require.NotEmpty(t, before.Display, "earlier snapshot must keep its transcript after Clear")
	require.Empty(t, eng.Current().Display)
}
