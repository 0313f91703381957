// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// BASE URL NORMALIZATION TESTS
// =============================================================================

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", DefaultBaseURL},
		{"whitespace only", "   ", DefaultBaseURL},
		{"trailing slash", "http://10.0.0.5:11434/", "http://10.0.0.5:11434"},
		{"many trailing slashes", "http://10.0.0.5:11434///", "http://10.0.0.5:11434"},
		{"padded", "  http://localhost:11434  ", "http://localhost:11434"},
		{"already clean", "http://localhost:11434", "http://localhost:11434"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeBaseURL(tc.input)
			if got != tc.want {
				t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeBaseURL_Idempotent(t *testing.T) {
	inputs := []string{"", "  http://host:11434///", "http://host:11434"}
	for _, in := range inputs {
		once := NormalizeBaseURL(in)
		twice := NormalizeBaseURL(once)
		if once != twice {
			t.Errorf("NormalizeBaseURL not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageConstructors(t *testing.T) {
	tests := []struct {
		msg      Message
		wantRole string
	}{
		{NewUserMessage("Hello"), "user"},
		{NewAssistantMessage("Hi"), "assistant"},
		{NewSystemMessage("Be helpful"), "system"},
	}

	for _, tc := range tests {
		if tc.msg.Role != tc.wantRole {
			t.Errorf("Role = %q, want %q", tc.msg.Role, tc.wantRole)
		}
	}
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestListModels_SortsAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[
			{"name":"zephyr:7b","size":100},
			{"name":"","size":5},
			{"name":"gpt-oss:20b","size":200}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}

	if len(models) != 2 {
		t.Fatalf("got %d models, want 2 (unnamed entry should be dropped)", len(models))
	}
	if models[0].Name != "gpt-oss:20b" || models[1].Name != "zephyr:7b" {
		t.Errorf("models not sorted by name: %q, %q", models[0].Name, models[1].Name)
	}
}

func TestListModels_Unreachable(t *testing.T) {
	// Port 1 is essentially guaranteed to refuse connections.
	client := NewClient("http://127.0.0.1:1")
	_, err := client.ListModels(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !IsNotRunning(err) {
		t.Errorf("expected not-running error, got %v", err)
	}
}

func TestRunningModel_MatchesNameOrModelField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ps" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[
			{"name":"gpt-oss:20b","size_vram":12884901888,"context_length":131072},
			{"model":"zephyr:7b","size_vram":4294967296}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	entry, err := client.RunningModel(context.Background(), "gpt-oss:20b")
	if err != nil {
		t.Fatalf("RunningModel failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry for gpt-oss:20b")
	}
	if entry.SizeVRAM != 12884901888 {
		t.Errorf("SizeVRAM = %d", entry.SizeVRAM)
	}
	if entry.ContextLength != 131072 {
		t.Errorf("ContextLength = %d", entry.ContextLength)
	}

	// Falls back to the "model" field when "name" is absent.
	entry, err = client.RunningModel(context.Background(), "zephyr:7b")
	if err != nil {
		t.Fatalf("RunningModel failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry matched on model field")
	}

	entry, err = client.RunningModel(context.Background(), "missing:1b")
	if err != nil {
		t.Fatalf("RunningModel failed: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry for unloaded model, got %+v", entry)
	}
}

// =============================================================================
// STREAMING CHAT TESTS
// =============================================================================

func TestChatStream_DeliversDeltasInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"model":"gpt-oss:20b","message":{"role":"assistant","content":"Hel"},"done":false}` + "\n"))
		w.Write([]byte(`{"model":"gpt-oss:20b","message":{"role":"assistant","content":"lo"},"done":false}` + "\n"))
		w.Write([]byte(`{"model":"gpt-oss:20b","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop","total_duration":2000000000,"eval_count":10,"eval_duration":1000000000}` + "\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var got strings.Builder
	var final *StreamChunk
	err := client.ChatStream(context.Background(), "gpt-oss:20b", []Message{NewUserMessage("hi")}, func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
		if chunk.Done {
			c := chunk
			final = &c
		}
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	if got.String() != "Hello" {
		t.Errorf("accumulated content = %q, want 'Hello'", got.String())
	}
	if final == nil {
		t.Fatal("no done chunk received")
	}
	if final.Telemetry == nil {
		t.Fatal("done chunk missing telemetry")
	}
	if final.Telemetry.EvalCount != 10 || final.Telemetry.EvalDuration != 1000000000 {
		t.Errorf("telemetry = %+v", final.Telemetry)
	}
}

func TestChatStream_MalformedLineAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"ok"},"done":false}` + "\n"))
		w.Write([]byte("this is not json\n"))
		w.Write([]byte(`{"message":{"content":"never seen"},"done":true}` + "\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var chunks int
	err := client.ChatStream(context.Background(), "m", nil, func(chunk StreamChunk) {
		chunks++
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !IsDecodeError(err) {
		t.Errorf("expected decode error, got %v", err)
	}
	if chunks != 1 {
		t.Errorf("callback called %d times, want 1 (stream aborts at bad line)", chunks)
	}
}

func TestChatStream_ServerErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"model requires more memory"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.ChatStream(context.Background(), "m", nil, func(StreamChunk) {})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "more memory") {
		t.Errorf("error should carry server message, got %v", err)
	}
}

func TestChatStream_Cancellation(t *testing.T) {
	blocker := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"first"},"done":false}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-blocker
	}))
	defer server.Close()
	defer close(blocker)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.ChatStream(ctx, "m", nil, func(chunk StreamChunk) {
			if chunk.Content == "first" {
				cancel()
			}
		})
	}()

	err := <-errCh
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestChatStreamChan_ErrorChunk(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	var sawError bool
	for chunk := range client.ChatStreamChan(context.Background(), "m", nil) {
		if chunk.Error != nil {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error chunk from unreachable server")
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_SkipsBlankLines(t *testing.T) {
	input := `{"message":{"content":"a"},"done":false}` + "\n\n\n" +
		`{"message":{"content":"b"},"done":true}` + "\n"

	reader := NewStreamReader(strings.NewReader(input))
	var got strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.String() != "ab" {
		t.Errorf("content = %q, want 'ab'", got.String())
	}
	if reader.Accumulated() != "ab" {
		t.Errorf("Accumulated() = %q, want 'ab'", reader.Accumulated())
	}
}

func TestStreamReader_ThinkingDeltas(t *testing.T) {
	input := `{"message":{"thinking":"hmm","content":""},"done":false}` + "\n" +
		`{"message":{"content":"answer"},"done":true}` + "\n"

	reader := NewStreamReader(strings.NewReader(input))
	var thinking, content strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		thinking.WriteString(chunk.Thinking)
		content.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if thinking.String() != "hmm" {
		t.Errorf("thinking = %q", thinking.String())
	}
	if content.String() != "answer" {
		t.Errorf("content = %q", content.String())
	}
	// Thinking text must never leak into the accumulated answer.
	if reader.Accumulated() != "answer" {
		t.Errorf("Accumulated() = %q, want 'answer'", reader.Accumulated())
	}
}

func TestStreamReader_FinalUnterminatedLine(t *testing.T) {
	input := `{"message":{"content":"end"},"done":true}` // no trailing newline

	reader := NewStreamReader(strings.NewReader(input))
	var got strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.String() != "end" {
		t.Errorf("content = %q, want 'end'", got.String())
	}
}
