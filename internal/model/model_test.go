// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and model metadata.
package model

import (
	"strings"
	"testing"

	"github.com/jeranaias/ollama-lan/internal/ollama"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want user", msg.Role)
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q", msg.Content)
	}
	if msg.ID == "" {
		t.Error("ID should be generated")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("a", 100))
	preview := msg.Preview(50)
	if len([]rune(preview)) != 50 {
		t.Errorf("Preview length = %d, want 50", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview should end with ellipsis: %q", preview)
	}

	short := NewUserMessage("hi")
	if short.Preview(50) != "hi" {
		t.Errorf("short Preview = %q", short.Preview(50))
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_DualHistories(t *testing.T) {
	conv := NewConversation("gpt-oss:20b")

	conv.AppendDisplay(NewUserMessage("What is 2+2?"))
	conv.AppendDisplay(NewAssistantMessage(""))
	conv.AppendReplay(NewUserMessage("What is 2+2?"))

	if conv.MessageCount() != 2 {
		t.Errorf("display count = %d, want 2", conv.MessageCount())
	}
	if len(conv.Replay) != 1 {
		t.Errorf("replay count = %d, want 1", len(conv.Replay))
	}

	// Fill in the streaming placeholder.
	conv.SetLastDisplayContent("4")
	if conv.LastDisplay().Content != "4" {
		t.Errorf("LastDisplay content = %q", conv.LastDisplay().Content)
	}
	// Replay is untouched by display edits.
	if len(conv.Replay) != 1 || conv.Replay[0].Content != "What is 2+2?" {
		t.Error("replay history must not change with display edits")
	}
}

func TestConversation_Clear(t *testing.T) {
	conv := NewConversation("gpt-oss:20b")
	conv.AppendDisplay(NewUserMessage("hi"))
	conv.AppendReplay(NewUserMessage("hi"))

	conv.Clear()

	if !conv.IsEmpty() {
		t.Error("display should be empty after Clear")
	}
	if len(conv.Replay) != 0 {
		t.Error("replay should be empty after Clear")
	}
	if conv.Model != "gpt-oss:20b" {
		t.Error("model selection should survive Clear")
	}
}

func TestConversation_ToOllamaMessages_UsesReplay(t *testing.T) {
	conv := NewConversation("m")
	conv.AppendReplay(NewUserMessage("question"))
	conv.AppendReplay(NewAssistantMessage("raw [x = 1] answer"))
	// Display carries a different, normalized copy.
	conv.AppendDisplay(NewUserMessage("question"))
	conv.AppendDisplay(NewAssistantMessage("raw $$x = 1$$ answer"))

	msgs := conv.ToOllamaMessages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].Content != "raw [x = 1] answer" {
		t.Errorf("wire content should be raw replay text, got %q", msgs[1].Content)
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
}

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation("m")
	if conv.GetTitle() != "New Conversation" {
		t.Errorf("default title = %q", conv.GetTitle())
	}

	conv.AppendDisplay(NewUserMessage("Explain quantum tunneling"))
	if conv.GetTitle() != "Explain quantum tunneling" {
		t.Errorf("title = %q", conv.GetTitle())
	}
}

func TestConversation_Prune(t *testing.T) {
	conv := NewConversation("m")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AppendDisplay(NewUserMessage("msg"))
	}
	if len(conv.Display) != MaxMessages {
		t.Errorf("display count = %d, want %d", len(conv.Display), MaxMessages)
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation("m")
	conv.AppendDisplay(NewUserMessage("hi"))

	clone := conv.Clone()
	clone.AppendDisplay(NewAssistantMessage("there"))

	if len(conv.Display) != 1 {
		t.Error("mutating the clone should not affect the original")
	}
}

// =============================================================================
// MODEL SELECTION TESTS
// =============================================================================

func TestChooseModel(t *testing.T) {
	names := []string{"gpt-oss:20b", "qwen3:8b", "zephyr:7b"}

	tests := []struct {
		name      string
		preferred string
		want      string
	}{
		{"preferred installed", "qwen3:8b", "qwen3:8b"},
		{"preferred missing", "missing:1b", "gpt-oss:20b"},
		{"no preference", "", "gpt-oss:20b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ChooseModel(names, tc.preferred)
			if got != tc.want {
				t.Errorf("ChooseModel(%v, %q) = %q, want %q", names, tc.preferred, got, tc.want)
			}
		})
	}
}

// =============================================================================
// METADATA TESTS
// =============================================================================

func TestNewMap_AndMergePs(t *testing.T) {
	infos := []ollama.ModelInfo{
		{
			Name: "gpt-oss:20b",
			Size: 13000000000,
			Details: ollama.ModelDetails{
				Family:            "gptoss",
				ParameterSize:     "20.9B",
				QuantizationLevel: "MXFP4",
			},
		},
	}

	m := NewMap(infos)
	meta := m["gpt-oss:20b"]
	if meta.Family != "gptoss" || meta.ParameterSize != "20.9B" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.SizeVRAM != 0 || meta.ContextLength != 0 {
		t.Error("runtime fields should start at zero")
	}

	m.MergePs("gpt-oss:20b", &ollama.PsModel{SizeVRAM: 12884901888, ContextLength: 131072})
	meta = m["gpt-oss:20b"]
	if meta.SizeVRAM != 12884901888 {
		t.Errorf("SizeVRAM = %d", meta.SizeVRAM)
	}
	if meta.ContextLength != 131072 {
		t.Errorf("ContextLength = %d", meta.ContextLength)
	}
	// Listing fields survive the merge.
	if meta.Family != "gptoss" {
		t.Errorf("Family lost in merge: %+v", meta)
	}
}

func TestMergePs_NilAndPartial(t *testing.T) {
	m := Map{"m": {Name: "m", SizeVRAM: 100, ContextLength: 200}}

	m.MergePs("m", nil)
	if m["m"].SizeVRAM != 100 {
		t.Error("nil entry must be a no-op")
	}

	// Zero fields in the probe must not clobber known values.
	m.MergePs("m", &ollama.PsModel{SizeVRAM: 0, ContextLength: 0})
	if m["m"].SizeVRAM != 100 || m["m"].ContextLength != 200 {
		t.Error("zero probe fields must not overwrite metadata")
	}
}

// =============================================================================
// MODEL INFO PANEL TESTS
// =============================================================================

func TestBuildModelInfo(t *testing.T) {
	m := Map{
		"gpt-oss:20b": {
			Name:              "gpt-oss:20b",
			Family:            "gptoss",
			ParameterSize:     "20.9B",
			QuantizationLevel: "MXFP4",
			SizeVRAM:          12884901888,
			ContextLength:     131072,
		},
	}

	info := BuildModelInfo("gpt-oss:20b", m)
	for _, want := range []string{
		"### gpt-oss:20b",
		"- Family: **gptoss**",
		"- Parameters: **20.9B**",
		"- Quantization: **MXFP4**",
		"- VRAM size: **12.00 GB**",
		"- Context length: **128k**",
	} {
		if !strings.Contains(info, want) {
			t.Errorf("info missing %q:\n%s", want, info)
		}
	}
}

func TestBuildModelInfo_OmitsUnknownFields(t *testing.T) {
	m := Map{"m": {Name: "m", Family: "f"}}
	info := BuildModelInfo("m", m)

	if strings.Contains(info, "VRAM") || strings.Contains(info, "Context length") {
		t.Errorf("unknown fields should be omitted:\n%s", info)
	}
	if !strings.Contains(info, "- Family: **f**") {
		t.Errorf("known field missing:\n%s", info)
	}
}

func TestBuildModelInfo_EdgeCases(t *testing.T) {
	if got := BuildModelInfo("", nil); got != "### Selected Model\nNo model selected." {
		t.Errorf("empty selection = %q", got)
	}
	if got := BuildModelInfo("ghost:1b", Map{}); got != "### Selected Model\n`ghost:1b` metadata unavailable." {
		t.Errorf("missing metadata = %q", got)
	}
}
