// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
package ollama

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // The message content
}

// ChatRequest is the request body for the /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`    // Model name (e.g., "gpt-oss:20b")
	Messages []Message `json:"messages"` // Conversation history
	Stream   bool      `json:"stream"`   // Enable streaming
}

// =============================================================================
// MODEL TYPES
// =============================================================================

// ModelInfo is a single /api/tags entry.
type ModelInfo struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details,omitempty"`
}

// ModelDetails contains detailed information about a model.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

// ListModelsResponse is the response from the /api/tags endpoint.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// PsModel is a single /api/ps entry: a model currently loaded into
// memory. Some servers report the identifier under "name", others
// under "model".
type PsModel struct {
	Name          string `json:"name"`
	Model         string `json:"model"`
	Size          int64  `json:"size"`
	SizeVRAM      int64  `json:"size_vram"`
	ContextLength int64  `json:"context_length"`
}

// PsResponse is the response from the /api/ps endpoint.
type PsResponse struct {
	Models []PsModel `json:"models"`
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// Telemetry holds the nanosecond-resolution counters Ollama attaches to
// the final event of a streamed chat response.
type Telemetry struct {
	TotalDuration      int64 `json:"total_duration"`       // nanoseconds
	LoadDuration       int64 `json:"load_duration"`        // nanoseconds
	PromptEvalCount    int64 `json:"prompt_eval_count"`    // tokens in prompt
	PromptEvalDuration int64 `json:"prompt_eval_duration"` // nanoseconds
	EvalCount          int64 `json:"eval_count"`           // tokens generated
	EvalDuration       int64 `json:"eval_duration"`        // nanoseconds
}

// StreamChunk represents a single event from a streaming chat response.
type StreamChunk struct {
	// Content is the visible text delta carried by this event.
	Content string

	// Thinking is the reasoning-trace delta, for models that emit one.
	// Thinking text is never part of the answer.
	Thinking string

	// Done marks the final event of the stream.
	Done       bool
	DoneReason string

	// Telemetry is populated only on the final event, and only when the
	// server reported it.
	Telemetry *Telemetry

	// Model information
	Model string

	// Error if any occurred during streaming
	Error error
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// OllamaError represents an error body from the Ollama API.
type OllamaError struct {
	Error string `json:"error"`
}

// =============================================================================
// HELPER METHODS
// =============================================================================

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}
