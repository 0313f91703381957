// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
//
// This package implements a client for an Ollama server reachable over
// the local network, supporting model listing, running-model probes,
// and streaming chat completions over NDJSON.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - Message: Chat message with role and content
//   - ModelInfo / PsModel: registry entries from /api/tags and /api/ps
//   - StreamChunk: one decoded event of a streamed chat response
//   - StreamReader: strict line-by-line NDJSON decoder
//
// # Usage
//
// Create a client and stream a chat turn:
//
//	client := ollama.NewClient("http://localhost:11434")
//	err := client.ChatStream(ctx, "gpt-oss:20b", messages, func(chunk ollama.StreamChunk) {
//	    fmt.Print(chunk.Content)
//	})
//
// Or consume the stream as a channel:
//
//	for chunk := range client.ChatStreamChan(ctx, model, messages) {
//	    if chunk.Error != nil {
//	        return chunk.Error
//	    }
//	    fmt.Print(chunk.Content)
//	}
//
// # Error handling
//
// Failures are reported as *ClientError values categorized by ErrorType.
// A malformed stream line is surfaced as a decode error and aborts the
// stream; it is never silently skipped.
package ollama
