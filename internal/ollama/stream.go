// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader handles line-by-line JSON parsing of streaming responses.
// Decoding is strict: a malformed line is a protocol error and aborts
// the stream.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	model       string
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each chunk.
// Blocks until the stream is complete, a decode error occurs, or the
// context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			if chunk != nil {
				callback(*chunk)
				if chunk.Done {
					return nil
				}
			}
		}
	}
}

// streamEvent is the wire shape of one /api/chat NDJSON line.
type streamEvent struct {
	Model   string `json:"model"`
	Message struct {
		Role     string `json:"role"`
		Content  string `json:"content"`
		Thinking string `json:"thinking"`
	} `json:"message"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
	Telemetry
}

// readChunk reads and parses a single line from the stream.
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) == 0 {
			return nil, io.EOF
		}
		// Process the final unterminated line on EOF.
		if len(line) == 0 {
			return nil, err
		}
	}

	// Skip blank keep-alive lines.
	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return nil, nil
	}

	var event streamEvent
	if err := json.Unmarshal([]byte(trimmed), &event); err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "malformed stream line", Cause: err}
	}

	if event.Model != "" {
		s.model = event.Model
	}

	if event.Message.Content != "" {
		s.accumulator.WriteString(event.Message.Content)
	}

	chunk := &StreamChunk{
		Content:    event.Message.Content,
		Thinking:   event.Message.Thinking,
		Done:       event.Done,
		DoneReason: event.DoneReason,
		Model:      s.model,
	}

	if event.Done {
		telemetry := event.Telemetry
		chunk.Telemetry = &telemetry
	}

	return chunk, nil
}

// Accumulated returns all content received so far, in arrival order.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}

// Model returns the model name reported by the stream.
func (s *StreamReader) Model() string {
	return s.model
}
