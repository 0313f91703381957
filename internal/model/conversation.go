// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and model metadata.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/ollama-lan/internal/ollama"
)

// MaxMessages is the maximum number of messages kept per history.
// When exceeded, the oldest messages are pruned to prevent unbounded
// memory growth over very long sessions.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat session as two parallel histories.
//
// Display is what the user sees: assistant text may be normalized for
// presentation and a failed turn carries an inline error annotation.
// Replay is what the model sees on subsequent requests: raw user and
// assistant text exactly as produced, never annotated. A failed turn
// appears in Display but leaves Replay untouched, so a transport error
// can never poison future requests.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Model string `json:"model"`

	Display []Message `json:"display"`
	Replay  []Message `json:"replay"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation(model string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Model:     model,
		Display:   make([]Message, 0),
		Replay:    make([]Message, 0),
	}
}

// =============================================================================
// HISTORY MANAGEMENT
// =============================================================================

// AppendDisplay adds a message to the display history.
func (c *Conversation) AppendDisplay(msg Message) {
	c.Display = append(c.Display, msg)
	c.touch()
}

// AppendReplay adds a message to the replay history.
func (c *Conversation) AppendReplay(msg Message) {
	c.Replay = append(c.Replay, msg)
	c.touch()
}

// SetLastDisplayContent overwrites the content of the newest display
// message. Used to fill in a streaming assistant placeholder.
func (c *Conversation) SetLastDisplayContent(content string) {
	if len(c.Display) == 0 {
		return
	}
	c.Display[len(c.Display)-1].Content = content
	c.touch()
}

// LastDisplay returns the newest display message, or a zero Message
// when the history is empty.
func (c *Conversation) LastDisplay() Message {
	if len(c.Display) == 0 {
		return Message{}
	}
	return c.Display[len(c.Display)-1]
}

// Clear removes all messages from both histories. The conversation
// identity and model selection are kept.
func (c *Conversation) Clear() {
	c.Display = make([]Message, 0)
	c.Replay = make([]Message, 0)
	c.touch()
}

// IsEmpty returns true if there are no display messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Display) == 0
}

// MessageCount returns the number of display messages.
func (c *Conversation) MessageCount() int {
	return len(c.Display)
}

func (c *Conversation) touch() {
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.prune()
}

// prune caps both histories at MaxMessages, dropping the oldest first.
func (c *Conversation) prune() {
	if len(c.Display) > MaxMessages {
		c.Display = append([]Message(nil), c.Display[len(c.Display)-MaxMessages:]...)
	}
	if len(c.Replay) > MaxMessages {
		c.Replay = append([]Message(nil), c.Replay[len(c.Replay)-MaxMessages:]...)
	}
}

// =============================================================================
// OLLAMA CONVERSION
// =============================================================================

// ToOllamaMessages converts the replay history to the wire format.
// The replay history is the source of truth for requests: it carries
// raw assistant text, never the normalized display copy.
func (c *Conversation) ToOllamaMessages() []ollama.Message {
	messages := make([]ollama.Message, 0, len(c.Replay))
	for _, msg := range c.Replay {
		messages = append(messages, ollama.Message{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return messages
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Display {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// Preview returns a short preview of the conversation.
func (c *Conversation) Preview() string {
	if len(c.Display) == 0 {
		return "Empty conversation"
	}
	for i := len(c.Display) - 1; i >= 0; i-- {
		if c.Display[i].Role == RoleUser {
			return c.Display[i].Preview(100)
		}
	}
	return c.Display[0].Preview(100)
}

// =============================================================================
// METADATA
// =============================================================================

// ConversationMeta holds lightweight metadata for listing.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// GetMeta returns metadata about the conversation.
func (c *Conversation) GetMeta() ConversationMeta {
	return ConversationMeta{
		ID:           c.ID,
		Title:        c.GetTitle(),
		Model:        c.Model,
		MessageCount: len(c.Display),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Preview:      c.Preview(),
	}
}

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Model:     c.Model,
		Display:   append([]Message(nil), c.Display...),
		Replay:    append([]Message(nil), c.Replay...),
	}
	return clone
}
