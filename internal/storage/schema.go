// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for ollama-lan.
package storage

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the conversation database.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Conversations table: one row per session
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    model TEXT,
    preview TEXT,
    created_at INTEGER NOT NULL,  -- Unix nanoseconds
    updated_at INTEGER NOT NULL   -- Unix nanoseconds
);

-- Messages table: both histories of a conversation.
-- history is 'display' (what the user saw) or 'replay' (what goes
-- back on the wire); position preserves ordering within a history.
CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    history TEXT NOT NULL CHECK (history IN ('display', 'replay')),
    position INTEGER NOT NULL,
    msg_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at INTEGER NOT NULL   -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
    ON messages(conversation_id, history, position);

CREATE INDEX IF NOT EXISTS idx_conversations_updated
    ON conversations(updated_at);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
