// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for ollama-lan.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/ollama-lan/internal/model"
	"github.com/jeranaias/ollama-lan/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrConversationNotFound is returned when a conversation ID does not
	// exist in the store.
	ErrConversationNotFound = errors.New("conversation not found")
)

// =============================================================================
// STORE
// =============================================================================

// Store persists conversations in a SQLite database. Both histories of a
// conversation are saved so a restored session renders and replays exactly
// as it did when it was live.
type Store struct {
	db *sql.DB

	// maxConversations bounds the number of stored sessions; the oldest
	// are pruned on save when the limit is exceeded (0 = unlimited).
	maxConversations int
}

// NewStore opens (or creates) the conversation database at path.
func NewStore(path string, maxConversations int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		db:               db,
		maxConversations: maxConversations,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the database schema
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// Save writes a conversation and its messages, replacing any previous
// version of the same conversation. Empty conversations are skipped.
func (s *Store) Save(conv *model.Conversation) error {
	if conv == nil || conv.IsEmpty() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO conversations (id, title, model, preview, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			model = excluded.model,
			preview = excluded.preview,
			updated_at = excluded.updated_at
	`, conv.ID, conv.GetTitle(), conv.Model, conv.Preview(),
		conv.CreatedAt.UnixNano(), conv.UpdatedAt.UnixNano())
	if err != nil {
		return err
	}

	// Message rows are rewritten wholesale; diffing individual messages
	// is not worth the complexity at session sizes.
	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", conv.ID); err != nil {
		return err
	}

	if err := insertMessages(tx, conv.ID, "display", conv.Display); err != nil {
		return err
	}
	if err := insertMessages(tx, conv.ID, "replay", conv.Replay); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return s.enforceLimit()
}

func insertMessages(tx *sql.Tx, convID, history string, msgs []model.Message) error {
	stmt, err := tx.Prepare(`
		INSERT INTO messages (conversation_id, history, position, msg_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, msg := range msgs {
		_, err := stmt.Exec(convID, history, i, msg.ID, msg.Role.String(), msg.Content, msg.Timestamp.UnixNano())
		if err != nil {
			return err
		}
	}
	return nil
}

// enforceLimit prunes the oldest conversations beyond the configured limit.
func (s *Store) enforceLimit() error {
	if s.maxConversations <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)
	`, s.maxConversations)
	return err
}

// Load retrieves a conversation by ID, including both histories.
func (s *Store) Load(id string) (*model.Conversation, error) {
	conv := &model.Conversation{}

	var createdAt, updatedAt int64
	err := s.db.QueryRow(`
		SELECT id, title, model, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id).Scan(&conv.ID, &conv.Title, &conv.Model, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	conv.CreatedAt = time.Unix(0, createdAt)
	conv.UpdatedAt = time.Unix(0, updatedAt)

	conv.Display, err = s.loadMessages(id, "display")
	if err != nil {
		return nil, err
	}
	conv.Replay, err = s.loadMessages(id, "replay")
	if err != nil {
		return nil, err
	}

	return conv, nil
}

func (s *Store) loadMessages(convID, history string) ([]model.Message, error) {
	rows, err := s.db.Query(`
		SELECT msg_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ? AND history = ?
		ORDER BY position
	`, convID, history)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]model.Message, 0)
	for rows.Next() {
		var msg model.Message
		var role string
		var ts int64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &ts); err != nil {
			return nil, err
		}
		msg.Role = parseRole(role)
		msg.Timestamp = time.Unix(0, ts)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func parseRole(role string) model.Role {
	switch role {
	case "assistant":
		return model.RoleAssistant
	case "system":
		return model.RoleSystem
	default:
		return model.RoleUser
	}
}

// LoadByIndex retrieves the nth most recent conversation (0 = newest).
func (s *Store) LoadByIndex(index int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrConversationNotFound
	}
	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST / SEARCH / DELETE
// =============================================================================

// List returns metadata for all stored conversations, newest first.
func (s *Store) List() ([]model.ConversationMeta, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.model, c.preview, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id AND m.history = 'display') AS message_count
		FROM conversations c
		ORDER BY c.updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMetas(rows)
}

// Search returns conversations whose title, preview, or message content
// matches the query (case-insensitive substring), newest first.
func (s *Store) Search(query string) ([]model.ConversationMeta, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(`
		SELECT DISTINCT c.id, c.title, c.model, c.preview, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id AND m.history = 'display') AS message_count
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		WHERE LOWER(c.title) LIKE ?
		   OR LOWER(c.preview) LIKE ?
		   OR LOWER(m.content) LIKE ?
		ORDER BY c.updated_at DESC
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMetas(rows)
}

func scanMetas(rows *sql.Rows) ([]model.ConversationMeta, error) {
	metas := make([]model.ConversationMeta, 0)
	for rows.Next() {
		var meta model.ConversationMeta
		var createdAt, updatedAt int64
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.Model, &meta.Preview,
			&createdAt, &updatedAt, &meta.MessageCount); err != nil {
			return nil, err
		}
		meta.CreatedAt = time.Unix(0, createdAt)
		meta.UpdatedAt = time.Unix(0, updatedAt)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Delete removes a conversation and its messages.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Clear removes all stored conversations.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM conversations")
	return err
}

// Count returns the number of stored conversations.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&n)
	return n, err
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList renders a table of stored sessions for terminal output.
func FormatSessionList(sessions []model.ConversationMeta) string {
	if len(sessions) == 0 {
		return "No saved sessions."
	}

	// Stable presentation regardless of caller ordering.
	sorted := make([]model.ConversationMeta, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-3s %-40s %-20s %-8s %s\n", "#", "TITLE", "MODEL", "MSGS", "UPDATED"))
	for i, meta := range sorted {
		// Truncate and pad by display width, not rune count, so CJK
		// titles keep the columns aligned.
		title := padWidth(util.TruncateWidth(meta.Title, 40), 40)
		modelName := padWidth(util.TruncateWidth(meta.Model, 20), 20)
		b.WriteString(fmt.Sprintf("%-3d %s %s %-8d %s\n",
			i, title, modelName, meta.MessageCount,
			meta.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// padWidth right-pads s with spaces to the given display width.
func padWidth(s string, width int) string {
	gap := width - util.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
