// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for ollama-lan.
//
// Conversations are stored in a SQLite database, including both the
// display history (what the user saw on screen) and the replay history
// (what goes back on the wire), so a restored session behaves exactly
// like the live one.
//
// # Key Types
//
//   - Store: SQLite-backed conversation store
//
// # Usage
//
// Open a store and save a conversation:
//
//	store, err := storage.NewStore(path, 200)
//	err = store.Save(conversation)
//
// List and load conversations:
//
//	metas, err := store.List()
//	conv, err := store.Load(metas[0].ID)
//
// Search conversations:
//
//	results, err := store.Search("query text")
//
// # Storage Location
//
// The database lives at ~/.ollama-lan/sessions.db by default; the path
// is configurable via history.path in the config file.
package storage
