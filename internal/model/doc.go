// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and model metadata.
//
// This package defines the core domain types used throughout the
// application for representing chat sessions and installed models.
//
// # Key Types
//
//   - Conversation: a chat session as two parallel histories (display
//     text for the user, raw replay text for the model)
//   - Message: single message with role, content, and timestamp
//   - Metadata / Map: per-model details merged from /api/tags and /api/ps
//   - Role: message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new conversation and feed it a turn:
//
//	conv := model.NewConversation("gpt-oss:20b")
//	conv.AppendDisplay(model.NewUserMessage("Hello!"))
//
// Pick the active model from a registry listing:
//
//	name := model.ChooseModel(model.Names(infos), cfg.Model)
package model
