// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the ollama-lan TUI.
//
// The view is a thin consumer of the session engine: every frame renders
// an engine.Snapshot, and all session state (histories, model selection,
// status, metrics) lives behind the engine. A turn is driven by a
// snapshot channel: the update loop issues waitForSnapshot after each
// SnapshotMsg until the channel closes with TurnDoneMsg.
//
// # Layout
//
//	+----------------------------------------------+
//	| header: title, model, server URL             |
//	+-------------------------------+--------------+
//	| transcript viewport           | side panel   |
//	|                               | model info   |
//	|                               | metrics      |
//	+-------------------------------+--------------+
//	| input                                        |
//	+----------------------------------------------+
//	| status bar: status, speed, key hints         |
//	+----------------------------------------------+
//
// The side panel is hidden on narrow terminals.
package chat
