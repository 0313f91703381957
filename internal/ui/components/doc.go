// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ollama-lan TUI.
//
// # Components
//
//   - Header: title bar with server URL and selected model
//   - StatusBar: bottom bar with connection status and generation speed
//   - Panel: markdown side panel for model metadata and response metrics
//   - Picker: model selection overlay
//
// Components are plain render helpers: the chat view owns all state and
// calls Set* before Render on each frame.
package components
