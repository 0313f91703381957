// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ollama-lan.
//
// Configuration lives in a single TOML file with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Ollama server connection settings
//   - ModelConfig: Model selection settings
//   - UIConfig: Terminal UI settings
//   - HistoryConfig: Conversation persistence settings
//   - Watcher: Hot reload of the config file on change
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (OLLAMA_LAN_*)
//   - ~/.ollama-lan/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	url := cfg.Server.BaseURL
//	theme := cfg.UI.Theme
package config
