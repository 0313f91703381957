// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/ollama-lan/internal/ollama"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.BaseURL != ollama.DefaultBaseURL {
		t.Errorf("Server.BaseURL = %q, want %q", cfg.Server.BaseURL, ollama.DefaultBaseURL)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("UI.Theme = %q, want %q", cfg.UI.Theme, "auto")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestSetDefaults_NormalizesBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back", "", ollama.DefaultBaseURL},
		{"trailing slash stripped", "http://192.168.1.10:11434/", "http://192.168.1.10:11434"},
		{"whitespace only", "   ", ollama.DefaultBaseURL},
		{"already normalized", "http://box:11434", "http://box:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{BaseURL: tt.in}}
			cfg.SetDefaults()
			if cfg.Server.BaseURL != tt.want {
				t.Errorf("SetDefaults() BaseURL = %q, want %q", cfg.Server.BaseURL, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Server.BaseURL = "ftp://host:21" },
			wantErr: "server.base_url",
		},
		{
			name:    "bad theme",
			mutate:  func(c *Config) { c.UI.Theme = "solarized" },
			wantErr: "ui.theme",
		},
		{
			name:    "negative word wrap",
			mutate:  func(c *Config) { c.UI.WordWrap = -1 },
			wantErr: "ui.word_wrap",
		},
		{
			name:    "negative max conversations",
			mutate:  func(c *Config) { c.History.MaxConversations = -5 },
			wantErr: "history.max_conversations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "http://10.0.0.5:11434"
	cfg.Model.Preferred = "qwen3:8b"
	cfg.UI.Theme = "dark"
	cfg.History.MaxConversations = 50

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Server.BaseURL != cfg.Server.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.Server.BaseURL, cfg.Server.BaseURL)
	}
	if loaded.Model.Preferred != "qwen3:8b" {
		t.Errorf("Model.Preferred = %q, want %q", loaded.Model.Preferred, "qwen3:8b")
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q, want %q", loaded.UI.Theme, "dark")
	}
	if loaded.History.MaxConversations != 50 {
		t.Errorf("History.MaxConversations = %d, want 50", loaded.History.MaxConversations)
	}
}

func TestLoadFromPath_PartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	data := "[server]\nbase_url = \"http://box:11434/\"\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Server.BaseURL != "http://box:11434" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", cfg.Server.BaseURL)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("UI.Theme = %q, want default %q", cfg.UI.Theme, "auto")
	}
	if cfg.History.MaxConversations != 200 {
		t.Errorf("History.MaxConversations = %d, want default 200", cfg.History.MaxConversations)
	}
}

func TestLoadFromPath_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("not = [valid\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("LoadFromPath() = nil error for malformed TOML")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_LAN_URL", "http://lanbox:11434")
	t.Setenv("OLLAMA_LAN_MODEL", "gpt-oss:20b")
	t.Setenv("OLLAMA_LAN_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.BaseURL != "http://lanbox:11434" {
		t.Errorf("BaseURL = %q, want env override", cfg.Server.BaseURL)
	}
	if cfg.Model.Preferred != "gpt-oss:20b" {
		t.Errorf("Model.Preferred = %q, want env override", cfg.Model.Preferred)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want env override", cfg.UI.Theme)
	}
}

func TestApplyEnvOverrides_EmptyEnvLeavesConfig(t *testing.T) {
	t.Setenv("OLLAMA_LAN_URL", "")
	t.Setenv("OLLAMA_LAN_MODEL", "")

	cfg := Default()
	cfg.Model.Preferred = "from-file"
	cfg.ApplyEnvOverrides()

	if cfg.Server.BaseURL != ollama.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default preserved", cfg.Server.BaseURL)
	}
	if cfg.Model.Preferred != "from-file" {
		t.Errorf("Model.Preferred = %q, want file value preserved", cfg.Model.Preferred)
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := SaveToPath(Default(), path); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, 50*time.Millisecond, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	updated := Default()
	updated.Model.Preferred = "qwen3:8b"
	if err := SaveToPath(updated, path); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Model.Preferred != "qwen3:8b" {
			t.Errorf("reloaded Model.Preferred = %q, want %q", cfg.Model.Preferred, "qwen3:8b")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := SaveToPath(Default(), path); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, 50*time.Millisecond, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("not = [valid\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("got reload %v for malformed file, want none", cfg)
	case <-time.After(500 * time.Millisecond):
		// Silence is the expected outcome.
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and
// ReloadGlobal() can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Model.Preferred = "test-model"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}
