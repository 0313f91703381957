// ollama-lan - A terminal chat client for your local Ollama server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollama-lan/internal/cli"
	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/ollama"
	"github.com/jeranaias/ollama-lan/internal/storage"
	"github.com/jeranaias/ollama-lan/internal/ui/chat"
	"github.com/jeranaias/ollama-lan/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, parser := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdUnknown:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", parser.Positional(0))
		cli.PrintUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cli.ApplyFlags(cfg, parser)
	config.SetGlobal(cfg)

	switch cmd {
	case cli.CmdAsk:
		if err := cli.HandleAsk(cfg, parser); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

	case cli.CmdChat:
		eng := engine.New(ollama.NewClient(cfg.Server.BaseURL))
		store := openStore(cfg)
		if store != nil {
			defer store.Close()
		}
		if err := cli.HandleChat(cfg, eng, store, parser); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

	case cli.CmdSessions:
		if err := cli.HandleSessions(cfg, parser); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

	case cli.CmdTUI:
		if err := runTUI(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(cfg *config.Config) error {
	eng := engine.New(ollama.NewClient(cfg.Server.BaseURL))
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	ui := chat.New(cfg, eng, store, theme)
	program := tea.NewProgram(ui, tea.WithAltScreen())

	// Edits to the config file apply to the live session: the watcher
	// swaps the global and pushes the new config into the view.
	if path, err := config.ConfigPath(); err == nil {
		watcher, err := config.NewWatcher(path, 0, func(next *config.Config) {
			config.SetGlobal(next)
			program.Send(chat.ConfigReloadedMsg{Cfg: next})
		})
		if err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			} else {
				watcher.Close()
			}
		}
	}

	_, err := program.Run()
	return err
}

// openStore opens the session store, or returns nil when persistence is
// disabled or the database cannot be opened. A broken history database
// should not keep the chat from starting.
func openStore(cfg *config.Config) *storage.Store {
	if !cfg.History.Enabled {
		return nil
	}
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: session history disabled: %v\n", err)
		return nil
	}
	store, err := storage.NewStore(dbPath, cfg.History.MaxConversations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: session history disabled: %v\n", err)
		return nil
	}
	return store
}
