// cli.go - Command parsing and shared helpers for the ollama-lan CLI.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/ollama"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies a top-level CLI command.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Parse splits argv into a command and its parsed arguments.
// With no arguments (or only flags) the default command is the TUI.
func Parse(argv []string) (Command, *ArgParser) {
	if len(argv) == 0 {
		return CmdTUI, NewArgParser(nil)
	}

	// Leading flag means no subcommand was given: run the TUI.
	if strings.HasPrefix(argv[0], "-") {
		parser := NewArgParser(argv)
		switch {
		case parser.BoolFlag("version"):
			return CmdVersion, parser
		case parser.BoolFlag("help") || parser.BoolFlag("h"):
			return CmdHelp, parser
		}
		return CmdTUI, parser
	}

	cmd := strings.ToLower(argv[0])
	parser := NewArgParser(argv[1:])

	switch cmd {
	case "tui":
		return CmdTUI, parser
	case "ask":
		return CmdAsk, parser
	case "chat":
		return CmdChat, parser
	case "session", "sessions":
		return CmdSessions, parser
	case "version":
		return CmdVersion, parser
	case "help":
		return CmdHelp, parser
	default:
		// Keep the unknown word visible to the caller.
		return CmdUnknown, NewArgParser(argv)
	}
}

// ApplyFlags folds the global flags into the loaded configuration.
// Flags take precedence over both the config file and environment.
func ApplyFlags(cfg *config.Config, parser *ArgParser) {
	if url := parser.FlagOrDefault("url", parser.Flag("u")); url != "" {
		cfg.Server.BaseURL = ollama.NormalizeBaseURL(url)
	}
	if modelName := parser.FlagOrDefault("model", parser.Flag("m")); modelName != "" {
		cfg.Model.Preferred = modelName
	}
	if theme := parser.Flag("theme"); theme != "" {
		cfg.UI.Theme = theme
	}
	if parser.BoolFlag("no-history") {
		cfg.History.Enabled = false
	}
}

const usageText = `ollama-lan - chat with your local Ollama server

Usage:
  ollama-lan [flags]                  Start the interactive TUI
  ollama-lan ask [flags] <prompt>     Ask a single question
  ollama-lan chat [flags]             Start a terminal REPL
  ollama-lan sessions [subcommand]    Manage saved sessions
  ollama-lan version                  Show version information
  ollama-lan help                     Show this help

Global flags:
  -u, --url URL       Ollama base URL (default http://localhost:11434)
  -m, --model NAME    Preferred model (overrides config)
  --theme NAME        Color theme: dark, light, auto
  --no-history        Disable session persistence
  -q, --quiet         Suppress model banner and metrics

Sessions subcommands:
  list                List saved sessions (default)
  show <n|id>         Print a saved session
  search <query>      Search titles and message content
  delete <n|id>       Delete one session
  clear --confirm     Delete all sessions

Examples:
  ollama-lan
  ollama-lan ask "What is the capital of France?"
  ollama-lan chat --model qwen3:8b
  ollama-lan sessions show 1
  echo "Explain this error" | ollama-lan ask

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("ollama-lan version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}
