// chat.go - Interactive chat command handler for the ollama-lan CLI.
//
// Handles "ollama-lan chat", a readline-style REPL for talking to the
// local Ollama server without the full-screen TUI.
//
// Interactive commands:
//
//	/help, /h       Show available commands
//	/clear, /c      Clear the conversation
//	/model [name]   Show or switch model
//	/models         List installed models
//	/quit, /q       Exit chat
//	Ctrl+C          Cancel current generation
//	Ctrl+D          Exit chat
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/engine"
	"github.com/jeranaias/ollama-lan/internal/storage"
	"github.com/jeranaias/ollama-lan/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	Config *config.Config
	Engine *engine.Engine
	Store  *storage.Store // nil when history is disabled

	// Cancel function for the in-flight turn. The signal goroutine
	// races the REPL loop for it, so access goes through the mutex.
	mu         sync.Mutex
	cancelTurn context.CancelFunc

	InputCLI *ChatCLI
	Quiet    bool
}

// setCancel installs (or clears, with nil) the active turn's cancel.
func (s *ChatSession) setCancel(fn context.CancelFunc) {
	s.mu.Lock()
	s.cancelTurn = fn
	s.mu.Unlock()
}

// cancelActiveTurn cancels the in-flight turn, if any, and reports
// whether there was one. Safe to call from any goroutine.
func (s *ChatSession) cancelActiveTurn() bool {
	s.mu.Lock()
	fn := s.cancelTurn
	s.cancelTurn = nil
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// saveSession persists the current conversation, if persistence is on.
func (s *ChatSession) saveSession() {
	if s.Store == nil {
		return
	}
	conv := s.Engine.Conversation()
	if conv == nil || conv.IsEmpty() {
		return
	}
	if err := s.Store.Save(conv); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to save session: %v\n",
			warningStyle.Render("[warn]"), err)
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive REPL until the user exits.
func HandleChat(cfg *config.Config, eng *engine.Engine, store *storage.Store, parser *ArgParser) error {
	session := &ChatSession{
		Config:   cfg,
		Engine:   eng,
		Store:    store,
		InputCLI: NewChatCLI(),
		Quiet:    parser.BoolFlag("quiet") || parser.BoolFlag("q"),
	}
	defer session.InputCLI.Close()

	ctx := context.Background()
	update := eng.RefreshModels(ctx, cfg.Model.Preferred)
	if update.Err != nil {
		return fmt.Errorf("cannot reach Ollama at %s: %w", cfg.Server.BaseURL, update.Err)
	}
	if update.Selected == "" {
		return fmt.Errorf("no models installed: pull one with 'ollama pull llama3.2'")
	}

	if !session.Quiet {
		printWelcome(session, update.Selected)
	}

	// First Ctrl+C during generation cancels the turn instead of killing
	// the process. liner handles Ctrl+C at the prompt itself.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if session.cancelActiveTurn() {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("ollama-lan> "))
		if err != nil {
			// liner.ErrPromptAborted is Ctrl+C, anything else is EOF.
			fmt.Println()
			session.saveSession()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := handleSlashCommand(session, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				session.saveSession()
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			session.saveSession()
			return nil
		}

		if err := processMessage(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// processMessage sends one message and streams the reply to stdout.
func processMessage(session *ChatSession, input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	session.setCancel(cancel)
	defer func() {
		session.setCancel(nil)
		cancel()
	}()

	fmt.Println()
	snap, err := streamTurn(ctx, session.Engine, input, os.Stdout)
	fmt.Println()
	if err != nil {
		return err
	}

	if !session.Quiet && snap.Metrics != "" && snap.Metrics != engine.NoMetricsYet {
		fmt.Fprintf(os.Stderr, "\n%s\n\n", infoStyle.Render(snap.Metrics))
	}

	session.saveSession()
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches a /command. The bool result reports
// whether the REPL should keep running.
func handleSlashCommand(session *ChatSession, input string) (bool, error) {
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	name := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch name {
	case "/help", "/h":
		printChatHelp()
		return true, nil

	case "/clear", "/c":
		session.Engine.Clear()
		fmt.Println(infoStyle.Render("Conversation cleared."))
		return true, nil

	case "/model", "/m":
		if arg == "" {
			fmt.Printf("Current model: %s\n", commandStyle.Render(session.Engine.SelectedModel()))
			return true, nil
		}
		snap := session.Engine.SetModel(arg)
		if snap.Err != nil {
			return true, snap.Err
		}
		fmt.Printf("Switched to %s\n", commandStyle.Render(arg))
		return true, nil

	case "/models":
		names := session.Engine.ModelNames()
		if len(names) == 0 {
			fmt.Println(infoStyle.Render("No models installed."))
			return true, nil
		}
		selected := session.Engine.SelectedModel()
		for _, n := range names {
			marker := "  "
			if n == selected {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, n)
		}
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", name)
	}
}

func printWelcome(session *ChatSession, modelName string) {
	fmt.Println(welcomeStyle.Render("ollama-lan chat"))
	fmt.Printf("%s %s  %s %s\n",
		infoStyle.Render("server:"), session.Config.Server.BaseURL,
		infoStyle.Render("model:"), commandStyle.Render(modelName))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
}

func printChatHelp() {
	fmt.Println(commandStyle.Render("Commands:"))
	fmt.Println("  /help, /h       Show this help")
	fmt.Println("  /clear, /c      Clear the conversation")
	fmt.Println("  /model [name]   Show or switch model")
	fmt.Println("  /models         List installed models")
	fmt.Println("  /quit, /q       Exit chat")
	fmt.Println("  Ctrl+C          Cancel current generation")
	fmt.Println("  Ctrl+D          Exit chat")
}
