// sessions.go - Saved session management for the ollama-lan CLI.
//
// Handles "ollama-lan sessions", which lists, shows, searches, and
// deletes conversations persisted by the chat interfaces.
//
// Examples:
//
//	ollama-lan sessions                 List saved sessions
//	ollama-lan sessions show 1          Show session by list index
//	ollama-lan sessions search algebra  Search titles and messages
//	ollama-lan sessions delete 1        Delete session by list index
//	ollama-lan sessions clear --confirm Delete all sessions
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/ollama-lan/internal/config"
	"github.com/jeranaias/ollama-lan/internal/model"
	"github.com/jeranaias/ollama-lan/internal/storage"
)

// HandleSessions dispatches the sessions subcommands.
func HandleSessions(cfg *config.Config, parser *ArgParser) error {
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return fmt.Errorf("cannot resolve history database path: %w", err)
	}
	store, err := storage.NewStore(dbPath, cfg.History.MaxConversations)
	if err != nil {
		return fmt.Errorf("cannot open session store: %w", err)
	}
	defer store.Close()

	switch parser.Subcommand() {
	case "", "list", "ls":
		return listSessions(store)
	case "show":
		return showSession(store, parser.Positional(1))
	case "search":
		return searchSessions(store, strings.Join(parser.PositionalFrom(1), " "))
	case "delete", "rm":
		return deleteSession(store, parser.Positional(1))
	case "clear":
		return clearSessions(store, parser.BoolFlag("confirm"))
	default:
		return fmt.Errorf("unknown sessions subcommand %q (list, show, search, delete, clear)", parser.Subcommand())
	}
}

func listSessions(store *storage.Store) error {
	sessions, err := store.List()
	if err != nil {
		return err
	}
	fmt.Print(storage.FormatSessionList(sessions))
	return nil
}

// resolveSession accepts either a 1-based list index or a conversation ID.
func resolveSession(store *storage.Store, ref string) (*model.Conversation, error) {
	if ref == "" {
		return nil, errors.New("missing session reference (index or id)")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		conv, err := store.LoadByIndex(n - 1)
		if err != nil {
			return nil, fmt.Errorf("no session at index %d", n)
		}
		return conv, nil
	}
	conv, err := store.Load(ref)
	if errors.Is(err, storage.ErrConversationNotFound) {
		return nil, fmt.Errorf("no session with id %s", ref)
	}
	return conv, err
}

func showSession(store *storage.Store, ref string) error {
	conv, err := resolveSession(store, ref)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", conv.GetTitle())
	fmt.Printf("model: %s  updated: %s\n\n", conv.Model, conv.UpdatedAt.Format("2006-01-02 15:04"))
	for _, msg := range conv.Display {
		fmt.Printf("%s:\n%s\n\n", msg.Role.DisplayName(), msg.Content)
	}
	return nil
}

func searchSessions(store *storage.Store, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("missing search query")
	}
	sessions, err := store.Search(query)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Printf("No sessions matching %q.\n", query)
		return nil
	}
	fmt.Print(storage.FormatSessionList(sessions))
	return nil
}

func deleteSession(store *storage.Store, ref string) error {
	conv, err := resolveSession(store, ref)
	if err != nil {
		return err
	}
	if err := store.Delete(conv.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s (%s)\n", conv.ID, conv.GetTitle())
	return nil
}

func clearSessions(store *storage.Store, confirmed bool) error {
	count, err := store.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}
	if !confirmed {
		return fmt.Errorf("refusing to delete %d sessions without --confirm", count)
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Printf("Deleted %d sessions.\n", count)
	return nil
}
