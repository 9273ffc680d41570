package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"

	"kindminds/chat-core/types"
)

var orderDesc = &postgrest.OrderOpts{Ascending: false}

// ListChats returns the user's chats in one tab, most recently updated
// first, ties broken by creation time.
func (s *Store) ListChats(ctx context.Context, userID string, tab types.ChatTab) ([]types.Chat, error) {
	if userID == "" {
		return nil, fmt.Errorf("missing user ID")
	}

	resp, _, err := s.client.From("chats").
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("tab", string(tab)).
		Order("updated_at", orderDesc).
		Order("created_at", orderDesc).
		Execute()

	if err := normalizeErr("failed to fetch chats", err); err != nil {
		return nil, err
	}

	var chats []types.Chat
	if err := json.Unmarshal(resp, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chat rows: %w", err)
	}
	for i := range chats {
		if chats[i].Messages == nil {
			chats[i].Messages = []types.ChatMessage{}
		}
	}
	return chats, nil
}

// InsertChat creates a chat row and returns the server-assigned copy.
func (s *Store) InsertChat(ctx context.Context, chat types.Chat) (types.Chat, error) {
	rows := []types.Chat{chat}

	resp, _, err := s.client.From("chats").
		Insert(rows, false, "", "", "").
		Execute()

	if err := normalizeErr("failed to insert chat", err); err != nil {
		return types.Chat{}, err
	}

	if err := json.Unmarshal(resp, &rows); err != nil {
		return types.Chat{}, fmt.Errorf("failed to decode inserted chat: %w", err)
	}
	if len(rows) == 0 {
		return types.Chat{}, fmt.Errorf("insert returned no chat row")
	}
	return rows[0], nil
}

// FetchMessages reads the authoritative message list for one chat.
// This is the reconciler's base for every append; the cached copy is
// never trusted as a write base.
func (s *Store) FetchMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	resp, _, err := s.client.From("chats").
		Select("messages", "", false).
		Eq("id", chatID).
		Single().
		Execute()

	if err := normalizeErr("failed to fetch chat messages", err); err != nil {
		return nil, err
	}

	var row struct {
		Messages []types.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(resp, &row); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	if row.Messages == nil {
		row.Messages = []types.ChatMessage{}
	}
	return row.Messages, nil
}

// UpdateMessages persists the reconciled message list with a refreshed
// updated_at. A non-empty title replaces the chat title (user-message
// appends); an empty one leaves it alone (assistant appends).
func (s *Store) UpdateMessages(ctx context.Context, chatID string, messages []types.ChatMessage, title string) (types.Chat, error) {
	updates := map[string]interface{}{
		"messages":   messages,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if title != "" {
		updates["title"] = title
	}

	resp, _, err := s.client.From("chats").
		Update(updates, "", "").
		Eq("id", chatID).
		Execute()

	if err := normalizeErr("failed to update chat", err); err != nil {
		return types.Chat{}, err
	}

	var rows []types.Chat
	if err := json.Unmarshal(resp, &rows); err != nil {
		return types.Chat{}, fmt.Errorf("failed to decode updated chat: %w", err)
	}
	if len(rows) == 0 {
		return types.Chat{}, fmt.Errorf("no chat found or updated")
	}
	return rows[0], nil
}

func (s *Store) DeleteChat(ctx context.Context, chatID string) error {
	_, _, err := s.client.From("chats").
		Delete("", "").
		Eq("id", chatID).
		Execute()

	return normalizeErr("failed to delete chat", err)
}

// listAll fetches every chat the user owns, both tabs; the polling
// change feed diffs successive snapshots of this.
func (s *Store) listAll(userID string) ([]types.Chat, error) {
	resp, _, err := s.client.From("chats").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("updated_at", orderDesc).
		Execute()

	if err := normalizeErr("failed to fetch chats", err); err != nil {
		return nil, err
	}

	var chats []types.Chat
	if err := json.Unmarshal(resp, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chat rows: %w", err)
	}
	return chats, nil
}
