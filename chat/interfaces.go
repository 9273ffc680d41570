package chat

import (
	"context"

	"kindminds/chat-core/types"
)

// Persistence is the durable row store behind the cache. The store is
// the source of truth on conflict; implementations must normalize the
// empty-error-object quirk (types.MeaningfulError) before returning.
type Persistence interface {
	// ListChats returns all of the user's chats in one tab, most
	// recently updated first.
	ListChats(ctx context.Context, userID string, tab types.ChatTab) ([]types.Chat, error)
	// InsertChat creates a row seeded with zero or one message and
	// returns the server-assigned copy.
	InsertChat(ctx context.Context, chat types.Chat) (types.Chat, error)
	// FetchMessages reads the authoritative message list for one chat.
	// The reconciler calls this on every append.
	FetchMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error)
	// UpdateMessages persists the full message list plus a refreshed
	// updated_at. A non-empty title replaces the chat title.
	UpdateMessages(ctx context.Context, chatID string, messages []types.ChatMessage, title string) (types.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	// EnsureProfile lazily creates the owning profile row so chat
	// inserts satisfy the foreign key.
	EnsureProfile(ctx context.Context, userID string) error
	InsertSentimentEvent(ctx context.Context, ev types.SentimentEvent) error
}

// Inference is the model-serving side the send flow talks to.
type Inference interface {
	AnalyzeSentiment(ctx context.Context, text string) (types.SentimentResult, error)
	Complete(ctx context.Context, req types.CompletionRequest) (string, error)
}

// ChangeType mirrors the persistence change feed's event kinds.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is one realtime notification for the owning user's chats.
// New is set for inserts and updates, Old for deletes.
type ChangeEvent struct {
	Type ChangeType
	New  *types.Chat
	Old  *types.Chat
}
