package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatTab classifies what a chat is for. Immutable after creation.
type ChatTab string

const (
	TabAcademic    ChatTab = "academic"
	TabMindfulness ChatTab = "mindfulness"
)

// ChatRole is the author of a message. There are exactly two
// participants per exchange; no system role is persisted.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// Metadata keys the UI understands. Anything else riding in a message's
// metadata bag is passed through untouched.
const (
	MetaCTA          = "cta"
	MetaActivityType = "activityType"
	MetaButtonLabel  = "buttonLabel"
)

type ChatMessage struct {
	ID        string         `json:"id"`
	Role      ChatRole       `json:"role"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Chat is one persisted conversation thread. Messages are append-only
// from the client's point of view and keep insertion order.
type Chat struct {
	ID        string        `json:"id,omitempty"` // empty on insert so the DB assigns it
	UserID    string        `json:"user_id"`
	Tab       ChatTab       `json:"tab"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// LastActivity is the sort key for chat lists: updated_at when set,
// created_at otherwise.
func (c Chat) LastActivity() time.Time {
	if c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

const (
	DefaultChatTitle = "New Chat"
	titleLimit       = 50
)

// DeriveTitle builds a chat title from a user message: the first 50
// characters, with an ellipsis marker when truncated.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

// NewMessageID returns a client-generated message id. Timestamp plus a
// random suffix keeps near-simultaneous sends from colliding.
func NewMessageID() string {
	return fmt.Sprintf("msg-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// NewTimestamp is the wire format for message timestamps.
func NewTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
