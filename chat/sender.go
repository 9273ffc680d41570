package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kindminds/chat-core/config"
	"kindminds/chat-core/sentiment"
	"kindminds/chat-core/types"
)

// FallbackAssistantReply is recorded as a normal assistant message when
// the completion call fails, so the chat stays consistent and the user
// sees that connectivity, not their message, was the problem.
const FallbackAssistantReply = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."

// Sender drives one user submission end to end: optimistic append,
// sentiment routing, completion request, and folding the reply (or a
// connectivity fallback) back into the chat.
type Sender struct {
	store    *Store
	infer    Inference
	router   *sentiment.Router
	launcher sentiment.ActivityLauncher

	mu        sync.Mutex
	suggested map[string]string // chat id -> activity suggested last turn
}

func NewSender(store *Store, infer Inference, router *sentiment.Router, launcher sentiment.ActivityLauncher) *Sender {
	return &Sender{
		store:     store,
		infer:     infer,
		router:    router,
		launcher:  launcher,
		suggested: make(map[string]string),
	}
}

// Send records a user message on the current chat of the tab (creating
// one when needed), routes its sentiment, and requests the assistant
// reply. Sentiment failures never block the send; a completion failure
// is surfaced as a fallback assistant message rather than an error.
func (s *Sender) Send(ctx context.Context, tab types.ChatTab, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || !s.store.Authenticated() {
		return nil
	}

	userMsg := types.ChatMessage{
		ID:        types.NewMessageID(),
		Role:      types.RoleUser,
		Content:   text,
		Timestamp: types.NewTimestamp(),
	}

	active := s.store.CurrentChat()
	var history []types.ChatMessage
	if active == nil || active.Tab != tab {
		created, err := s.store.CreateChat(ctx, tab, &userMsg)
		if err != nil {
			return fmt.Errorf("unable to create chat: %w", err)
		}
		if created == nil {
			return nil
		}
		active = created
		history = created.Messages
	} else {
		history = append(append([]types.ChatMessage{}, active.Messages...), userMsg)
		if err := s.store.AddMessage(ctx, active.ID, userMsg, active); err != nil {
			// The store kept an optimistic copy; keep going so the
			// user still gets a reply.
			config.Logger.Error("Failed to persist user message:", err)
		}
	}

	s.mu.Lock()
	previousSuggestion := s.suggested[active.ID]
	s.mu.Unlock()

	// Sentiment runs before the reply request so the assistant can
	// reference the outcome. Crisis navigation happens inside Evaluate.
	decision := s.router.Evaluate(ctx, active.ID, text)
	hint := decision.Hint()

	s.store.SetPending(active.ID)

	req := types.CompletionRequest{
		Messages:  promptMessages(history),
		ChatType:  tab,
		Sentiment: hint,
	}

	reply, err := s.infer.Complete(ctx, req)
	if err != nil {
		config.Logger.Error("Completion request failed:", err)
		s.store.ClearPending(active.ID)
		fallback := types.ChatMessage{
			ID:        types.NewMessageID(),
			Role:      types.RoleAssistant,
			Content:   FallbackAssistantReply,
			Timestamp: types.NewTimestamp(),
		}
		if appendErr := s.store.AddMessage(ctx, active.ID, fallback, active); appendErr != nil {
			config.Logger.Error("Failed to record fallback reply:", appendErr)
		}
	} else {
		assistantMsg := types.ChatMessage{
			ID:        types.NewMessageID(),
			Role:      types.RoleAssistant,
			Content:   reply,
			Timestamp: types.NewTimestamp(),
		}
		if hint != nil {
			// UI affordance only; the store treats this as opaque.
			assistantMsg.Metadata = map[string]any{
				types.MetaCTA:          "suggested-activity",
				types.MetaActivityType: hint.SuggestedActivity,
			}
		}
		if appendErr := s.store.AddMessage(ctx, active.ID, assistantMsg, active); appendErr != nil {
			config.Logger.Error("Failed to persist assistant message:", appendErr)
		}
	}

	// "The assistant suggested X last turn, the user just agreed, so
	// start X." Crisis never goes through here; it already navigated.
	if previousSuggestion != "" && sentiment.IsAffirmative(text) {
		config.Logger.Info("User agreed to suggested activity:", previousSuggestion)
		s.launcher.StartActivity(previousSuggestion)
	}

	s.mu.Lock()
	if hint != nil {
		s.suggested[active.ID] = hint.SuggestedActivity
	} else if decision != nil {
		// A scored turn with no suggestion retires last turn's offer.
		delete(s.suggested, active.ID)
	}
	s.mu.Unlock()

	return nil
}

func promptMessages(msgs []types.ChatMessage) []types.PromptMessage {
	out := make([]types.PromptMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, types.PromptMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
