package types

import "time"

// SentimentEvent is an append-only analytics record. The core writes
// these and never reads them back.
type SentimentEvent struct {
	ChatID    string    `json:"chat_id"`
	Sentiment string    `json:"sentiment"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// SentimentResult is the scoring endpoint's response. Score runs from
// -1 (most distressed) to 1.
type SentimentResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// SentimentHint rides along on a completion request so the assistant
// can offer an activity conversationally.
type SentimentHint struct {
	Sentiment         string  `json:"sentiment"`
	Score             float64 `json:"score"`
	SuggestedActivity string  `json:"suggested_activity"`
}

type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Messages  []PromptMessage `json:"messages"`
	ChatType  ChatTab         `json:"chat_type"`
	Sentiment *SentimentHint  `json:"sentiment,omitempty"`
}

type CompletionResponse struct {
	Response string `json:"response"`
}

type SentimentRequest struct {
	Text string `json:"text"`
}
