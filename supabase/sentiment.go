package supabase

import (
	"context"

	"kindminds/chat-core/types"
)

// InsertSentimentEvent appends one analytics record. Write-once; the
// core never reads these back.
func (s *Store) InsertSentimentEvent(ctx context.Context, ev types.SentimentEvent) error {
	_, _, err := s.client.From("sentiment_logs").
		Insert(ev, false, "", "", "").
		Execute()

	return normalizeErr("failed to insert sentiment log", err)
}
