package supabase

import (
	"context"
)

// EnsureProfile lazily creates the user's profile row. Chat rows
// reference profiles, so this runs before every chat insert; the
// upsert makes it idempotent.
func (s *Store) EnsureProfile(ctx context.Context, userID string) error {
	row := map[string]interface{}{"id": userID}

	_, _, err := s.client.From("profiles").
		Upsert(row, "id", "", "").
		Execute()

	return normalizeErr("failed to ensure profile row", err)
}
