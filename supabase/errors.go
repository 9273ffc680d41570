package supabase

import (
	"encoding/json"
	"fmt"
	"strings"

	"kindminds/chat-core/types"
)

// normalizeErr applies the empty-error-object rule at the persistence
// boundary. PostgREST occasionally hands back an error payload with no
// message, code, details or hint next to perfectly valid data; that is
// success, not failure. Genuine errors come back as *types.StoreError.
func normalizeErr(op string, err error) error {
	if err == nil {
		return nil
	}

	raw := strings.TrimSpace(err.Error())
	if strings.HasPrefix(raw, "{") {
		var se types.StoreError
		if json.Unmarshal([]byte(raw), &se) == nil {
			if !se.Meaningful() {
				return nil
			}
			return fmt.Errorf("%s: %w", op, &se)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
