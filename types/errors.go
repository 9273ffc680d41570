package types

import (
	"errors"
	"fmt"
)

// ErrChatNotFound: an append targeted a chat that is neither cached nor
// supplied as a fallback. There is nothing safe to merge into.
var ErrChatNotFound = errors.New("chat not found")

// StoreError is a persistence-service rejection. Supabase is known to
// return error-shaped responses with every field empty alongside valid
// data; Meaningful distinguishes those from genuine failures.
type StoreError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("persistence error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("persistence error: %s", e.Message)
}

// Meaningful reports whether the error carries any actual content. An
// empty placeholder must be treated as success, not failure.
func (e *StoreError) Meaningful() bool {
	if e == nil {
		return false
	}
	return e.Message != "" || e.Code != "" || e.Details != "" || e.Hint != ""
}

// MeaningfulError normalizes the empty-error-object quirk at the
// persistence boundary: a *StoreError with no content comes back nil.
func MeaningfulError(err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) && !se.Meaningful() {
		return nil
	}
	return err
}
