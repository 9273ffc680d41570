package types_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindminds/chat-core/types"
)

func TestDeriveTitle(t *testing.T) {
	short := "Help with my essay"
	assert.Equal(t, short, types.DeriveTitle(short))

	exact := strings.Repeat("a", 50)
	assert.Equal(t, exact, types.DeriveTitle(exact))

	long := "Explain derivatives in calculus please help me understand this concept better"
	assert.Equal(t, long[:50]+"...", types.DeriveTitle(long))

	// Multibyte content truncates on runes, not bytes.
	wide := strings.Repeat("日", 60)
	got := types.DeriveTitle(wide)
	assert.Equal(t, strings.Repeat("日", 50)+"...", got)
}

func TestLastActivity(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := types.Chat{CreatedAt: created}
	assert.Equal(t, created, c.LastActivity())

	updated := created.Add(time.Hour)
	c.UpdatedAt = &updated
	assert.Equal(t, updated, c.LastActivity())
}

func TestNewMessageID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := types.NewMessageID()
		assert.True(t, strings.HasPrefix(id, "msg-"))
		assert.False(t, seen[id], "ids must not collide")
		seen[id] = true
	}
}

func TestStoreErrorMeaningful(t *testing.T) {
	assert.False(t, (&types.StoreError{}).Meaningful())
	assert.True(t, (&types.StoreError{Message: "row not found"}).Meaningful())
	assert.True(t, (&types.StoreError{Hint: "check RLS"}).Meaningful())
}

func TestMeaningfulError(t *testing.T) {
	assert.NoError(t, types.MeaningfulError(nil))
	assert.NoError(t, types.MeaningfulError(&types.StoreError{}))

	wrapped := fmt.Errorf("update failed: %w", &types.StoreError{})
	assert.NoError(t, types.MeaningfulError(wrapped), "empty placeholders stay success even when wrapped")

	real := &types.StoreError{Message: "duplicate key", Code: "23505"}
	require.Error(t, types.MeaningfulError(real))

	plain := errors.New("network down")
	assert.Equal(t, plain, types.MeaningfulError(plain))
}
