package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.history.Append(ctx, "user:1", "User: hi"))
	require.NoError(t, env.history.Append(ctx, "user:1", "Assistant: hello"))

	entries, err := env.history.List(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: hi", "Assistant: hello"}, entries)
}

func TestHistorySessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.history.Append(ctx, "user:1", "User: hi"))

	entries, err := env.history.List(ctx, "user:2")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryKeepsLastTenEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		require.NoError(t, env.history.Append(ctx, "user:1", fmt.Sprintf("entry %d", i)))
	}

	entries, err := env.history.List(ctx, "user:1")
	require.NoError(t, err)
	require.Len(t, entries, 10)
	assert.Equal(t, "entry 6", entries[0])
	assert.Equal(t, "entry 15", entries[9])
}

func TestHistoryClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.history.Append(ctx, "user:1", "User: hi"))
	require.NoError(t, env.history.Clear(ctx, "user:1"))

	entries, err := env.history.List(ctx, "user:1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// clearing an empty session is not an error
	require.NoError(t, env.history.Clear(ctx, "user:1"))
}
