package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timeline/testing/suite"
)

func TestRedisStore_SaveLoad(t *testing.T) {
	ctx, st := suite.New(t)

	store := NewRedisStore(st.Redis, "123")

	// Given: a saved cursor
	err := store.Save(ctx, "keys/step", 3)
	require.NoError(t, err)

	// When: loading it back
	var step int
	found, err := store.Load(ctx, "keys/step", &step)

	// Then: the value is found under the game prefix
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, step)
	assert.Equal(t, []string{"game:123:keys/step"}, st.Keys(ctx, "*"))
}

func TestRedisStore_Load(t *testing.T) {
	t.Run("Missing key", func(t *testing.T) {
		ctx, st := suite.New(t)

		store := NewRedisStore(st.Redis, "123")

		var step int
		found, err := store.Load(ctx, "keys/step", &step)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Malformed value", func(t *testing.T) {
		ctx, st := suite.New(t)

		store := NewRedisStore(st.Redis, "123")
		require.NoError(t, st.Redis.Set(ctx, "game:123:keys/step", "{oops", 0).Err())

		var step int
		found, err := store.Load(ctx, "keys/step", &step)

		require.ErrorIs(t, err, ErrMalformed)
		assert.False(t, found)
	})
}

func TestRedisStore_ClearAll(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: two games with persisted state
	first := NewRedisStore(st.Redis, "first")
	second := NewRedisStore(st.Redis, "second")

	require.NoError(t, first.Save(ctx, "keys/step", 1))
	require.NoError(t, first.Save(ctx, "keys/boards", []string{"a"}))
	require.NoError(t, second.Save(ctx, "keys/step", 2))

	// When: clearing the first game
	err := first.ClearAll(ctx)

	// Then: only the second game keeps its keys
	require.NoError(t, err)
	assert.Equal(t, []string{"game:second:keys/step"}, st.Keys(ctx, "*"))
}

func TestRedisGames(t *testing.T) {
	ctx, st := suite.New(t)

	games := NewRedisGames(st.Redis)

	// Given: an unknown game
	ok, err := games.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	// When: registering it
	require.NoError(t, games.Register(ctx, "abc"))

	// Then: it exists and its store is usable
	ok, err = games.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, games.Store("abc").Save(ctx, "keys/step", 0))
}
