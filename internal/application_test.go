package application

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/config"
	"github.com/rocketscienceinc/tictactoe-timeline/testing/suite"
)

func TestNewGameManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Memory storage", func(t *testing.T) {
		ctx := context.Background()

		manager, closeStorage, err := newGameManager(ctx, logger, &config.Config{Storage: config.StorageMemory})
		require.NoError(t, err)
		defer closeStorage()

		gameID, _, err := manager.NewGame(ctx)
		require.NoError(t, err)

		_, err = manager.State(ctx, gameID)
		assert.NoError(t, err)
	})

	t.Run("Unknown storage", func(t *testing.T) {
		_, _, err := newGameManager(context.Background(), logger, &config.Config{Storage: "tape"})

		require.ErrorIs(t, err, ErrUnknownStorage)
	})

	t.Run("Empty redis host", func(t *testing.T) {
		_, _, err := newGameManager(context.Background(), logger, &config.Config{Storage: config.StorageRedis})

		require.ErrorIs(t, err, ErrAddrNotFound)
	})

	t.Run("Unreachable redis", func(t *testing.T) {
		conf := &config.Config{Storage: config.StorageRedis}
		conf.Redis.Host = "127.0.0.1"
		conf.Redis.Port = "1"

		_, _, err := newGameManager(context.Background(), logger, conf)

		require.ErrorIs(t, err, apperror.ErrStorageNotReady)
	})

	t.Run("Redis storage", func(t *testing.T) {
		ctx, st := suite.New(t)

		host, port, err := net.SplitHostPort(st.Redis.Options().Addr)
		require.NoError(t, err)

		conf := &config.Config{
			Storage: config.StorageRedis,
			Redis:   config.Redis{Host: host, Port: port},
		}

		manager, closeStorage, err := newGameManager(ctx, logger, conf)
		require.NoError(t, err)
		defer closeStorage()

		gameID, _, err := manager.NewGame(ctx)
		require.NoError(t, err)

		result, _, err := manager.ApplyMove(ctx, gameID, 4)
		require.NoError(t, err)
		assert.True(t, result.Applied)

		assert.Len(t, st.Keys(ctx, "game:"+gameID+":*"), 2)
	})
}
