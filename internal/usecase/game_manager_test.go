package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Register(ctx context.Context, gameID string) error {
	return that.Called(ctx, gameID).Error(0)
}

func (that *mockGameRepo) Exists(ctx context.Context, gameID string) (bool, error) {
	args := that.Called(ctx, gameID)
	return args.Bool(0), args.Error(1)
}

func newGameManager(games *repository.MemoryGames) *GameManager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewGameManager(logger, games, func(gameID string) timeline.Store {
		return games.Store(gameID)
	})
}

func TestGameManager_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates an empty registered game", func(t *testing.T) {
		// Given: an empty registry
		games := repository.NewMemoryGames()
		manager := newGameManager(games)

		// When: creating a game
		gameID, snapshot, err := manager.NewGame(ctx)

		// Then: the game exists and is empty
		require.NoError(t, err)
		assert.NotEmpty(t, gameID)
		assert.Equal(t, entity.StatusEmpty, snapshot.Status)
		assert.Equal(t, 1, snapshot.Length)

		exists, err := games.Exists(ctx, gameID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Registration failure", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("Register", mock.Anything, mock.AnythingOfType("string")).Return(errRedisDown).Once()

		manager := NewGameManager(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, func(string) timeline.Store {
			return repository.NewMemoryStore()
		})

		_, _, err := manager.NewGame(ctx)

		require.ErrorIs(t, err, errRedisDown)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_Play(t *testing.T) {
	ctx := context.Background()
	manager := newGameManager(repository.NewMemoryGames())

	gameID, _, err := manager.NewGame(ctx)
	require.NoError(t, err)

	// When: playing the top row for X
	for _, cell := range []int{0, 4, 1, 3, 2} {
		result, _, err := manager.ApplyMove(ctx, gameID, cell)
		require.NoError(t, err)
		require.True(t, result.Applied)
	}

	// Then: X has won and further moves are ignored
	result, snapshot, err := manager.ApplyMove(ctx, gameID, 5)
	require.NoError(t, err)
	assert.Equal(t, timeline.ReasonGameWon, result.Reason)
	assert.Equal(t, entity.StatusWon, snapshot.Status)
	assert.Equal(t, entity.PlayerX, snapshot.Winner)
	assert.Equal(t, 6, snapshot.Length)

	// When: going back and branching
	snapshot, err = manager.GoTo(ctx, gameID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Cursor)

	_, snapshot, err = manager.ApplyMove(ctx, gameID, 8)
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.Length)
	assert.Equal(t, 3, snapshot.Cursor)

	// When: going out of range
	_, err = manager.GoTo(ctx, gameID, 10)
	require.ErrorIs(t, err, timeline.ErrIndexOutOfRange)

	// When: resetting
	snapshot, err = manager.Reset(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Length)

	state, err := manager.State(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, snapshot, state)
}

func TestGameManager_UnknownGame(t *testing.T) {
	ctx := context.Background()
	manager := newGameManager(repository.NewMemoryGames())

	_, err := manager.State(ctx, "missing")
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	_, _, err = manager.ApplyMove(ctx, "missing", 0)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	_, err = manager.Subscribe(ctx, "missing", func(entity.Snapshot) {})
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}

func TestGameManager_ExistsFailure(t *testing.T) {
	repo := &mockGameRepo{}
	repo.On("Exists", mock.Anything, "abc").Return(false, errRedisDown).Once()

	manager := NewGameManager(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, func(string) timeline.Store {
		return repository.NewMemoryStore()
	})

	_, err := manager.State(context.Background(), "abc")

	require.ErrorIs(t, err, errRedisDown)
	repo.AssertExpectations(t)
}

func TestGameManager_Restore(t *testing.T) {
	ctx := context.Background()

	// Given: a game played through one manager
	games := repository.NewMemoryGames()
	first := newGameManager(games)

	gameID, _, err := first.NewGame(ctx)
	require.NoError(t, err)

	_, _, err = first.ApplyMove(ctx, gameID, 4)
	require.NoError(t, err)

	// When: a second manager over the same storage loads it
	second := newGameManager(games)
	snapshot, err := second.State(ctx, gameID)

	// Then: the state is rehydrated
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Length)
	assert.Equal(t, entity.PlayerX, snapshot.Board[4])
}

func TestGameManager_Subscribe(t *testing.T) {
	ctx := context.Background()
	manager := newGameManager(repository.NewMemoryGames())

	gameID, _, err := manager.NewGame(ctx)
	require.NoError(t, err)

	var received []entity.Snapshot
	unsubscribe, err := manager.Subscribe(ctx, gameID, func(snapshot entity.Snapshot) {
		received = append(received, snapshot)
	})
	require.NoError(t, err)

	_, _, err = manager.ApplyMove(ctx, gameID, 0)
	require.NoError(t, err)

	unsubscribe()

	_, _, err = manager.ApplyMove(ctx, gameID, 1)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, entity.PlayerX, received[0].Board[0])
}

func TestGameManager_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()
	manager := newGameManager(repository.NewMemoryGames())

	gameID, _, err := manager.NewGame(ctx)
	require.NoError(t, err)

	// When: every cell is played at once from different goroutines
	var wg sync.WaitGroup
	for cell := 0; cell < entity.BoardSize; cell++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = manager.ApplyMove(ctx, gameID, cell)
		}()
	}
	wg.Wait()

	// Then: the timeline is still consistent
	snapshot, err := manager.State(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Length-1, snapshot.Cursor)
	assert.Equal(t, snapshot.Length-1, snapshot.Board.Occupied())
}

func TestGameManager_ConcurrentNewGames(t *testing.T) {
	ctx := context.Background()
	manager := newGameManager(repository.NewMemoryGames())

	// When: games are created and played from different goroutines
	const players = 8

	var wg sync.WaitGroup
	snapshots := make([]entity.Snapshot, players)
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			gameID, created, err := manager.NewGame(ctx)
			assert.NoError(t, err)

			_, _, err = manager.ApplyMove(ctx, gameID, i%entity.BoardSize)
			assert.NoError(t, err)

			snapshots[i] = created
		}()
	}
	wg.Wait()

	// Then: every caller got the empty starting snapshot of its own game
	for _, snapshot := range snapshots {
		assert.Equal(t, entity.StatusEmpty, snapshot.Status)
		assert.Equal(t, 1, snapshot.Length)
		assert.Equal(t, 0, snapshot.Board.Occupied())
	}
}
