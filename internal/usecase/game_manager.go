package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

type gameRepo interface {
	Register(ctx context.Context, gameID string) error
	Exists(ctx context.Context, gameID string) (bool, error)
}

// StoreFunc returns the store mirroring the game with the given id.
type StoreFunc func(gameID string) timeline.Store

// game serialises access to one timeline, which is not safe for concurrent use.
type game struct {
	mu       sync.Mutex
	timeline *timeline.Manager
}

// GameManager keeps the live timelines of all games, loading them from
// storage on first use.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	storeFor StoreFunc

	// Live games are kept until the process exits.
	mu    sync.Mutex
	games map[string]*game
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, storeFor StoreFunc) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		storeFor: storeFor,
		games:    make(map[string]*game),
	}
}

// NewGame starts an empty game and returns its id.
func (that *GameManager) NewGame(ctx context.Context) (string, entity.Snapshot, error) {
	gameID := uuid.NewString()

	if err := that.gameRepo.Register(ctx, gameID); err != nil {
		return "", entity.Snapshot{}, fmt.Errorf("failed to register game: %w", err)
	}

	current := &game{
		timeline: timeline.NewManager(that.logger.With("gameID", gameID), that.storeFor(gameID)),
	}
	snapshot := current.timeline.Snapshot()

	that.mu.Lock()
	that.games[gameID] = current
	that.mu.Unlock()

	that.logger.Info("game created", "gameID", gameID)

	return gameID, snapshot, nil
}

func (that *GameManager) State(ctx context.Context, gameID string) (entity.Snapshot, error) {
	var snapshot entity.Snapshot

	err := that.withGame(ctx, gameID, func(manager *timeline.Manager) error {
		snapshot = manager.Snapshot()
		return nil
	})

	return snapshot, err
}

func (that *GameManager) ApplyMove(ctx context.Context, gameID string, cell int) (timeline.MoveResult, entity.Snapshot, error) {
	var (
		result   timeline.MoveResult
		snapshot entity.Snapshot
	)

	err := that.withGame(ctx, gameID, func(manager *timeline.Manager) error {
		result = manager.ApplyMove(ctx, cell)
		snapshot = manager.Snapshot()
		return nil
	})
	if err != nil {
		return timeline.MoveResult{}, entity.Snapshot{}, err
	}

	if !result.Applied {
		that.logger.Debug("move ignored", "gameID", gameID, "cell", cell, "reason", result.Reason)
	}

	return result, snapshot, nil
}

func (that *GameManager) GoTo(ctx context.Context, gameID string, index int) (entity.Snapshot, error) {
	var snapshot entity.Snapshot

	err := that.withGame(ctx, gameID, func(manager *timeline.Manager) error {
		if err := manager.GoTo(ctx, index); err != nil {
			return fmt.Errorf("failed to go to snapshot: %w", err)
		}

		snapshot = manager.Snapshot()
		return nil
	})

	return snapshot, err
}

func (that *GameManager) Reset(ctx context.Context, gameID string) (entity.Snapshot, error) {
	var snapshot entity.Snapshot

	err := that.withGame(ctx, gameID, func(manager *timeline.Manager) error {
		manager.Reset(ctx)
		snapshot = manager.Snapshot()
		return nil
	})

	return snapshot, err
}

// Subscribe registers fn for changes of the game. fn runs while the game
// is locked and must not call back into the GameManager for that game.
func (that *GameManager) Subscribe(ctx context.Context, gameID string, fn timeline.Observer) (func(), error) {
	current, err := that.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	current.mu.Lock()
	unsubscribe := current.timeline.Subscribe(fn)
	current.mu.Unlock()

	return func() {
		current.mu.Lock()
		unsubscribe()
		current.mu.Unlock()
	}, nil
}

func (that *GameManager) withGame(ctx context.Context, gameID string, fn func(manager *timeline.Manager) error) error {
	current, err := that.getGame(ctx, gameID)
	if err != nil {
		return err
	}

	current.mu.Lock()
	defer current.mu.Unlock()

	return fn(current.timeline)
}

// getGame returns the live game, rehydrating it from storage when it is
// known but not yet loaded.
func (that *GameManager) getGame(ctx context.Context, gameID string) (*game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.games[gameID]; ok {
		return current, nil
	}

	exists, err := that.gameRepo.Exists(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if !exists {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	manager := timeline.NewManager(that.logger.With("gameID", gameID), that.storeFor(gameID))
	if manager.Restore(ctx) {
		that.logger.Info("game restored", "gameID", gameID, "snapshots", manager.Len())
	}

	current := &game{timeline: manager}
	that.games[gameID] = current

	return current, nil
}
