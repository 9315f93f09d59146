package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

func (that *Server) handleNewGame(ctx context.Context, current *client, _ *RequestPayload) error {
	gameID, snapshot, err := that.games.NewGame(ctx)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.watch(ctx, current, gameID); err != nil {
		return err
	}

	current.sendMessage(actionNewGame, ResponsePayload{GameID: gameID, Snapshot: &snapshot})

	return nil
}

// handleState - returns the game state and subscribes the client to its updates.
func (that *Server) handleState(ctx context.Context, current *client, payload *RequestPayload) error {
	if payload.GameID == "" {
		return fmt.Errorf("%w: game_id is required", apperror.ErrInvalidRequest)
	}

	if err := that.watch(ctx, current, payload.GameID); err != nil {
		return err
	}

	snapshot, err := that.games.State(ctx, payload.GameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	current.sendMessage(actionState, ResponsePayload{GameID: payload.GameID, Snapshot: &snapshot})

	return nil
}

func (that *Server) handleTurn(ctx context.Context, current *client, payload *RequestPayload) error {
	if payload.GameID == "" || payload.Cell == nil {
		return fmt.Errorf("%w: game_id and cell are required", apperror.ErrInvalidRequest)
	}

	if err := that.watch(ctx, current, payload.GameID); err != nil {
		return err
	}

	result, snapshot, err := that.games.ApplyMove(ctx, payload.GameID, *payload.Cell)
	if err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	current.sendMessage(actionTurn, ResponsePayload{GameID: payload.GameID, Snapshot: &snapshot, Result: &result})

	return nil
}

func (that *Server) handleGoTo(ctx context.Context, current *client, payload *RequestPayload) error {
	if payload.GameID == "" || payload.Index == nil {
		return fmt.Errorf("%w: game_id and index are required", apperror.ErrInvalidRequest)
	}

	if err := that.watch(ctx, current, payload.GameID); err != nil {
		return err
	}

	snapshot, err := that.games.GoTo(ctx, payload.GameID, *payload.Index)
	if err != nil {
		return fmt.Errorf("failed to go to snapshot: %w", err)
	}

	current.sendMessage(actionGoTo, ResponsePayload{GameID: payload.GameID, Snapshot: &snapshot})

	return nil
}

func (that *Server) handleReset(ctx context.Context, current *client, payload *RequestPayload) error {
	if payload.GameID == "" {
		return fmt.Errorf("%w: game_id is required", apperror.ErrInvalidRequest)
	}

	if err := that.watch(ctx, current, payload.GameID); err != nil {
		return err
	}

	snapshot, err := that.games.Reset(ctx, payload.GameID)
	if err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	current.sendMessage(actionReset, ResponsePayload{GameID: payload.GameID, Snapshot: &snapshot})

	return nil
}

// watch forwards every change of the game to the client as game:update.
func (that *Server) watch(ctx context.Context, current *client, gameID string) error {
	err := current.watch(gameID, func() (func(), error) {
		that.logger.Debug("client subscribed", "client", current.id, "gameID", gameID)

		return that.games.Subscribe(ctx, gameID, func(snapshot entity.Snapshot) {
			current.sendMessage(actionUpdate, ResponsePayload{GameID: gameID, Snapshot: &snapshot})
		})
	})
	if err != nil {
		return fmt.Errorf("failed to watch game: %w", err)
	}

	return nil
}
