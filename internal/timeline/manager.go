package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/tictactoe"
)

// Keys under which the timeline is mirrored to the store.
const (
	KeyBoards = "keys/boards"
	KeyStep   = "keys/step"
)

var ErrIndexOutOfRange = errors.New("snapshot index out of range")

// Store mirrors timeline state to a key-value backend.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, dst any) (bool, error)
	ClearAll(ctx context.Context) error
}

// Observer receives the new view after every applied change.
type Observer func(snapshot entity.Snapshot)

// Manager owns the snapshots of one game and the cursor into them.
// It is not safe for concurrent use.
type Manager struct {
	logger *slog.Logger
	store  Store

	timeline []entity.Board
	cursor   int

	observers map[int]Observer
	nextID    int
}

func NewManager(logger *slog.Logger, store Store) *Manager {
	return &Manager{
		logger:    logger.With("component", "timeline"),
		store:     store,
		timeline:  []entity.Board{{}},
		observers: make(map[int]Observer),
	}
}

// ApplyMove places the mark whose turn it is on cell of the current
// snapshot. Moves on a won snapshot or an occupied cell are ignored.
func (that *Manager) ApplyMove(ctx context.Context, cell int) MoveResult {
	current := that.timeline[that.cursor]

	if _, won := tictactoe.FindWinner(current); won {
		return ignored(ReasonGameWon)
	}

	if !entity.IsValidCell(cell) {
		return ignored(ReasonInvalidCell)
	}

	if !current[cell].IsEmpty() {
		return ignored(ReasonCellOccupied)
	}

	next := current.With(cell, tictactoe.TurnFor(that.cursor))

	that.TruncateAfter(that.cursor)
	that.timeline = append(that.timeline, next)
	that.cursor++

	that.save(ctx, KeyBoards, that.timeline)
	that.save(ctx, KeyStep, that.cursor)
	that.notify()

	return applied()
}

// GoTo moves the cursor to index without discarding any snapshot.
func (that *Manager) GoTo(ctx context.Context, index int) error {
	if index < 0 || index >= len(that.timeline) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(that.timeline))
	}

	that.cursor = index

	that.save(ctx, KeyStep, that.cursor)
	that.notify()

	return nil
}

// Reset replaces the timeline with a single empty board and clears the store.
func (that *Manager) Reset(ctx context.Context) {
	that.timeline = []entity.Board{{}}
	that.cursor = 0

	if err := that.store.ClearAll(ctx); err != nil {
		that.logger.Error("failed to clear persisted state", "error", err)
	}

	that.notify()
}

// TruncateAfter discards every snapshot after index.
func (that *Manager) TruncateAfter(index int) {
	if index+1 < len(that.timeline) {
		that.timeline = that.timeline[:index+1]
	}
}

// Restore loads a previously persisted timeline. Missing or malformed
// state leaves the manager untouched and reports false.
func (that *Manager) Restore(ctx context.Context) bool {
	log := that.logger.With("method", "Restore")

	var boards []entity.Board
	found, err := that.store.Load(ctx, KeyBoards, &boards)
	if err != nil {
		log.Warn("ignoring persisted boards", "error", err)
		return false
	}

	if !found {
		return false
	}

	var step int
	found, err = that.store.Load(ctx, KeyStep, &step)
	if err != nil {
		log.Warn("ignoring persisted step", "error", err)
		return false
	}

	if !found {
		step = len(boards) - 1
	}

	if err = validate(boards, step); err != nil {
		log.Warn("ignoring persisted timeline", "error", err)
		return false
	}

	that.timeline = boards
	that.cursor = step
	that.notify()

	return true
}

// Subscribe registers fn for change notifications and returns a function
// removing it.
func (that *Manager) Subscribe(fn Observer) func() {
	id := that.nextID
	that.nextID++
	that.observers[id] = fn

	return func() {
		delete(that.observers, id)
	}
}

func (that *Manager) Snapshot() entity.Snapshot {
	board := that.timeline[that.cursor]
	winner, _ := tictactoe.FindWinner(board)
	status := tictactoe.StatusOf(board, that.cursor)

	var nextTurn entity.Mark
	if status == entity.StatusEmpty || status == entity.StatusInProgress {
		nextTurn = tictactoe.TurnFor(that.cursor)
	}

	return entity.Snapshot{
		Board:     board,
		Cursor:    that.cursor,
		Length:    len(that.timeline),
		Winner:    winner,
		NextTurn:  nextTurn,
		LastMover: tictactoe.LastMover(that.cursor),
		Status:    status,
		History:   History(len(that.timeline), that.cursor),
	}
}

// Board returns the snapshot at index.
func (that *Manager) Board(index int) (entity.Board, error) {
	if index < 0 || index >= len(that.timeline) {
		return entity.Board{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	return that.timeline[index], nil
}

func (that *Manager) Winner() (entity.Mark, bool) {
	return tictactoe.FindWinner(that.timeline[that.cursor])
}

func (that *Manager) Len() int {
	return len(that.timeline)
}

func (that *Manager) Cursor() int {
	return that.cursor
}

func (that *Manager) save(ctx context.Context, key string, value any) {
	if err := that.store.Save(ctx, key, value); err != nil {
		that.logger.Error("failed to persist state", "key", key, "error", err)
	}
}

func (that *Manager) notify() {
	if len(that.observers) == 0 {
		return
	}

	snapshot := that.Snapshot()
	for _, fn := range that.observers {
		fn(snapshot)
	}
}
