package timeline

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/tictactoe"
)

var ErrInvalidTimeline = errors.New("invalid timeline")

// History builds the navigation entries for a timeline of the given length.
func History(length, cursor int) []entity.HistoryEntry {
	entries := make([]entity.HistoryEntry, 0, length)
	for i := 0; i < length; i++ {
		entries = append(entries, entity.HistoryEntry{
			Index:   i,
			Label:   Label(i, i == cursor),
			Current: i == cursor,
		})
	}

	return entries
}

func Label(index int, current bool) string {
	label := "Go to game start"
	if index > 0 {
		label = fmt.Sprintf("Go to move #%d", index)
	}

	if current {
		label += " (current)"
	}

	return label
}

// StatusLine is the one-line summary shown above the board.
func StatusLine(snapshot entity.Snapshot) string {
	if snapshot.IsWon() {
		return "Winner " + snapshot.LastMover.String()
	}

	switch snapshot.Status {
	case entity.StatusDraw:
		return "Draw"
	default:
		return "Next Player: " + snapshot.NextTurn.String()
	}
}

// validate checks that boards is a timeline reachable by legal play up to
// its last snapshot and that cursor points into it.
func validate(boards []entity.Board, cursor int) error {
	if len(boards) == 0 {
		return fmt.Errorf("%w: no snapshots", ErrInvalidTimeline)
	}

	if cursor < 0 || cursor >= len(boards) {
		return fmt.Errorf("%w: cursor %d outside %d snapshots", ErrInvalidTimeline, cursor, len(boards))
	}

	if boards[0] != (entity.Board{}) {
		return fmt.Errorf("%w: first snapshot is not empty", ErrInvalidTimeline)
	}

	for i := 1; i < len(boards); i++ {
		if _, won := tictactoe.FindWinner(boards[i-1]); won {
			return fmt.Errorf("%w: move %d follows a won position", ErrInvalidTimeline, i)
		}

		if err := checkStep(boards[i-1], boards[i], tictactoe.TurnFor(i-1)); err != nil {
			return fmt.Errorf("%w: move %d: %w", ErrInvalidTimeline, i, err)
		}
	}

	return nil
}

func checkStep(prev, next entity.Board, mover entity.Mark) error {
	changed := 0
	for cell := range prev {
		if prev[cell] == next[cell] {
			continue
		}

		if !prev[cell].IsEmpty() || next[cell] != mover {
			return fmt.Errorf("cell %d changed from %q to %q", cell, prev[cell], next[cell])
		}

		changed++
	}

	if changed != 1 {
		return fmt.Errorf("%d cells changed", changed)
	}

	return nil
}
