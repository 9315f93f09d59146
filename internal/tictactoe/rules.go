package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

// WinCombos lists the winning lines in lookup order: rows top to bottom,
// columns left to right, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// tristate is the outcome of comparing two cells; unknown when either is empty.
type tristate int

const (
	unknown tristate = iota
	unequal
	equal
)

func compare(first, second entity.Mark) tristate {
	if first.IsEmpty() || second.IsEmpty() {
		return unknown
	}

	if first == second {
		return equal
	}

	return unequal
}

// FindWinner returns the mark of the first completed line of the board.
func FindWinner(board entity.Board) (entity.Mark, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if compare(a, b) == equal && compare(b, c) == equal {
			return a, true
		}
	}

	return entity.EmptyCell, false
}

// TurnFor returns the mark that moves from the snapshot at index.
func TurnFor(index int) entity.Mark {
	if index%2 == 0 {
		return entity.PlayerX
	}

	return entity.PlayerO
}

// LastMover returns the mark that produced the snapshot at index, or
// EmptyCell for the initial board.
func LastMover(index int) entity.Mark {
	if index <= 0 {
		return entity.EmptyCell
	}

	return TurnFor(index - 1)
}

func IsFull(board entity.Board) bool {
	return board.Occupied() == entity.BoardSize
}

// StatusOf derives the game status of board reached at index.
func StatusOf(board entity.Board, index int) entity.Status {
	if _, ok := FindWinner(board); ok {
		return entity.StatusWon
	}

	switch {
	case IsFull(board):
		return entity.StatusDraw
	case index == 0:
		return entity.StatusEmpty
	default:
		return entity.StatusInProgress
	}
}
