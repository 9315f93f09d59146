package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	PlayerX = Mark("X")
	PlayerO = Mark("O")

	EmptyCell = Mark("")
)

// BoardSize is the number of cells on the 3x3 board.
const BoardSize = 9

var ErrInvalidMark = errors.New("invalid mark")

// Mark is the content of a single cell: EmptyCell, PlayerX or PlayerO.
type Mark string

func (that Mark) IsEmpty() bool {
	return that == EmptyCell
}

func (that Mark) String() string {
	return string(that)
}

// Board is one row-major 3x3 configuration, cells indexed 0..8.
type Board [BoardSize]Mark

// IsValidCell reports whether cell addresses a square of the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// With returns a copy of the board with cell set to mark.
func (that Board) With(cell int, mark Mark) Board {
	next := that
	next[cell] = mark

	return next
}

// Occupied returns the number of non-empty cells.
func (that Board) Occupied() int {
	count := 0
	for _, cell := range that {
		if !cell.IsEmpty() {
			count++
		}
	}

	return count
}

// MarshalJSON encodes the board as nine nullable single-character markers.
func (that Board) MarshalJSON() ([]byte, error) {
	cells := make([]*string, BoardSize)
	for i, cell := range that {
		if cell.IsEmpty() {
			continue
		}

		value := cell.String()
		cells[i] = &value
	}

	return json.Marshal(cells)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("%w: board has %d cells", ErrInvalidMark, len(cells))
	}

	var board Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}

		switch mark := Mark(*cell); mark {
		case PlayerX, PlayerO:
			board[i] = mark
		default:
			return fmt.Errorf("%w: %q at cell %d", ErrInvalidMark, *cell, i)
		}
	}

	*that = board

	return nil
}
