package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

// Render writes the board, the status line and the history list.
func Render(w io.Writer, snapshot entity.Snapshot) error {
	var b strings.Builder

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = cellText(snapshot.Board[row*3+col], row*3+col)
		}

		b.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}

	b.WriteString("\n" + timeline.StatusLine(snapshot) + "\n\n")

	for _, entry := range snapshot.History {
		fmt.Fprintf(&b, "  [%d] %s\n", entry.Index, entry.Label)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	return nil
}

// cellText shows the mark, or the cell number as a hint when empty.
func cellText(mark entity.Mark, cell int) string {
	if mark.IsEmpty() {
		return fmt.Sprintf("%d", cell)
	}

	return mark.String()
}
