package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

const prompt = "> "

const help = `commands:
  0-8    place a mark
  g <n>  go to snapshot n
  r      reset the game
  h      show this help
  q      quit
`

var ErrUnknownCommand = errors.New("unknown command")

type game interface {
	ApplyMove(ctx context.Context, cell int) timeline.MoveResult
	GoTo(ctx context.Context, index int) error
	Reset(ctx context.Context)
	Snapshot() entity.Snapshot
	Subscribe(fn timeline.Observer) func()
}

// Terminal plays one game on a text stream.
type Terminal struct {
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
	game   game
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, game game) *Terminal {
	return &Terminal{
		logger: logger.With("component", "terminal"),
		in:     in,
		out:    out,
		game:   game,
	}
}

// Run renders the game after every change until the input ends or q is read.
func (that *Terminal) Run(ctx context.Context) error {
	unsubscribe := that.game.Subscribe(func(snapshot entity.Snapshot) {
		if err := Render(that.out, snapshot); err != nil {
			that.logger.Error("failed to render", "error", err)
		}
	})
	defer unsubscribe()

	if err := Render(that.out, that.game.Snapshot()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(that.in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(that.out, prompt)

		if !scanner.Scan() {
			break
		}

		quit, err := that.execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(that.out, "%v\n", err)
		}

		if quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Terminal) execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "h", "help":
		fmt.Fprint(that.out, help)
		return false, nil
	case "r", "reset":
		that.game.Reset(ctx)
		return false, nil
	case "g", "goto":
		if len(fields) != 2 {
			return false, fmt.Errorf("%w: usage: g <n>", ErrUnknownCommand)
		}

		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a number", ErrUnknownCommand, fields[1])
		}

		return false, that.game.GoTo(ctx, index)
	}

	cell, err := strconv.Atoi(fields[0])
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}

	if result := that.game.ApplyMove(ctx, cell); !result.Applied {
		return false, fmt.Errorf("move ignored: %s", reasonText(result.Reason))
	}

	return false, nil
}

func reasonText(reason timeline.Reason) string {
	switch reason {
	case timeline.ReasonGameWon:
		return "the game is already won"
	case timeline.ReasonCellOccupied:
		return "cell is already occupied"
	case timeline.ReasonInvalidCell:
		return "cell must be between 0 and 8"
	default:
		return string(reason)
	}
}
