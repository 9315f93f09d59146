package cmd

import (
	"io"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

// Root returns the tictactoe command with all subcommands registered.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe with a time-travel move history",
		Long: heredoc.Doc(`
			tictactoe keeps every position of a game so you can jump back to any
			move. Playing from an earlier position discards the moves after it.
		`),

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("log-level", "", "Log level (debug, info)")

	root.AddCommand(Serve())
	root.AddCommand(Play())

	return root
}

// newLogger - initialize logger.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
