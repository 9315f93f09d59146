package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/cli/terminal"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: heredoc.Doc(`
			play starts a two-player game on the terminal. The game is saved
			after every move under the XDG data directory and picked up again
			on the next run.

			Enter a cell number (0-8) to move, "g <n>" to go to move n,
			"r" to reset and "q" to quit.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			path, _ := cmd.Flags().GetString("file")

			if path == "" {
				var err error
				if path, err = repository.DefaultFilePath(name); err != nil {
					return err
				}
			}

			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				level = "error"
			}

			logger := newLogger(cmd.ErrOrStderr(), level)
			ctx := cmd.Context()

			game := timeline.NewManager(logger, repository.NewFileStore(path))
			if game.Restore(ctx) {
				fmt.Fprintf(cmd.OutOrStdout(), "restored game from %s\n\n", path)
			}

			if err := terminal.New(logger, cmd.InOrStdin(), cmd.OutOrStdout(), game).Run(ctx); err != nil {
				return fmt.Errorf("game failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringP("name", "n", "default", "Name of the saved game")
	cmd.Flags().StringP("file", "f", "", "Save file (defaults to the XDG data directory)")

	return cmd
}
