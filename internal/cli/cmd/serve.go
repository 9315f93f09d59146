package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-timeline/internal"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/config"
)

func Serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket servers",
		Long: heredoc.Doc(`
			serve exposes games over a JSON HTTP API and a WebSocket endpoint
			at /ws. Configuration is read from config.yml in the working
			directory unless --config is given; environment variables
			override file values. Without any file, only the environment
			and defaults are used.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			flagPath, _ := cmd.Flags().GetString("config")

			path, err := configPath(flagPath)
			if err != nil {
				return err
			}

			conf, err := config.Load(path)
			if err != nil {
				return err
			}

			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				conf.LogLevel = level
			}

			if err = app.RunApp(cmd.Context(), newLogger(os.Stdout, conf.LogLevel), conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to the config file")

	return cmd
}

// configPath returns the explicit path, else config.yml in the working
// directory, else "" so that only the environment is read.
func configPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	path = filepath.Join(baseDir, "config.yml")
	if _, err = os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	return path, nil
}
