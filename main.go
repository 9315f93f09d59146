package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/cli/cmd"
)

// main - is the entry point of the application. It builds the command tree and runs the requested command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	root := cmd.Root()
	root.SetArgs(os.Args[1:])

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
