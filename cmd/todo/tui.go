package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jaekwang-park/todo-app/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive todo view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the terminal belongs to the view; keep log lines off it
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		return tui.Run(cmd.Context(), newClient(), logger)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
