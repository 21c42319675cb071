package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaekwang-park/todo-app/internal/client"
)

const defaultServer = "http://localhost:8080"

var (
	verbose   bool
	serverURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "Command-line client for the todo server",
	Long: `todo lists, adds and deletes todos by calling the server's remote procedures.
Run "todo tui" for the interactive view.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *client.Client {
	slog.Debug("using server", "url", serverURL)
	return client.New(serverURL)
}

func init() {
	server := os.Getenv("TODO_SERVER")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", server, "Base URL of the todo server (env TODO_SERVER)")
}
