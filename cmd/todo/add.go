package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a todo",
	Long:  `Add stores a new todo. The server holds the request for its configured add delay.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().AddTodo(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("adding todo: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Todo added: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
