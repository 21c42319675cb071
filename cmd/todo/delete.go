package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a todo",
	Long:  `Delete removes the todo with the given id. Deleting an id that does not exist succeeds.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteTodo(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting todo: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Todo deleted: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
