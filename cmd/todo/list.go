package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all todos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		todos, err := newClient().GetTodos(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing todos: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(todos)
		}

		if len(todos) == 0 {
			fmt.Fprintln(out, "No tasks were found.")
			return nil
		}
		for _, td := range todos {
			fmt.Fprintf(out, "%s  %s\n", td.IDString(), td.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
