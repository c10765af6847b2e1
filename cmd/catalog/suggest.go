package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print the grade and degree suggestion lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Grades: %s\n", strings.Join(sess.state.Suggestions.Grades, ", "))
		fmt.Fprintf(out, "Levels: %s\n", strings.Join(sess.state.Suggestions.Levels, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
