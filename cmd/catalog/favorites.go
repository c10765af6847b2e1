package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/david/scholarship-finder/internal/app"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage saved favorites",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		favs, err := sess.store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list favorites: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Saved At", "ID"})
		for _, f := range favs {
			t.AppendRow(table.Row{f.Name, f.SavedAt.Local().Format("2006-01-02 15:04"), f.ID})
		}
		t.Render()
		fmt.Fprintf(cmd.OutOrStdout(), "%d saved\n", len(favs))
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Save a scholarship by identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFavorite(cmd, args[0], true)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a saved scholarship",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setFavorite(cmd, args[0], false)
	},
}

func setFavorite(cmd *cobra.Command, id string, saved bool) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := app.NewController(sess.store).SetFavorite(cmd.Context(), sess.state, id, saved); err != nil {
		return err
	}
	if saved {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", id)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd)
}
