package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/david/scholarship-finder/internal/query"
)

var (
	qYear        string
	qDegree      string
	qCitizenship string
	qText        string
	qSort        string
	qFavorites   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List scholarships matching the given filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		st := sess.state.View(query.Filter{
			Year:        qYear,
			Degree:      qDegree,
			Citizenship: query.ParseCitizenshipMode(qCitizenship),
			Text:        qText,
		}, query.ParseSortMode(qSort), qFavorites)

		out := cmd.OutOrStdout()
		if st.Notice != "" {
			fmt.Fprintln(out, st.Notice)
		}

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"", "Name", "Amount", "Closes", "Level", "ID"})
		for _, c := range st.Cards(time.Now(), sess.cfg.DeadlineWindow) {
			var amount, closes, level string
			for _, d := range c.Details {
				switch d.Label {
				case "Amount":
					amount = d.Value
				case "Closes":
					closes = d.Value
				}
			}
			if len(c.Chips) > 0 {
				level = c.Chips[0]
			}
			if c.DeadlineSoon {
				closes += " (soon)"
			}
			mark := ""
			if c.Saved {
				mark = "*"
			}
			t.AppendRow(table.Row{mark, c.Title, amount, closes, level, c.ID})
		}
		t.Render()

		fmt.Fprintln(out, st.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&qYear, "year", "", "Year or grade, matched against grade and audience")
	queryCmd.Flags().StringVar(&qDegree, "degree", "", "Degree level, matched against level and audience")
	queryCmd.Flags().StringVar(&qCitizenship, "citizenship", "any", "any, non_us or us_only")
	queryCmd.Flags().StringVarP(&qText, "q", "q", "", "Free-text keywords")
	queryCmd.Flags().StringVar(&qSort, "sort", "relevance", "relevance, name, amount or deadline")
	queryCmd.Flags().BoolVar(&qFavorites, "favorites", false, "Only show saved favorites")
}
