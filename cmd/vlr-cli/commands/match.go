package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"vlrgg-backend/lib/scrapers/vlr"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var matchFlags = struct {
	baseUrl  string
	useTable bool
}{}

func init() {
	matchCmd.Flags().StringVar(
		&matchFlags.baseUrl, "base-url", vlr.DefaultBaseURL,
		"Site origin to fetch from.",
	)
	matchCmd.Flags().BoolVar(
		&matchFlags.useTable, "table", false,
		"Print per-map player stats as a table instead of the JSON envelope.",
	)
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <id|url>",
	Short: "Extract the details of a single match.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := vlr.NewClient(vlr.ClientOptions{
			BaseURL: matchFlags.baseUrl,
		})
		if err != nil {
			return err
		}

		res, err := client.FetchMatchDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !matchFlags.useTable {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(res)
		}

		if res.Data.MatchDetails == nil {
			return fmt.Errorf("no match details: %s", res.Data.Error)
		}
		printStatsTable(res.Data.MatchDetails)
		return nil
	},
}

func printStatsTable(details *vlr.MatchDetails) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Map", "Player", "Team", "Rating", "ACS", "K", "D", "A"})

	for _, record := range details.MatchMaps {
		for _, row := range record.Stats {
			t.AppendRow(table.Row{
				record.MapName,
				row.Player,
				deref(row.Team),
				statBoth(row, "rating"),
				statBoth(row, "acs"),
				statBoth(row, "kills"),
				statBoth(row, "deaths"),
				statBoth(row, "assists"),
			})
		}
		t.AppendSeparator()
	}
	t.Render()
}

func statBoth(row vlr.PlayerStatRow, key string) string {
	stat, ok := row.Stats[key]
	if !ok || stat.Both == nil {
		return ""
	}
	return *stat.Both
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
