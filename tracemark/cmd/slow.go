package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var slowCmd = &cobra.Command{
	Use:   "slow [database]",
	Short: "List the slow transactions retained in a recorded database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, err := sql.Open("sqlite3", args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer db.Close()

		rows, err := db.Query(`
			SELECT Name, URI, TotalSeconds, Score, StopTime
			FROM slow_transactions
			ORDER BY Score DESC`)
		if err != nil {
			return fmt.Errorf("querying slow transactions: %w", err)
		}
		defer rows.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tURI\tTOTAL\tSCORE\tSTOPPED")

		for rows.Next() {
			var (
				name, uri    string
				total, score float64
				stopTime     int64
			)
			if err := rows.Scan(
				&name, &uri, &total, &score, &stopTime,
			); err != nil {
				return err
			}

			fmt.Fprintf(w, "%s\t%s\t%.3fs\t%.2f\t%s\n",
				name, uri, total, score,
				time.Unix(stopTime, 0).Format(time.RFC3339))
		}

		if err := rows.Err(); err != nil {
			return err
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(slowCmd)
}
