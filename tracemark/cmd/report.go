package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var reportLimit int

var reportCmd = &cobra.Command{
	Use:   "report [database]",
	Short: "Summarize the metric aggregates of a recorded database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, err := sql.Open("sqlite3", args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer db.Close()

		rows, err := db.Query(`
			SELECT Name, Scope, SUM(CallCount),
			       SUM(TotalSeconds), SUM(ExclusiveSeconds)
			FROM metrics
			GROUP BY Name, Scope
			ORDER BY SUM(TotalSeconds) DESC
			LIMIT ?`, reportLimit)
		if err != nil {
			return fmt.Errorf("querying metrics: %w", err)
		}
		defer rows.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCOPE\tCALLS\tTOTAL\tEXCLUSIVE")

		for rows.Next() {
			var (
				name, scope      string
				calls            int
				total, exclusive float64
			)
			if err := rows.Scan(
				&name, &scope, &calls, &total, &exclusive,
			); err != nil {
				return err
			}

			fmt.Fprintf(w, "%s\t%s\t%d\t%.3fs\t%.3fs\n",
				name, scope, calls, total, exclusive)
		}

		if err := rows.Err(); err != nil {
			return err
		}

		return w.Flush()
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 20,
		"maximum number of metrics to show")
	rootCmd.AddCommand(reportCmd)
}
