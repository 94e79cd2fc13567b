package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Print the active benchmark table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		builder, err := scenarioBuilder(cmd)
		if err != nil {
			return err
		}
		table := builder.Benchmarks()

		out := cmd.OutOrStdout()
		if format == formatJSON {
			return writeJSON(out, table)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDUSTRY\tAVG REVENUE\tGROSS MARGIN\tOPERATING MARGIN\tBREAK-EVEN MONTHS")
		for _, key := range table.IndustryKeys() {
			b := table.Industries[key]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				key, money(b.AverageRevenue), pct(b.GrossMargin*100), pct(b.OperatingMargin*100), b.BreakEvenMonths)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "TIER\tREVENUE x\tCOST x\t\t")
		for _, tier := range table.LocationTiers() {
			m := table.Locations[tier]
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t\t\n", tier, m.Revenue, m.Cost)
		}
		return w.Flush()
	},
}

func init() {
	benchmarksCmd.Flags().String("benchmarks", "", "benchmark YAML file (overrides projection.benchmarks_path)")
	benchmarksCmd.Flags().String("format", formatTable, "output format: table or json")
	rootCmd.AddCommand(benchmarksCmd)
}
