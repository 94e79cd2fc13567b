package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akkash/bizsearch-new-sub002/internal/app"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Build ROI scenarios for a franchise investment",
	Long: `Builds Conservative, Realistic and Optimistic multi-year projections from
the benchmark table. Amounts accept grouping commas ("2,500,000") and
percentages accept a trailing "%".`,
	Example: `  fitctl scenarios --investment 2500000 --fee 800000 --royalty 6 --marketing 2 \
      --industry food-beverage --tier tier2
  fitctl scenarios --investment 900000 --industry laundromat --tier tier1 \
      --benchmarks benchmarks.yaml --horizon 10 --format json`,
	RunE: runScenarios,
}

func init() {
	f := scenariosCmd.Flags()
	f.String("investment", "", "initial investment")
	f.String("fee", "", "franchise fee")
	f.String("royalty", "", "royalty percent of revenue")
	f.String("marketing", "", "marketing fee percent of revenue")
	f.String("industry", "", "industry benchmark key")
	f.String("tier", "", "location tier")
	f.Int("horizon", 0, "projection horizon in years (0=projection.horizon_years)")
	f.String("benchmarks", "", "benchmark YAML file (overrides projection.benchmarks_path)")
	f.String("format", formatTable, "output format: table or json")
	_ = scenariosCmd.MarkFlagRequired("investment")
	_ = scenariosCmd.MarkFlagRequired("industry")
	_ = scenariosCmd.MarkFlagRequired("tier")

	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	builder, err := scenarioBuilder(cmd)
	if err != nil {
		return err
	}

	investment, _ := flags.GetString("investment")
	fee, _ := flags.GetString("fee")
	royalty, _ := flags.GetString("royalty")
	marketing, _ := flags.GetString("marketing")
	industry, _ := flags.GetString("industry")
	tier, _ := flags.GetString("tier")
	horizon, _ := flags.GetInt("horizon")

	params := models.ProjectionParamsInput{
		InitialInvestment:   investment,
		FranchiseFee:        fee,
		RoyaltyPercent:      royalty,
		MarketingFeePercent: marketing,
		IndustryKey:         industry,
		LocationTier:        tier,
	}
	if horizon > 0 {
		params.HorizonYears = horizon
	}

	set, err := builder.BuildScenarios(params)
	if err != nil {
		return describe(err)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return writeJSON(out, set)
	}
	return printScenarios(out, set)
}

// scenarioBuilder honours --benchmarks without mutating the loaded config.
func scenarioBuilder(cmd *cobra.Command) (*projection.Builder, error) {
	c := *cfg
	if path, _ := cmd.Flags().GetString("benchmarks"); path != "" {
		c.Projection.BenchmarksPath = path
	}
	_, builder, err := app.NewEngine(&c)
	return builder, err
}

func printScenarios(out io.Writer, set *projection.ScenarioSet) error {
	p := set.Params
	fmt.Fprintf(out, "Investment %s in %s (%s), royalty %s, marketing %s, %d years\n\n",
		money(p.InitialInvestment), p.IndustryKey, p.LocationTier,
		pct(p.RoyaltyPercent), pct(p.MarketingFeePercent), p.HorizonYears)

	for _, s := range set.Scenarios {
		fmt.Fprintf(out, "%s (%s probability)\n", s.Name, pct(s.Probability))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "YEAR\tREVENUE\tOPERATING\tROYALTY\tMARKETING\tNET INCOME\tCUMULATIVE ROI\t")
		for _, y := range s.Projections {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
				y.Year, money(y.Revenue), money(y.OperatingCosts), money(y.RoyaltyFee),
				money(y.MarketingFee), money(y.NetIncome), pct(y.CumulativeROI))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		breakEven := "not reached"
		if s.BreakEvenMonth != nil {
			breakEven = fmt.Sprintf("month %d", *s.BreakEvenMonth)
		}
		fmt.Fprintf(out, "Break-even: %s, final ROI %s (%s)\n\n", breakEven, pct(s.Summary.FinalYearROI), s.Summary.ROIOutlook)
	}

	fmt.Fprintf(out, "Expected final-year ROI: %s\n", pct(set.ExpectedFinalYearROI))
	for _, w := range set.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
	return nil
}
