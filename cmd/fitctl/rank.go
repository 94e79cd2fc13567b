package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akkash/bizsearch-new-sub002/internal/app"
	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a catalog for one investor profile",
	Example: `  fitctl rank --profile investor.json --catalog catalog.json --top 5
  fitctl rank --profile investor.json --catalog catalog.json --format json`,
	RunE: runRank,
}

func init() {
	f := rankCmd.Flags()
	f.String("profile", "", "investor profile JSON file")
	f.String("catalog", "", "opportunity catalog JSON file (array)")
	f.Int("top", 0, "number of matches to return (0=engine.top_n)")
	f.String("format", formatTable, "output format: table or json")
	_ = rankCmd.MarkFlagRequired("profile")
	_ = rankCmd.MarkFlagRequired("catalog")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	profilePath, _ := cmd.Flags().GetString("profile")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	top, _ := cmd.Flags().GetInt("top")
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	var profile models.InvestorProfileInput
	if err := readJSON(profilePath, &profile); err != nil {
		return err
	}
	var catalog []models.OpportunityInput
	if err := readJSON(catalogPath, &catalog); err != nil {
		return err
	}

	engine, _, err := app.NewEngine(cfg)
	if err != nil {
		return err
	}

	matches, err := engine.RankOpportunities(profile, catalog, top)
	if err != nil {
		return describe(err)
	}
	zap.L().Debug("ranked catalog", zap.Int("candidates", len(catalog)), zap.Int("returned", len(matches)))

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return writeJSON(out, map[string]interface{}{"matches": matches, "totalCandidates": len(catalog)})
	}
	return printMatches(out, matches, len(catalog))
}

func printMatches(out io.Writer, matches []matching.MatchResult, total int) error {
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tOPPORTUNITY\tOVERALL\tLEVEL\tFINANCIAL\tEXPERIENCE\tSUCCESS\tMIN INVESTMENT")
	for i, m := range matches {
		name := m.OpportunityID
		if m.OpportunityName != "" {
			name = fmt.Sprintf("%s (%s)", m.OpportunityName, m.OpportunityID)
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
			i+1, name, m.OverallMatchScore, m.MatchLevel,
			m.FinancialFitScore, m.ExperienceFitScore, m.SuccessProbability, money(m.MinInvestment))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d of %d candidates shown\n", len(matches), total)
	best := matches[0]
	fmt.Fprintf(out, "Top match: %s\n", best.Recommendation)
	if len(best.Strengths) > 0 {
		fmt.Fprintf(out, "  Strengths: %s\n", strings.Join(best.Strengths, "; "))
	}
	if len(best.Concerns) > 0 {
		fmt.Fprintf(out, "  Concerns:  %s\n", strings.Join(best.Concerns, "; "))
	}
	return nil
}
