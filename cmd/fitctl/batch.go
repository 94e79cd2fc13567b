package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"sort"
	"sync/atomic"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/akkash/bizsearch-new-sub002/internal/app"
	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rank one catalog for every profile in a directory",
	Long: `Ranks the catalog for each *.json investor profile in --profiles, in
parallel. A profile that fails does not stop the batch; it is reported on
its own line.`,
	Example: `  fitctl batch --profiles ./investors --catalog catalog.json --concurrency 8`,
	RunE:    runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("profiles", "", "directory of investor profile JSON files")
	f.String("catalog", "", "opportunity catalog JSON file (array)")
	f.Int("concurrency", 4, "profiles ranked in parallel")
	f.Int("top", 0, "matches kept per profile (0=engine.top_n)")
	_ = batchCmd.MarkFlagRequired("profiles")
	_ = batchCmd.MarkFlagRequired("catalog")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is the outcome for one profile file.
type batchResult struct {
	File    string
	Profile string
	Matches []matching.MatchResult
	Err     error
}

// rankFunc ranks a catalog for one profile.
type rankFunc func(ctx context.Context, profile models.InvestorProfileInput) ([]matching.MatchResult, error)

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir, _ := cmd.Flags().GetString("profiles")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	top, _ := cmd.Flags().GetInt("top")
	if concurrency < 1 {
		return eris.Errorf("--concurrency must be at least 1 (got %d)", concurrency)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return eris.Wrap(err, "batch: list profiles")
	}
	sort.Strings(files)

	var catalog []models.OpportunityInput
	if err := readJSON(catalogPath, &catalog); err != nil {
		return err
	}

	engine, _, err := app.NewEngine(cfg)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	results, err := processBatch(ctx, runID, files, concurrency, func(ctx context.Context, p models.InvestorProfileInput) ([]matching.MatchResult, error) {
		return engine.RankOpportunities(p, catalog, top)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d profiles against %d opportunities\n\n", runID, len(files), len(catalog))
	return printBatch(out, results)
}

// processBatch ranks every profile file with bounded parallelism. Per-file
// failures are recorded on the result, never returned.
func processBatch(ctx context.Context, runID string, files []string, concurrency int, rank rankFunc) ([]batchResult, error) {
	results := make([]batchResult, len(files))
	if len(files) == 0 {
		zap.L().Info("no profiles found", zap.String("runId", runID))
		return results, nil
	}

	zap.L().Info("processing batch",
		zap.String("runId", runID),
		zap.Int("profiles", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for i, file := range files {
		g.Go(func() error {
			res := &results[i]
			res.File = filepath.Base(file)
			log := zap.L().With(zap.String("runId", runID), zap.String("file", res.File))

			if err := gctx.Err(); err != nil {
				res.Err = err
				failed.Add(1)
				return nil
			}

			var profile models.InvestorProfileInput
			if err := readJSON(file, &profile); err != nil {
				res.Err = err
				failed.Add(1)
				log.Warn("profile unreadable", zap.Error(err))
				return nil
			}
			res.Profile = profile.ID

			matches, err := rank(gctx, profile)
			if err != nil {
				res.Err = describe(err)
				failed.Add(1)
				log.Warn("ranking failed", zap.Error(err))
				return nil // one bad profile does not abort the batch
			}

			res.Matches = matches
			succeeded.Add(1)
			log.Debug("profile ranked", zap.Int("matches", len(matches)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.String("runId", runID),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results, nil
}

func printBatch(out io.Writer, results []batchResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tPROFILE\tSTATUS\tBEST MATCH\tSCORE\tLEVEL")

	var failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "%s\t%s\tfailed\t%s\t\t\n", r.File, r.Profile, r.Err)
		case len(r.Matches) == 0:
			fmt.Fprintf(w, "%s\t%s\tok\t-\t\t\n", r.File, r.Profile)
		default:
			best := r.Matches[0]
			fmt.Fprintf(w, "%s\t%s\tok\t%s\t%.1f\t%s\n", r.File, r.Profile, best.OpportunityID, best.OverallMatchScore, best.MatchLevel)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	return nil
}
