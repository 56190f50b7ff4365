package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/resolve"
	"github.com/motormatch/motormatch/internal/store"
)

var (
	resolveThreshold float64
	forceRematch     bool
	resolveWorkers   int
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Link scraped listings to canonical vehicles",
	Long: `Resolve matches active listings against the vehicle catalog. By default
only unmatched listings are processed; --force-rematch redoes everything,
which is useful after a catalog update.

Example:
  motormatch resolve
  motormatch resolve --force-rematch --threshold 0.85`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Float64Var(&resolveThreshold, "threshold", 0, "fuzzy match threshold (overrides config)")
	resolveCmd.Flags().BoolVar(&forceRematch, "force-rematch", false, "re-resolve already matched listings")
	resolveCmd.Flags().IntVar(&resolveWorkers, "batch-size", 0, "concurrent resolution workers (overrides config)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if resolveThreshold > 0 {
		cfg.Resolver.Threshold = resolveThreshold
	}
	workers := cfg.Resolver.BatchWorkers
	if resolveWorkers > 0 {
		workers = resolveWorkers
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := store.Open(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	vehicles, err := db.ListVehicles(ctx)
	if err != nil {
		return err
	}
	if len(vehicles) == 0 {
		return fmt.Errorf("vehicle catalog is empty: run ingest first")
	}

	var listings []model.Listing
	if forceRematch {
		listings, err = db.ListAllActive(ctx)
	} else {
		listings, err = db.ListUnmatched(ctx)
	}
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Println("Nothing to resolve.")
		return nil
	}

	resolver := resolve.New(vehicles, cfg.Resolver)
	started := time.Now()
	results, stats := resolver.ResolveBatch(ctx, listings, workers)

	applied := 0
	for i, listing := range listings {
		if err := db.ApplyResolution(ctx, listing.VIN, results[i]); err != nil {
			logger.Warn("apply resolution", zap.String("vin", listing.VIN), zap.Error(err))
			continue
		}
		applied++
	}

	fmt.Printf("Resolved %d listings in %s (%d applied)\n",
		stats.Total, time.Since(started).Round(time.Millisecond), applied)
	fmt.Printf("  matched: %d/%d (%.1f%%)\n", stats.Matched, stats.Total, stats.MatchRate()*100)
	fmt.Printf("  exact: %d  fuzzy: %d  fallback: %d\n", stats.Exact, stats.Fuzzy, stats.Fallback)
	fmt.Printf("  high confidence (>=0.9): %d\n", stats.HighConfidence)
	fmt.Printf("  low confidence (<0.9): %d\n", stats.LowConfidence)
	return nil
}
