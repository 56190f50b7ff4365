package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/cache"
	"github.com/motormatch/motormatch/internal/ingest"
	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/resolve"
	"github.com/motormatch/motormatch/internal/store"
)

var (
	ingestSource  string
	ingestFile    string
	dealerURL     string
	dealerName    string
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch listings from a source into the database",
	Long: `Ingest pulls a payload from one source, upserts vehicles and listings,
marks listings missing from the scrape as stale, and records the run.

Example:
  motormatch ingest --source file --file data/payload.json
  motormatch ingest --source marketcheck
  motormatch ingest --source dealer --dealer-url https://example.com/inventory --dealer-name "Hilltop Motors"`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestSource, "source", "file", "source name (file, marketcheck, dealer)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "data/payload.json", "payload path for the file source")
	ingestCmd.Flags().StringVar(&dealerURL, "dealer-url", "", "inventory URL for the dealer source")
	ingestCmd.Flags().StringVar(&dealerName, "dealer-name", "", "dealer display name")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "overall ingestion timeout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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

	ctx, cancel := context.WithTimeout(cmd.Context(), ingestTimeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	var source ingest.Source
	switch ingestSource {
	case "file":
		source = ingest.NewFileSource(ingestFile)
	case "marketcheck":
		source, err = ingest.NewMarketcheckSource(cfg.Ingest)
		if err != nil {
			return err
		}
	case "dealer":
		if dealerURL == "" {
			return fmt.Errorf("--dealer-url is required for the dealer source")
		}
		pages := cache.NewLayeredCache(time.Hour, ".motormatch-cache", time.Hour)
		fetcher := ingest.NewPageFetcher(cfg.Ingest.UserAgent, cfg.Ingest.Timeout,
			cfg.Ingest.RequestsPerSecond, cfg.Ingest.Burst, pages, time.Hour)
		source = ingest.NewDealerSource(fetcher, dealerURL, dealerName, cfg.Ingest.MaxPages)
	default:
		return fmt.Errorf("unknown source: %s", ingestSource)
	}

	runner := ingest.NewRunner(db, logger)
	summary, err := runner.Run(ctx, source)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s)\n", summary.RunID, summary.Source)
	fmt.Printf("  fetched:  %d\n", summary.Fetched)
	fmt.Printf("  ingested: %d\n", summary.Ingested)
	fmt.Printf("  failed:   %d\n", summary.Failed)
	fmt.Printf("  marked inactive: %d\n", summary.MarkedInactive)

	// New listings are matched against the catalog right away
	return resolveUnmatched(ctx, db, cfg, logger)
}

func resolveUnmatched(ctx context.Context, db *store.Store, cfg *model.Config, logger *zap.Logger) error {
	vehicles, err := db.ListVehicles(ctx)
	if err != nil {
		return err
	}
	if len(vehicles) == 0 {
		fmt.Println("Catalog is empty; skipping resolution.")
		return nil
	}

	listings, err := db.ListUnmatched(ctx)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Println("No unmatched listings.")
		return nil
	}

	resolver := resolve.New(vehicles, cfg.Resolver)
	results, stats := resolver.ResolveBatch(ctx, listings, cfg.Resolver.BatchWorkers)

	for i, listing := range listings {
		if err := db.ApplyResolution(ctx, listing.VIN, results[i]); err != nil {
			logger.Warn("apply resolution", zap.String("vin", listing.VIN), zap.Error(err))
		}
	}

	fmt.Printf("Resolved %d new listings: %d matched (%.1f%%)\n",
		stats.Total, stats.Matched, stats.MatchRate()*100)
	return nil
}
