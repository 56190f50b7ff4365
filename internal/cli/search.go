package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/score"
	"github.com/motormatch/motormatch/internal/store"
)

var (
	searchCatalog string
	searchTop     int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog from the command line",
	Long: `Search runs the full intent-to-match pipeline on one query and prints
the ranked results.

Example:
  motormatch search "a fast awd sedan under 35k"
  motormatch search "reliable suv for winter" --catalog data/vehicles.json --top 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchCatalog, "catalog", "", "load catalog from a JSON file instead of the database")
	searchCmd.Flags().IntVar(&searchTop, "top", 10, "number of matches to print")
	searchCmd.Flags().StringVar(&llmProvider, "llm", "", "intent extraction provider (openai, anthropic, ollama)")
	searchCmd.Flags().StringVar(&llmModel, "llm-model", "", "intent extraction model")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var db *store.Store
	if searchCatalog == "" {
		db, err = store.Open(cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()
	}

	cat, err := loadCatalog(ctx, db, searchCatalog)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		return fmt.Errorf("vehicle catalog is empty")
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}

	userIntent := extractor.Extract(ctx, query)
	fmt.Println(extractor.Summary(ctx, userIntent))
	fmt.Println()

	var reference *model.Vehicle
	if userIntent.ReferenceVehicle != "" {
		if found, ok := cat.FindReference(userIntent.ReferenceVehicle, cfg.Scoring.ReferenceMinScore); ok {
			reference = &found
			fmt.Printf("Comparing against: %s\n\n", found.DisplayName())
		}
	}

	matches := score.NewEngine().Rank(userIntent, cat.Vehicles(), reference)
	if searchTop > 0 && len(matches) > searchTop {
		matches = matches[:searchTop]
	}

	for i, match := range matches {
		fmt.Printf("%2d. %s  %.1f\n", i+1, match.Vehicle.DisplayName(), match.Score)
		for _, reason := range match.Reasons {
			fmt.Printf("      + %s\n", reason)
		}
		for _, tradeoff := range match.Tradeoffs {
			fmt.Printf("      - %s\n", tradeoff)
		}
	}
	return nil
}
