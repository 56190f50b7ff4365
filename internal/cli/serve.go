package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/api"
	"github.com/motormatch/motormatch/internal/cache"
	"github.com/motormatch/motormatch/internal/catalog"
	"github.com/motormatch/motormatch/internal/intent"
	"github.com/motormatch/motormatch/internal/llm"
	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/store"
)

var (
	serveAddr   string
	catalogPath string
	noDB        bool
	llmProvider string
	llmModel    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve starts the search API.

With a database configured, the vehicle catalog is loaded from the store
and matches carry live listings. With --no-db the catalog comes from a
JSON file and listing endpoints answer 503.

Example:
  motormatch serve
  motormatch serve --no-db --catalog data/vehicles.json
  motormatch serve --llm openai --llm-model gpt-4o-mini`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&catalogPath, "catalog", "", "load catalog from a JSON file instead of the database")
	serveCmd.Flags().BoolVar(&noDB, "no-db", false, "run without a database")
	serveCmd.Flags().StringVar(&llmProvider, "llm", "", "intent extraction provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "intent extraction model")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var storage api.Storage
	var db *store.Store
	if !noDB {
		db, err = store.Open(cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		storage = db
	}

	cat, err := loadCatalog(cmd.Context(), db, catalogPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("vehicles", cat.Len()))

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}

	results := cache.NewMemoryCache(cfg.Scoring.CacheTTL, 10*time.Minute)
	server := api.New(cat, extractor, storage, results, logger, *cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

// loadCatalog prefers the store; a file path forces file loading
func loadCatalog(ctx context.Context, db *store.Store, path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	if db == nil {
		return nil, fmt.Errorf("no catalog source: pass --catalog with --no-db")
	}

	vehicles, err := db.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from store: %w", err)
	}
	return catalog.New(vehicles), nil
}

// newExtractor builds intent extraction with the configured LLM provider,
// falling back to heuristics when none is configured
func newExtractor(cfg *model.Config, logger *zap.Logger) (*intent.Extractor, error) {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	if provider != nil {
		logger.Info("intent extraction via llm",
			zap.String("provider", provider.Name()),
			zap.String("model", cfg.LLM.Model))
	}
	return intent.NewExtractor(provider, logger), nil
}
