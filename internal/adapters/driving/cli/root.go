// Package cli implements the command-line interface. Commands wire the
// configured providers and stores into the core services on first use.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/glasswing-labs/ragcore/internal/adapters/driven/ai"
	cachefile "github.com/glasswing-labs/ragcore/internal/adapters/driven/cache/file"
	configfile "github.com/glasswing-labs/ragcore/internal/adapters/driven/config/file"
	memorystore "github.com/glasswing-labs/ragcore/internal/adapters/driven/vector/memory"
	sqlitestore "github.com/glasswing-labs/ragcore/internal/adapters/driven/vector/sqlite"
	"github.com/glasswing-labs/ragcore/internal/chunker"
	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driving"
	"github.com/glasswing-labs/ragcore/internal/core/services"
	"github.com/glasswing-labs/ragcore/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services shared by commands. Populated by ensureServices; commands
// that only touch configuration never construct them.
var (
	configStore      driven.ConfigStore
	vectorStore      driven.VectorStore
	indexerService   driving.Indexer
	retrieverService driving.Retriever
	generatorService driving.Generator
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "ragcore",
	Short: "Index documents and answer questions over them",
	Long: `ragcore chunks documents, embeds them, and stores the vectors
locally. Search finds relevant passages; ask generates a cited answer
grounded in what was indexed.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.ragcore)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureConfig loads the config store if it is not already loaded.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	configStore = store
	return nil
}

// ensureServices builds the full pipeline from configuration: chunker,
// embedding provider, vector store, cache, and the three services.
func ensureServices() error {
	if generatorService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	chunkSize := configStore.GetInt("chunk.size")
	if chunkSize == 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	chunkOverlap := configStore.GetInt("chunk.overlap")
	if chunkOverlap == 0 {
		chunkOverlap = chunker.DefaultChunkOverlap
	}
	ch, err := chunker.New(chunkSize, chunkOverlap)
	if err != nil {
		return err
	}

	embedder, err := ai.CreateEmbeddingService(configStore)
	if err != nil {
		return err
	}

	store, err := buildVectorStore(dataDir, embedder.Dimensions())
	if err != nil {
		embedder.Close()
		return err
	}
	vectorStore = store

	cache, err := cachefile.New(filepath.Join(dataDir, "index-cache.json"))
	if err != nil {
		return fmt.Errorf("open index cache: %w", err)
	}

	var indexerOpts []services.IndexerOption
	if n := configStore.GetInt("index.concurrency"); n > 0 {
		indexerOpts = append(indexerOpts, services.WithConcurrency(n))
	}
	if rps := configStore.GetFloat("index.rate_limit"); rps > 0 {
		indexerOpts = append(indexerOpts,
			services.WithRateLimiter(rate.NewLimiter(rate.Limit(rps), 1)))
	}
	indexerService = services.NewIndexerService(ch, embedder, store, cache, indexerOpts...)

	var retrieverOpts []services.RetrieverOption
	if n := configStore.GetInt("retriever.max_context_chars"); n > 0 {
		retrieverOpts = append(retrieverOpts, services.WithMaxContextChars(n))
	}
	if configStore.GetBool("retriever.dedupe_by_document") {
		retrieverOpts = append(retrieverOpts, services.WithDedupeByDocument(true))
	}
	retrieverService = services.NewRetrieverService(embedder, store, retrieverOpts...)

	llm, err := ai.CreateLLMService(configStore)
	if err != nil {
		return err
	}

	var generatorOpts []services.GeneratorOption
	if n := configStore.GetInt("generator.max_tokens"); n > 0 {
		generatorOpts = append(generatorOpts, services.WithMaxTokens(n))
	}
	if t, ok := configStore.Get("generator.temperature"); ok {
		if temp, isFloat := t.(float64); isFloat {
			generatorOpts = append(generatorOpts, services.WithTemperature(temp))
		}
	}
	if t := configStore.GetFloat("generator.citation_threshold"); t > 0 {
		generatorOpts = append(generatorOpts, services.WithCitationThreshold(t))
	}
	generatorService = services.NewGeneratorService(retrieverService, llm, generatorOpts...)

	return nil
}

// buildVectorStore constructs the configured store backend and loads any
// previously persisted index.
func buildVectorStore(dataDir string, dimension int) (driven.VectorStore, error) {
	backend := configStore.GetString("store.backend")
	switch backend {
	case "", "memory":
		path := configStore.GetString("store.path")
		if path == "" {
			path = filepath.Join(dataDir, "index.json")
		}
		store, err := memorystore.New(memorystore.Config{
			Dimension: dimension,
			Path:      path,
		})
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(path); statErr == nil {
			if err := store.Load(rootCmd.Context()); err != nil {
				return nil, fmt.Errorf("load index: %w", err)
			}
		}
		return store, nil
	case "sqlite":
		path := configStore.GetString("store.path")
		if path == "" {
			path = filepath.Join(dataDir, "index.db")
		}
		return sqlitestore.New(sqlitestore.Config{
			Dimension: dimension,
			Path:      path,
		})
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q",
			domain.ErrInvalidConfiguration, backend)
	}
}

// resolveDataDir returns the directory holding the index and cache.
func resolveDataDir() (string, error) {
	dir := configDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".ragcore")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// closeServices releases provider and store resources.
func closeServices() {
	if vectorStore != nil {
		if err := vectorStore.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
}
