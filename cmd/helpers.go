package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/config"
	"github.com/coachable/course-coach/internal/db"
	"github.com/coachable/course-coach/internal/embeddings"
	"github.com/coachable/course-coach/internal/llm"
	"github.com/coachable/course-coach/internal/logger"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
	"github.com/coachable/course-coach/internal/taxonomy"
	"github.com/coachable/course-coach/internal/vectorindex"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `course-coach init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Log.JSON, cfg.Log.Debug)
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Embeddings.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.Embeddings.Model)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.Embeddings.Model, 768, cfg.Embeddings.OllamaHost), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Embeddings.Provider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model, cfg.LLM.OllamaHost, cfg.LLM.RPM)
}

func indexDir(cfg *config.Config) string {
	return filepath.Join(cfg.Data.Dir, "index")
}

func dbPath(cfg *config.Config) string {
	return filepath.Join(cfg.Data.Dir, "coach.db")
}

// openIndex creates a collection index and, when load is set, restores its
// snapshot from the data directory.
func openIndex(cfg *config.Config, embedder embeddings.Embedder, name string, load bool) (*vectorindex.ChromemIndex, error) {
	index, err := vectorindex.NewChromemIndex(name, embedder)
	if err != nil {
		return nil, fmt.Errorf("creating %s index: %w", name, err)
	}
	if load {
		if err := index.Load(indexDir(cfg)); err != nil {
			return nil, fmt.Errorf("loading %s index: %w\nRun `course-coach load` to ingest data first", name, err)
		}
	}
	return index, nil
}

// engine bundles the wired coaching components the interactive commands need.
type engine struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *db.DB
	store     *profile.Store
	matcher   *taxonomy.Matcher
	editor    *profile.Editor
	retriever *recommend.Retriever
	justifier *recommend.Justifier
	catalog   *vectorindex.ChromemIndex
}

func (e *engine) Close() {
	if e.db != nil {
		e.db.Close()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// buildEngine wires the full engine from config. withLLM controls whether a
// completion provider is required; commands that only search skip it.
func buildEngine(cfg *config.Config, withLLM bool) (*engine, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	taxonomyIndex, err := openIndex(cfg, embedder, vectorindex.TaxonomyCollection, true)
	if err != nil {
		return nil, err
	}
	catalogIndex, err := openIndex(cfg, embedder, vectorindex.CatalogCollection, true)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(dbPath(cfg))
	if err != nil {
		return nil, err
	}

	store := profile.NewStore(database)
	matcher := taxonomy.NewMatcher(taxonomyIndex, taxonomy.NewRandomPicker(),
		cfg.Retrieval.MatchK, cfg.Retrieval.TieBreakGap, log)

	var justifier *recommend.Justifier
	var extractor *profile.Extractor
	if withLLM {
		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			database.Close()
			return nil, err
		}
		justifier = recommend.NewJustifier(provider, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
		extractor = profile.NewExtractor(provider, cfg.LLM.Model)
	}

	return &engine{
		cfg:       cfg,
		logger:    log,
		db:        database,
		store:     store,
		matcher:   matcher,
		editor:    profile.NewEditor(matcher, extractor, log),
		retriever: recommend.NewRetriever(catalogIndex, log),
		justifier: justifier,
		catalog:   catalogIndex,
	}, nil
}
