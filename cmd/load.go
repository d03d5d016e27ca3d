package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/ingest"
	"github.com/coachable/course-coach/internal/progress"
	"github.com/coachable/course-coach/internal/vectorindex"
)

var (
	loadTaxonomyGlobs []string
	loadCatalogGlobs  []string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Ingest taxonomy and course catalog JSON files into the vector indexes",
	Long: `Reads taxonomy concept files and course catalog files (glob patterns with
** support), embeds them, and persists the resulting index snapshots to the
data directory. Run this before recommend, review or server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(loadTaxonomyGlobs) == 0 && len(loadCatalogGlobs) == 0 {
			return fmt.Errorf("nothing to load: pass --taxonomy and/or --catalog")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(indexDir(cfg), 0o755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}

		ingestor := ingest.New(progress.NewReporter(), log)
		ctx := cmd.Context()

		if len(loadTaxonomyGlobs) > 0 {
			index, err := openIndex(cfg, embedder, vectorindex.TaxonomyCollection, false)
			if err != nil {
				return err
			}
			n, err := ingestor.LoadTaxonomy(ctx, index, loadTaxonomyGlobs)
			if err != nil {
				return fmt.Errorf("ingesting taxonomy: %w", err)
			}
			if err := index.Persist(indexDir(cfg)); err != nil {
				return fmt.Errorf("persisting taxonomy index: %w", err)
			}
			fmt.Printf("Indexed %d taxonomy concepts\n", n)
		}

		if len(loadCatalogGlobs) > 0 {
			index, err := openIndex(cfg, embedder, vectorindex.CatalogCollection, false)
			if err != nil {
				return err
			}
			n, err := ingestor.LoadCatalog(ctx, index, loadCatalogGlobs)
			if err != nil {
				return fmt.Errorf("ingesting catalog: %w", err)
			}
			if err := index.Persist(indexDir(cfg)); err != nil {
				return fmt.Errorf("persisting catalog index: %w", err)
			}
			fmt.Printf("Indexed %d catalog courses\n", n)
		}

		return nil
	},
}

func init() {
	loadCmd.Flags().StringSliceVar(&loadTaxonomyGlobs, "taxonomy", nil, "glob pattern(s) for taxonomy concept JSON files")
	loadCmd.Flags().StringSliceVar(&loadCatalogGlobs, "catalog", nil, "glob pattern(s) for course catalog JSON files")
	rootCmd.AddCommand(loadCmd)
}
