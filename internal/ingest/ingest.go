// Package ingest loads taxonomy concepts and course catalog entries from
// JSON files into their vector collections.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/coachable/course-coach/internal/catalog"
	"github.com/coachable/course-coach/internal/progress"
	"github.com/coachable/course-coach/internal/taxonomy"
	"github.com/coachable/course-coach/internal/vectorindex"
)

// conceptRecord is the on-disk shape of one taxonomy concept. Alternate
// labels are folded into the indexed text, not stored on the concept.
type conceptRecord struct {
	PreferredLabel string   `json:"preferredLabel"`
	ConceptURI     string   `json:"conceptUri"`
	Description    string   `json:"description"`
	AltLabels      []string `json:"altLabels"`
}

// courseSkill accepts both the flat string form and the object form
// ({"name": ..., "conceptUri": ...}) some catalog exports use.
type courseSkill struct {
	Name string
}

func (s *courseSkill) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.Name = plain
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	return nil
}

// courseRecord is the on-disk shape of one catalog entry.
type courseRecord struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Provider      string        `json:"provider"`
	Skills        []courseSkill `json:"skills"`
	DurationHours float64       `json:"duration_hours"`
	Level         string        `json:"level"`
	Format        string        `json:"format"`
	Description   string        `json:"description"`
	URL           string        `json:"url"`
}

// Ingestor loads JSON data files into a vector index, embedding documents in
// batches and reporting progress along the way.
type Ingestor struct {
	reporter  progress.Reporter
	batchSize int
	logger    *zap.Logger
}

// New creates an Ingestor. A nil reporter disables progress output.
func New(reporter progress.Reporter, logger *zap.Logger) *Ingestor {
	if reporter == nil {
		reporter = &progress.NoopReporter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{reporter: reporter, batchSize: 64, logger: logger}
}

// Expand resolves glob patterns (with ** support) into a sorted, deduplicated
// file list. A pattern that matches nothing is an error; a silently empty
// ingest run helps nobody.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadTaxonomy reads concept files matching the patterns and indexes them
// into the taxonomy collection. Returns the number of concepts indexed.
func (in *Ingestor) LoadTaxonomy(ctx context.Context, index vectorindex.Index, patterns []string) (int, error) {
	files, err := Expand(patterns)
	if err != nil {
		return 0, err
	}

	var docs []vectorindex.Document
	for _, file := range files {
		var records []conceptRecord
		if err := readJSONFile(file, &records); err != nil {
			return 0, err
		}
		for _, r := range records {
			docs = append(docs, taxonomy.ConceptDocument(taxonomy.SkillConcept{
				PreferredLabel: r.PreferredLabel,
				ConceptURI:     r.ConceptURI,
				Description:    r.Description,
			}, r.AltLabels))
		}
	}

	if err := in.indexAll(ctx, index, docs, "Indexing taxonomy"); err != nil {
		return 0, err
	}
	in.logger.Info("taxonomy ingested", zap.Int("concepts", len(docs)), zap.Int("files", len(files)))
	return len(docs), nil
}

// LoadCatalog reads course files matching the patterns and indexes them into
// the catalog collection. Returns the number of courses indexed.
func (in *Ingestor) LoadCatalog(ctx context.Context, index vectorindex.Index, patterns []string) (int, error) {
	files, err := Expand(patterns)
	if err != nil {
		return 0, err
	}

	var docs []vectorindex.Document
	for _, file := range files {
		var records []courseRecord
		if err := readJSONFile(file, &records); err != nil {
			return 0, err
		}
		for _, r := range records {
			if r.ID == "" {
				return 0, fmt.Errorf("course %q in %s has no id", r.Title, file)
			}
			skills := make([]string, 0, len(r.Skills))
			for _, s := range r.Skills {
				if s.Name != "" {
					skills = append(skills, s.Name)
				}
			}
			docs = append(docs, catalog.Item{
				ID:            r.ID,
				Title:         r.Title,
				Provider:      r.Provider,
				Skills:        skills,
				DurationHours: r.DurationHours,
				Level:         r.Level,
				Format:        r.Format,
				Description:   r.Description,
				URL:           r.URL,
			}.Document())
		}
	}

	if err := in.indexAll(ctx, index, docs, "Indexing catalog"); err != nil {
		return 0, err
	}
	in.logger.Info("catalog ingested", zap.Int("courses", len(docs)), zap.Int("files", len(files)))
	return len(docs), nil
}

// indexAll embeds and inserts documents in batches, reporting progress per
// batch. Embedding dominates ingest time, so per-document updates would just
// thrash the bar.
func (in *Ingestor) indexAll(ctx context.Context, index vectorindex.Index, docs []vectorindex.Document, desc string) error {
	if len(docs) == 0 {
		return nil
	}

	in.reporter.Start(len(docs))
	defer in.reporter.Finish()

	for start := 0; start < len(docs); start += in.batchSize {
		end := start + in.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := index.Add(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("indexing batch %d-%d: %w", start, end, err)
		}
		in.reporter.Update(end, desc)
	}
	return nil
}

func readJSONFile(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
