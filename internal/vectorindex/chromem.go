package vectorindex

import (
	"context"
	"fmt"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/coachable/course-coach/internal/embeddings"
)

// ChromemIndex implements Index using an embedded chromem-go collection.
type ChromemIndex struct {
	name       string
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemIndex creates an in-memory index holding one named collection.
func NewChromemIndex(name string, embedder embeddings.Embedder) (*ChromemIndex, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(name, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	return &ChromemIndex{
		name:       name,
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

// Name returns the collection name.
func (x *ChromemIndex) Name() string { return x.name }

func (x *ChromemIndex) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}

	return x.collection.AddDocuments(ctx, chromDocs, 1)
}

// Query searches the collection. chromem reports cosine similarity (higher
// is better); this converts to the ascending-distance contract as 1 - s.
func (x *ChromemIndex) Query(ctx context.Context, text string, k int) ([]Hit, error) {
	if k <= 0 {
		k = 10
	}

	// chromem-go requires nResults <= collection size.
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := x.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query %q: %w", x.name, err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: 1 - r.Similarity,
		}
	}

	return hits, nil
}

func (x *ChromemIndex) Count() int {
	return x.collection.Count()
}

func (x *ChromemIndex) Persist(dir string) error {
	return x.db.ExportToFile(x.snapshotPath(dir), true, "")
}

func (x *ChromemIndex) Load(dir string) error {
	if err := x.db.ImportFromFile(x.snapshotPath(dir), ""); err != nil {
		return fmt.Errorf("import %q snapshot: %w", x.name, err)
	}

	// Re-acquire collection reference after import.
	col := x.db.GetCollection(x.name, x.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", x.name)
	}
	x.collection = col
	return nil
}

func (x *ChromemIndex) snapshotPath(dir string) string {
	return filepath.Join(dir, x.name+".gob.gz")
}
