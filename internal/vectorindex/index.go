package vectorindex

import "context"

// Collection names for the two indexes course-coach maintains.
const (
	TaxonomyCollection = "taxonomy"
	CatalogCollection  = "catalog"
)

// Document represents a piece of content to be stored and searched.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Hit pairs a document with its query distance. Distance is inverse
// similarity: 0 means identical, higher means further away. Results are
// always ordered ascending by distance.
type Hit struct {
	ID       string
	Content  string
	Metadata map[string]string
	Distance float32
}

// Searcher is the query side of an index. Both the taxonomy matcher and the
// course retriever depend only on this.
type Searcher interface {
	// Query performs a semantic search and returns up to k hits ordered
	// ascending by distance.
	Query(ctx context.Context, text string, k int) ([]Hit, error)
}

// Index is a full read-write vector index with snapshot persistence.
type Index interface {
	Searcher

	// Add inserts or updates documents in the index.
	Add(ctx context.Context, docs []Document) error

	// Count returns the total number of indexed documents.
	Count() int

	// Persist saves the index snapshot to the given directory.
	Persist(dir string) error

	// Load restores the index snapshot from the given directory.
	Load(dir string) error
}
