// Package retrieve implements knowledge retrieval over an external embedding
// model and vector index. Both collaborators are injected at construction:
// the Retriever is built once at startup and passed by reference to every
// operation, so there is no hidden global state and tests inject fakes.
package retrieve

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strings"

	"omnitech/internal/category"
	"omnitech/internal/logging"
)

// NoKnowledgeSentinel is returned as the knowledge text when a combined
// retrieval finds no matches. Callers display it verbatim.
const NoKnowledgeSentinel = "No relevant documentation found."

// Embedder turns text into a fixed-length vector. Implemented by
// adapters/embedding; the model itself is an external collaborator.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Chunk is one indexed piece of a knowledge document.
type Chunk struct {
	ID        string
	Source    string // origin document, e.g. "knowledge_base/device_manual.md"
	Content   string
	Embedding []float32
}

// Match is one nearest-neighbor result, annotated with its source label.
type Match struct {
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
	Source   string            `json:"source"`
}

// Index is the persistent vector store collaborator. Search returns matches
// ordered by ascending distance; a non-empty sources list restricts results
// to chunks whose source basename is in the list.
type Index interface {
	Add(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, embedding []float32, topK int, sources []string) ([]Match, error)
	Count(ctx context.Context) (int, error)
	SourceCounts(ctx context.Context) (map[string]int, error)
}

// SearchResult is the outcome of a vector search. Failures are carried in
// the Error field rather than raised: a degraded answer beats a crash.
type SearchResult struct {
	Matches        []Match `json:"matches"`
	Count          int     `json:"count"`
	CategoryFilter string  `json:"category_filter,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// KnowledgeResult is the outcome of a combined retrieval: concatenated
// match text plus the distinct sources it came from.
type KnowledgeResult struct {
	Knowledge string   `json:"knowledge"`
	Sources   []string `json:"sources"`
	Error     string   `json:"error,omitempty"`
}

// Stats summarizes the indexed corpus.
type Stats struct {
	TotalChunks int            `json:"total_chunks"`
	Documents   map[string]int `json:"documents"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
}

// Retriever answers knowledge queries against the injected collaborators.
type Retriever struct {
	embedder Embedder
	index    Index
	reg      *category.Registry
	logger   *slog.Logger
}

// New constructs a Retriever. The embedder and index are expected to be
// initialized already; initialization cost is paid once by the caller.
func New(embedder Embedder, index Index, reg *category.Registry) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		reg:      reg,
		logger:   logging.New("retriever"),
	}
}

// Search embeds the query and returns up to topK nearest matches, best
// first. A recognized category name restricts the search to that category's
// tagged documents; an unrecognized name applies no filter and is logged as
// a warning (deliberate: permissive, but observable).
func (r *Retriever) Search(ctx context.Context, query string, topK int, categoryName string) SearchResult {
	if topK <= 0 {
		topK = 5
	}

	count, err := r.index.Count(ctx)
	if err != nil {
		return SearchResult{Matches: []Match{}, Error: "vector index unavailable: " + err.Error()}
	}
	if count == 0 {
		return SearchResult{
			Matches: []Match{},
			Error:   "Knowledge base not indexed. Run 'omnitech index' to ingest documents.",
		}
	}

	var sources []string
	if categoryName != "" {
		if cat, ok := r.reg.Get(categoryName); ok {
			sources = cat.Documents
		} else {
			r.logger.Warn("unknown category filter, searching unfiltered", "category", categoryName)
		}
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return SearchResult{Matches: []Match{}, Error: "embedding failed: " + err.Error()}
	}

	matches, err := r.index.Search(ctx, embedding, topK, sources)
	if err != nil {
		return SearchResult{Matches: []Match{}, Error: "vector search failed: " + err.Error()}
	}
	if matches == nil {
		matches = []Match{}
	}

	return SearchResult{
		Matches:        matches,
		Count:          len(matches),
		CategoryFilter: categoryName,
	}
}

// Knowledge runs a category-scoped search and concatenates the match text,
// separated by a visible delimiter, with the deduplicated source list. Zero
// matches yield the NoKnowledgeSentinel rather than an empty string.
func (r *Retriever) Knowledge(ctx context.Context, categoryName, query string, topK int) KnowledgeResult {
	if topK <= 0 {
		topK = 3
	}

	search := r.Search(ctx, query, topK, categoryName)
	if search.Error != "" {
		return KnowledgeResult{Sources: []string{}, Error: search.Error}
	}
	if len(search.Matches) == 0 {
		return KnowledgeResult{Knowledge: NoKnowledgeSentinel, Sources: []string{}}
	}

	parts := make([]string, 0, len(search.Matches))
	seen := make(map[string]bool)
	var sources []string
	for _, m := range search.Matches {
		parts = append(parts, m.Document)
		if !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}
	sort.Strings(sources)

	return KnowledgeResult{
		Knowledge: strings.Join(parts, "\n\n---\n\n"),
		Sources:   sources,
	}
}

// GetStats reports the total chunk count and a per-source breakdown, where
// source is the basename of the origin document. An empty index reports the
// explicit "Not indexed" status instead of an error.
func (r *Retriever) GetStats(ctx context.Context) Stats {
	count, err := r.index.Count(ctx)
	if err != nil {
		return Stats{Documents: map[string]int{}, Status: "error", Error: err.Error()}
	}
	if count == 0 {
		return Stats{TotalChunks: 0, Documents: map[string]int{}, Status: "Not indexed"}
	}

	perSource, err := r.index.SourceCounts(ctx)
	if err != nil {
		return Stats{Documents: map[string]int{}, Status: "error", Error: err.Error()}
	}

	docs := make(map[string]int, len(perSource))
	for source, n := range perSource {
		docs[path.Base(source)] += n
	}

	return Stats{TotalChunks: count, Documents: docs, Status: "Indexed and ready"}
}
