package vectordb

import (
	"context"
	"path"
	"sort"
	"sync"

	"omnitech/internal/retrieve"
)

// MemoryIndex is an in-memory retrieve.Index with the same search semantics
// as SqliteIndex. Used by tests and throwaway runs; nothing persists.
type MemoryIndex struct {
	mu     sync.RWMutex
	chunks []retrieve.Chunk
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Add appends chunks to the index.
func (m *MemoryIndex) Add(_ context.Context, chunks []retrieve.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return nil
}

// Search returns up to topK matches by ascending cosine distance, optionally
// restricted to the given source basenames.
func (m *MemoryIndex) Search(_ context.Context, embedding []float32, topK int, sources []string) ([]retrieve.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed := sourceSet(sources)

	var matches []retrieve.Match
	for _, c := range m.chunks {
		if allowed != nil && !allowed[path.Base(c.Source)] {
			continue
		}
		matches = append(matches, retrieve.Match{
			Document: c.Content,
			Metadata: map[string]string{"source": c.Source},
			Distance: cosineDistance(embedding, c.Embedding),
			Source:   path.Base(c.Source),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count returns the number of stored chunks.
func (m *MemoryIndex) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

// SourceCounts returns chunk counts keyed by source.
func (m *MemoryIndex) SourceCounts(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, c := range m.chunks {
		counts[c.Source]++
	}
	return counts, nil
}
