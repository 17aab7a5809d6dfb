package main

import (
	"fmt"

	"omnitech/adapters/embedding"
	"omnitech/adapters/vectordb"
	"omnitech/internal/category"
	"omnitech/internal/retrieve"
)

func loadRegistry() (*category.Registry, error) {
	if rootFlags.categories != "" {
		reg, err := category.LoadFromPath(rootFlags.categories)
		if err != nil {
			return nil, fmt.Errorf("load categories from %s: %w", rootFlags.categories, err)
		}
		return reg, nil
	}
	return category.LoadDefault()
}

func openIndex() (*vectordb.SqliteIndex, error) {
	idx, err := vectordb.Open(rootFlags.db)
	if err != nil {
		return nil, fmt.Errorf("open vector index %s: %w", rootFlags.db, err)
	}
	return idx, nil
}

func newEmbedder() *embedding.OllamaClient {
	return embedding.NewOllamaClient(rootFlags.ollamaURL, rootFlags.embedModel)
}

func newRetriever(idx retrieve.Index, reg *category.Registry) *retrieve.Retriever {
	return retrieve.New(newEmbedder(), idx, reg)
}
