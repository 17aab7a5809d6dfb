package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"omnitech/internal/format"
	"omnitech/internal/logging"
	"omnitech/internal/retrieve"
)

var indexFlags struct {
	docs    string
	workers int
	force   bool
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest knowledge base documents into the vector index",
	Long: `Reads .md and .txt documents from the knowledge base directory, splits
them into paragraph chunks, embeds each chunk, and stores the vectors.

An already-populated index is left alone unless --force is given; chunk IDs
are derived from source path and position, so re-indexing replaces in place.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexFlags.docs, "docs", "knowledge_base", "directory of documents to ingest")
	indexCmd.Flags().IntVar(&indexFlags.workers, "workers", 4, "concurrent embedding requests")
	indexCmd.Flags().BoolVar(&indexFlags.force, "force", false, "re-index even if the index is already populated")
}

// chunkTargetBytes is the soft cap per chunk. Paragraphs are packed until
// the next one would push past it; a single oversized paragraph becomes its
// own chunk rather than being split mid-sentence.
const chunkTargetBytes = 1200

func runIndex(cmd *cobra.Command, _ []string) error {
	log := logging.New("index")

	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	ctx := cmd.Context()
	if !indexFlags.force {
		count, err := idx.Count(ctx)
		if err != nil {
			return fmt.Errorf("check index: %w", err)
		}
		if count > 0 {
			log.Info("index already populated, skipping (use --force to re-index)", "chunks", count)
			return nil
		}
	}

	chunks, err := collectChunks(indexFlags.docs)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no .md or .txt documents found under %s", indexFlags.docs)
	}
	log.Info("embedding chunks", "count", len(chunks), "workers", indexFlags.workers)

	if err := embedChunks(ctx, chunks); err != nil {
		return err
	}
	if err := idx.Add(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	printIndexSummary(cmd, chunks)
	return nil
}

// collectChunks walks the docs directory and splits every text document
// into embedding-sized chunks. Embeddings are filled in later.
func collectChunks(docsDir string) ([]retrieve.Chunk, error) {
	var chunks []retrieve.Chunk
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			rel = path
		}
		source := filepath.ToSlash(filepath.Join(filepath.Base(docsDir), rel))
		for i, text := range splitParagraphChunks(string(content)) {
			chunks = append(chunks, retrieve.Chunk{
				ID:      fmt.Sprintf("%s#%04d", source, i),
				Source:  source,
				Content: text,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", docsDir, err)
	}
	return chunks, nil
}

// splitParagraphChunks packs blank-line-separated paragraphs into chunks of
// roughly chunkTargetBytes.
func splitParagraphChunks(content string) []string {
	paragraphs := strings.Split(content, "\n\n")

	var out []string
	var buf strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if buf.Len() > 0 && buf.Len()+len(p) > chunkTargetBytes {
			out = append(out, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(p)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

// embedChunks fills in chunk embeddings with a bounded number of concurrent
// requests against the embedder.
func embedChunks(ctx context.Context, chunks []retrieve.Chunk) error {
	embedder := newEmbedder()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indexFlags.workers)

	// Each goroutine writes a distinct slice element, so no locking needed.
	for i := range chunks {
		g.Go(func() error {
			vec, err := embedder.Embed(gctx, chunks[i].Content)
			if err != nil {
				return fmt.Errorf("embed %s: %w", chunks[i].ID, err)
			}
			chunks[i].Embedding = vec
			return nil
		})
	}
	return g.Wait()
}

func printIndexSummary(cmd *cobra.Command, chunks []retrieve.Chunk) {
	perSource := make(map[string]int)
	for _, c := range chunks {
		perSource[c.Source]++
	}
	sources := make([]string, 0, len(perSource))
	for s := range perSource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	t := format.NewTable(format.ASCII)
	t.Header("Document", "Chunks")
	t.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	for _, s := range sources {
		t.Row(s, perSource[s])
	}
	t.Footer("Total", len(chunks))
	cmd.Println(t.String())
}
