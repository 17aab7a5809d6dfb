package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitParagraphChunks(t *testing.T) {
	big := strings.Repeat("x", chunkTargetBytes+100)

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"whitespace only", "\n\n  \n\n", 0},
		{"single paragraph", "hello world", 1},
		{"small paragraphs pack together", "one\n\ntwo\n\nthree", 1},
		{"oversized paragraph stands alone", big + "\n\n" + "tail", 2},
		{"two oversized paragraphs", big + "\n\n" + big, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitParagraphChunks(tt.content)
			if len(got) != tt.want {
				t.Errorf("got %d chunks, want %d", len(got), tt.want)
			}
			for _, c := range got {
				if strings.TrimSpace(c) == "" {
					t.Error("produced an empty chunk")
				}
			}
		})
	}
}

func TestSplitParagraphChunksPreservesContent(t *testing.T) {
	content := "first paragraph\n\nsecond paragraph"
	got := splitParagraphChunks(content)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if !strings.Contains(got[0], "first paragraph") || !strings.Contains(got[0], "second paragraph") {
		t.Errorf("chunk lost content: %q", got[0])
	}
}

func TestCollectChunks(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "knowledge_base")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"manual.md":   "How to reset.\n\nHow to pair.",
		"policy.txt":  "Returns within 30 days.",
		"ignored.pdf": "binary stuff",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(docs, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	chunks, err := collectChunks(docs)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(chunks), chunks)
	}
	for _, c := range chunks {
		if !strings.HasPrefix(c.Source, "knowledge_base/") {
			t.Errorf("source %q missing directory prefix", c.Source)
		}
		if !strings.Contains(c.ID, "#") {
			t.Errorf("chunk ID %q missing position suffix", c.ID)
		}
		if strings.Contains(c.Source, ".pdf") {
			t.Errorf("non-text document was ingested: %q", c.Source)
		}
	}
}
