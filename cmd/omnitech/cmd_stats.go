package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"omnitech/internal/format"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base index statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	stats := newRetriever(idx, reg).GetStats(cmd.Context())
	if stats.Error != "" {
		return fmt.Errorf("read index stats: %s", stats.Error)
	}

	cmd.Printf("Status: %s\n", stats.Status)
	if stats.TotalChunks == 0 {
		return nil
	}

	docs := make([]string, 0, len(stats.Documents))
	for d := range stats.Documents {
		docs = append(docs, d)
	}
	sort.Strings(docs)

	t := format.NewTable(format.ASCII)
	t.Header("Document", "Chunks")
	t.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	for _, d := range docs {
		t.Row(d, format.FmtChunks(stats.Documents[d]))
	}
	t.Footer("Total", format.FmtChunks(stats.TotalChunks))
	cmd.Println(t.String())
	return nil
}
