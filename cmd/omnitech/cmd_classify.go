package main

import (
	"strings"

	"github.com/spf13/cobra"

	"omnitech/internal/classify"
	"omnitech/internal/format"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Classify a query against the support categories",
	Long: `Runs the canonical query classifier on the given text and prints the
suggested category, its confidence, and any close alternatives. Useful for
checking how a query will be routed without going through an MCP client.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	result := classify.New(reg).Classify(query)

	t := format.NewTable(format.ASCII)
	t.Header("Category", "Score", "")
	t.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	t.Row(result.Suggested, format.Score(result.Confidence), "suggested")
	for _, alt := range result.Alternatives {
		t.Row(alt.Name, format.Score(alt.Score), "alternative")
	}
	cmd.Println(t.String())
	cmd.Printf("Reason: %s\n", format.Truncate(result.Reason, 120))
	return nil
}
