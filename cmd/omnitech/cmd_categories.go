package main

import (
	"strings"

	"github.com/spf13/cobra"

	"omnitech/internal/format"
)

var categoriesFlags struct {
	markdown bool
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the configured support categories",
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesFlags.markdown, "markdown", false, "render as a Markdown table")
}

func runCategories(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	mode := format.ASCII
	if categoriesFlags.markdown {
		mode = format.Markdown
	}

	t := format.NewTable(mode)
	t.Header("Name", "Description", "Example", "Keywords", "Documents")
	t.Columns(
		format.ColumnConfig{Number: 2, MaxWidth: 40},
		format.ColumnConfig{Number: 3, MaxWidth: 40},
		format.ColumnConfig{Number: 4, MaxWidth: 30},
	)
	for _, cat := range reg.All() {
		example := ""
		if len(cat.Examples) > 0 {
			example = cat.Examples[0]
		}
		t.Row(cat.Name, cat.Description, example, strings.Join(cat.Keywords, ", "), strings.Join(cat.Documents, ", "))
	}
	cmd.Println(t.String())
	return nil
}
