package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"omnitech/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	db         string
	ollamaURL  string
	embedModel string
	categories string
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "omnitech",
	Short: "Customer-support classification and knowledge retrieval tools",
	Long: "Omnitech serves customer-support tooling over MCP: canonical query\n" +
		"classification, response templates, and semantic search over an\n" +
		"indexed knowledge base.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.db, "db", "omnitech.db", "path to the vector index database")
	pf.StringVar(&rootFlags.ollamaURL, "ollama-url", "", "Ollama base URL (default http://localhost:11434)")
	pf.StringVar(&rootFlags.embedModel, "embed-model", "", "embedding model name (default nomic-embed-text)")
	pf.StringVar(&rootFlags.categories, "categories", "", "path to a categories YAML file (default: built-in registry)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
