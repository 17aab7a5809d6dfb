// Command archive-unused finds files nothing in the project references and
// moves them into an archive/ directory, preserving git history when it
// can. Run with --dry-run first; every run writes a timestamped audit log.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"omnitech/internal/archive"
	"omnitech/internal/format"
	"omnitech/internal/logging"
)

var version = "dev"

var flags struct {
	dryRun      bool
	verbose     bool
	projectRoot string
}

var rootCmd = &cobra.Command{
	Use:   "archive-unused",
	Short: "Archive files no longer referenced anywhere in the project",
	Long: `Walks the project tree, marks setup files and everything reachable from
the primary reference files (README.md, labs.md, devcontainer.json) as
used, and moves the rest into archive/ with a mirrored directory layout.

Tracked files are moved with git mv so history follows them; untracked
files fall back to a plain filesystem move. An audit log of every decision
is written alongside the archive.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "report what would be archived without moving anything")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "include debug detail in output and the audit log")
	rootCmd.Flags().StringVarP(&flags.projectRoot, "project-root", "p", ".", "project directory to analyze")
	rootCmd.Version = version
}

func run(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, "text")

	root, err := filepath.Abs(flags.projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("project root %s is not a directory", root)
	}

	report, err := archive.New(root, archive.Options{
		DryRun:  flags.dryRun,
		Verbose: flags.verbose,
	}).Run()
	if err != nil {
		return err
	}

	t := format.NewTable(format.ASCII)
	t.Header("Metric", "Value")
	t.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	t.Row("Total files", report.TotalFiles)
	t.Row("Used files", report.UsedFiles)
	t.Row("Unused files", len(report.Unused))
	if flags.dryRun {
		t.Row("Would archive", report.Archived)
	} else {
		t.Row("Archived", report.Archived)
	}
	t.Row("Failed", report.Failed)
	cmd.Println(t.String())
	cmd.Printf("Audit log: %s\n", report.LogPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
