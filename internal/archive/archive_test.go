package archive

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMover records relocations. GitMove can be forced to fail so the
// fallback path is observable.
type fakeMover struct {
	gitFails bool
	gitMoves [][2]string
	moves    [][2]string
}

func (m *fakeMover) GitMove(src, dst string) error {
	if m.gitFails {
		return fmt.Errorf("not a git repository")
	}
	m.gitMoves = append(m.gitMoves, [2]string{src, dst})
	return os.Rename(src, dst)
}

func (m *fakeMover) Move(src, dst string) error {
	m.moves = append(m.moves, [2]string{src, dst})
	return os.Rename(src, dst)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunArchivesUnreferencedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":        "Build with [the script](scripts/build.sh).\nAlso see [main](main.py).",
		"scripts/build.sh": "#!/bin/sh\npython lib/helper.py\n",
		"lib/helper.py":    "print('hi')\n",
		"main.py":          "print('main')\n",
		"old_notes.txt":    "stale\n",
	})

	mover := &fakeMover{gitFails: true}
	report, err := New(root, Options{Mover: mover}).Run()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"old_notes.txt"}, report.Unused); diff != "" {
		t.Errorf("unused files mismatch (-want +got):\n%s", diff)
	}
	if report.Archived != 1 || report.Failed != 0 {
		t.Errorf("archived=%d failed=%d, want 1 and 0", report.Archived, report.Failed)
	}

	// helper.py is only reachable through build.sh, so the chain proves
	// transitive propagation through shell scripts.
	if _, err := os.Stat(filepath.Join(root, "lib", "helper.py")); err != nil {
		t.Errorf("transitively referenced file was moved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "archive", "old_notes.txt")); err != nil {
		t.Errorf("unused file not in archive: %v", err)
	}
	if len(mover.moves) != 1 {
		t.Errorf("expected fallback move after git failure, got %d git / %d plain", len(mover.gitMoves), len(mover.moves))
	}

	if report.LogPath == "" || !strings.HasPrefix(filepath.Base(report.LogPath), "archive_log_") {
		t.Fatalf("unexpected log path %q", report.LogPath)
	}
	content, err := os.ReadFile(report.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"UNUSED FILE ARCHIVE LOG", "Mode: LIVE", "old_notes.txt"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("audit log missing %q", want)
		}
	}
}

func TestRunDryRunLeavesTreeUntouched(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":     "[keep](kept.md)",
		"kept.md":       "referenced",
		"old_notes.txt": "stale",
	})

	mover := &fakeMover{}
	report, err := New(root, Options{DryRun: true, Mover: mover}).Run()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"old_notes.txt"}, report.Unused); diff != "" {
		t.Errorf("unused files mismatch (-want +got):\n%s", diff)
	}
	if len(mover.gitMoves) != 0 || len(mover.moves) != 0 {
		t.Error("dry run must not move files")
	}
	if _, err := os.Stat(filepath.Join(root, "old_notes.txt")); err != nil {
		t.Errorf("dry run removed a file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "archive")); !os.IsNotExist(err) {
		t.Error("dry run created the archive directory")
	}

	if !strings.HasPrefix(filepath.Base(report.LogPath), "archive_dry_run_") {
		t.Errorf("dry-run log path %q", report.LogPath)
	}
	if filepath.Dir(report.LogPath) != root {
		t.Errorf("dry-run log written outside project root: %q", report.LogPath)
	}
	content, err := os.ReadFile(report.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "Mode: DRY-RUN") {
		t.Error("audit log missing dry-run marker")
	}
}

func TestAnalyzeSetupFilesAlwaysUsed(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"requirements.txt":  "requests\n",
		"Makefile":          "all:\n",
		"scripts/deploy.py": "pass\n",
		"tools/lint.py":     "pass\n",
		"app.toml":          "[x]\n",
		"orphan.py":         "pass\n",
	})

	a := New(root, Options{DryRun: true})
	report, err := a.analyze()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"orphan.py"}, report.Unused); diff != "" {
		t.Errorf("only the orphan should be unused (-want +got):\n%s", diff)
	}
}

func TestAnalyzeFuzzyNameMatch(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":       "Run python classic_calc to start.",
		"classic_calc.py": "pass\n",
		"unrelated.py":    "pass\n",
	})

	a := New(root, Options{DryRun: true})
	report, err := a.analyze()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"unrelated.py"}, report.Unused); diff != "" {
		t.Errorf("bare reference should match by name (-want +got):\n%s", diff)
	}
}

func TestAnalyzeDeepPropagationChain(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md": "[a](a.md)",
		"a.md":      "[b](b.md)",
		"b.md":      "[c](c.md)",
		"c.md":      "end of chain",
		"loose.md":  "nobody links here",
	})

	a := New(root, Options{DryRun: true})
	report, err := a.analyze()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"loose.md"}, report.Unused); diff != "" {
		t.Errorf("chain should be fully marked (-want +got):\n%s", diff)
	}
	if report.Iterations < 2 {
		t.Errorf("expected multiple propagation iterations, got %d", report.Iterations)
	}
	if report.Iterations > maxIterations {
		t.Errorf("iterations %d exceed cap", report.Iterations)
	}
}

func TestRunSecondPassIsStable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":     "[keep](kept.md)",
		"kept.md":       "referenced",
		"old_notes.txt": "stale",
	})

	if _, err := New(root, Options{Mover: &fakeMover{gitFails: true}}).Run(); err != nil {
		t.Fatal(err)
	}
	report, err := New(root, Options{Mover: &fakeMover{gitFails: true}}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Unused) != 0 || report.Archived != 0 {
		t.Errorf("second pass archived %d files (unused %v), want none", report.Archived, report.Unused)
	}
}

func TestWalkExclusions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.py":                "pass\n",
		".git/config":            "x",
		"node_modules/pkg/i.js":  "x",
		"__pycache__/m.pyc":      "x",
		"archive/old.txt":        "x",
		".hidden/secret.txt":     "x",
		".gitignore":             "*.pyc",
		".DS_Store":              "x",
		"py_env/bin/activate.sh": "x",
	})

	a := New(root, Options{})
	files, err := a.projectFiles()
	if err != nil {
		t.Fatal(err)
	}

	var rels []string
	for path := range files {
		rel, _ := filepath.Rel(root, path)
		rels = append(rels, rel)
	}
	want := map[string]bool{"keep.py": true, ".gitignore": true}
	if len(rels) != len(want) {
		t.Fatalf("walked %v, want exactly %v", rels, want)
	}
	for _, rel := range rels {
		if !want[rel] {
			t.Errorf("unexpected file in scope: %s", rel)
		}
	}
}

func TestAuditLogFormat(t *testing.T) {
	log := NewAuditLog(false, testLogger())
	log.Info("hello")
	log.Debug("hidden without verbose")
	log.Warn("careful")

	if log.Len() != 2 {
		t.Fatalf("want 2 lines, got %d", log.Len())
	}
	if !strings.Contains(log.lines[0], "[INFO] hello") {
		t.Errorf("bad info line: %q", log.lines[0])
	}
	if !strings.Contains(log.lines[1], "[WARNING] careful") {
		t.Errorf("bad warning line: %q", log.lines[1])
	}

	verbose := NewAuditLog(true, testLogger())
	verbose.Debug("now visible")
	if verbose.Len() != 1 || !strings.Contains(verbose.lines[0], "[DEBUG] now visible") {
		t.Errorf("verbose debug line missing: %v", verbose.lines)
	}
}
