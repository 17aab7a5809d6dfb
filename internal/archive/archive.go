// Package archive identifies files in a project tree that nothing
// references and relocates them into an archive directory. "Used" is a
// best-effort heuristic: setup files by naming convention, everything
// reachable from the primary reference files through text references, and
// whatever those files reference in turn, to a fixed point. The utility is
// deliberately conservative about failure: a file it cannot read is
// skipped, a file it cannot move is logged and counted, and nothing aborts
// the run.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"omnitech/internal/logging"
)

// Primary reference files seed the used set: anything they reference is
// reachable from the project's front door.
var primaryRefFiles = []string{
	".devcontainer/devcontainer.json",
	"labs.md",
	"README.md",
}

// Extensions re-scanned during transitive propagation. Shell scripts are
// included so a README -> build.sh -> helper.py chain marks the helper used.
var scannableExtensions = map[string]bool{
	".py":   true,
	".js":   true,
	".ts":   true,
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".html": true,
	".txt":  true,
	".sh":   true,
}

// maxIterations caps the propagation loop; termination is guaranteed even
// if the used set keeps growing.
const maxIterations = 50

// Options configures an archiver run.
type Options struct {
	DryRun  bool
	Verbose bool
	Mover   Mover // nil selects the git/filesystem mover
}

// Report summarizes one run.
type Report struct {
	TotalFiles int
	UsedFiles  int
	Unused     []string // project-relative, sorted
	Archived   int
	Failed     int
	Iterations int
	LogPath    string
}

// Archiver performs one analyze-and-archive pass over a project tree.
// Not safe for reuse: construct a new one per run.
type Archiver struct {
	root       string
	archiveDir string
	dryRun     bool
	mover      Mover
	audit      *AuditLog

	all  map[string]bool
	used map[string]bool
}

// New creates an archiver for the project root.
func New(root string, opts Options) *Archiver {
	mover := opts.Mover
	if mover == nil {
		mover = NewExecMover(root)
	}
	return &Archiver{
		root:       root,
		archiveDir: filepath.Join(root, "archive"),
		dryRun:     opts.DryRun,
		mover:      mover,
		audit:      NewAuditLog(opts.Verbose, logging.New("archiver")),
		used:       make(map[string]bool),
	}
}

// Run executes the full process: analysis, relocation, audit log. Returns
// the report even when individual relocations failed; only an unwalkable
// project tree is a hard error.
func (a *Archiver) Run() (*Report, error) {
	mode := "LIVE"
	if a.dryRun {
		mode = "DRY-RUN"
	}
	a.audit.Info("Starting unused file archiver (mode: " + mode + ")")

	if _, err := os.Stat(filepath.Join(a.root, ".git")); err != nil {
		a.audit.Warn("Not a git repository: files will be moved instead of git mv'd")
	}

	report, err := a.analyze()
	if err != nil {
		return nil, err
	}

	if len(report.Unused) > 0 {
		a.audit.Info("Unused files to be archived:")
		for _, rel := range report.Unused {
			a.audit.Info("  - " + rel)
		}
	}

	a.archiveFiles(report)

	logPath, err := a.audit.WriteFile(a.root, a.archiveDir, a.dryRun)
	if err != nil {
		return report, err
	}
	report.LogPath = logPath
	return report, nil
}

// analyze computes the unused-file set: walk, seed, propagate to a fixed
// point, subtract.
func (a *Archiver) analyze() (*Report, error) {
	a.audit.Info("Starting unused file analysis")
	a.audit.Info("Project root: " + a.root)

	all, err := a.projectFiles()
	if err != nil {
		return nil, fmt.Errorf("walk project: %w", err)
	}
	a.all = all
	a.audit.Info(fmt.Sprintf("Found %d total files to analyze", len(a.all)))

	setupCount := 0
	for path := range a.all {
		if a.isSetupFile(path) {
			a.markUsed(path, "setup file")
			setupCount++
		}
	}
	a.audit.Info(fmt.Sprintf("Marked %d setup/config files as used", setupCount))

	for _, rel := range primaryRefFiles {
		full := filepath.Join(a.root, rel)
		if info, err := os.Stat(full); err != nil || !info.Mode().IsRegular() {
			a.audit.Debug("Primary reference file not found: " + rel)
			continue
		}
		a.markUsed(full, "primary reference file")
		a.scanReferences(full, "referenced in "+rel)
		a.audit.Info("Analyzed references from " + rel)
	}

	iterations := a.propagate()
	a.audit.Info(fmt.Sprintf("Reference analysis complete after %d iterations", iterations))
	a.audit.Info(fmt.Sprintf("Total used files: %d", len(a.used)))

	var unused []string
	for path := range a.all {
		if !a.used[path] {
			rel, err := filepath.Rel(a.root, path)
			if err != nil {
				rel = path
			}
			unused = append(unused, rel)
		}
	}
	sort.Strings(unused)
	a.audit.Info(fmt.Sprintf("Unused files identified: %d", len(unused)))

	return &Report{
		TotalFiles: len(a.all),
		UsedFiles:  len(a.used),
		Unused:     unused,
		Iterations: iterations,
	}, nil
}

// propagate re-scans every used text-like file for further references
// until an iteration finds nothing new or the cap is hit. The used set only
// grows, so the loop terminates at the cap in the worst case.
func (a *Archiver) propagate() int {
	iteration := 0
	for iteration < maxIterations {
		iteration++

		snapshot := make([]string, 0, len(a.used))
		for path := range a.used {
			if scannableExtensions[filepath.Ext(path)] {
				snapshot = append(snapshot, path)
			}
		}
		sort.Strings(snapshot)

		newlyFound := 0
		for _, path := range snapshot {
			newlyFound += a.scanReferences(path, "transitive reference")
		}
		if newlyFound == 0 {
			break
		}
		a.audit.Debug(fmt.Sprintf("Iteration %d: found %d new referenced files", iteration, newlyFound))
	}
	return iteration
}

// scanReferences extracts references from sourceFile and marks every
// resolvable target used. Returns how many files were newly marked.
func (a *Archiver) scanReferences(sourceFile, reason string) int {
	refs := extractReferences(sourceFile)
	if len(refs) == 0 {
		a.audit.Debug("No readable references in " + sourceFile)
		return 0
	}

	newlyFound := 0
	for ref := range refs {
		if resolved, ok := a.resolveReference(ref, sourceFile); ok {
			if a.all[resolved] && !a.used[resolved] {
				a.markUsed(resolved, reason+": "+filepath.Base(sourceFile))
				newlyFound++
			}
			continue
		}
		// Exact resolution failed; fall back to fuzzy filename matching
		// for bare references like "classic_calc".
		for _, match := range a.findByName(ref) {
			if a.all[match] && !a.used[match] {
				a.markUsed(match, reason+" (by name): "+filepath.Base(sourceFile))
				newlyFound++
			}
		}
	}
	return newlyFound
}

func (a *Archiver) markUsed(path, reason string) {
	if a.used[path] {
		return
	}
	a.used[path] = true
	if rel, err := filepath.Rel(a.root, path); err == nil {
		a.audit.Debug(fmt.Sprintf("Marked as used: %s (%s)", rel, reason))
	}
}

// archiveFiles relocates every unused file into a mirrored subpath under
// the archive directory. Live mode tries a history-preserving git mv first
// and falls back to a plain move; dry-run only logs intent. Per-file
// failures are logged, counted, and never abort the batch.
func (a *Archiver) archiveFiles(report *Report) {
	if len(report.Unused) == 0 {
		a.audit.Info("No files to archive")
		return
	}

	if !a.dryRun {
		if err := os.MkdirAll(a.archiveDir, 0755); err != nil {
			a.audit.Error("Cannot create archive directory: " + err.Error())
			report.Failed = len(report.Unused)
			return
		}
	}

	for _, rel := range report.Unused {
		src := filepath.Join(a.root, rel)
		dst := filepath.Join(a.archiveDir, rel)

		if a.dryRun {
			a.audit.Info("[DRY-RUN] Would archive: " + rel)
			report.Archived++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			a.audit.Error(fmt.Sprintf("Failed to archive %s: %v", rel, err))
			report.Failed++
			continue
		}

		if err := a.mover.GitMove(src, dst); err == nil {
			a.audit.Info(fmt.Sprintf("Archived: %s -> archive/%s", rel, rel))
			report.Archived++
			continue
		} else {
			a.audit.Debug("git mv failed, trying regular move: " + err.Error())
		}

		if err := a.mover.Move(src, dst); err != nil {
			a.audit.Error(fmt.Sprintf("Failed to archive %s: %v", rel, err))
			report.Failed++
			continue
		}
		a.audit.Info(fmt.Sprintf("Moved (untracked): %s -> archive/%s", rel, rel))
		report.Archived++
	}

	a.audit.Info(fmt.Sprintf("Archive complete: %d files archived, %d failures", report.Archived, report.Failed))
}
