package archive

import (
	"os"
	"path/filepath"
	"strings"
)

// fuzzyExtensions are appended to a bare reference when matching by name,
// so "classic_calc" finds "classic_calc.py".
var fuzzyExtensions = []string{"", ".py", ".js", ".ts", ".md", ".txt", ".json"}

// resolveReference maps a raw reference to an existing regular file, trying
// in order: relative to the containing file's directory, relative to the
// project root, and relative to the root with a leading "./" stripped.
// Returns the absolute path of the first hit, or false when nothing exists.
func (a *Archiver) resolveReference(ref, sourceFile string) (string, bool) {
	candidates := []string{
		filepath.Join(filepath.Dir(sourceFile), ref),
		filepath.Join(a.root, ref),
		filepath.Join(a.root, strings.TrimLeft(ref, "./")),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// findByName is the fuzzy fallback: scan the whole project file set for
// files whose name equals the reference's base name, the base name with a
// common extension appended, or whose stem matches the reference's stem.
// Every match is a candidate for "used" status, not just the first.
func (a *Archiver) findByName(ref string) []string {
	base := filepath.Base(ref)
	stem := trimExt(base)

	var matches []string
	for path := range a.all {
		fileBase := filepath.Base(path)
		switch {
		case fileBase == base:
			matches = append(matches, path)
		case matchesWithExtension(fileBase, base):
			matches = append(matches, path)
		case trimExt(fileBase) == stem:
			matches = append(matches, path)
		}
	}
	return matches
}

func matchesWithExtension(fileBase, refBase string) bool {
	for _, ext := range fuzzyExtensions {
		if fileBase == refBase+ext {
			return true
		}
	}
	return false
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
