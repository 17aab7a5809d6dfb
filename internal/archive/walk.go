package archive

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Directories never walked and never archived.
var alwaysExclude = map[string]bool{
	".git":          true,
	".devcontainer": true,
	"archive":       true, // never archive the archive itself
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	"py_env":        true,
	"node_modules":  true,
	".vscode":       true,
	".idea":         true,
	".github":       true,
}

// Dotfiles that stay in scope despite the leading dot.
var keptDotfiles = map[string]bool{
	".gitignore":     true,
	".gitattributes": true,
	".env":           true,
	".env.example":   true,
}

// Exact file names that always count as setup files.
var setupNames = map[string]bool{
	"devcontainer.json":   true,
	"requirements.txt":    true,
	"requirements":        true,
	"package.json":        true,
	"package-lock.json":   true,
	"pyproject.toml":      true,
	"setup.py":            true,
	"setup.cfg":           true,
	"makefile":            true,
	"dockerfile":          true,
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	".gitignore":          true,
	".gitattributes":      true,
	".env":                true,
	".env.example":        true,
	"license":             true,
	"changelog.md":        true,
	"contributing.md":     true,
}

// Top-level directories whose contents count as setup files.
var setupDirs = map[string]bool{
	"scripts":       true,
	"requirements":  true,
	".devcontainer": true,
	"tools":         true,
}

// Extensions that mark a file as setup/config.
var setupExtensions = map[string]bool{
	".sh":   true,
	".toml": true,
	".cfg":  true,
	".ini":  true,
	".conf": true,
}

// projectFiles walks the tree and returns every in-scope file as an
// absolute path, pruning excluded and dot directories.
func (a *Archiver) projectFiles() (map[string]bool, error) {
	files := make(map[string]bool)
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == a.root {
				return nil
			}
			if alwaysExclude[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") && !keptDotfiles[name] {
			return nil
		}
		files[path] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isSetupFile reports whether a file counts as used by naming convention
// alone: known setup names, setup directories, or config extensions.
func (a *Archiver) isSetupFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if setupNames[name] {
		return true
	}

	rel, err := filepath.Rel(a.root, path)
	if err == nil {
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) > 1 && setupDirs[strings.ToLower(parts[0])] {
			return true
		}
	}

	return setupExtensions[strings.ToLower(filepath.Ext(path))]
}
