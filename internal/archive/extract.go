package archive

import (
	"os"
	"regexp"
	"strings"
)

// The reference extractor is a battery of independent pattern recognizers,
// each producing candidate path strings; results are combined by set union.
// It is deliberately heuristic: the goal is to catch the common ways files
// point at each other in docs, configs, and scripts, not to parse anything.
var referencePatterns = []*regexp.Regexp{
	// Markdown image/link syntax: ![text](path) or [text](path)
	regexp.MustCompile(`(?i)\[.*?\]\(\.?/?([^)]+)\)`),
	// HTML src/href attributes
	regexp.MustCompile(`(?i)(?:src|href)=["']\.?/?([^"']+)["']`),
	// Import/require statements
	regexp.MustCompile(`(?i)(?:import|require|from)\s+["']\.?/?([^"']+)["']`),
	// Shell interpreter invocations
	regexp.MustCompile(`(?i)(?:bash|python|sh|source)\s+\.?/?([^\s;]+)`),
	// Generic quoted strings that look like files (dotted extension)
	regexp.MustCompile(`(?i)["']\.?/?([a-zA-Z0-9_\-./]+\.[a-zA-Z0-9]+)["']`),
	// Unquoted paths after common file commands
	regexp.MustCompile(`(?i)(?:code|cat|cp|mv|rm|ls)\s+\.?/?([^\s;|&]+)`),
	// devcontainer postCreateCommand/postAttachCommand script fields
	regexp.MustCompile(`(?i)Command":\s*"[^"]*?([a-zA-Z0-9_\-./]+\.(?:sh|py|js))`),
}

// extractReferences scans one file's content for path-like references.
// Unreadable files yield an empty set; the caller debug-logs and moves on.
func extractReferences(path string) map[string]bool {
	refs := make(map[string]bool)
	content, err := os.ReadFile(path)
	if err != nil {
		return refs
	}
	text := string(content)

	for _, pattern := range referencePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if ref, ok := cleanReference(m[1]); ok {
				refs[ref] = true
			}
		}
	}
	return refs
}

// cleanReference normalizes one raw candidate and reports whether it is
// worth resolving.
func cleanReference(raw string) (string, bool) {
	ref := strings.Trim(strings.TrimSpace(raw), `"'`)

	for _, prefix := range []string{"http://", "https://", "#", "mailto:"} {
		if strings.HasPrefix(ref, prefix) {
			return "", false
		}
	}

	// Strip query strings and anchors (e.g. image.png?raw=true).
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}

	if len(ref) < 2 || strings.ContainsAny(ref, "<>{}[]") {
		return "", false
	}
	return ref, true
}
