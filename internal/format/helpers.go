package format

import "fmt"

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Score formats a classification or distance score with two decimals.
func Score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FmtChunks formats a chunk count with a K suffix for readability.
func FmtChunks(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%d", n)
}
