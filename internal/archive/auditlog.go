package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AuditLog accumulates timestamped event lines for one archiver run and
// flushes them to a text file at the end. Append-only while the run lasts.
type AuditLog struct {
	lines   []string
	verbose bool
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuditLog creates an audit log. Debug events are recorded only when
// verbose is set, mirroring what the operator saw on the console.
func NewAuditLog(verbose bool, logger *slog.Logger) *AuditLog {
	return &AuditLog{verbose: verbose, logger: logger, now: time.Now}
}

// Info records an informational event.
func (l *AuditLog) Info(msg string) { l.append("INFO", msg) }

// Warn records a warning.
func (l *AuditLog) Warn(msg string) { l.append("WARNING", msg) }

// Error records an error-level event.
func (l *AuditLog) Error(msg string) { l.append("ERROR", msg) }

// Debug records a debug event; dropped entirely unless verbose.
func (l *AuditLog) Debug(msg string) {
	if !l.verbose {
		return
	}
	l.append("DEBUG", msg)
}

func (l *AuditLog) append(level, msg string) {
	ts := l.now().Format("2006-01-02 15:04:05")
	l.lines = append(l.lines, fmt.Sprintf("[%s] [%s] %s", ts, level, msg))

	switch level {
	case "DEBUG":
		l.logger.Debug(msg)
	case "WARNING":
		l.logger.Warn(msg)
	case "ERROR":
		l.logger.Error(msg)
	default:
		l.logger.Info(msg)
	}
}

// Len returns the number of recorded lines.
func (l *AuditLog) Len() int { return len(l.lines) }

// WriteFile prepends the run header and writes the log to a timestamped
// file: under the archive directory in live mode, under the project root in
// dry-run mode. Returns the path written.
func (l *AuditLog) WriteFile(projectRoot, archiveDir string, dryRun bool) (string, error) {
	stamp := l.now().Format("20060102_150405")
	var path string
	if dryRun {
		path = filepath.Join(projectRoot, fmt.Sprintf("archive_dry_run_%s.txt", stamp))
	} else {
		path = filepath.Join(archiveDir, fmt.Sprintf("archive_log_%s.txt", stamp))
	}

	mode := "LIVE"
	if dryRun {
		mode = "DRY-RUN"
	}
	rule := strings.Repeat("=", 60)
	header := []string{
		rule,
		"UNUSED FILE ARCHIVE LOG",
		"Project: " + projectRoot,
		"Date: " + l.now().Format(time.RFC3339),
		"Mode: " + mode,
		rule,
		"",
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	content := strings.Join(append(header, l.lines...), "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write audit log: %w", err)
	}
	return path, nil
}
