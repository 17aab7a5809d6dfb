package archive

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Mover relocates a file. GitMove keeps version-control history; Move is
// the plain filesystem fallback for untracked files. Injected so tests can
// observe relocations without a git repository.
type Mover interface {
	GitMove(src, dst string) error
	Move(src, dst string) error
}

// execMover shells out to git for tracked moves and uses the filesystem
// otherwise. No timeout: a hung git subprocess stalls the run, which is an
// accepted limitation of this utility.
type execMover struct {
	root string
}

// NewExecMover returns the production Mover rooted at the project directory.
func NewExecMover(root string) Mover {
	return &execMover{root: root}
}

func (m *execMover) GitMove(src, dst string) error {
	cmd := exec.Command("git", "mv", src, dst)
	cmd.Dir = m.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git mv: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func (m *execMover) Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return os.Remove(src)
}
