// Package materialize places export files into taxonomy buckets, either as
// relative symlinks on disk or as entries of an in-memory index.
package materialize

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/service"
)

// SymlinkLinker links files under Root with paths relative to each link's
// directory, so the whole tree can be moved as a unit.
type SymlinkLinker struct {
	Root string
}

// NewSymlinkLinker returns a linker rooted at root.
func NewSymlinkLinker(root string) *SymlinkLinker {
	return &SymlinkLinker{Root: root}
}

// Destination is where src lands inside bucket.
func (l *SymlinkLinker) Destination(src string, b model.Bucket) string {
	return filepath.Join(l.Root, b.Path(), filepath.Base(src))
}

// Link creates or replaces the link for src inside bucket and returns its path.
func (l *SymlinkLinker) Link(src string, b model.Bucket) (string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", src, err)
	}

	dest := l.Destination(absSrc, b)
	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	if _, err := os.Lstat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return "", fmt.Errorf("failed to remove stale %s: %w", dest, err)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to inspect %s: %w", dest, err)
	}

	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", destDir, err)
	}
	target, err := filepath.Rel(absDir, absSrc)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", absSrc, err)
	}

	if err := os.Symlink(target, dest); err != nil {
		return "", fmt.Errorf("failed to link %s: %w", dest, err)
	}
	return dest, nil
}

// Result counts the outcome of materializing one assignment.
type Result struct {
	Links  []string
	Failed int
}

// Materialize links the assignment's file into each of its buckets. A failed
// link is logged and the remaining buckets are still attempted.
func Materialize(linker service.Linker, a model.Assignment, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result
	for _, b := range a.Buckets {
		dest, err := linker.Link(a.File.Path, b)
		if err != nil {
			res.Failed++
			logger.Error("failed to create link",
				"file", a.File.Name,
				"bucket", b.String(),
				"error", err)
			continue
		}
		res.Links = append(res.Links, dest)
		logger.Debug("created link", "file", a.File.Name, "bucket", b.String(), "dest", dest)
	}
	return res
}
