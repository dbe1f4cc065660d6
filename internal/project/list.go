// Package project turns a projects root directory into session targets.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/timvw/mukduk/internal/logger"
)

// ListDirectories returns the immediate subdirectories of root as full
// paths, in the order the filesystem enumerates them.
//
// Symlinks that resolve to a directory count as directories. Entries whose
// type cannot be determined, such as broken symlinks, are skipped with a
// warning. Only a root that cannot be read is an error; a missing root
// wraps fs.ErrNotExist.
func ListDirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing projects in %s: %w", root, err)
	}

	log := logger.Component("project")
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				log.Warn("skipping unreadable entry", "path", path, "err", err)
				continue
			}
			if info.IsDir() {
				dirs = append(dirs, path)
			}
			continue
		}

		if entry.IsDir() {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}
