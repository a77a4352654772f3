package fuzzy

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// skipDirNames are directories FindFiles never descends into, beyond any
// entry whose name begins with '.'.
var skipDirNames = map[string]bool{
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	".git":         true,
}

// FindFiles walks root up to maxDepth directories deep, skipping dotfiles
// and common build-output directories, and adds each regular file found
// as an entry with an absolute Path and a Display relative to root.
// Permission errors and other per-entry walk failures are recovered
// locally (the entry is skipped); a root that cannot be opened yields a
// finder with no entries added. maxDepth <= 0 means unlimited depth.
func (f *Finder) FindFiles(root string, maxDepth int) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // recovered locally: skip this entry
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}

		if rel != "." {
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirNames[name] {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if maxDepth > 0 && depth(rel) > maxDepth {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		f.AddEntry(path, rel)
		return nil
	})
}

func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator)) + 1
}
