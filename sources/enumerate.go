package sources

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"
)

var DefaultExtensions = []string{".ex", ".exs"}

// skipped directory names, besides hidden ones
var skipDirs = []string{"_build", "deps", "node_modules"}

// Enumerate yields the files under roots whose extension is in exts.
// A root naming a file is yielded as is.
func Enumerate(roots []string, exts []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, root := range roots {
			stop := false
			err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if entry.IsDir() {
					name := entry.Name()
					if path != root && (strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name)) {
						return filepath.SkipDir
					}
					return nil
				}
				if path != root && !slices.Contains(exts, filepath.Ext(path)) {
					return nil
				}
				if !yield(path, nil) {
					stop = true
					return filepath.SkipAll
				}
				return nil
			})
			if stop {
				return
			}
			if err != nil {
				if !yield("", wrap(err)) {
					return
				}
			}
		}
	}
}
